package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

type Counts struct {
	Campuses    int             `json:"totalCampuses"`
	Accountants int             `json:"totalAccountants"`
	Students    int             `json:"totalStudents"`
	Defaulters  int             `json:"totalDefaulters"`
	Collected   decimal.Decimal `json:"totalCollected"`
	Pending     decimal.Decimal `json:"totalPending"`
}

type Activity struct {
	ID          string    `json:"_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	User        string    `json:"user,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MonthlyCollection is one point of the fee-collection series.
type MonthlyCollection struct {
	Month string          `json:"month"`
	Year  int             `json:"year,omitempty"`
	Total decimal.Decimal `json:"total"`
}

// Home is everything the admin landing page shows.
type Home struct {
	Counts   Counts              `json:"counts"`
	Activity []Activity          `json:"activity"`
	Monthly  []MonthlyCollection `json:"monthly"`
	// YearTotal is the sum of the series as received.
	YearTotal decimal.Decimal `json:"year_total"`
}

func SeriesTotal(series []MonthlyCollection) decimal.Decimal {
	total := decimal.Zero
	for _, pt := range series {
		total = total.Add(pt.Total)
	}
	return total
}
