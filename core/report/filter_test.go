package report

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core"
)

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name       string
		filter     Filter
		wantFields []string
	}{
		{name: "today", filter: Filter{CampusID: "c1", Kind: Today}},
		{name: "this month", filter: Filter{CampusID: "c1", Kind: ThisMonth}},
		{name: "missing campus", filter: Filter{Kind: Yesterday}, wantFields: []string{"campusId"}},
		{name: "unknown kind", filter: Filter{CampusID: "c1", Kind: "lastYear"}, wantFields: []string{"filterType"}},
		{name: "specific date", filter: Filter{CampusID: "c1", Kind: SpecificDate, Date: "2024-03-05"}},
		{name: "specific date missing", filter: Filter{CampusID: "c1", Kind: SpecificDate}, wantFields: []string{"date"}},
		{name: "specific date malformed", filter: Filter{CampusID: "c1", Kind: SpecificDate, Date: "05/03/2024"}, wantFields: []string{"date"}},
		{name: "range", filter: Filter{CampusID: "c1", Kind: DateRange, StartDate: "2024-03-01", EndDate: "2024-03-31"}},
		{name: "range missing end", filter: Filter{CampusID: "c1", Kind: DateRange, StartDate: "2024-03-01"}, wantFields: []string{"endDate"}},
		{name: "range reversed", filter: Filter{CampusID: "c1", Kind: DateRange, StartDate: "2024-03-31", EndDate: "2024-03-01"}, wantFields: []string{"endDate"}},
		{name: "month", filter: Filter{CampusID: "c1", Kind: SpecificMonth, Month: 3, Year: 2024}},
		{name: "month out of range", filter: Filter{CampusID: "c1", Kind: SpecificMonth, Month: 13, Year: 2024}, wantFields: []string{"month"}},
		{name: "month missing year", filter: Filter{CampusID: "c1", Kind: SpecificMonth, Month: 3}, wantFields: []string{"year"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			require.True(t, ok, "got %v", err)
			var fields []string
			for _, fe := range vErr.Fields {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestFilter_BodyOnlySendsRelevantParams(t *testing.T) {
	full := Filter{CampusID: "c1", Date: "2024-03-05", StartDate: "2024-03-01", EndDate: "2024-03-31", Month: 3, Year: 2024}

	tests := []struct {
		kind PeriodKind
		want map[string]interface{}
	}{
		{kind: Today, want: map[string]interface{}{"campusId": "c1", "filterType": "today"}},
		{kind: ThisMonth, want: map[string]interface{}{"campusId": "c1", "filterType": "thisMonth"}},
		{kind: SpecificDate, want: map[string]interface{}{"campusId": "c1", "filterType": "specificDate", "date": "2024-03-05"}},
		{kind: DateRange, want: map[string]interface{}{"campusId": "c1", "filterType": "dateRange", "startDate": "2024-03-01", "endDate": "2024-03-31"}},
		{kind: SpecificMonth, want: map[string]interface{}{"campusId": "c1", "filterType": "specificMonth", "month": 3, "year": 2024}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			f := full
			f.Kind = tt.kind
			assert.Equal(t, tt.want, f.Body())
		})
	}
}

func TestFilter_Label(t *testing.T) {
	assert.Equal(t, "March 2024", Filter{Kind: SpecificMonth, Month: 3, Year: 2024}.Label())
	assert.Equal(t, "2024-03-01 to 2024-03-31", Filter{Kind: DateRange, StartDate: "2024-03-01", EndDate: "2024-03-31"}.Label())
	assert.Equal(t, "Yesterday", Filter{Kind: Yesterday}.Label())
}

func TestDailyFilter_BodySendsAmountAsNumber(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{name: "whole", amount: decimal.NewFromInt(1000), want: `{"bfAmount":1000,"date":"2024-03-05"}`},
		{name: "fraction", amount: decimal.RequireFromString("1000.50"), want: `{"bfAmount":1000.5,"date":"2024-03-05"}`},
		{name: "zero", want: `{"bfAmount":0,"date":"2024-03-05"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(DailyFilter{Date: "2024-03-05", BFAmount: tt.amount}.Body())
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDailyFilter_Validate(t *testing.T) {
	assert.NoError(t, DailyFilter{Date: "2024-03-05"}.Validate())
	assert.Error(t, DailyFilter{}.Validate())
}
