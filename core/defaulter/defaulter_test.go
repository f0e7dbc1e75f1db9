package defaulter

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core/listing"
)

func TestSummarize(t *testing.T) {
	var defaulters []Defaulter
	require.NoError(t, json.Unmarshal([]byte(`[
		{"_id":"d1","student":{"_id":"s1","name":"Ahmed"},"paidAmount":500,"remainingBalance":1500,"status":"partial"},
		{"_id":"d2","student":{"_id":"s2","name":"Bilal"},"paidAmount":0,"remainingBalance":2000,"status":"unpaid"}
	]`), &defaulters))

	st := Summarize(defaulters)
	assert.True(t, st.TotalOutstanding.Equal(decimal.NewFromInt(3500)), st.TotalOutstanding.String())
	assert.True(t, st.TotalPaid.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 1, st.Partial)
	assert.Equal(t, 1, st.Unpaid)
	assert.Equal(t, 0, st.Paid)
	assert.Equal(t, 2, st.Count)
}

func TestSummarizeEmpty(t *testing.T) {
	st := Summarize(nil)
	assert.True(t, st.TotalOutstanding.IsZero())
	assert.Equal(t, 0, st.Count)
}

func TestView(t *testing.T) {
	defaulters := []Defaulter{
		{Student: StudentRef{Name: "Ahmed", FatherName: "Khalid"}, Status: StatusPartial},
		{Student: StudentRef{Name: "Bilal", FatherName: "Tariq"}, Status: StatusUnpaid},
	}
	page := View(defaulters, listing.Query{Search: "tariq"})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bilal", page.Items[0].Student.Name)
}
