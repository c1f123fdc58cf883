package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportColumns_Order(t *testing.T) {
	t.Parallel()

	cols := ExportColumns()
	assert.Len(t, cols, 18)
	assert.Equal(t, "company", cols[0])
	assert.Equal(t, "market_cap_usd", cols[10])
	// Optional sub-scores follow the required block.
	assert.Equal(t, "E_emissions", cols[11])
	// Derived columns come last.
	assert.Equal(t, []string{"iso3", "rank_overall", "quartile"}, cols[15:])
}

func TestDataset_Vocabularies(t *testing.T) {
	t.Parallel()

	ds := NewDataset([]Record{
		{Company: "Beta", Sector: "Energy", Region: "Europe", Country: "Germany", Year: Ptr(2021)},
		{Company: "Alpha", Sector: "Utilities", Region: "Europe", Country: "France", Year: Ptr(2020)},
		{Company: "Alpha", Sector: "Utilities", Region: "Europe", Country: "France", Year: Ptr(2021)},
		{Company: "Gamma", Sector: "", Region: "Asia-Pacific", Country: "Japan"}, // missing sector and year
	})

	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, ds.Companies())
	assert.Equal(t, []string{"Energy", "Utilities"}, ds.Sectors())
	assert.Equal(t, []string{"Asia-Pacific", "Europe"}, ds.Regions())
	assert.Equal(t, []string{"France", "Germany", "Japan"}, ds.Countries())
	assert.Equal(t, []int{2020, 2021}, ds.Years())
}

func TestRecord_Complete(t *testing.T) {
	t.Parallel()

	r := Record{
		E: Ptr(50.0), S: Ptr(60.0), G: Ptr(70.0),
		ESGTotal: Ptr(60.0), MarketCapUSD: Ptr(12.5),
	}
	assert.True(t, r.Complete())

	r.MarketCapUSD = nil
	assert.False(t, r.Complete())
}

func TestDataset_NilSafe(t *testing.T) {
	t.Parallel()

	var ds *Dataset
	assert.Equal(t, 0, ds.Len())
	assert.Nil(t, ds.Records())
}
