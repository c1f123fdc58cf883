package model

import "sort"

// Dataset is an ordered, read-only collection of records sharing the
// canonical schema. It is built once per raw-batch identity by the pipeline;
// filtering produces new Datasets and never mutates an existing one.
type Dataset struct {
	records []Record
}

// NewDataset wraps records in a Dataset. The slice is owned by the Dataset
// afterwards; callers must not modify it.
func NewDataset(records []Record) *Dataset {
	return &Dataset{records: records}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns the underlying record slice. Read-only by convention.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return d.records
}

// Years returns the distinct years present, ascending. Missing years are
// dropped.
func (d *Dataset) Years() []int {
	seen := make(map[int]struct{})
	for _, r := range d.Records() {
		if r.Year != nil {
			seen[*r.Year] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Sectors returns the distinct sectors present, sorted.
func (d *Dataset) Sectors() []string {
	return d.distinct(func(r Record) string { return r.Sector })
}

// Regions returns the distinct regions present, sorted.
func (d *Dataset) Regions() []string {
	return d.distinct(func(r Record) string { return r.Region })
}

// Countries returns the distinct countries present, sorted.
func (d *Dataset) Countries() []string {
	return d.distinct(func(r Record) string { return r.Country })
}

// Companies returns the distinct company names present, sorted.
func (d *Dataset) Companies() []string {
	return d.distinct(func(r Record) string { return r.Company })
}

func (d *Dataset) distinct(field func(Record) string) []string {
	seen := make(map[string]struct{})
	for _, r := range d.Records() {
		if v := field(r); v != "" {
			seen[v] = struct{}{}
		}
	}
	vals := make([]string, 0, len(seen))
	for v := range seen {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}
