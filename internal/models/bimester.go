package models

// Bimester is a school term used as the unit for period-scoped reporting.
// Start and End are inclusive ISO dates (YYYY-MM-DD). There are four by
// convention, but consumers must treat the count as variable.
type Bimester struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether the ISO date falls inside the bimester range.
// ISO dates compare correctly as strings.
func (b Bimester) Contains(isoDate string) bool {
	return isoDate >= b.Start && isoDate <= b.End
}

// Holiday locks its date in the attendance grid.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}
