// internal/result/set.go
package result

// Set accumulates latency columns across a run, one column per test case.
// Append-only; column order is first-appended order so persisted tables
// match the configured case order.
type Set struct {
	order []string
	cols  map[string][]float64
}

func NewSet() *Set {
	return &Set{cols: map[string][]float64{}}
}

// Append adds one measurement to a column, creating the column on first
// use.
func (s *Set) Append(column string, v float64) {
	if _, ok := s.cols[column]; !ok {
		s.order = append(s.order, column)
	}
	s.cols[column] = append(s.cols[column], v)
}

// Columns returns the column names in insertion order.
func (s *Set) Columns() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Column returns the measurements of one column, in append order.
func (s *Set) Column(name string) []float64 {
	vals := s.cols[name]
	out := make([]float64, len(vals))
	copy(out, vals)
	return out
}

// Len reports the number of measurements in a column.
func (s *Set) Len(name string) int {
	return len(s.cols[name])
}
