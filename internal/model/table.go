package model

// Table is the raw tabular input handed over by a data source.
// Cells are kept as text; typing is the normalizer's job.
type Table struct {
	Header []string
	Rows   [][]string
}
