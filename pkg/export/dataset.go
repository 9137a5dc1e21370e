package export

// Dataset is tabular report content plus optional summary lines rendered
// under the table.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
	Summary []string
}
