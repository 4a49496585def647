// Package chart turns a classified result table into chart specifications. Rendering is left
// to the caller.
package chart

import (
	"fmt"

	"github.com/askdata/askdata/internal/interpret"
	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/query"
)

type Kind string

const (
	KindBar     Kind = "bar"
	KindScatter Kind = "scatter"
)

// BarRowLimit bounds the rows handed to a bar chart. Rows past it are dropped, not aggregated.
const BarRowLimit = 20

// Spec is pure data: X and Y name table columns and Data holds only those two columns.
type Spec struct {
	Kind  Kind         `json:"kind"`
	Title string       `json:"title"`
	X     string       `json:"x"`
	Y     string       `json:"y"`
	Data  *query.Table `json:"data"`
}

// Select applies the fixed chart policy:
//   - fewer than two rows, or no financial column: no chart;
//   - a bar chart of the first financial column by the table's first column, first BarRowLimit rows;
//   - with a second financial column, a scatter of the second against the first over all rows.
func Select(table *query.Table, classes interpret.Classification) []Spec {
	specs := []Spec{}
	if table.Len() < 2 || len(classes.Financial) == 0 || len(table.Columns) == 0 {
		return specs
	}

	category := table.Columns[0]
	value := classes.Financial[0]
	bar := Spec{
		Kind:  KindBar,
		Title: fmt.Sprintf("%s by %s", value, category),
		X:     category,
		Y:     value,
		Data:  project(table.Head(BarRowLimit), category, value),
	}
	if bar.Data != nil {
		specs = append(specs, bar)
	}

	if len(classes.Financial) >= 2 {
		second := classes.Financial[1]
		scatter := Spec{
			Kind:  KindScatter,
			Title: fmt.Sprintf("%s vs %s", second, value),
			X:     value,
			Y:     second,
			Data:  project(table, value, second),
		}
		if scatter.Data != nil {
			specs = append(specs, scatter)
		}
	}

	for _, spec := range specs {
		observability.IncrementChart(string(spec.Kind))
	}
	return specs
}

// project copies the x and y columns of table; nil when either column is missing.
func project(table *query.Table, x, y string) *query.Table {
	xi, yi := indexOf(table.Columns, x), indexOf(table.Columns, y)
	if xi < 0 || yi < 0 {
		return nil
	}
	xs, ys := table.Values(xi), table.Values(yi)
	rows := make([][]any, len(xs))
	for i := range xs {
		rows[i] = []any{xs[i], ys[i]}
	}
	return &query.Table{Columns: []string{x, y}, Rows: rows}
}

func indexOf(columns []string, name string) int {
	for i, column := range columns {
		if column == name {
			return i
		}
	}
	return -1
}
