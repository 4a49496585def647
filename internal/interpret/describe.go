package interpret

import (
	"math"
	"sort"

	"github.com/askdata/askdata/internal/query"
)

// ColumnSummary holds descriptive statistics of one numeric column. Std is the sample
// standard deviation, zero for fewer than two values.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// Describe summarizes every numeric column of table, in column order.
func Describe(table *query.Table) []ColumnSummary {
	summaries := []ColumnSummary{}
	if table == nil {
		return summaries
	}
	numeric := NewValueRule(ClassNumeric, IsNumeric)
	for i, column := range table.Columns {
		values := table.Values(i)
		if !numeric.Match(column, values) {
			continue
		}
		summaries = append(summaries, summarize(column, values))
	}
	return summaries
}

func summarize(column string, values []any) ColumnSummary {
	numbers := make([]float64, 0, len(values))
	for _, value := range values {
		if f, ok := ToFloat(value); ok && !math.IsNaN(f) {
			numbers = append(numbers, f)
		}
	}
	summary := ColumnSummary{Column: column, Count: len(numbers)}
	if len(numbers) == 0 {
		return summary
	}
	sort.Float64s(numbers)

	var sum float64
	for _, n := range numbers {
		sum += n
	}
	summary.Mean = sum / float64(len(numbers))
	if len(numbers) > 1 {
		var squares float64
		for _, n := range numbers {
			d := n - summary.Mean
			squares += d * d
		}
		summary.Std = math.Sqrt(squares / float64(len(numbers)-1))
	}
	summary.Min = numbers[0]
	summary.Max = numbers[len(numbers)-1]
	summary.P25 = quantile(numbers, 0.25)
	summary.Median = quantile(numbers, 0.5)
	summary.P75 = quantile(numbers, 0.75)
	return summary
}

// quantile interpolates linearly between closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}
