// Package interpret classifies the columns of an arbitrary result table so a chart policy can
// pick axes without knowing the query that produced it.
package interpret

import (
	"strings"
	"time"

	"github.com/askdata/askdata/internal/query"
)

type Class string

const (
	ClassFinancial   Class = "financial"
	ClassDateLike    Class = "date_like"
	ClassNumeric     Class = "numeric"
	ClassCategorical Class = "categorical"
)

// Rule decides whether one column belongs to its class. values holds the column's cells in row order.
type Rule interface {
	Class() Class
	Match(name string, values []any) bool
}

var (
	FinancialKeywords = []string{"INVESTMENT", "EXPORT", "VALUE", "AMOUNT", "EQUITY", "LOAN", "EMPLOYMENT", "PRICE", "FINE"}
	DateKeywords      = []string{"DATE", "YEAR"}
)

// KeywordRule matches columns whose name contains any keyword, case-insensitively.
type KeywordRule struct {
	class    Class
	keywords []string
}

func NewKeywordRule(class Class, keywords ...string) KeywordRule {
	upper := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			upper = append(upper, strings.ToUpper(keyword))
		}
	}
	return KeywordRule{class: class, keywords: upper}
}

func (r KeywordRule) Class() Class { return r.class }

func (r KeywordRule) Match(name string, _ []any) bool {
	upperName := strings.ToUpper(name)
	for _, keyword := range r.keywords {
		if strings.Contains(upperName, keyword) {
			return true
		}
	}
	return false
}

// ValueRule matches columns with at least one non-null cell where every non-null cell passes accept.
type ValueRule struct {
	class  Class
	accept func(any) bool
}

func NewValueRule(class Class, accept func(any) bool) ValueRule {
	return ValueRule{class: class, accept: accept}
}

func (r ValueRule) Class() Class { return r.class }

func (r ValueRule) Match(_ string, values []any) bool {
	seen := false
	for _, value := range values {
		if value == nil {
			continue
		}
		if !r.accept(value) {
			return false
		}
		seen = true
	}
	return seen
}

func IsNumeric(value any) bool {
	_, ok := ToFloat(value)
	return ok
}

func IsText(value any) bool {
	_, ok := value.(string)
	return ok
}

// ToFloat converts numeric cell values. Booleans and numeric-looking strings are not numbers.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func isTime(value any) bool {
	_, ok := value.(time.Time)
	return ok
}

type RuleSet struct {
	rules []Rule
}

// NewRuleSet evaluates rules in order; a column may match any number of them.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: append([]Rule(nil), rules...)}
}

func DefaultRules() []Rule {
	return []Rule{
		NewKeywordRule(ClassFinancial, FinancialKeywords...),
		NewKeywordRule(ClassDateLike, DateKeywords...),
		NewValueRule(ClassDateLike, isTime),
		NewValueRule(ClassNumeric, IsNumeric),
		NewValueRule(ClassCategorical, IsText),
	}
}

var defaultRuleSet = NewRuleSet(DefaultRules()...)

// Classify uses the default rule set.
func Classify(table *query.Table) Classification {
	return defaultRuleSet.Classify(table)
}

// Classification lists column names per class, each in table column order.
type Classification struct {
	Financial   []string `json:"financial"`
	DateLike    []string `json:"date_like"`
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

func (c Classification) Columns(class Class) []string {
	switch class {
	case ClassFinancial:
		return c.Financial
	case ClassDateLike:
		return c.DateLike
	case ClassNumeric:
		return c.Numeric
	case ClassCategorical:
		return c.Categorical
	default:
		return nil
	}
}

func (c Classification) Has(class Class, column string) bool {
	for _, name := range c.Columns(class) {
		if name == column {
			return true
		}
	}
	return false
}

func (c *Classification) add(class Class, column string) {
	if c.Has(class, column) {
		return
	}
	switch class {
	case ClassFinancial:
		c.Financial = append(c.Financial, column)
	case ClassDateLike:
		c.DateLike = append(c.DateLike, column)
	case ClassNumeric:
		c.Numeric = append(c.Numeric, column)
	case ClassCategorical:
		c.Categorical = append(c.Categorical, column)
	}
}

// Classify never fails: unknown shapes yield empty class lists.
func (s *RuleSet) Classify(table *query.Table) Classification {
	result := Classification{
		Financial:   []string{},
		DateLike:    []string{},
		Numeric:     []string{},
		Categorical: []string{},
	}
	if table == nil {
		return result
	}
	for i, column := range table.Columns {
		values := table.Values(i)
		for _, rule := range s.rules {
			if rule.Match(column, values) {
				result.add(rule.Class(), column)
			}
		}
	}
	return result
}
