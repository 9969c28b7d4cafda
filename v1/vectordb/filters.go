package vectordb

// FilterCondition is the interface all filter conditions implement.
// Each database adapter converts these to its native filter format.
type FilterCondition interface {
	// IsFilterCondition is a marker method to ensure type safety.
	IsFilterCondition()
}

// FilterSet supports Must (AND), Should (OR), and MustNot (NOT) clauses.
// Use with SearchRequest.Filters to filter search results.
type FilterSet struct {
	// Must: all conditions must match (AND).
	Must *ConditionSet `json:"must,omitempty"`
	// Should: at least one condition must match (OR).
	Should *ConditionSet `json:"should,omitempty"`
	// MustNot: none of the conditions may match (NOT).
	MustNot *ConditionSet `json:"mustNot,omitempty"`
}

// ConditionSet holds a group of conditions for a single clause.
type ConditionSet struct {
	Conditions []FilterCondition `json:"conditions,omitempty"`
}

// MatchCondition represents an exact match filter (WHERE field = value).
// Supports string, bool, and int64 values.
type MatchCondition struct {
	Field string `json:"field"`
	Value any    `json:"equalTo"`
}

func (c *MatchCondition) IsFilterCondition() {}

// MatchAnyCondition matches if the value is one of the given values (IN).
type MatchAnyCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"anyOf"`
}

func (c *MatchAnyCondition) IsFilterCondition() {}

// NumericRange defines bounds for numeric filtering.
type NumericRange struct {
	Gt  *float64 `json:"greaterThan,omitempty"`
	Gte *float64 `json:"greaterThanOrEqualTo,omitempty"`
	Lt  *float64 `json:"lessThan,omitempty"`
	Lte *float64 `json:"lessThanOrEqualTo,omitempty"`
}

// NumericRangeCondition filters by numeric range.
type NumericRangeCondition struct {
	Field string       `json:"field"`
	Range NumericRange `json:"range"`
}

func (c *NumericRangeCondition) IsFilterCondition() {}

// ── Convenience constructors ─────────────────────────────────────────────

// NewFilterSet assembles a FilterSet from clause builders:
//
//	NewFilterSet(Must(NewMatch("application_id", appID)))
func NewFilterSet(clauses ...func(*FilterSet)) *FilterSet {
	fs := &FilterSet{}
	for _, apply := range clauses {
		apply(fs)
	}
	return fs
}

// Must adds AND conditions.
func Must(conds ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Must = appendConditions(fs.Must, conds)
	}
}

// Should adds OR conditions.
func Should(conds ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Should = appendConditions(fs.Should, conds)
	}
}

// MustNot adds NOT conditions.
func MustNot(conds ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.MustNot = appendConditions(fs.MustNot, conds)
	}
}

func appendConditions(set *ConditionSet, conds []FilterCondition) *ConditionSet {
	if set == nil {
		set = &ConditionSet{}
	}
	set.Conditions = append(set.Conditions, conds...)
	return set
}

// NewMatch builds an exact-match condition.
func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

// NewMatchAny builds an IN condition.
func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values}
}

// NewNumericRange builds a numeric range condition.
func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r}
}

// IsEmpty reports whether the filter set carries no conditions at all.
func (fs *FilterSet) IsEmpty() bool {
	if fs == nil {
		return true
	}
	empty := func(cs *ConditionSet) bool { return cs == nil || len(cs.Conditions) == 0 }
	return empty(fs.Must) && empty(fs.Should) && empty(fs.MustNot)
}
