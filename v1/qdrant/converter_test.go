package qdrant

import (
	"testing"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/cytosearch/cytosearch/v1/vectordb"
)

func TestConvertFilterSet_Nil(t *testing.T) {
	result := convertFilterSet(nil)
	if result != nil {
		t.Errorf("expected nil, got %v", result)
	}
}

func TestConvertFilterSet_Empty(t *testing.T) {
	result := convertFilterSet(&vectordb.FilterSet{})
	if result != nil {
		t.Errorf("expected nil, got %v", result)
	}
}

func TestConvertFilterSet_EmptyConditionSet(t *testing.T) {
	filters := &vectordb.FilterSet{
		Must: &vectordb.ConditionSet{Conditions: []vectordb.FilterCondition{}},
	}
	result := convertFilterSet(filters)
	if result != nil {
		t.Errorf("expected nil, got %v", result)
	}
}

func TestConvertFilterSet_MustWithStringMatch(t *testing.T) {
	filters := vectordb.NewFilterSet(
		vectordb.Must(vectordb.NewMatch("application_id", "exp-042")),
	)
	result := convertFilterSet(filters)

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 1 {
		t.Errorf("expected 1 Must condition, got %d", len(result.Must))
	}
	if len(result.Should) != 0 {
		t.Errorf("expected 0 Should conditions, got %d", len(result.Should))
	}
	if len(result.MustNot) != 0 {
		t.Errorf("expected 0 MustNot conditions, got %d", len(result.MustNot))
	}
}

func TestConvertFilterSet_ShouldWithMultipleMatches(t *testing.T) {
	// well = "C4" OR well = "D5"
	filters := vectordb.NewFilterSet(
		vectordb.Should(
			vectordb.NewMatch("well", "C4"),
			vectordb.NewMatch("well", "D5"),
		),
	)
	result := convertFilterSet(filters)

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Should) != 2 {
		t.Errorf("expected 2 Should conditions, got %d", len(result.Should))
	}
}

func TestConvertFilterSet_MixedClauses(t *testing.T) {
	filters := vectordb.NewFilterSet(
		vectordb.Must(vectordb.NewMatch("application_id", "exp-042")),
		vectordb.MustNot(vectordb.NewMatch("label", int64(0))),
	)
	result := convertFilterSet(filters)

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 1 {
		t.Errorf("expected 1 Must condition, got %d", len(result.Must))
	}
	if len(result.MustNot) != 1 {
		t.Errorf("expected 1 MustNot condition, got %d", len(result.MustNot))
	}
}

func TestConvertMatchCondition_ValueTypes(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"string", "exp-042", true},
		{"bool", true, true},
		{"int", 7, true},
		{"int64", int64(7), true},
		{"float64", 7.0, true},
		{"unsupported", []byte("nope"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cond := convertMatchCondition(vectordb.NewMatch("field", tc.value))
			if got := cond != nil; got != tc.want {
				t.Errorf("value %v: got condition=%v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestConvertMatchAnyCondition_Strings(t *testing.T) {
	cond := convertMatchAnyCondition(vectordb.NewMatchAny("well", "C4", "D5", "E6"))
	if cond == nil {
		t.Fatal("expected condition, got nil")
	}
}

func TestConvertMatchAnyCondition_Empty(t *testing.T) {
	cond := convertMatchAnyCondition(vectordb.NewMatchAny("well"))
	if cond != nil {
		t.Errorf("expected nil, got %v", cond)
	}
}

func TestConvertNumericRangeCondition(t *testing.T) {
	gte := 100.0
	lt := 5000.0
	cond := convertNumericRangeCondition(vectordb.NewNumericRange("area",
		vectordb.NumericRange{Gte: &gte, Lt: &lt}))
	if cond == nil {
		t.Fatal("expected condition, got nil")
	}
}

func TestConvertNumericRangeCondition_NoBounds(t *testing.T) {
	cond := convertNumericRangeCondition(vectordb.NewNumericRange("area", vectordb.NumericRange{}))
	if cond != nil {
		t.Errorf("expected nil, got %v", cond)
	}
}

func TestExtractPointID(t *testing.T) {
	id, err := extractPointID(qdrant.NewID("550e8400-e29b-41d4-a716-446655440000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "550e8400-e29b-41d4-a716-446655440000" {
		t.Errorf("unexpected id: %s", id)
	}

	if _, err := extractPointID(nil); err == nil {
		t.Error("expected error for nil point ID")
	}
}

func TestConvertPayload_NestedValues(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		"well":  "C4",
		"label": int64(3),
		"area":  100.0,
		"intensities": map[string]any{
			"Fluorescence_488_nm_Ex": map[string]any{"mean": 42.5},
		},
	})

	result := convertPayload(payload)

	if result["well"] != "C4" {
		t.Errorf("well: got %v", result["well"])
	}
	if result["label"] != int64(3) {
		t.Errorf("label: got %v", result["label"])
	}
	if result["area"] != 100.0 {
		t.Errorf("area: got %v", result["area"])
	}
	nested, ok := result["intensities"].(map[string]any)
	if !ok {
		t.Fatalf("intensities: got %T", result["intensities"])
	}
	inner, ok := nested["Fluorescence_488_nm_Ex"].(map[string]any)
	if !ok || inner["mean"] != 42.5 {
		t.Errorf("nested intensity: got %v", nested["Fluorescence_488_nm_Ex"])
	}
}

func TestValidateSearchInput(t *testing.T) {
	if err := validateSearchInput("", []float32{1}, 5); err == nil {
		t.Error("expected error for empty collection name")
	}
	if err := validateSearchInput("cells", nil, 5); err == nil {
		t.Error("expected error for empty vector")
	}
	if err := validateSearchInput("cells", []float32{1}, 0); err == nil {
		t.Error("expected error for non-positive topK")
	}
	if err := validateSearchInput("cells", []float32{1}, 5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
