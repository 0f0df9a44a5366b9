// internal/app/query/advfilters/advfilters_test.go
package advfilters_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/dalemusser/admitflow/internal/app/query/advfilters"
	"github.com/dalemusser/admitflow/internal/app/query/filters"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func opt(field, operator string, value any) models.FilterOption {
	return models.FilterOption{FieldName: field, Operator: operator, Value: value}
}

func TestCompile_SingleOption(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions:  []models.FilterOption{opt("gender", "Equal", "Male")},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"student.gender": "Male"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompile_BlockConditionORsOptions(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "OR",
		FilterOptions: []models.FilterOption{
			opt("gender", "Equal", "Male"),
			opt("category", "Equal", "SC"),
		},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"$or": []bson.M{
		{"student.gender": "Male"},
		{"student.category": "SC"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Blocks fold left to right: with blocks A, B, C the result groups as
// ((A op B) op C), never as a flat combination.
func TestCompile_FoldsBlocksLeftToRight(t *testing.T) {
	blocks := []models.FilterBlock{
		{BlockCondition: "AND", FilterOptions: []models.FilterOption{opt("gender", "Equal", "Male")}},
		{BlockCondition: "AND", ConditionBetweenBlock: "OR", FilterOptions: []models.FilterOption{opt("category", "Equal", "SC")}},
		{BlockCondition: "AND", ConditionBetweenBlock: "AND", FilterOptions: []models.FilterOption{opt("city", "Equal", "Pune")}},
	}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"$and": []bson.M{
		{"$or": []bson.M{
			{"student.gender": "Male"},
			{"student.category": "SC"},
		}},
		{"student.address.city": "Pune"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompile_SkipsEmptyBlocks(t *testing.T) {
	blocks := []models.FilterBlock{
		{BlockCondition: "AND"},
		{BlockCondition: "AND", ConditionBetweenBlock: "OR", FilterOptions: []models.FilterOption{opt("gender", "Equal", "Male")}},
	}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"student.gender": "Male"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := advfilters.Compile(nil, filters.ApplicationPaths); got != nil {
		t.Errorf("no blocks: got %v, want nil", got)
	}
}

func TestCompile_StateUppercased(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions:  []models.FilterOption{opt("state", "Equal", "mh")},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"student.address.state": "MH"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompile_EqualList(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions:  []models.FilterOption{opt("gender", "Equal", []any{"Male", "Female"})},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"student.gender": bson.M{"$in": []any{"Male", "Female"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompile_IsNullAndNotBlank(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions:  []models.FilterOption{opt("counselor", "Is Null", nil)},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"counselor_id": bson.M{"$exists": false}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Is Null: got %v, want %v", got, want)
	}

	blocks[0].FilterOptions = []models.FilterOption{opt("counselor", "Is Not Blank", nil)}
	got = advfilters.Compile(blocks, filters.ApplicationPaths)
	want = bson.M{"counselor_id": bson.M{"$exists": true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Is Not Blank: got %v, want %v", got, want)
	}
}

func TestCompile_TwelveMarksGatedOnScheme(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions:  []models.FilterOption{opt("12th marks", "Between", []any{80.0, 90.0})},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{
		"secondary.inter.marking_scheme": models.MarkingSchemePercentage,
		"secondary.inter.obtained_cgpa":  bson.M{"$gte": 80.0, "$lt": 90.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompile_DateOperators(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	next := day.Add(24 * time.Hour)

	tests := []struct {
		operator string
		want     bson.M
	}{
		{"Is", bson.M{"enquiry_date": bson.M{"$gte": day, "$lt": next}}},
		{"After", bson.M{"enquiry_date": bson.M{"$gte": next}}},
		{"Before", bson.M{"enquiry_date": bson.M{"$lt": next}}},
	}

	for _, tc := range tests {
		t.Run(tc.operator, func(t *testing.T) {
			blocks := []models.FilterBlock{{
				BlockCondition: "AND",
				FilterOptions:  []models.FilterOption{opt("enquiry date", tc.operator, "2026-03-15")},
			}}
			got := advfilters.Compile(blocks, filters.ApplicationPaths)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCompile_UnparseableDateDropped(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions:  []models.FilterOption{opt("enquiry date", "After", "someday")},
	}}
	if got := advfilters.Compile(blocks, filters.ApplicationPaths); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

// Advance-filter source types AND together, unlike the normal filter
// which ORs the attribution levels.
func TestCompile_SourceTypeANDs(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions:  []models.FilterOption{opt("source type", "Equal", []any{"primary", "secondary"})},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"$and": []bson.M{
		{"student.source.primary_source": bson.M{"$exists": true}},
		{"student.source.secondary_source": bson.M{"$exists": true}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Advance-filter form filling stages OR together, unlike the normal
// filter's AND.
func TestCompile_FormFillingStageORs(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions:  []models.FilterOption{opt("form filling stage", "Equal", []any{"12th", "Declaration"})},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"$or": []bson.M{
		{"secondary.inter": bson.M{"$exists": true}},
		{"declaration": true},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompile_UTMMediumPairs(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions: []models.FilterOption{opt("utm medium", "Equal", []any{
			map[string]any{"utm_source": "google", "utm_medium": "cpc"},
			map[string]any{"utm_source": "meta", "utm_medium": "social"},
		})},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"$or": []bson.M{
		{
			"student.source.primary_source.utm_source": "google",
			"student.source.primary_source.utm_medium": "cpc",
		},
		{
			"student.source.primary_source.utm_source": "meta",
			"student.source.primary_source.utm_medium": "social",
		},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompile_Program(t *testing.T) {
	courseID := primitive.NewObjectID()
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions: []models.FilterOption{opt("program", "Equal", []any{
			map[string]any{"course_id": courseID.Hex(), "spec_name": "Finance"},
		})},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"course_id": courseID, "spec_name": "Finance"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompile_FallbackCollectionField(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions: []models.FilterOption{{
			FieldName:           "custom thing",
			Operator:            "Equal",
			Value:               "x",
			CollectionFieldName: "custom_thing",
			CollectionName:      "applications",
		}},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"custom_thing": "x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Fallback fields on the boolean allowlist coerce loose string values
// so front-end payloads sending "true" compare against stored booleans.
func TestCompile_FallbackBoolField(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions: []models.FilterOption{{
			FieldName:           "enrolled",
			Operator:            "Equal",
			Value:               "true",
			CollectionFieldName: "is_enrolled",
			CollectionName:      "applications",
		}},
	}}
	got := advfilters.Compile(blocks, filters.ApplicationPaths)
	want := bson.M{"is_enrolled": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScopesUsed(t *testing.T) {
	blocks := []models.FilterBlock{{
		BlockCondition: "AND",
		FilterOptions: []models.FilterOption{
			opt("lead stage", "Equal", "Interested"),
			opt("course name", "Equal", "MBA"),
		},
	}}
	used := advfilters.ScopesUsed(blocks)
	if !used[advfilters.ScopeFollowUp] {
		t.Error("expected follow-up scope to be marked used")
	}
	if !used[advfilters.ScopeCourse] {
		t.Error("expected course scope to be marked used")
	}
	if used[advfilters.ScopeSecondary] {
		t.Error("secondary scope should not be marked used")
	}
}
