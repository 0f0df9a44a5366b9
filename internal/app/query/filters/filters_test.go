// internal/app/query/filters/filters_test.go
package filters_test

import (
	"reflect"
	"testing"

	"github.com/dalemusser/admitflow/internal/app/query/filters"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestState_UppercasesAndPrefixes(t *testing.T) {
	got := filters.ApplicationPaths.State([]string{" mh", "dl"})
	want := bson.M{"student.address.state": bson.M{"$in": []string{"MH", "DL"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("State: got %v, want %v", got, want)
	}

	if got := filters.ApplicationPaths.State(nil); got != nil {
		t.Errorf("State with no values: got %v, want nil", got)
	}
}

func TestState_LeadRootHasNoPrefix(t *testing.T) {
	got := filters.LeadPaths.State([]string{"MH"})
	if _, ok := got["address.state"]; !ok {
		t.Errorf("lead-rooted state predicate should use unprefixed path, got %v", got)
	}
}

func TestCity_TitleCases(t *testing.T) {
	got := filters.ApplicationPaths.City([]string{"pune", "new delhi"})
	want := bson.M{"student.address.city": bson.M{"$in": []string{"Pune", "New Delhi"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("City: got %v, want %v", got, want)
	}
}

func TestVerification(t *testing.T) {
	yes, no := true, false

	got := filters.ApplicationPaths.Verification(&yes)
	if !reflect.DeepEqual(got, bson.M{"student.is_verify": true}) {
		t.Errorf("Verification(true): got %v", got)
	}

	// False must also match leads where the flag was never written.
	got = filters.ApplicationPaths.Verification(&no)
	want := bson.M{"student.is_verify": bson.M{"$ne": true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Verification(false): got %v, want %v", got, want)
	}

	if got := filters.ApplicationPaths.Verification(nil); got != nil {
		t.Errorf("Verification(nil): got %v, want nil", got)
	}
}

func TestSourceType_ORsLevels(t *testing.T) {
	got := filters.ApplicationPaths.SourceType([]string{"primary", "tertiary"})
	want := bson.M{"$or": []bson.M{
		{"student.source.primary_source": bson.M{"$exists": true}},
		{"student.source.tertiary_source": bson.M{"$exists": true}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SourceType: got %v, want %v", got, want)
	}

	if got := filters.ApplicationPaths.SourceType([]string{"bogus"}); got != nil {
		t.Errorf("SourceType with unknown level: got %v, want nil", got)
	}
}

func TestPaymentStatus(t *testing.T) {
	p := filters.ApplicationPaths

	tests := []struct {
		name   string
		values []string
		want   bson.M
	}{
		{
			name:   "not started",
			values: []string{"not started"},
			want:   bson.M{"payment_initiated": false},
		},
		{
			name:   "started excludes terminal statuses",
			values: []string{"Started"},
			want: bson.M{
				"payment_initiated": true,
				"payment_info.status": bson.M{
					"$nin": []string{"captured", "failed", "refunded"},
				},
			},
		},
		{
			name:   "captured",
			values: []string{"captured"},
			want:   bson.M{"payment_info.status": "captured"},
		},
		{
			name:   "multiple values OR together",
			values: []string{"captured", "refunded"},
			want: bson.M{"$or": []bson.M{
				{"payment_info.status": "captured"},
				{"payment_info.status": "refunded"},
			}},
		},
		{
			name:   "unknown value compiles to nothing",
			values: []string{"pending"},
			want:   nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := p.PaymentStatus(tc.values)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("PaymentStatus(%v): got %v, want %v", tc.values, got, tc.want)
			}
		})
	}
}

func TestNeedsPaymentDateOverride(t *testing.T) {
	tests := []struct {
		values []string
		want   bool
	}{
		{nil, false},
		{[]string{"not started"}, false},
		{[]string{"started"}, false},
		{[]string{"captured"}, true},
		{[]string{"Failed"}, true},
		{[]string{"started", "refunded"}, true},
	}
	for _, tc := range tests {
		if got := filters.NeedsPaymentDateOverride(tc.values); got != tc.want {
			t.Errorf("NeedsPaymentDateOverride(%v): got %v, want %v", tc.values, got, tc.want)
		}
	}
}

func TestTwelveMarks_RangeIsHalfOpenAndGated(t *testing.T) {
	got := filters.ApplicationPaths.TwelveMarks([]string{"80-90"})
	want := bson.M{"$or": []bson.M{{
		"secondary.inter.marking_scheme": models.MarkingSchemePercentage,
		"secondary.inter.obtained_cgpa":  bson.M{"$gte": 80.0, "$lt": 90.0},
	}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TwelveMarks range: got %v, want %v", got, want)
	}
}

func TestTwelveMarks_LiteralValue(t *testing.T) {
	got := filters.ApplicationPaths.TwelveMarks([]string{"85"})
	want := bson.M{"$or": []bson.M{{
		"secondary.inter.marking_scheme": models.MarkingSchemePercentage,
		"secondary.inter.obtained_cgpa":  85.0,
	}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TwelveMarks literal: got %v, want %v", got, want)
	}
}

func TestTwelveMarks_Malformed(t *testing.T) {
	if got := filters.ApplicationPaths.TwelveMarks([]string{"eighty"}); got != nil {
		t.Errorf("TwelveMarks malformed: got %v, want nil", got)
	}
	if got := filters.ApplicationPaths.TwelveMarks([]string{"80-90-100"}); got != nil {
		t.Errorf("TwelveMarks triple range: got %v, want nil", got)
	}
}

func TestFormFillingStage_ANDsStages(t *testing.T) {
	got := filters.ApplicationPaths.FormFillingStage([]string{"10th", "Declaration"})
	want := bson.M{"$and": []bson.M{
		{"secondary.tenth": bson.M{"$exists": true}},
		{"declaration": true},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FormFillingStage: got %v, want %v", got, want)
	}
}

func TestAnnualIncome_Range(t *testing.T) {
	got := filters.ApplicationPaths.AnnualIncome([]string{"100000-500000"})
	want := bson.M{"$or": []bson.M{
		{"student.annual_income": bson.M{"$gte": 100000.0, "$lt": 500000.0}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AnnualIncome: got %v, want %v", got, want)
	}
}

func TestExcluded(t *testing.T) {
	if got := filters.ApplicationPaths.Excluded(true); got != nil {
		t.Errorf("Excluded(include=true): got %v, want nil", got)
	}
	got := filters.ApplicationPaths.Excluded(false)
	want := bson.M{"student.is_excluded": bson.M{"$ne": true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Excluded(include=false): got %v, want %v", got, want)
	}
}

func TestExtraFields(t *testing.T) {
	got := filters.ApplicationPaths.ExtraFields([]models.ExtraField{
		{Key: "hostel", Value: "yes"},
	})
	want := bson.M{"$and": []bson.M{
		{"student.extra_fields": bson.M{"$elemMatch": bson.M{"key": "hostel", "value": "yes"}}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtraFields: got %v, want %v", got, want)
	}
}
