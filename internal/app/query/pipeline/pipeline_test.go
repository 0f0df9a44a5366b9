// internal/app/query/pipeline/pipeline_test.go
package pipeline_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/dalemusser/admitflow/internal/app/query/pipeline"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func stageKeys(pl mongo.Pipeline) []string {
	keys := make([]string, 0, len(pl))
	for _, stage := range pl {
		keys = append(keys, stage[0].Key)
	}
	return keys
}

func stageValue(t *testing.T, pl mongo.Pipeline, i int, key string) bson.M {
	t.Helper()
	if i >= len(pl) {
		t.Fatalf("pipeline has %d stages, wanted index %d", len(pl), i)
	}
	if pl[i][0].Key != key {
		t.Fatalf("stage %d: got %s, want %s (stages: %v)", i, pl[i][0].Key, key, stageKeys(pl))
	}
	m, ok := pl[i][0].Value.(bson.M)
	if !ok {
		t.Fatalf("stage %d value is %T, want bson.M", i, pl[i][0].Value)
	}
	return m
}

// lookupStages returns the "from" collections of every $lookup stage.
func lookupFroms(pl mongo.Pipeline) []string {
	var froms []string
	for _, stage := range pl {
		if stage[0].Key != "$lookup" {
			continue
		}
		if m, ok := stage[0].Value.(bson.M); ok {
			froms = append(froms, m["from"].(string))
		}
	}
	return froms
}

func TestApplications_BaseMatchAndOrder(t *testing.T) {
	collegeID := primitive.NewObjectID()
	counselorID := primitive.NewObjectID()

	pl := pipeline.Applications(pipeline.Params{
		CollegeID:   collegeID,
		CounselorID: &counselorID,
	})

	base := stageValue(t, pl, 0, "$match")
	if base["college_id"] != collegeID {
		t.Errorf("base match college_id: got %v, want %v", base["college_id"], collegeID)
	}
	if base["counselor_id"] != counselorID {
		t.Errorf("base match counselor_id: got %v, want %v", base["counselor_id"], counselorID)
	}

	// Sort must precede the joins so it runs on the indexed root field.
	if pl[1][0].Key != "$sort" {
		t.Errorf("stage 1: got %s, want $sort (stages: %v)", pl[1][0].Key, stageKeys(pl))
	}
	if pl[2][0].Key != "$lookup" {
		t.Errorf("stage 2: got %s, want $lookup (stages: %v)", pl[2][0].Key, stageKeys(pl))
	}
}

func TestApplications_DateWindow(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	pl := pipeline.Applications(pipeline.Params{
		CollegeID: primitive.NewObjectID(),
		From:      &from,
		To:        &to,
	})

	base := stageValue(t, pl, 0, "$match")
	want := bson.M{"$gte": from, "$lt": to}
	if !reflect.DeepEqual(base["enquiry_date"], want) {
		t.Errorf("date window: got %v, want %v", base["enquiry_date"], want)
	}
}

// Terminal payment statuses move the date window onto the payment
// timestamp; the enquiry-date bound must disappear entirely.
func TestApplications_PaymentDateOverride(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	pl := pipeline.Applications(pipeline.Params{
		CollegeID: primitive.NewObjectID(),
		From:      &from,
		Filters:   &models.FilterPayload{PaymentStatus: []string{"captured"}},
	})

	base := stageValue(t, pl, 0, "$match")
	if _, ok := base["enquiry_date"]; ok {
		t.Errorf("enquiry_date bound should be dropped under payment override, got %v", base)
	}
	want := bson.M{"$gte": from}
	if !reflect.DeepEqual(base["payment_info.created_at"], want) {
		t.Errorf("payment date window: got %v, want %v", base["payment_info.created_at"], want)
	}
}

// "not started" is not a terminal status, so the window stays on the
// enquiry date.
func TestApplications_NotStartedKeepsEnquiryWindow(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	pl := pipeline.Applications(pipeline.Params{
		CollegeID: primitive.NewObjectID(),
		From:      &from,
		Filters:   &models.FilterPayload{PaymentStatus: []string{"not started"}},
	})

	base := stageValue(t, pl, 0, "$match")
	if _, ok := base["enquiry_date"]; !ok {
		t.Errorf("expected enquiry_date bound, got %v", base)
	}
}

func TestApplications_ConditionalJoins(t *testing.T) {
	collegeID := primitive.NewObjectID()

	plain := pipeline.Applications(pipeline.Params{CollegeID: collegeID})
	if froms := lookupFroms(plain); !reflect.DeepEqual(froms, []string{pipeline.CollLeads}) {
		t.Errorf("plain pipeline joins: got %v, want only %s", froms, pipeline.CollLeads)
	}

	withMarks := pipeline.Applications(pipeline.Params{
		CollegeID: collegeID,
		Filters:   &models.FilterPayload{TwelveMarks: []string{"80-90"}},
	})
	want := []string{pipeline.CollLeads, pipeline.CollSecondary}
	if froms := lookupFroms(withMarks); !reflect.DeepEqual(froms, want) {
		t.Errorf("marks pipeline joins: got %v, want %v", froms, want)
	}

	withStage := pipeline.Applications(pipeline.Params{
		CollegeID: collegeID,
		Filters:   &models.FilterPayload{LeadStage: []string{"Interested"}},
	})
	want = []string{pipeline.CollLeads, pipeline.CollFollowUps}
	if froms := lookupFroms(withStage); !reflect.DeepEqual(froms, want) {
		t.Errorf("stage pipeline joins: got %v, want %v", froms, want)
	}
}

func TestApplications_AdvanceFilterTriggersCourseJoin(t *testing.T) {
	pl := pipeline.Applications(pipeline.Params{
		CollegeID: primitive.NewObjectID(),
		Advance: []models.FilterBlock{{
			BlockCondition: "AND",
			FilterOptions: []models.FilterOption{
				{FieldName: "course name", Operator: "Equal", Value: "MBA"},
			},
		}},
	})
	want := []string{pipeline.CollLeads, pipeline.CollCourses}
	if froms := lookupFroms(pl); !reflect.DeepEqual(froms, want) {
		t.Errorf("joins: got %v, want %v", froms, want)
	}
}

func TestAppendPagination_SkipLimit(t *testing.T) {
	pl := pipeline.Applications(pipeline.Params{
		CollegeID: primitive.NewObjectID(),
		Skip:      50,
		Limit:     25,
	})

	keys := stageKeys(pl)
	if keys[len(keys)-2] != "$skip" || keys[len(keys)-1] != "$limit" {
		t.Errorf("expected trailing $skip/$limit, got %v", keys)
	}
}

func TestAppendPagination_FacetFlattensTotal(t *testing.T) {
	pl := pipeline.Applications(pipeline.Params{
		CollegeID: primitive.NewObjectID(),
		Skip:      50,
		Limit:     25,
		WithTotal: true,
	})

	keys := stageKeys(pl)
	wantTail := []string{"$facet", "$unwind", "$unwind", "$addFields", "$replaceRoot"}
	tail := keys[len(keys)-len(wantTail):]
	if !reflect.DeepEqual(tail, wantTail) {
		t.Fatalf("facet tail: got %v, want %v", tail, wantTail)
	}

	facet := stageValue(t, pl, len(pl)-5, "$facet")
	page, ok := facet["paginatedResults"].(bson.A)
	if !ok {
		t.Fatalf("paginatedResults is %T, want bson.A", facet["paginatedResults"])
	}
	wantPage := bson.A{bson.M{"$skip": int64(50)}, bson.M{"$limit": int64(25)}}
	if !reflect.DeepEqual(page, wantPage) {
		t.Errorf("page stages: got %v, want %v", page, wantPage)
	}

	addFields := stageValue(t, pl, len(pl)-2, "$addFields")
	if addFields["paginatedResults."+pipeline.TotalCountField] != "$totalCount.count" {
		t.Errorf("total flattening: got %v", addFields)
	}
}

func TestLeads_RootsAtLeadsCollection(t *testing.T) {
	collegeID := primitive.NewObjectID()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	pl := pipeline.Leads(pipeline.Params{
		CollegeID: collegeID,
		From:      &from,
	})

	base := stageValue(t, pl, 0, "$match")
	if base["college_id"] != collegeID {
		t.Errorf("base match: got %v", base)
	}
	if _, ok := base["enquiry_date"]; ok {
		t.Errorf("lead base match must not carry the date window, got %v", base)
	}

	if froms := lookupFroms(pl); froms[0] != pipeline.CollApps {
		t.Errorf("first join: got %v, want %s", froms, pipeline.CollApps)
	}

	// The window applies to the joined application's enquiry date, after
	// the join.
	window := stageValue(t, pl, 4, "$match")
	want := bson.M{"$gte": from}
	if !reflect.DeepEqual(window["application.enquiry_date"], want) {
		t.Errorf("window: got %v, want application.enquiry_date %v", window, want)
	}
}

// A freshly enquired lead has no application yet; the application join
// must keep it rather than dropping it on the unwind.
func TestLeads_KeepsLeadsWithoutApplications(t *testing.T) {
	pl := pipeline.Leads(pipeline.Params{CollegeID: primitive.NewObjectID()})

	unwind := stageValue(t, pl, 3, "$unwind")
	if unwind["path"] != "$application" {
		t.Fatalf("stage 3: got %v, want application unwind", unwind)
	}
	if unwind["preserveNullAndEmptyArrays"] != true {
		t.Errorf("application unwind must preserve empty joins, got %v", unwind)
	}
}

func TestCount_EndsWithCountStage(t *testing.T) {
	pl := pipeline.Count(pipeline.Params{
		CollegeID: primitive.NewObjectID(),
		Skip:      100,
		Limit:     25,
		WithTotal: true,
	})

	last := pl[len(pl)-1]
	if last[0].Key != "$count" || last[0].Value != "count" {
		t.Errorf("last stage: got %v, want $count", last)
	}
	for _, key := range stageKeys(pl) {
		if key == "$skip" || key == "$limit" || key == "$facet" {
			t.Errorf("count pipeline must not paginate, found %s", key)
		}
	}
}
