// internal/app/query/pipeline/pipeline.go
//
// Package pipeline assembles the list/search aggregation pipelines from
// normalized filter fragments. Stage order is fixed and deliberate:
//
//  1. base match (college, counselor, date window)
//  2. sort by enquiry date, newest first
//  3. join the lead document and flatten it
//  4. lead-level normal-filter match
//  5. follow-up join and lead-stage match, when requested
//  6. secondary-education and course joins, when requested
//  7. advance-filter match
//  8. application-level normal-filter match
//  9. pagination, either skip/limit or a counting facet
//
// Sorting before the joins keeps the sort on an indexed root field.
package pipeline

import (
	"time"

	"github.com/dalemusser/admitflow/internal/app/query/advfilters"
	"github.com/dalemusser/admitflow/internal/app/query/filters"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names joined by the assembler.
const (
	CollLeads     = "leads"
	CollApps      = "applications"
	CollFollowUps = "lead_followups"
	CollSecondary = "secondary_educations"
	CollCourses   = "courses"
)

// TotalCountField is the field pagination facets flatten the matched
// total into on every returned document.
const TotalCountField = "total_count"

// Params drives one pipeline build.
type Params struct {
	CollegeID   primitive.ObjectID
	CounselorID *primitive.ObjectID // non-nil restricts to one counselor's allocation
	From, To    *time.Time          // enquiry-date window, half-open [From, To)

	Filters *models.FilterPayload
	Advance []models.FilterBlock

	// IncludeExcluded keeps unsubscribed leads in the result. List views
	// leave it false; communication audiences always leave it false.
	IncludeExcluded bool

	Skip      int64
	Limit     int64
	WithTotal bool // count via facet instead of bare skip/limit
}

// Applications builds the pipeline rooted at the applications collection.
func Applications(p Params) mongo.Pipeline {
	return assemble(p, filters.ApplicationPaths)
}

// Leads builds the pipeline rooted at the leads collection. The
// application document is joined instead of the lead document, and the
// date window falls on the joined application's enquiry date.
func Leads(p Params) mongo.Pipeline {
	f := payload(p)
	paths := filters.LeadPaths

	var pl mongo.Pipeline
	pl = append(pl, bson.D{{Key: "$match", Value: bson.M{"college_id": p.CollegeID}}})
	pl = append(pl, bson.D{{Key: "$sort", Value: bson.D{{Key: "enquiry_date", Value: -1}}}})
	// A lead that has not applied yet must still appear in lead search.
	pl = append(pl, softLookup(CollApps, "_id", "student_id", "application")...)

	if m := baseWindow(p, f, paths); len(m) > 0 {
		pl = append(pl, bson.D{{Key: "$match", Value: m}})
	}
	pl = appendShared(pl, p, f, paths, "application.student_id", "application._id")
	return appendPagination(pl, p)
}

func assemble(p Params, paths filters.Paths) mongo.Pipeline {
	f := payload(p)

	base := bson.M{"college_id": p.CollegeID}
	if p.CounselorID != nil {
		base["counselor_id"] = *p.CounselorID
	}
	for k, v := range baseWindow(p, f, paths) {
		base[k] = v
	}

	var pl mongo.Pipeline
	pl = append(pl, bson.D{{Key: "$match", Value: base}})
	pl = append(pl, bson.D{{Key: "$sort", Value: bson.D{{Key: "enquiry_date", Value: -1}}}})
	pl = append(pl, lookup(CollLeads, "student_id", "_id", "student")...)
	pl = appendShared(pl, p, f, paths, "student_id", "_id")
	return appendPagination(pl, p)
}

// appendShared adds the stages common to both roots: lead-level match,
// conditional joins, advance-filter match, application-level match.
// studentKey and appKey name the local fields joining secondary
// educations and follow-ups respectively.
func appendShared(pl mongo.Pipeline, p Params, f models.FilterPayload, paths filters.Paths, studentKey, appKey string) mongo.Pipeline {
	if m := leadLevelMatch(p, f, paths); len(m) > 0 {
		pl = append(pl, bson.D{{Key: "$match", Value: m}})
	}

	scopes := advfilters.ScopesUsed(p.Advance)

	if len(f.LeadStage) > 0 || scopes[advfilters.ScopeFollowUp] {
		pl = append(pl, softLookup(CollFollowUps, appKey, "application_id", "followup")...)
	}
	if m := paths.LeadStage(f.LeadStage); m != nil {
		pl = append(pl, bson.D{{Key: "$match", Value: m}})
	}

	if needsSecondary(f) || scopes[advfilters.ScopeSecondary] {
		pl = append(pl, softLookup(CollSecondary, studentKey, "student_id", "secondary")...)
	}
	if scopes[advfilters.ScopeCourse] {
		localCourse := paths.Application + "course_id"
		pl = append(pl, softLookup(CollCourses, localCourse, "_id", "course")...)
	}

	if m := advfilters.Compile(p.Advance, paths); m != nil {
		pl = append(pl, bson.D{{Key: "$match", Value: m}})
	}

	if m := applicationLevelMatch(f, paths); len(m) > 0 {
		pl = append(pl, bson.D{{Key: "$match", Value: m}})
	}
	return pl
}

// baseWindow builds the date-window fragment. Terminal payment statuses
// move the window from the enquiry date onto the payment timestamp; the
// enquiry-date bounds are dropped entirely in that case, since the same
// window cannot constrain both.
func baseWindow(p Params, f models.FilterPayload, paths filters.Paths) bson.M {
	field := paths.Application + "enquiry_date"
	if filters.NeedsPaymentDateOverride(f.PaymentStatus) {
		field = paths.Application + "payment_info.created_at"
	}
	rng := bson.M{}
	if p.From != nil {
		rng["$gte"] = *p.From
	}
	if p.To != nil {
		rng["$lt"] = *p.To
	}
	if len(rng) == 0 {
		return nil
	}
	return bson.M{field: rng}
}

// leadLevelMatch ANDs all fragments touching the lead document.
func leadLevelMatch(p Params, f models.FilterPayload, paths filters.Paths) bson.M {
	var and []bson.M
	add := func(m bson.M) {
		if m != nil {
			and = append(and, m)
		}
	}
	add(paths.State(f.State))
	add(paths.City(f.City))
	add(paths.Gender(f.Gender))
	add(paths.Category(f.Category))
	add(paths.Verification(f.IsVerify))
	add(paths.SourceType(f.SourceType))
	add(paths.SourceNames(f.SourceNames))
	add(paths.UTMMedium(f.UTMMedium))
	add(paths.UTMCampaign(f.UTMCampaign))
	add(paths.LeadType(f.LeadType))
	add(paths.AnnualIncome(f.AnnualIncome))
	add(paths.ExtraFields(f.ExtraFields))
	add(paths.Excluded(p.IncludeExcluded))
	return combineAnd(and)
}

// applicationLevelMatch ANDs the fragments that need joined documents or
// application fields beyond the base match.
func applicationLevelMatch(f models.FilterPayload, paths filters.Paths) bson.M {
	var and []bson.M
	add := func(m bson.M) {
		if m != nil {
			and = append(and, m)
		}
	}
	add(paths.PaymentStatus(f.PaymentStatus))
	add(paths.FormFillingStage(f.FormFillingStage))
	add(paths.TwelveBoard(f.TwelveBoard))
	add(paths.TwelveMarks(f.TwelveMarks))
	add(paths.CounselorIn(objectIDs(f.CounselorIDs)))
	add(paths.Courses(objectIDs(f.CourseIDs), f.SpecNames))
	return combineAnd(and)
}

func combineAnd(and []bson.M) bson.M {
	switch len(and) {
	case 0:
		return nil
	case 1:
		return and[0]
	default:
		return bson.M{"$and": and}
	}
}

// needsSecondary reports whether the normal filters touch the joined
// secondary-education document.
func needsSecondary(f models.FilterPayload) bool {
	if len(f.TwelveBoard) > 0 || len(f.TwelveMarks) > 0 {
		return true
	}
	for _, s := range f.FormFillingStage {
		if s == "10th" || s == "12th" {
			return true
		}
	}
	return false
}

// lookup joins one collection and flattens the array. The inner join
// drops rows with no match, which is what the application-rooted
// student join wants: an application without its lead is unrenderable.
func lookup(from, localField, foreignField, as string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": foreignField,
			"as":           as,
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$" + as}}},
	}
}

// softLookup joins and flattens but keeps rows with no match, for
// optional sub-documents like follow-ups and secondary education.
func softLookup(from, localField, foreignField, as string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": foreignField,
			"as":           as,
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$" + as,
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// appendPagination finishes the pipeline. With WithTotal the page and
// the matched total come back in one round trip via $facet; the total
// is flattened onto each document so the store decodes a flat shape.
func appendPagination(pl mongo.Pipeline, p Params) mongo.Pipeline {
	if !p.WithTotal {
		if p.Skip > 0 {
			pl = append(pl, bson.D{{Key: "$skip", Value: p.Skip}})
		}
		if p.Limit > 0 {
			pl = append(pl, bson.D{{Key: "$limit", Value: p.Limit}})
		}
		return pl
	}

	page := bson.A{}
	if p.Skip > 0 {
		page = append(page, bson.M{"$skip": p.Skip})
	}
	if p.Limit > 0 {
		page = append(page, bson.M{"$limit": p.Limit})
	}

	pl = append(pl,
		bson.D{{Key: "$facet", Value: bson.M{
			"totalCount":       bson.A{bson.M{"$count": "count"}},
			"paginatedResults": page,
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$totalCount",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$paginatedResults"}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"paginatedResults." + TotalCountField: "$totalCount.count",
		}}},
		bson.D{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$paginatedResults"}}},
	)
	return pl
}

// Count builds a pipeline that resolves to a single {count: N} document,
// for endpoints that need only the matched total.
func Count(p Params) mongo.Pipeline {
	p.WithTotal = false
	p.Skip, p.Limit = 0, 0
	pl := assemble(p, filters.ApplicationPaths)
	return append(pl, bson.D{{Key: "$count", Value: "count"}})
}

// CountLeads is Count for the lead-rooted pipeline.
func CountLeads(p Params) mongo.Pipeline {
	p.WithTotal = false
	p.Skip, p.Limit = 0, 0
	pl := Leads(p)
	return append(pl, bson.D{{Key: "$count", Value: "count"}})
}

func payload(p Params) models.FilterPayload {
	if p.Filters == nil {
		return models.FilterPayload{}
	}
	return *p.Filters
}

func objectIDs(ids []primitive.ObjectID) []any {
	if len(ids) == 0 {
		return nil
	}
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
