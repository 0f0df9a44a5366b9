// internal/app/query/filters/filters.go
//
// Package filters is the filter normalizer: it turns the normal-filter
// payload supplied by API callers into bson fragments for the pipeline
// assembler. Every function here is a pure transformation; fragments are
// returned, never spliced into a shared pipeline, so composition order is
// explicit at the assembly site.
//
// Field paths differ depending on which collection the pipeline is rooted
// at, so every builder takes a Paths value naming the joined sub-document
// prefixes.
package filters

import (
	"strconv"
	"strings"

	"github.com/dalemusser/admitflow/internal/app/system/constants"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Paths holds the field-path prefixes for the joined sub-documents of a
// pipeline. A prefix includes its trailing dot; the root scope is "".
type Paths struct {
	Student     string // lead document
	Application string // application document
	Secondary   string // secondary-education document
	FollowUp    string // lead-followup document
	Course      string // course document
}

// ApplicationPaths are the prefixes for pipelines rooted at the
// applications collection (the "find applications" pipeline).
var ApplicationPaths = Paths{
	Student:     "student.",
	Application: "",
	Secondary:   "secondary.",
	FollowUp:    "followup.",
	Course:      "course.",
}

// LeadPaths are the prefixes for pipelines rooted at the leads collection.
var LeadPaths = Paths{
	Student:     "",
	Application: "application.",
	Secondary:   "secondary.",
	FollowUp:    "followup.",
	Course:      "course.",
}

var titleCaser = cases.Title(language.English)

// State builds a membership predicate on the lead's state code.
// Codes are upper-cased before comparison; the stored value is the code.
func (p Paths) State(values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	codes := make([]string, 0, len(values))
	for _, v := range values {
		codes = append(codes, strings.ToUpper(strings.TrimSpace(v)))
	}
	return bson.M{p.Student + "address.state": bson.M{"$in": codes}}
}

// City builds a membership predicate on the lead's city. City names are
// stored title-cased, so inputs are normalized the same way.
func (p Paths) City(values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, titleCaser.String(strings.TrimSpace(v)))
	}
	return bson.M{p.Student + "address.city": bson.M{"$in": names}}
}

// Gender builds a membership predicate on gender.
func (p Paths) Gender(values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	return bson.M{p.Student + "gender": bson.M{"$in": values}}
}

// Category builds a membership predicate on the reservation category.
func (p Paths) Category(values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	return bson.M{p.Student + "category": bson.M{"$in": values}}
}

// Verification builds the overall-verification predicate. A nil input
// yields no fragment; false matches documents where the flag is false or
// missing (untouched leads count as unverified for filtering).
func (p Paths) Verification(isVerify *bool) bson.M {
	if isVerify == nil {
		return nil
	}
	field := p.Student + "is_verify"
	if *isVerify {
		return bson.M{field: true}
	}
	return bson.M{field: bson.M{"$ne": true}}
}

// SourceType builds the acquisition-source existence predicate: a lead
// matches when any of the named source sub-documents exists (primary,
// secondary, tertiary). Unknown names are skipped.
func (p Paths) SourceType(values []string) bson.M {
	var or []bson.M
	for _, v := range values {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "primary":
			or = append(or, bson.M{p.Student + "source.primary_source": bson.M{"$exists": true}})
		case "secondary":
			or = append(or, bson.M{p.Student + "source.secondary_source": bson.M{"$exists": true}})
		case "tertiary":
			or = append(or, bson.M{p.Student + "source.tertiary_source": bson.M{"$exists": true}})
		}
	}
	if len(or) == 0 {
		return nil
	}
	return bson.M{"$or": or}
}

// SourceNames matches the utm_source of any attribution level.
func (p Paths) SourceNames(values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	return bson.M{"$or": []bson.M{
		{p.Student + "source.primary_source.utm_source": bson.M{"$in": values}},
		{p.Student + "source.secondary_source.utm_source": bson.M{"$in": values}},
		{p.Student + "source.tertiary_source.utm_source": bson.M{"$in": values}},
	}}
}

// UTMMedium matches the primary source's utm_medium.
func (p Paths) UTMMedium(values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	return bson.M{p.Student + "source.primary_source.utm_medium": bson.M{"$in": values}}
}

// UTMCampaign matches the primary source's utm_campaign.
func (p Paths) UTMCampaign(values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	return bson.M{p.Student + "source.primary_source.utm_campaign": bson.M{"$in": values}}
}

// LeadType matches the primary source's lead_type (api/online/offline).
func (p Paths) LeadType(values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	return bson.M{p.Student + "source.primary_source.lead_type": bson.M{"$in": values}}
}

// CounselorIn builds the counselor allocation predicate on applications.
func (p Paths) CounselorIn(ids []any) bson.M {
	if len(ids) == 0 {
		return nil
	}
	return bson.M{p.Application + "counselor_id": bson.M{"$in": ids}}
}

// LeadStage builds the membership predicate on the joined follow-up's
// lead stage.
func (p Paths) LeadStage(values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	return bson.M{p.FollowUp + "lead_stage": bson.M{"$in": values}}
}

// TwelveBoard builds a membership predicate on the 12th-grade board.
func (p Paths) TwelveBoard(values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	return bson.M{p.Secondary + "inter.board": bson.M{"$in": values}}
}

// TwelveMarks builds the 12th-marks predicate. Each value is either a
// literal score or a "low-high" range interpreted as [low, high). Either
// way the predicate only applies under the Percentage marking scheme;
// other schemes never match, whatever their numeric value.
func (p Paths) TwelveMarks(values []string) bson.M {
	marksField := p.Secondary + "inter.obtained_cgpa"
	schemeField := p.Secondary + "inter.marking_scheme"

	var or []bson.M
	for _, v := range values {
		v = strings.TrimSpace(v)
		if low, high, ok := splitRange(v); ok {
			or = append(or, bson.M{
				schemeField: models.MarkingSchemePercentage,
				marksField:  bson.M{"$gte": low, "$lt": high},
			})
			continue
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			or = append(or, bson.M{
				schemeField: models.MarkingSchemePercentage,
				marksField:  n,
			})
		}
	}
	if len(or) == 0 {
		return nil
	}
	return bson.M{"$or": or}
}

// AnnualIncome builds the annual-income predicate; values follow the same
// literal-or-range convention as TwelveMarks.
func (p Paths) AnnualIncome(values []string) bson.M {
	field := p.Student + "annual_income"

	var or []bson.M
	for _, v := range values {
		v = strings.TrimSpace(v)
		if low, high, ok := splitRange(v); ok {
			or = append(or, bson.M{field: bson.M{"$gte": low, "$lt": high}})
			continue
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			or = append(or, bson.M{field: n})
		}
	}
	if len(or) == 0 {
		return nil
	}
	return bson.M{"$or": or}
}

// FormFillingStage builds the form-progress predicate. Each stage value
// maps to its own existence/equality predicate and the selected stages
// are combined with AND: a candidate at "Declaration" has necessarily
// passed the earlier stages.
func (p Paths) FormFillingStage(values []string) bson.M {
	var and []bson.M
	for _, v := range values {
		switch strings.TrimSpace(v) {
		case "10th":
			and = append(and, bson.M{p.Secondary + "tenth": bson.M{"$exists": true}})
		case "12th":
			and = append(and, bson.M{p.Secondary + "inter": bson.M{"$exists": true}})
		case "Declaration":
			and = append(and, bson.M{p.Application + "declaration": true})
		}
	}
	if len(and) == 0 {
		return nil
	}
	return bson.M{"$and": and}
}

// Courses builds the program predicate: course membership plus optional
// specialization membership.
func (p Paths) Courses(courseIDs []any, specNames []string) bson.M {
	frag := bson.M{}
	if len(courseIDs) > 0 {
		frag[p.Application+"course_id"] = bson.M{"$in": courseIDs}
	}
	if len(specNames) > 0 {
		frag[p.Application+"spec_name"] = bson.M{"$in": specNames}
	}
	if len(frag) == 0 {
		return nil
	}
	return frag
}

// ExtraFields matches leads carrying every requested extra key/value.
func (p Paths) ExtraFields(pairs []models.ExtraField) bson.M {
	var and []bson.M
	for _, ef := range pairs {
		and = append(and, bson.M{p.Student + "extra_fields": bson.M{
			"$elemMatch": bson.M{"key": ef.Key, "value": ef.Value},
		}})
	}
	if len(and) == 0 {
		return nil
	}
	return bson.M{"$and": and}
}

// Excluded restricts to non-unsubscribed leads.
func (p Paths) Excluded(include bool) bson.M {
	if include {
		return nil
	}
	return bson.M{p.Student + "is_excluded": bson.M{"$ne": true}}
}

// splitRange parses a "low-high" range string. Returns ok=false for
// anything that is not two numbers joined by a single dash.
func splitRange(s string) (low, high float64, ok bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	low, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	high, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return low, high, true
}

// StateName re-exports the configured state-code lookup for projectors.
func StateName(code string) (string, bool) {
	return constants.StateName(code)
}
