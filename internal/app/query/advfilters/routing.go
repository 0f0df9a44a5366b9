// internal/app/query/advfilters/routing.go
//
// The field routing table maps logical field names used in advance-filter
// payloads onto concrete field paths and collection scopes. Keeping this
// a closed static table (instead of chained string comparisons) makes the
// mapping exhaustively testable and prevents silent fallthrough when a
// new field is added.
package advfilters

import (
	"strings"

	"github.com/dalemusser/admitflow/internal/app/query/filters"
	"github.com/dalemusser/admitflow/internal/app/system/constants"
)

// Scope names which joined sub-document a field lives in.
type Scope int

const (
	ScopeStudent Scope = iota
	ScopeApplication
	ScopeSecondary
	ScopeFollowUp
	ScopeCourse
)

// Kind tells the compiler how to coerce values for a field.
type Kind int

const (
	KindString Kind = iota
	KindUpper      // upper-cased before comparison (state codes)
	KindTitle      // title-cased before comparison (city names)
	KindNumber
	KindBool
	KindDate
	KindObjectID
)

// route resolves a logical field to its storage location.
type route struct {
	Scope Scope
	Path  string // relative to the scope's sub-document
	Kind  Kind

	// PercentageGated marks numeric fields whose comparisons only apply
	// under the Percentage marking scheme.
	PercentageGated bool
}

// Special field names compiled by bespoke logic rather than the generic
// operator table.
const (
	fieldUTMMedium        = "utm medium"
	fieldSourceType       = "source type"
	fieldProgram          = "program"
	fieldFormFillingStage = "form filling stage"
)

// fieldRoutes is the closed routing table. Lookups are case-insensitive.
// Fields not present here fall back to the filter option's own
// collection_field_name/collection_name pair.
var fieldRoutes = map[string]route{
	"state":          {Scope: ScopeStudent, Path: "address.state", Kind: KindUpper},
	"city":           {Scope: ScopeStudent, Path: "address.city", Kind: KindTitle},
	"gender":         {Scope: ScopeStudent, Path: "gender"},
	"category":       {Scope: ScopeStudent, Path: "category"},
	"email":          {Scope: ScopeStudent, Path: "email"},
	"mobile":         {Scope: ScopeStudent, Path: "mobile"},
	"lead type":      {Scope: ScopeStudent, Path: "source.primary_source.lead_type"},
	"utm source":     {Scope: ScopeStudent, Path: "source.primary_source.utm_source"},
	"utm campaign":   {Scope: ScopeStudent, Path: "source.primary_source.utm_campaign"},
	"annual income":  {Scope: ScopeStudent, Path: "annual_income", Kind: KindNumber},
	"is verify":      {Scope: ScopeStudent, Path: "is_verify", Kind: KindBool},
	"tags":           {Scope: ScopeStudent, Path: "tags"},
	"enquiry date":   {Scope: ScopeApplication, Path: "enquiry_date", Kind: KindDate},
	"payment date":   {Scope: ScopeApplication, Path: "payment_info.created_at", Kind: KindDate},
	"payment status": {Scope: ScopeApplication, Path: "payment_info.status"},
	"counselor":      {Scope: ScopeApplication, Path: "counselor_id", Kind: KindObjectID},
	"declaration":    {Scope: ScopeApplication, Path: "declaration", Kind: KindBool},
	"dv status":      {Scope: ScopeApplication, Path: "dv_status"},
	"current stage":  {Scope: ScopeApplication, Path: "current_stage", Kind: KindNumber},
	"lead stage":     {Scope: ScopeFollowUp, Path: "lead_stage"},
	"12th board":     {Scope: ScopeSecondary, Path: "inter.board"},
	"12th marks":     {Scope: ScopeSecondary, Path: "inter.obtained_cgpa", Kind: KindNumber, PercentageGated: true},
	"10th board":     {Scope: ScopeSecondary, Path: "tenth.board"},
	"10th marks":     {Scope: ScopeSecondary, Path: "tenth.obtained_cgpa", Kind: KindNumber, PercentageGated: true},
	"course name":    {Scope: ScopeCourse, Path: "course_name"},
}

// lookupRoute resolves the logical field name, falling back to the
// caller-supplied collection mapping when the table has no entry.
func lookupRoute(fieldName, collectionFieldName, collectionName string) (route, bool) {
	if r, ok := fieldRoutes[strings.ToLower(strings.TrimSpace(fieldName))]; ok {
		return r, true
	}
	if collectionFieldName == "" {
		return route{}, false
	}
	r := route{Scope: scopeForCollection(collectionName), Path: collectionFieldName}
	// Fallback fields carry no type information, so the boolean
	// allowlist decides which ones coerce loose string values.
	if constants.IsBoolField(collectionFieldName) {
		r.Kind = KindBool
	}
	return r, true
}

// scopeForCollection maps a caller-supplied collection name onto a scope.
// Unknown collections default to the student document.
func scopeForCollection(name string) Scope {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "applications", "application":
		return ScopeApplication
	case "secondary_educations", "secondary":
		return ScopeSecondary
	case "lead_followups", "followups":
		return ScopeFollowUp
	case "courses", "course":
		return ScopeCourse
	default:
		return ScopeStudent
	}
}

// prefixFor returns the pipeline path prefix for a scope.
func prefixFor(s Scope, p filters.Paths) string {
	switch s {
	case ScopeApplication:
		return p.Application
	case ScopeSecondary:
		return p.Secondary
	case ScopeFollowUp:
		return p.FollowUp
	case ScopeCourse:
		return p.Course
	default:
		return p.Student
	}
}
