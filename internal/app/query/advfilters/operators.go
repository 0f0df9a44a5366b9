// internal/app/query/advfilters/operators.go
package advfilters

import (
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Operator names accepted in advance-filter payloads. Several aliases
// exist because different front-end versions sent different labels.
const (
	OpIsNull             = "Is Null"
	OpIsBlank            = "Is Blank"
	OpIsNotBlank         = "Is Not Blank"
	OpEqual              = "Equal"
	OpIs                 = "Is"
	OpIsEqualTo          = "Is Equal To"
	OpNotEqual           = "Not Equal"
	OpNotEqualTo         = "Not Equal To"
	OpBetween            = "Between"
	OpGreaterThan        = "Greater Than"
	OpGreaterThanEqualTo = "Greater Than Equal To"
	OpSmallerThan        = "Smaller Than"
	OpSmallerThanEqualTo = "Smaller Than Equal To"
	OpAfter              = "After"
	OpBefore             = "Before"
)

var titleCaser = cases.Title(language.English)

// compileOperator builds the predicate for one routed filter option.
// Unusable combinations (missing values, unparseable dates) compile to
// nil: malformed filters narrow to nothing rather than erroring.
func compileOperator(field string, r route, operator string, value any) bson.M {
	switch canonicalOperator(operator) {
	case OpIsNull:
		return bson.M{field: bson.M{"$exists": false}}
	case OpIsNotBlank:
		return bson.M{field: bson.M{"$exists": true}}
	case OpEqual:
		if r.Kind == KindDate {
			return dayBoundPredicate(field, value, "is")
		}
		return equalityPredicate(field, r, value, false)
	case OpNotEqual:
		return equalityPredicate(field, r, value, true)
	case OpBetween:
		return betweenPredicate(field, r, value)
	case OpGreaterThan:
		return comparisonPredicate(field, r, value, "$gt")
	case OpGreaterThanEqualTo:
		return comparisonPredicate(field, r, value, "$gte")
	case OpSmallerThan:
		return comparisonPredicate(field, r, value, "$lt")
	case OpSmallerThanEqualTo:
		return comparisonPredicate(field, r, value, "$lte")
	case OpAfter:
		return dayBoundPredicate(field, value, "after")
	case OpBefore:
		return dayBoundPredicate(field, value, "before")
	default:
		return nil
	}
}

// canonicalOperator folds the operator aliases onto one name per
// semantic. Unknown operators pass through (and compile to nil later).
func canonicalOperator(op string) string {
	switch strings.TrimSpace(op) {
	case OpIsNull, OpIsBlank:
		return OpIsNull
	case OpEqual, OpIs, OpIsEqualTo:
		return OpEqual
	case OpNotEqual, OpNotEqualTo:
		return OpNotEqual
	default:
		return strings.TrimSpace(op)
	}
}

// equalityPredicate builds equality or membership, negated when neq is
// set. Single values compare directly; lists become $in/$nin.
func equalityPredicate(field string, r route, value any, neq bool) bson.M {
	vals := coerceList(r, value)
	if len(vals) == 0 {
		return nil
	}

	frag := func(v any) bson.M {
		if neq {
			return bson.M{field: bson.M{"$ne": v}}
		}
		return bson.M{field: v}
	}

	if len(vals) == 1 {
		eq := frag(vals[0])
		return withPercentageGate(field, r, eq)
	}
	op := "$in"
	if neq {
		op = "$nin"
	}
	return withPercentageGate(field, r, bson.M{field: bson.M{op: vals}})
}

// betweenPredicate builds the [low, high) range. The value is a two
// element list; percentage-gated fields additionally require the
// Percentage marking scheme.
func betweenPredicate(field string, r route, value any) bson.M {
	bounds := asList(value)
	if len(bounds) != 2 {
		return nil
	}

	if r.Kind == KindDate {
		low, ok1 := parseDate(bounds[0])
		high, ok2 := parseDate(bounds[1])
		if !ok1 || !ok2 {
			return nil
		}
		return bson.M{field: bson.M{"$gte": low, "$lt": high}}
	}

	low, ok1 := asNumber(bounds[0])
	high, ok2 := asNumber(bounds[1])
	if !ok1 || !ok2 {
		return nil
	}
	return withPercentageGate(field, r, bson.M{field: bson.M{"$gte": low, "$lt": high}})
}

// comparisonPredicate builds a single-sided numeric or date comparison.
func comparisonPredicate(field string, r route, value any, op string) bson.M {
	if r.Kind == KindDate {
		d, ok := parseDate(value)
		if !ok {
			return nil
		}
		return bson.M{field: bson.M{op: d}}
	}
	n, ok := asNumber(value)
	if !ok {
		return nil
	}
	return withPercentageGate(field, r, bson.M{field: bson.M{op: n}})
}

// dayBoundPredicate handles the date operators:
//
//	is     → within the named day            [day, day+1)
//	after  → strictly after the named day    >= day+1
//	before → up to and including the day     < day+1
func dayBoundPredicate(field string, value any, mode string) bson.M {
	d, ok := parseDate(value)
	if !ok {
		return nil
	}
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	next := day.Add(24 * time.Hour)

	switch mode {
	case "is":
		return bson.M{field: bson.M{"$gte": day, "$lt": next}}
	case "after":
		return bson.M{field: bson.M{"$gte": next}}
	case "before":
		return bson.M{field: bson.M{"$lt": next}}
	default:
		return nil
	}
}

// withPercentageGate adds the marking-scheme guard for gated fields.
// The scheme field lives next to the marks field in the same
// sub-document.
func withPercentageGate(field string, r route, frag bson.M) bson.M {
	if !r.PercentageGated || frag == nil {
		return frag
	}
	schemeField := strings.TrimSuffix(field, "obtained_cgpa") + "marking_scheme"
	gated := bson.M{schemeField: models.MarkingSchemePercentage}
	for k, v := range frag {
		gated[k] = v
	}
	return gated
}

// coerceList normalizes a value to a slice with the route's kind applied
// to each element. Elements that fail coercion are dropped.
func coerceList(r route, value any) []any {
	var out []any
	for _, v := range asList(value) {
		if cv, ok := coerce(r, v); ok {
			out = append(out, cv)
		}
	}
	return out
}

func coerce(r route, v any) (any, bool) {
	switch r.Kind {
	case KindUpper:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		return strings.ToUpper(strings.TrimSpace(s)), true
	case KindTitle:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		return titleCaser.String(strings.TrimSpace(s)), true
	case KindNumber:
		return asNumberAny(v)
	case KindBool:
		switch b := v.(type) {
		case bool:
			return b, true
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			return parsed, err == nil
		}
		return nil, false
	case KindDate:
		d, ok := parseDate(v)
		return d, ok
	case KindObjectID:
		s, ok := v.(string)
		if !ok {
			if id, isID := v.(primitive.ObjectID); isID {
				return id, true
			}
			return nil, false
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, false
		}
		return id, true
	default:
		return v, true
	}
}

// asList wraps scalars in a one-element slice and passes slices through.
func asList(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case bson.A:
		return []any(v)
	default:
		return []any{value}
	}
}

func asNumber(v any) (float64, bool) {
	n, ok := asNumberAny(v)
	if !ok {
		return 0, false
	}
	return n.(float64), true
}

func asNumberAny(v any) (any, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	default:
		return nil, false
	}
}

// parseDate accepts time.Time values or "2006-01-02" / RFC3339 strings.
func parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC(), true
	case primitive.DateTime:
		return d.Time().UTC(), true
	case string:
		s := strings.TrimSpace(d)
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.UTC(), true
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC(), true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
