// internal/app/query/advfilters/advfilters.go
//
// Package advfilters compiles advance-filter payloads into a single
// boolean predicate for the pipeline assembler. Each block's options
// combine under the block's own condition; blocks fold into the running
// combination left to right under each block's condition_between_block.
// The left-to-right accumulation is deliberate: swapping it for a flat
// combination would change the boolean grouping callers depend on.
package advfilters

import (
	"strings"

	"github.com/dalemusser/admitflow/internal/app/query/filters"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile turns the block list into one predicate, or nil when nothing
// compiles. Malformed options are skipped, never an error: a filter that
// cannot be compiled narrows the result set to what the remaining
// fragments match.
func Compile(blocks []models.FilterBlock, p filters.Paths) bson.M {
	var acc bson.M
	for _, block := range blocks {
		frag := compileBlock(block, p)
		if frag == nil {
			continue
		}
		if acc == nil {
			acc = frag
			continue
		}
		op := "$and"
		if strings.EqualFold(block.ConditionBetweenBlock, models.ConditionOR) {
			op = "$or"
		}
		acc = bson.M{op: []bson.M{acc, frag}}
	}
	return acc
}

// compileBlock combines one block's options under its block condition.
func compileBlock(block models.FilterBlock, p filters.Paths) bson.M {
	var frags []bson.M
	for _, opt := range block.FilterOptions {
		if frag := compileOption(opt, p); frag != nil {
			frags = append(frags, frag)
		}
	}
	switch len(frags) {
	case 0:
		return nil
	case 1:
		return frags[0]
	}
	op := "$and"
	if strings.EqualFold(block.BlockCondition, models.ConditionOR) {
		op = "$or"
	}
	return bson.M{op: frags}
}

// compileOption routes one option through the field table or one of the
// bespoke compilers.
func compileOption(opt models.FilterOption, p filters.Paths) bson.M {
	switch strings.ToLower(strings.TrimSpace(opt.FieldName)) {
	case fieldUTMMedium:
		return compileUTMMedium(opt, p)
	case fieldSourceType:
		return compileSourceType(opt, p)
	case fieldProgram:
		return compileProgram(opt, p)
	case fieldFormFillingStage:
		return compileFormFillingStage(opt, p)
	}

	r, ok := lookupRoute(opt.FieldName, opt.CollectionFieldName, opt.CollectionName)
	if !ok {
		return nil
	}
	field := prefixFor(r.Scope, p) + r.Path
	return compileOperator(field, r, opt.Operator, opt.Value)
}

// compileUTMMedium matches paired source+medium equality. Values are
// maps carrying utm_source and utm_medium; pairs OR together.
func compileUTMMedium(opt models.FilterOption, p filters.Paths) bson.M {
	var or []bson.M
	for _, v := range asList(opt.Value) {
		pair, ok := asStringMap(v)
		if !ok {
			continue
		}
		source, medium := pair["utm_source"], pair["utm_medium"]
		if source == "" || medium == "" {
			continue
		}
		or = append(or, bson.M{
			p.Student + "source.primary_source.utm_source": source,
			p.Student + "source.primary_source.utm_medium": medium,
		})
	}
	switch len(or) {
	case 0:
		return nil
	case 1:
		return or[0]
	default:
		return bson.M{"$or": or}
	}
}

// compileSourceType matches on which attribution sub-documents exist.
// Unlike the normal filter (which ORs the levels), advance-filter source
// types AND together: the caller is asserting the lead has all of them.
func compileSourceType(opt models.FilterOption, p filters.Paths) bson.M {
	var and []bson.M
	for _, v := range asList(opt.Value) {
		s, ok := v.(string)
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "primary":
			and = append(and, bson.M{p.Student + "source.primary_source": bson.M{"$exists": true}})
		case "secondary":
			and = append(and, bson.M{p.Student + "source.secondary_source": bson.M{"$exists": true}})
		case "tertiary":
			and = append(and, bson.M{p.Student + "source.tertiary_source": bson.M{"$exists": true}})
		}
	}
	switch len(and) {
	case 0:
		return nil
	case 1:
		return and[0]
	default:
		return bson.M{"$and": and}
	}
}

// compileProgram matches course/specialization pairs: AND of course id
// and spec name within a program, OR across the supplied programs.
func compileProgram(opt models.FilterOption, p filters.Paths) bson.M {
	var or []bson.M
	for _, v := range asList(opt.Value) {
		pair, ok := asStringMap(v)
		if !ok {
			continue
		}
		courseID, err := primitive.ObjectIDFromHex(pair["course_id"])
		if err != nil {
			continue
		}
		frag := bson.M{p.Application + "course_id": courseID}
		if spec := pair["spec_name"]; spec != "" {
			frag[p.Application+"spec_name"] = spec
		}
		or = append(or, frag)
	}
	switch len(or) {
	case 0:
		return nil
	case 1:
		return or[0]
	default:
		return bson.M{"$or": or}
	}
}

// compileFormFillingStage ORs the bespoke stage predicates. The advance
// filter asks "is the candidate at any of these stages", unlike the
// normal filter's AND.
func compileFormFillingStage(opt models.FilterOption, p filters.Paths) bson.M {
	var or []bson.M
	for _, v := range asList(opt.Value) {
		s, ok := v.(string)
		if !ok {
			continue
		}
		switch strings.TrimSpace(s) {
		case "10th":
			or = append(or, bson.M{p.Secondary + "tenth": bson.M{"$exists": true}})
		case "12th":
			or = append(or, bson.M{p.Secondary + "inter": bson.M{"$exists": true}})
		case "Declaration":
			or = append(or, bson.M{p.Application + "declaration": true})
		}
	}
	switch len(or) {
	case 0:
		return nil
	case 1:
		return or[0]
	default:
		return bson.M{"$or": or}
	}
}

// ScopesUsed reports which joined sub-documents the blocks reference, so
// the assembler can skip lookups no filter touches.
func ScopesUsed(blocks []models.FilterBlock) map[Scope]bool {
	used := map[Scope]bool{}
	for _, block := range blocks {
		for _, opt := range block.FilterOptions {
			switch strings.ToLower(strings.TrimSpace(opt.FieldName)) {
			case fieldUTMMedium, fieldSourceType:
				used[ScopeStudent] = true
			case fieldProgram:
				used[ScopeApplication] = true
			case fieldFormFillingStage:
				used[ScopeSecondary] = true
				used[ScopeApplication] = true
			default:
				if r, ok := lookupRoute(opt.FieldName, opt.CollectionFieldName, opt.CollectionName); ok {
					used[r.Scope] = true
				}
			}
		}
	}
	return used
}

// asStringMap converts decoded JSON/bson maps to map[string]string,
// dropping non-string values.
func asStringMap(v any) (map[string]string, bool) {
	out := map[string]string{}
	switch m := v.(type) {
	case map[string]any:
		for k, mv := range m {
			if s, ok := mv.(string); ok {
				out[k] = s
			}
		}
	case map[string]string:
		return m, true
	case bson.M:
		for k, mv := range m {
			if s, ok := mv.(string); ok {
				out[k] = s
			}
		}
	case bson.D:
		for _, e := range m {
			if s, ok := e.Value.(string); ok {
				out[e.Key] = s
			}
		}
	default:
		return nil, false
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
