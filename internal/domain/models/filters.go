// internal/domain/models/filters.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// FilterPayload is the normal-filter payload accepted by the list/search
// endpoints and stored on scholarships. Every field is optional; the query
// compiler turns present fields into pipeline fragments.
type FilterPayload struct {
	State            []string             `bson:"state,omitempty" json:"state,omitempty"`
	City             []string             `bson:"city,omitempty" json:"city,omitempty"`
	Gender           []string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Category         []string             `bson:"category,omitempty" json:"category,omitempty"`
	CounselorIDs     []primitive.ObjectID `bson:"counselor_ids,omitempty" json:"counselor_ids,omitempty"`
	IsVerify         *bool                `bson:"is_verify,omitempty" json:"is_verify,omitempty"`
	SourceNames      []string             `bson:"source_names,omitempty" json:"source_names,omitempty"`
	SourceType       []string             `bson:"source_type,omitempty" json:"source_type,omitempty"` // primary | secondary | tertiary
	UTMMedium        []string             `bson:"utm_medium,omitempty" json:"utm_medium,omitempty"`
	UTMCampaign      []string             `bson:"utm_campaign,omitempty" json:"utm_campaign,omitempty"`
	LeadType         []string             `bson:"lead_type,omitempty" json:"lead_type,omitempty"`
	LeadStage        []string             `bson:"lead_stage,omitempty" json:"lead_stage,omitempty"`
	PaymentStatus    []string             `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
	FormFillingStage []string             `bson:"form_filling_stage,omitempty" json:"form_filling_stage,omitempty"` // 10th | 12th | Declaration
	TwelveBoard      []string             `bson:"twelve_board,omitempty" json:"twelve_board,omitempty"`
	TwelveMarks      []string             `bson:"twelve_marks,omitempty" json:"twelve_marks,omitempty"` // literal or "low-high"
	AnnualIncome     []string             `bson:"annual_income,omitempty" json:"annual_income,omitempty"`
	CourseIDs        []primitive.ObjectID `bson:"course_ids,omitempty" json:"course_ids,omitempty"`
	SpecNames        []string             `bson:"spec_names,omitempty" json:"spec_names,omitempty"`
	ExtraFields      []ExtraField         `bson:"extra_fields,omitempty" json:"extra_fields,omitempty"`
}

// Advance-filter block conditions.
const (
	ConditionAND = "AND"
	ConditionOR  = "OR"
)

// FilterBlock is one advance-filter block: its own filter options combined
// by BlockCondition, and ConditionBetweenBlock saying how the block folds
// into the running combination of all previous blocks.
type FilterBlock struct {
	BlockCondition        string         `bson:"block_condition" json:"block_condition"` // AND | OR
	FilterOptions         []FilterOption `bson:"filter_options,omitempty" json:"filter_options,omitempty"`
	ConditionBetweenBlock string         `bson:"condition_between_block,omitempty" json:"condition_between_block,omitempty"` // AND | OR
}

// FilterOption is one field/operator/value triple inside a block.
// FieldName is a logical name routed through the compiler's field table;
// unrouted fields fall back to CollectionFieldName/CollectionName supplied
// directly by the caller.
type FilterOption struct {
	FieldName           string `bson:"field_name" json:"field_name"`
	Operator            string `bson:"operator" json:"operator"`
	Value               any    `bson:"value,omitempty" json:"value,omitempty"`
	CollectionFieldName string `bson:"collection_field_name,omitempty" json:"collection_field_name,omitempty"`
	CollectionName      string `bson:"collection_name,omitempty" json:"collection_name,omitempty"`
}
