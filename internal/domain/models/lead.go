// internal/domain/models/lead.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead is the primary record for a prospective student. One document per
// person; applications reference it by ID. Leads are never hard-deleted;
// unsubscribing sets IsExcluded instead.
type Lead struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CollegeID   primitive.ObjectID `bson:"college_id" json:"college_id"`
	FirstName   string             `bson:"first_name" json:"first_name"`
	MiddleName  string             `bson:"middle_name,omitempty" json:"middle_name,omitempty"`
	LastName    string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	FullNameCI  string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email       string             `bson:"email" json:"email"`
	CountryCode string             `bson:"country_code,omitempty" json:"country_code,omitempty"`
	Mobile      string             `bson:"mobile" json:"mobile"`

	Gender   string `bson:"gender,omitempty" json:"gender,omitempty"`
	Category string `bson:"category,omitempty" json:"category,omitempty"` // SC | ST | OBC | General

	// Verification flags. IsVerify is the overall flag; the channel flags
	// record which side actually confirmed.
	IsVerify       *bool `bson:"is_verify,omitempty" json:"is_verify,omitempty"`
	IsEmailVerify  bool  `bson:"is_email_verify" json:"is_email_verify"`
	IsMobileVerify bool  `bson:"is_mobile_verify" json:"is_mobile_verify"`

	Address *Address `bson:"address,omitempty" json:"address,omitempty"`

	// Acquisition attribution. Primary is set on first contact; secondary
	// and tertiary capture later touches from different campaigns.
	Source *LeadSource `bson:"source,omitempty" json:"source,omitempty"`

	CounselorID   *primitive.ObjectID `bson:"counselor_id,omitempty" json:"counselor_id,omitempty"`
	CounselorName string              `bson:"counselor_name,omitempty" json:"counselor_name,omitempty"`

	Tags        []string     `bson:"tags,omitempty" json:"tags,omitempty"`
	ExtraFields []ExtraField `bson:"extra_fields,omitempty" json:"extra_fields,omitempty"`

	AnnualIncome *int64 `bson:"annual_income,omitempty" json:"annual_income,omitempty"`

	IsExcluded bool `bson:"is_excluded" json:"is_excluded"` // unsubscribed from outreach

	EnquiryDate time.Time `bson:"enquiry_date" json:"enquiry_date"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// Address holds the lead's postal address. State is stored as the
// two-letter state code; City is stored title-cased.
type Address struct {
	AddressLine string `bson:"address_line,omitempty" json:"address_line,omitempty"`
	City        string `bson:"city,omitempty" json:"city,omitempty"`
	State       string `bson:"state,omitempty" json:"state,omitempty"`
	Country     string `bson:"country,omitempty" json:"country,omitempty"`
	Pincode     string `bson:"pincode,omitempty" json:"pincode,omitempty"`
}

// LeadSource carries up to three levels of UTM attribution.
type LeadSource struct {
	Primary   *UTMSource `bson:"primary_source,omitempty" json:"primary_source,omitempty"`
	Secondary *UTMSource `bson:"secondary_source,omitempty" json:"secondary_source,omitempty"`
	Tertiary  *UTMSource `bson:"tertiary_source,omitempty" json:"tertiary_source,omitempty"`
}

// UTMSource is one attribution touch.
type UTMSource struct {
	UTMSource   string `bson:"utm_source,omitempty" json:"utm_source,omitempty"`
	UTMMedium   string `bson:"utm_medium,omitempty" json:"utm_medium,omitempty"`
	UTMCampaign string `bson:"utm_campaign,omitempty" json:"utm_campaign,omitempty"`
	LeadType    string `bson:"lead_type,omitempty" json:"lead_type,omitempty"` // api | online | offline
}

// ExtraField is a schema-less key/value attached to a lead by intake forms.
type ExtraField struct {
	Key   string `bson:"key" json:"key"`
	Value string `bson:"value" json:"value"`
}

// FullName joins the name parts with single spaces.
func (l Lead) FullName() string {
	name := l.FirstName
	if l.MiddleName != "" {
		name += " " + l.MiddleName
	}
	if l.LastName != "" {
		name += " " + l.LastName
	}
	return name
}
