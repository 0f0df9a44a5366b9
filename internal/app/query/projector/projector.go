// internal/app/query/projector/projector.go
//
// Package projector turns raw pipeline output into display rows. All
// label derivation (verification, payment, program, state) lives here so
// the API and the CSV export render identically.
package projector

import (
	"strings"
	"time"

	"github.com/dalemusser/admitflow/internal/app/system/constants"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Verification display labels.
const (
	LabelUnverified     = "Unverified"
	LabelVerifiedBoth   = "Lead Verified by Email and Sms"
	LabelVerifiedEither = "Lead Verified by Email or Sms"
	LabelUntouched      = "Untouched"
)

// Payment display labels for applications with no gateway status.
const (
	LabelPaymentNotStarted = "Not Started"
	LabelPaymentStarted    = "Started"
)

var titleCaser = cases.Title(language.English)

// ApplicationDoc is the decode target for application-rooted pipelines.
type ApplicationDoc struct {
	models.Application `bson:",inline"`

	Student   models.Lead                `bson:"student"`
	Secondary *models.SecondaryEducation `bson:"secondary,omitempty"`
	FollowUp  *models.LeadFollowUp       `bson:"followup,omitempty"`
	Course    *models.Course             `bson:"course,omitempty"`

	TotalCount *int64 `bson:"total_count,omitempty"`
}

// LeadDoc is the decode target for lead-rooted pipelines.
type LeadDoc struct {
	models.Lead `bson:",inline"`

	Application models.Application         `bson:"application"`
	Secondary   *models.SecondaryEducation `bson:"secondary,omitempty"`
	FollowUp    *models.LeadFollowUp       `bson:"followup,omitempty"`
	Course      *models.Course             `bson:"course,omitempty"`

	TotalCount *int64 `bson:"total_count,omitempty"`
}

// ApplicationRow is the shaped record returned by list endpoints and
// written to CSV exports.
type ApplicationRow struct {
	ID           primitive.ObjectID `json:"id"`
	StudentID    primitive.ObjectID `json:"student_id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Mobile       string             `json:"mobile"`
	Gender       string             `json:"gender,omitempty"`
	Category     string             `json:"category,omitempty"`
	State        string             `json:"state,omitempty"`
	City         string             `json:"city,omitempty"`
	Program      string             `json:"program,omitempty"`
	Counselor    string             `json:"counselor,omitempty"`
	LeadStage    string             `json:"lead_stage,omitempty"`
	Verification string             `json:"verification"`
	Payment      string             `json:"payment"`
	DVStatus     string             `json:"dv_status,omitempty"`
	Stage        float64            `json:"current_stage"`
	Scholarship  string             `json:"scholarship,omitempty"`
	EnquiryDate  time.Time          `json:"enquiry_date"`
}

// ProjectApplication shapes one application pipeline document.
func ProjectApplication(doc ApplicationDoc) ApplicationRow {
	row := ApplicationRow{
		ID:           doc.Application.ID,
		StudentID:    doc.Student.ID,
		Name:         doc.Student.FullName(),
		Email:        doc.Student.Email,
		Mobile:       doc.Student.Mobile,
		Gender:       doc.Student.Gender,
		Category:     doc.Student.Category,
		Counselor:    doc.Application.CounselorName,
		Verification: VerificationLabel(doc.Student),
		Payment:      PaymentLabel(doc.Application),
		DVStatus:     doc.Application.DVStatus,
		Stage:        doc.Application.CurrentStage,
		EnquiryDate:  doc.Application.EnquiryDate,
	}
	if doc.Student.Address != nil {
		row.State = StateDisplay(doc.Student.Address.State)
		row.City = doc.Student.Address.City
	}
	if doc.Course != nil {
		row.Program = ProgramDisplay(doc.Course.Name, doc.Application.SpecName)
	}
	if doc.FollowUp != nil {
		row.LeadStage = doc.FollowUp.LeadStage
	}
	if doc.Application.Scholarship != nil {
		row.Scholarship = doc.Application.Scholarship.ScholarshipName
	}
	return row
}

// ProjectLead shapes one lead pipeline document onto the same row type;
// lead views and application views share columns.
func ProjectLead(doc LeadDoc) ApplicationRow {
	app := ApplicationDoc{
		Application: doc.Application,
		Student:     doc.Lead,
		Secondary:   doc.Secondary,
		FollowUp:    doc.FollowUp,
		Course:      doc.Course,
	}
	return ProjectApplication(app)
}

// VerificationLabel derives the verification display label. An explicit
// false on the overall flag wins over the channel flags; with no explicit
// flag, the channel flags decide; a lead no channel has confirmed is
// untouched rather than unverified.
func VerificationLabel(lead models.Lead) string {
	if lead.IsVerify != nil && !*lead.IsVerify {
		return LabelUnverified
	}
	switch {
	case lead.IsEmailVerify && lead.IsMobileVerify:
		return LabelVerifiedBoth
	case lead.IsEmailVerify || lead.IsMobileVerify:
		return LabelVerifiedEither
	default:
		return LabelUntouched
	}
}

// PaymentLabel derives the payment display label. Gateway statuses are
// shown title-cased; without one, the initiation flag decides.
func PaymentLabel(app models.Application) string {
	if app.PaymentInfo != nil && app.PaymentInfo.Status != "" {
		return titleCaser.String(app.PaymentInfo.Status)
	}
	if app.PaymentInitiated {
		return LabelPaymentStarted
	}
	return LabelPaymentNotStarted
}

// ProgramDisplay renders the course/specialization pair. Degree courses
// read as "Master of X" / "Bachelor of X"; everything else as "Course in
// X". Without a specialization the course name stands alone.
func ProgramDisplay(courseName, specName string) string {
	if specName == "" {
		return courseName
	}
	words := strings.Fields(courseName)
	if len(words) == 0 {
		return specName
	}
	first := strings.ToLower(words[0])
	if first == "master" || first == "bachelor" {
		return courseName + " of " + specName
	}
	return courseName + " in " + specName
}

// StateDisplay resolves a stored state code to its display name. Unknown
// codes render as stored.
func StateDisplay(code string) string {
	if name, ok := constants.StateName(strings.ToUpper(code)); ok {
		return name
	}
	return code
}

// CSVHeader is the column order for exports.
func CSVHeader() []string {
	return []string{
		"Name", "Email", "Mobile", "Gender", "Category", "State", "City",
		"Program", "Counselor", "Lead Stage", "Verification", "Payment",
		"DV Status", "Scholarship", "Enquiry Date",
	}
}

// CSVRecord renders one row in CSVHeader order.
func CSVRecord(row ApplicationRow) []string {
	return []string{
		row.Name, row.Email, row.Mobile, row.Gender, row.Category,
		row.State, row.City, row.Program, row.Counselor, row.LeadStage,
		row.Verification, row.Payment, row.DVStatus, row.Scholarship,
		row.EnquiryDate.Format("2006-01-02"),
	}
}

// Total extracts the flattened facet total from the first document of a
// page, falling back to the page length when the facet was empty.
func Total(docs []ApplicationDoc) int64 {
	if len(docs) > 0 && docs[0].TotalCount != nil {
		return *docs[0].TotalCount
	}
	return int64(len(docs))
}

// TotalLeads mirrors Total for lead-rooted pages.
func TotalLeads(docs []LeadDoc) int64 {
	if len(docs) > 0 && docs[0].TotalCount != nil {
		return *docs[0].TotalCount
	}
	return int64(len(docs))
}
