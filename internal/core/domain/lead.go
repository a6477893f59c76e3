package domain

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadStatus is the sales pipeline state of a lead.
//
// The upstream product also refers to "contacted" and "qualified" in a few
// places, but those values were never accepted by the validated schema; the
// validated pair below is canonical.
type LeadStatus string

const (
	LeadStatusNew  LeadStatus = "new"
	LeadStatusSold LeadStatus = "sold"
)

func (s LeadStatus) Valid() bool {
	return s == LeadStatusNew || s == LeadStatusSold
}

// LeadSource records how a lead found the dealership.
type LeadSource string

const (
	LeadSourceReference LeadSource = "reference"
	LeadSourceWalkIn    LeadSource = "walk-in"
)

func (s LeadSource) Valid() bool {
	return s == LeadSourceReference || s == LeadSourceWalkIn
}

type Budget struct {
	Min float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max float64 `bson:"max,omitempty" json:"max,omitempty"`
}

// LeadInterest captures what the lead is shopping for, either a concrete car
// from the inventory or a loose make/model/budget description.
type LeadInterest struct {
	Car    *primitive.ObjectID `bson:"car,omitempty" json:"car,omitempty"`
	Make   string              `bson:"make,omitempty" json:"make,omitempty"`
	Model  string              `bson:"model,omitempty" json:"model,omitempty"`
	Year   int                 `bson:"year,omitempty" json:"year,omitempty"`
	Budget Budget              `bson:"budget,omitempty" json:"budget,omitempty"`
}

// LeadNote is a timestamped annotation on a lead. Content and author are both
// mandatory; notes are appended atomically and never edited.
type LeadNote struct {
	Content   string             `bson:"content" json:"content"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Lead is a sales prospect being worked by the dealership.
type Lead struct {
	Model     `bson:",inline"`
	FirstName string `bson:"firstName" json:"firstName" validate:"required"`
	LastName  string `bson:"lastName" json:"lastName" validate:"required"`
	Email     string `bson:"email" json:"email" validate:"required,email"`
	Phone     string `bson:"phone" json:"phone" validate:"required"`

	Status  LeadStatus `bson:"status" json:"status" validate:"omitempty,oneof=new sold"`
	Source  LeadSource `bson:"source" json:"source" validate:"required,oneof=reference walk-in"`
	Service string     `bson:"service" json:"service" validate:"required"`

	Interest *LeadInterest `bson:"interest,omitempty" json:"interest,omitempty"`
	Notes    []LeadNote    `bson:"notes,omitempty" json:"notes,omitempty"`

	AssignedTo       *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	LastContact      *time.Time          `bson:"lastContact,omitempty" json:"lastContact,omitempty"`
	NextFollowUp     *time.Time          `bson:"nextFollowUp,omitempty" json:"nextFollowUp,omitempty"`
	LastStatusChange *time.Time          `bson:"lastStatusChange,omitempty" json:"lastStatusChange,omitempty"`

	Tags              []string       `bson:"tags,omitempty" json:"tags,omitempty"`
	CustomFields      map[string]any `bson:"customFields,omitempty" json:"customFields,omitempty"`
	AdditionalDetails string         `bson:"additionalDetails,omitempty" json:"additionalDetails,omitempty"`

	// Assignee is populated on reads from the assignedTo reference; never stored.
	Assignee *UserSummary `bson:"-" json:"assignee,omitempty"`
}

func (l *Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}

var phonePattern = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)

// ValidPhone checks the lead phone format: optional +, then at least ten
// digits, spaces, or dashes.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail checks the address shape enforced on stored documents. Requests
// bound through validated DTOs are checked by the request validator; this
// guards the map-based partial updates.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

var ErrLeadNotFound = NewNotFound("Lead not found")
