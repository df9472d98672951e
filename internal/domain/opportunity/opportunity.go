package opportunity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/skill"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
)

// Type classifies an opportunity
type Type string

const (
	TypeJob        Type = "JOB"
	TypeInternship Type = "INTERNSHIP"
	TypeFreelance  Type = "FREELANCE"
	TypeContract   Type = "CONTRACT"
	TypeOther      Type = "OTHER"
)

func (t Type) Valid() bool {
	switch t {
	case TypeJob, TypeInternship, TypeFreelance, TypeContract, TypeOther:
		return true
	}
	return false
}

// Opportunity is a posting users can apply to
type Opportunity struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title           string     `json:"title" gorm:"size:200;not null"`
	Organization    string     `json:"organization" gorm:"size:200;not null"`
	Description     string     `json:"description" gorm:"type:text;not null"`
	OpportunityType Type       `json:"opportunity_type" gorm:"size:20;not null;index"`
	Location        string     `json:"location" gorm:"size:200"`
	IsRemote        bool       `json:"is_remote" gorm:"not null;default:false"`
	PostedByID      uuid.UUID  `json:"posted_by" gorm:"type:uuid;not null;index"`
	PostedDate      time.Time  `json:"posted_date" gorm:"autoCreateTime"`
	Deadline        *time.Time `json:"deadline"`
	IsActive        bool       `json:"is_active" gorm:"not null;index"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	PostedBy       *user.User    `json:"-" gorm:"foreignKey:PostedByID;constraint:OnDelete:CASCADE"`
	RequiredSkills []skill.Skill `json:"required_skills" gorm:"many2many:opportunity_skills;"`
}

// TableName overrides the table name used by GORM
func (Opportunity) TableName() string {
	return "opportunities"
}

// BeforeCreate sets a UUID before creating the record
func (o *Opportunity) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsPoster checks if the given user posted this opportunity
func (o *Opportunity) IsPoster(userID uuid.UUID) bool {
	return o.PostedByID == userID
}

// AcceptsApplications reports whether the opportunity is active and its deadline has not passed
func (o *Opportunity) AcceptsApplications(now time.Time) bool {
	if !o.IsActive {
		return false
	}
	return o.Deadline == nil || !now.After(*o.Deadline)
}

// Validate checks if the opportunity data is valid
func (o *Opportunity) Validate() error {
	if o.Title == "" {
		return fmt.Errorf("title is required")
	}
	if o.Organization == "" {
		return fmt.Errorf("organization is required")
	}
	if !o.OpportunityType.Valid() {
		return fmt.Errorf("invalid opportunity_type: %s", o.OpportunityType)
	}
	if o.PostedByID == uuid.Nil {
		return fmt.Errorf("posted_by is required")
	}
	return nil
}

// Application is a user's application to an opportunity. Unique per (opportunity, applicant).
type Application struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OpportunityID uuid.UUID `json:"opportunity" gorm:"type:uuid;not null;uniqueIndex:idx_applications_opportunity_applicant"`
	ApplicantID   uuid.UUID `json:"applicant" gorm:"type:uuid;not null;uniqueIndex:idx_applications_opportunity_applicant;index"`
	Status        Status    `json:"status" gorm:"type:varchar(20);not null"`
	AppliedDate   time.Time `json:"applied_date" gorm:"autoCreateTime"`
	Notes         string    `json:"notes" gorm:"type:text"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Opportunity *Opportunity `json:"-" gorm:"foreignKey:OpportunityID;constraint:OnDelete:CASCADE"`
	Applicant   *user.User   `json:"-" gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name used by GORM
func (Application) TableName() string {
	return "applications"
}

// BeforeCreate sets a UUID before creating the record
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// NewApplication creates a pending application
func NewApplication(opportunityID, applicantID uuid.UUID, notes string) *Application {
	return &Application{
		ID:            uuid.New(),
		OpportunityID: opportunityID,
		ApplicantID:   applicantID,
		Status:        StatusPending,
		Notes:         notes,
	}
}

// CanTransitionTo checks if the application can move to a new status.
// REJECTED and ACCEPTED may still be revised by the poster; nothing returns to PENDING.
func (a *Application) CanTransitionTo(newStatus Status) bool {
	if newStatus == a.Status {
		return true
	}
	switch newStatus {
	case StatusReviewing, StatusShortlisted, StatusRejected, StatusAccepted:
		return true
	default:
		return false
	}
}

// UpdateStatus updates the status if the transition is valid
func (a *Application) UpdateStatus(newStatus Status) error {
	if !a.CanTransitionTo(newStatus) {
		return fmt.Errorf("cannot transition from %s to %s", a.Status, newStatus)
	}
	a.Status = newStatus
	return nil
}
