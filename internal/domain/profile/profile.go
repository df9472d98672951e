package profile

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/common"
	"github.com/gravadigital/orbitview-api/internal/domain/skill"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
)

// AchievementType classifies an achievement
type AchievementType string

const (
	AchievementCertification AchievementType = "CERT"
	AchievementAward         AchievementType = "AWARD"
	AchievementPublication   AchievementType = "PUBLICATION"
	AchievementPatent        AchievementType = "PATENT"
	AchievementOther         AchievementType = "OTHER"
)

func (t AchievementType) Valid() bool {
	switch t {
	case AchievementCertification, AchievementAward, AchievementPublication, AchievementPatent, AchievementOther:
		return true
	}
	return false
}

// Achievement is a certification, award or publication owned by a user
type Achievement struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Title           string          `json:"title" gorm:"size:200;not null"`
	Description     string          `json:"description" gorm:"type:text;not null"`
	AchievementType AchievementType `json:"achievement_type" gorm:"size:20;not null"`
	DateAchieved    common.Date     `json:"date_achieved" gorm:"not null"`
	Issuer          string          `json:"issuer" gorm:"size:200;not null"`
	VerificationURL *string         `json:"verification_url"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	User   *user.User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Skills []skill.Skill `json:"skills" gorm:"many2many:achievement_skills;"`
}

// TableName overrides the table name used by GORM
func (Achievement) TableName() string {
	return "achievements"
}

// BeforeCreate sets a UUID before creating the record
func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// OwnerID implements common.Owned
func (a *Achievement) OwnerID() uuid.UUID {
	return a.UserID
}

// Validate checks if the achievement data is valid
func (a *Achievement) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	if a.Issuer == "" {
		return fmt.Errorf("issuer is required")
	}
	if !a.AchievementType.Valid() {
		return fmt.Errorf("invalid achievement_type: %s", a.AchievementType)
	}
	if a.DateAchieved.IsZero() {
		return fmt.Errorf("date_achieved is required")
	}
	return nil
}

// Project is a piece of work shown on a profile, readable according to its visibility
type Project struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string       `json:"title" gorm:"size:200;not null"`
	Description string       `json:"description" gorm:"type:text;not null"`
	StartDate   common.Date  `json:"start_date" gorm:"not null"`
	EndDate     *common.Date `json:"end_date"`
	IsOngoing   bool         `json:"is_ongoing" gorm:"not null;default:false"`
	Visibility  Visibility   `json:"visibility" gorm:"type:varchar(20);not null;index"`
	GithubURL   *string      `json:"github_url"`
	LiveURL     *string      `json:"live_url"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"autoUpdateTime"`

	User          *user.User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Skills        []skill.Skill `json:"skills" gorm:"many2many:project_skills;"`
	Collaborators []user.User   `json:"-" gorm:"many2many:project_collaborators;"`
}

// TableName overrides the table name used by GORM
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate sets a UUID before creating the record
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OwnerID implements common.Owned
func (p *Project) OwnerID() uuid.UUID {
	return p.UserID
}

// CollaboratorIDs returns the ids of the loaded collaborators
func (p *Project) CollaboratorIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Collaborators))
	for _, c := range p.Collaborators {
		ids = append(ids, c.ID)
	}
	return ids
}

// IsCollaborator checks if the given user collaborates on this project
func (p *Project) IsCollaborator(userID uuid.UUID) bool {
	return slices.Contains(p.CollaboratorIDs(), userID)
}

// Validate checks if the project data is valid
func (p *Project) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("start_date is required")
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate.Time) {
		return fmt.Errorf("end_date must be after start_date")
	}
	if p.IsOngoing && p.EndDate != nil {
		return fmt.Errorf("an ongoing project cannot have an end_date")
	}
	return nil
}

// CareerTimeline is a work, education or volunteering entry
type CareerTimeline struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Title         string         `json:"title" gorm:"size:200;not null"`
	Organization  string         `json:"organization" gorm:"size:200;not null"`
	Description   string         `json:"description" gorm:"type:text;not null"`
	StartDate     common.Date    `json:"start_date" gorm:"not null"`
	EndDate       *common.Date   `json:"end_date"`
	IsCurrent     bool           `json:"is_current" gorm:"not null;default:false"`
	EntryType     string         `json:"entry_type" gorm:"size:50;not null"`
	ImpactMetrics datatypes.JSON `json:"impact_metrics" gorm:"type:jsonb"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	User   *user.User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Skills []skill.Skill `json:"skills" gorm:"many2many:timeline_skills;"`
}

// TableName overrides the table name used by GORM
func (CareerTimeline) TableName() string {
	return "career_timeline"
}

// BeforeCreate sets a UUID before creating the record
func (c *CareerTimeline) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// OwnerID implements common.Owned
func (c *CareerTimeline) OwnerID() uuid.UUID {
	return c.UserID
}

// Validate checks if the timeline entry is valid
func (c *CareerTimeline) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	if c.Organization == "" {
		return fmt.Errorf("organization is required")
	}
	if c.EntryType == "" {
		return fmt.Errorf("entry_type is required")
	}
	if c.StartDate.IsZero() {
		return fmt.Errorf("start_date is required")
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate.Time) {
		return fmt.Errorf("end_date must be after start_date")
	}
	if len(c.ImpactMetrics) > 0 {
		var metrics map[string]any
		if err := json.Unmarshal(c.ImpactMetrics, &metrics); err != nil {
			return fmt.Errorf("impact_metrics must be a JSON object")
		}
	}
	return nil
}
