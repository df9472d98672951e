package catalog

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/user"
)

// Category groups events and competitions
type Category struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title string    `json:"title" gorm:"size:250;uniqueIndex;not null"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// SkillTag labels competitions
type SkillTag struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
}

func (SkillTag) TableName() string {
	return "skill_tags"
}

func (t *SkillTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Host is an organization that runs events and programs
type Host struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:250;not null"`
	Slogan    string    `json:"slogan" gorm:"size:250"`
	Bio       string    `json:"bio" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Administrators []user.User `json:"-" gorm:"many2many:host_administrators;"`
}

func (Host) TableName() string {
	return "hosts"
}

func (h *Host) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// IsAdministrator checks if the given user administers this host
func (h *Host) IsAdministrator(userID uuid.UUID) bool {
	return slices.ContainsFunc(h.Administrators, func(u user.User) bool {
		return u.ID == userID
	})
}

func (h *Host) Validate() error {
	if h.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// Event is a dated gathering run by a host
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"size:250;not null"`
	Description string    `json:"description" gorm:"type:text"`
	HostID      uuid.UUID `json:"host" gorm:"type:uuid;not null;index"`
	URL         string    `json:"url" gorm:"size:500"`
	Location    string    `json:"location" gorm:"size:250"`
	StartTime   time.Time `json:"start_time" gorm:"not null"`
	EndTime     time.Time `json:"end_time" gorm:"not null"`

	Host       *Host      `json:"-" gorm:"foreignKey:HostID;constraint:OnDelete:CASCADE"`
	Categories []Category `json:"categories" gorm:"many2many:event_categories;"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Event) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	if e.HostID == uuid.Nil {
		return fmt.Errorf("host is required")
	}
	if e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	return nil
}

// Difficulty of a competition
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Competition accepts challenge submissions between its start and end dates
type Competition struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title           string     `json:"title" gorm:"size:250;not null"`
	Description     string     `json:"description" gorm:"type:text"`
	Organizer       string     `json:"organizer" gorm:"size:250"`
	URL             string     `json:"url" gorm:"size:500"`
	DifficultyLevel Difficulty `json:"difficulty_level" gorm:"size:20;not null;default:'beginner'"`
	StartDate       time.Time  `json:"start_date" gorm:"not null"`
	EndDate         time.Time  `json:"end_date" gorm:"not null"`
	CreatedByID     uuid.UUID  `json:"created_by" gorm:"type:uuid;not null;index"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	Past            bool       `json:"past" gorm:"-"`

	CreatedBy  *user.User `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	Tags       []SkillTag `json:"tags" gorm:"many2many:competition_tags;"`
	Categories []Category `json:"categories" gorm:"many2many:competition_categories;"`
}

func (Competition) TableName() string {
	return "competitions"
}

func (c *Competition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.DifficultyLevel == "" {
		c.DifficultyLevel = DifficultyBeginner
	}
	return nil
}

// AfterFind derives Past from the end date
func (c *Competition) AfterFind(tx *gorm.DB) error {
	c.Past = c.IsPast(time.Now())
	return nil
}

// IsPast reports whether the competition has ended at the given time
func (c *Competition) IsPast(now time.Time) bool {
	return now.After(c.EndDate)
}

func (c *Competition) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	if c.DifficultyLevel != "" && !c.DifficultyLevel.Valid() {
		return fmt.Errorf("invalid difficulty_level: %s", c.DifficultyLevel)
	}
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("end_date must be after start_date")
	}
	return nil
}

// Program is a long-running offering by a host
type Program struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title               string    `json:"title" gorm:"size:250;not null"`
	Description         string    `json:"description" gorm:"type:text"`
	HostID              uuid.UUID `json:"host" gorm:"type:uuid;not null;index"`
	URL                 string    `json:"url" gorm:"size:500"`
	DurationDescription string    `json:"duration_description" gorm:"size:250"`

	Host *Host `json:"-" gorm:"foreignKey:HostID;constraint:OnDelete:CASCADE"`
}

func (Program) TableName() string {
	return "programs"
}

func (p *Program) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Program) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	if p.HostID == uuid.Nil {
		return fmt.Errorf("host is required")
	}
	return nil
}
