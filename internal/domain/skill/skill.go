package skill

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/user"
)

// Skill is a catalog entry such as "Go (Programming)"
type Skill struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name     string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Category string    `json:"category" gorm:"size:50;not null;index"`
	Slug     string    `json:"slug" gorm:"size:120;uniqueIndex;not null"`
}

// TableName overrides the table name used by GORM
func (Skill) TableName() string {
	return "skills"
}

// BeforeCreate sets a UUID and derives the slug before creating the record
func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Slug == "" {
		s.Slug = Slugify(s.Name)
	}
	return nil
}

func (s *Skill) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Category)
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns a display name into a lower-kebab-case ASCII slug
func Slugify(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case r == '_' || r == '-' || unicode.IsSpace(r):
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Proficiency ranks how well a user knows a skill
type Proficiency int

const (
	Beginner     Proficiency = 1
	Intermediate Proficiency = 2
	Advanced     Proficiency = 3
	Expert       Proficiency = 4
)

func (p Proficiency) Valid() bool {
	return p >= Beginner && p <= Expert
}

func (p Proficiency) String() string {
	switch p {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	case Expert:
		return "Expert"
	default:
		return "Unknown"
	}
}

// UserSkill records a user's proficiency in a skill. Unique per (user, skill).
type UserSkill struct {
	ID              uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_skills_user_skill"`
	SkillID         uuid.UUID   `json:"skill" gorm:"type:uuid;not null;uniqueIndex:idx_user_skills_user_skill"`
	Proficiency     Proficiency `json:"proficiency" gorm:"not null"`
	YearsExperience float64     `json:"years_experience" gorm:"type:decimal(4,1);not null;default:0"`
	IsVerified      bool        `json:"is_verified" gorm:"not null;default:false"`
	VerifiedByID    *uuid.UUID  `json:"verified_by" gorm:"type:uuid"`
	CreatedAt       time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time   `json:"updated_at" gorm:"autoUpdateTime"`

	Skill      Skill      `json:"skill_details" gorm:"foreignKey:SkillID;constraint:OnDelete:CASCADE"`
	User       *user.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	VerifiedBy *user.User `json:"-" gorm:"foreignKey:VerifiedByID;constraint:OnDelete:SET NULL"`
}

// TableName overrides the table name used by GORM
func (UserSkill) TableName() string {
	return "user_skills"
}

// BeforeCreate sets a UUID before creating the record
func (us *UserSkill) BeforeCreate(tx *gorm.DB) error {
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	return nil
}

// OwnerID implements common.Owned
func (us *UserSkill) OwnerID() uuid.UUID {
	return us.UserID
}

// Validate checks if the user skill data is valid
func (us *UserSkill) Validate() error {
	if us.UserID == uuid.Nil {
		return fmt.Errorf("user is required")
	}
	if us.SkillID == uuid.Nil {
		return fmt.Errorf("skill is required")
	}
	if !us.Proficiency.Valid() {
		return fmt.Errorf("proficiency must be between 1 and 4")
	}
	if us.YearsExperience < 0 || us.YearsExperience >= 1000 {
		return fmt.Errorf("years_experience must be between 0 and 999.9")
	}
	return nil
}
