package catalog

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/user"
)

const (
	defaultTitleLength   = 50
	maxDescriptionLength = 5000
	titleAlphabet        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ChallengeSubmission is a user's entry to a competition
type ChallengeSubmission struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	CompetitionID uuid.UUID `json:"competition" gorm:"type:uuid;not null;index"`
	Title         string    `json:"title" gorm:"size:50;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	Link          string    `json:"link" gorm:"size:500"`
	IsVerified    bool      `json:"is_verified" gorm:"not null;default:false"`
	SubmittedAt   time.Time `json:"submitted_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Edited        bool      `json:"edited" gorm:"-"`

	User        *user.User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Competition *Competition `json:"-" gorm:"foreignKey:CompetitionID;constraint:OnDelete:CASCADE"`
}

func (ChallengeSubmission) TableName() string {
	return "challenge_submissions"
}

// BeforeCreate sets a UUID and a random title when none was given
func (s *ChallengeSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Title == "" {
		s.Title = RandomTitle()
	}
	return nil
}

// AfterFind derives Edited from the timestamps
func (s *ChallengeSubmission) AfterFind(tx *gorm.DB) error {
	s.Edited = !s.UpdatedAt.Truncate(time.Second).Equal(s.SubmittedAt.Truncate(time.Second))
	return nil
}

// OwnerID implements common.Owned
func (s *ChallengeSubmission) OwnerID() uuid.UUID {
	return s.UserID
}

func (s *ChallengeSubmission) Validate() error {
	if s.CompetitionID == uuid.Nil {
		return fmt.Errorf("competition is required")
	}
	if len([]rune(s.Title)) > defaultTitleLength {
		return fmt.Errorf("title must be at most %d characters long", defaultTitleLength)
	}
	if len([]rune(s.Description)) > maxDescriptionLength {
		return fmt.Errorf("description must be at most %d characters long", maxDescriptionLength)
	}
	return nil
}

// RandomTitle returns a 50 character alphanumeric placeholder title
func RandomTitle() string {
	b := make([]byte, defaultTitleLength)
	for i := range b {
		b[i] = titleAlphabet[rand.IntN(len(titleAlphabet))]
	}
	return string(b)
}
