package reaction

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/user"
)

// Kind is the reaction a user leaves on a target
type Kind string

const (
	Like    Kind = "LIKE"
	Dislike Kind = "DISLIKE"
)

func (k Kind) Valid() bool {
	return k == Like || k == Dislike
}

// TargetType tags the resource a reaction points at
type TargetType string

const (
	TargetProject             TargetType = "project"
	TargetAchievement         TargetType = "achievement"
	TargetCareerTimeline      TargetType = "career_timeline"
	TargetOpportunity         TargetType = "opportunity"
	TargetEvent               TargetType = "event"
	TargetCompetition         TargetType = "competition"
	TargetProgram             TargetType = "program"
	TargetChallengeSubmission TargetType = "challenge_submission"
)

// TargetTypes lists every registered target tag
var TargetTypes = []TargetType{
	TargetProject,
	TargetAchievement,
	TargetCareerTimeline,
	TargetOpportunity,
	TargetEvent,
	TargetCompetition,
	TargetProgram,
	TargetChallengeSubmission,
}

// Scan implements the sql.Scanner interface
func (t *TargetType) Scan(value any) error {
	switch v := value.(type) {
	case string:
		*t = TargetType(v)
	case []byte:
		*t = TargetType(v)
	default:
		return fmt.Errorf("cannot scan %T into TargetType", value)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (t TargetType) Value() (driver.Value, error) {
	return string(t), nil
}

// Target identifies a reactable resource
type Target struct {
	Type TargetType `json:"target_type"`
	ID   uuid.UUID  `json:"target_id"`
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%s", t.Type, t.ID)
}

// Reaction is unique per (user, target_type, target_id)
type Reaction struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reactions_user_target"`
	TargetType TargetType `json:"target_type" gorm:"type:varchar(50);not null;uniqueIndex:idx_reactions_user_target;index:idx_reactions_target"`
	TargetID   uuid.UUID  `json:"target_id" gorm:"type:uuid;not null;uniqueIndex:idx_reactions_user_target;index:idx_reactions_target"`
	Reaction   Kind       `json:"reaction" gorm:"type:varchar(10);not null"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	User *user.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Reaction) TableName() string {
	return "reactions"
}

// BeforeCreate sets a UUID before creating the record
func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewReaction builds a reaction of the given kind
func NewReaction(userID uuid.UUID, target Target, kind Kind) *Reaction {
	return &Reaction{
		ID:         uuid.New(),
		UserID:     userID,
		TargetType: target.Type,
		TargetID:   target.ID,
		Reaction:   kind,
	}
}

// Target returns the (type, id) pair of the reaction
func (r *Reaction) Target() Target {
	return Target{Type: r.TargetType, ID: r.TargetID}
}

// Summary aggregates the reactions on one target
type Summary struct {
	Target   Target `json:"target"`
	Likes    int64  `json:"likes"`
	Dislikes int64  `json:"dislikes"`
	Mine     *Kind  `json:"mine,omitempty"`
}
