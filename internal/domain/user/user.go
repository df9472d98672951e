package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/domain/common"
)

// User is a profile owner. Identity and credentials live in the external identity provider;
// this record carries the profile fields and anchors ownership foreign keys.
type User struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Username    string      `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email       string      `json:"email" gorm:"size:345;uniqueIndex;not null"`
	FirstName   string      `json:"first_name" gorm:"size:255"`
	LastName    string      `json:"last_name" gorm:"size:255"`
	DateOfBirth common.Date `json:"date_of_birth"`
	Bio         string      `json:"bio" gorm:"size:250"`
	Website     *string     `json:"website"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate sets a UUID before creating the record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.DateOfBirth.IsZero() {
		u.DateOfBirth = common.NewDate(time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	return nil
}

// NewUser creates the profile row for an identity seen for the first time
func NewUser(id uuid.UUID, username, email string) *User {
	if username == "" {
		username = "user-" + id.String()[:8]
	}
	if email == "" {
		email = placeholderEmail(id)
	}
	return &User{
		ID:       id,
		Username: username,
		Email:    strings.ToLower(email),
	}
}

const maxUsernameLength = 150

func placeholderEmail(id uuid.UUID) string {
	return id.String() + "@users.orbitview.invalid"
}

// Disambiguate rewrites the fields another identity already holds. The
// username keeps its prefix and gains the first block of the id; a taken
// email becomes the placeholder address of this identity.
func (u *User) Disambiguate(usernameTaken, emailTaken bool) {
	if usernameTaken {
		suffix := "-" + u.ID.String()[:8]
		base := u.Username
		if len(base)+len(suffix) > maxUsernameLength {
			base = base[:maxUsernameLength-len(suffix)]
		}
		u.Username = base + suffix
	}
	if emailTaken {
		u.Email = placeholderEmail(u.ID)
	}
}

// FullName mirrors the "first last" display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Summary returns the compact representation used in other resources
func (u *User) Summary() common.UserSummary {
	return common.UserSummary{ID: u.ID, Name: u.FullName(), Email: u.Email}
}

// Validate checks if the user data is valid
func (u *User) Validate() error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("email must have a valid format")
	}
	if len([]rune(u.Bio)) > 250 {
		return fmt.Errorf("bio must be at most 250 characters long")
	}
	return nil
}

func (u *User) String() string {
	return fmt.Sprintf("%s %s : %s : %s", u.FirstName, u.LastName, u.Email, u.Username)
}
