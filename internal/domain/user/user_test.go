package user

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewUser_Placeholders(t *testing.T) {
	id := uuid.New()
	u := NewUser(id, "", "")
	assert.Equal(t, "user-"+id.String()[:8], u.Username)
	assert.Equal(t, id.String()+"@users.orbitview.invalid", u.Email)
}

func TestDisambiguate(t *testing.T) {
	id := uuid.New()

	u := NewUser(id, "alice", "Alice@Example.com")
	u.Disambiguate(true, false)
	assert.Equal(t, "alice-"+id.String()[:8], u.Username)
	assert.Equal(t, "alice@example.com", u.Email)

	u = NewUser(id, "alice", "alice@example.com")
	u.Disambiguate(false, true)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, id.String()+"@users.orbitview.invalid", u.Email)

	u = NewUser(id, strings.Repeat("x", maxUsernameLength), "x@example.com")
	u.Disambiguate(true, false)
	assert.Len(t, u.Username, maxUsernameLength)
	assert.True(t, strings.HasSuffix(u.Username, "-"+id.String()[:8]))
}
