package policy

import (
	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/skill"
)

// CheckVerify decides whether viewer may verify the skill record.
//
// Verification is the one write on a user skill that the owner cannot make.
// An already verified record reports AlreadyInState before anything else, so
// repeating the action never changes fields, whoever calls it.
func CheckVerify(viewer uuid.UUID, us *skill.UserSkill) error {
	if us.IsVerified {
		return apperr.AlreadyInState("skill is already verified")
	}
	if us.OwnerID() == viewer {
		return apperr.PermissionDenied("you cannot verify your own skill")
	}
	return nil
}
