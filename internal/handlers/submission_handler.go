package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/domain/catalog"
	"github.com/gravadigital/orbitview-api/internal/response"
	"github.com/gravadigital/orbitview-api/internal/services"
)

// SubmissionHandler serves challenge submissions; each user sees their own
type SubmissionHandler struct {
	submissions *services.SubmissionService
}

func NewSubmissionHandler(submissions *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// ListSubmissions handles GET /api/submissions?competition=
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	params, ok := pagination(c)
	if !ok {
		return
	}

	var competitionID *uuid.UUID
	if raw := c.Query("competition"); raw != "" {
		id, ok := parseID(c, "competition", raw)
		if !ok {
			return
		}
		competitionID = &id
	}

	page, err := h.submissions.ListSubmissions(c.Request.Context(), me, competitionID, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	get(c, h.submissions.GetSubmission, same[*catalog.ChallengeSubmission])
}

func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	create(c, h.submissions.CreateSubmission, same[*catalog.ChallengeSubmission], "Submission created")
}

func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	update(c, h.submissions.UpdateSubmission, same[*catalog.ChallengeSubmission])
}

func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	remove(c, h.submissions.DeleteSubmission, "Submission deleted")
}
