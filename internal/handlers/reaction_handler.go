package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/reaction"
	"github.com/gravadigital/orbitview-api/internal/response"
	"github.com/gravadigital/orbitview-api/internal/services"
)

type ReactionHandler struct {
	reactions *services.ReactionService
}

func NewReactionHandler(reactions *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactions: reactions}
}

// SetReaction handles POST /api/reactions
func (h *ReactionHandler) SetReaction(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	var req services.SetReactionRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Reaction = strings.ToUpper(req.Reaction)

	r, err := h.reactions.SetReaction(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

// RemoveReaction handles DELETE /api/reactions?target_type=&target_id=
func (h *ReactionHandler) RemoveReaction(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	req, ok := targetFromQuery(c)
	if !ok {
		return
	}

	if err := h.reactions.RemoveReaction(c.Request.Context(), me, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c, "Reaction removed")
}

// CountReactions handles GET /api/reactions/count?target_type=&target_id=&reaction=
func (h *ReactionHandler) CountReactions(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	req, ok := targetFromQuery(c)
	if !ok {
		return
	}
	kind := reaction.Kind(strings.ToUpper(c.DefaultQuery("reaction", string(reaction.Like))))

	count, err := h.reactions.Count(c.Request.Context(), me, req, kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"target_type": req.TargetType, "target_id": req.TargetID, "reaction": kind, "count": count})
}

// Summary handles GET /api/reactions/summary?target_type=&target_id=
func (h *ReactionHandler) Summary(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	req, ok := targetFromQuery(c)
	if !ok {
		return
	}

	summary, err := h.reactions.Summary(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// targetFromQuery reads target_type and target_id from the query string
func targetFromQuery(c *gin.Context) (services.TargetRequest, bool) {
	req := services.TargetRequest{TargetType: c.Query("target_type")}
	if req.TargetType == "" {
		response.Error(c, apperr.Validation("target_type is required"))
		return req, false
	}
	if raw := c.Query("target_id"); raw != "" {
		id, ok := parseID(c, "target_id", raw)
		if !ok {
			return req, false
		}
		req.TargetID = id
	}
	return req, true
}
