package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/orbitview-api/internal/response"
	"github.com/gravadigital/orbitview-api/internal/services"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

// SkillHandler serves the skill catalog and the skills users claim
type SkillHandler struct {
	skills *services.SkillService
}

func NewSkillHandler(skills *services.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// ListSkills handles GET /api/skills
func (h *SkillHandler) ListSkills(c *gin.Context) {
	params, ok := pagination(c)
	if !ok {
		return
	}
	filter := postgres.SkillFilter{Category: c.Query("category"), Search: c.Query("search")}

	page, err := h.skills.ListSkills(c.Request.Context(), filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// CreateSkill handles POST /api/skills
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	var req services.CreateSkillRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.skills.CreateSkill(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Skill created", s)
}

// GetSkill handles GET /api/skills/:slug
func (h *SkillHandler) GetSkill(c *gin.Context) {
	s, err := h.skills.GetSkill(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, s)
}

// ListUserSkills handles GET /api/user-skills
func (h *SkillHandler) ListUserSkills(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	params, ok := pagination(c)
	if !ok {
		return
	}

	page, err := h.skills.ListUserSkills(c.Request.Context(), me, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// GetUserSkill handles GET /api/user-skills/:id
func (h *SkillHandler) GetUserSkill(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	us, err := h.skills.GetUserSkill(c.Request.Context(), me, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, us)
}

// CreateUserSkill handles POST /api/user-skills
func (h *SkillHandler) CreateUserSkill(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	var req services.CreateUserSkillRequest
	if !bindJSON(c, &req) {
		return
	}

	us, err := h.skills.CreateUserSkill(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Skill added to profile", us)
}

// UpdateUserSkill handles PATCH /api/user-skills/:id
func (h *SkillHandler) UpdateUserSkill(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.UpdateUserSkillRequest
	if !bindJSON(c, &req) {
		return
	}

	us, err := h.skills.UpdateUserSkill(c.Request.Context(), me, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, us)
}

// DeleteUserSkill handles DELETE /api/user-skills/:id
func (h *SkillHandler) DeleteUserSkill(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.skills.DeleteUserSkill(c.Request.Context(), me, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c, "Skill removed from profile")
}

// VerifyUserSkill handles POST /api/user-skills/:id/verify
func (h *SkillHandler) VerifyUserSkill(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	us, err := h.skills.VerifyUserSkill(c.Request.Context(), me, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Skill verified", us)
}
