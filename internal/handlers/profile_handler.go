package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/orbitview-api/internal/domain/profile"
	"github.com/gravadigital/orbitview-api/internal/services"
)

// ProfileHandler serves achievements, projects and the career timeline
type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// ListAchievements handles GET /api/achievements
func (h *ProfileHandler) ListAchievements(c *gin.Context) {
	list(c, h.profiles.ListAchievements, row[profile.Achievement])
}

// GetAchievement handles GET /api/achievements/:id
func (h *ProfileHandler) GetAchievement(c *gin.Context) {
	get(c, h.profiles.GetAchievement, same[*profile.Achievement])
}

// CreateAchievement handles POST /api/achievements
func (h *ProfileHandler) CreateAchievement(c *gin.Context) {
	create(c, h.profiles.CreateAchievement, same[*profile.Achievement], "Achievement created")
}

// UpdateAchievement handles PATCH /api/achievements/:id
func (h *ProfileHandler) UpdateAchievement(c *gin.Context) {
	update(c, h.profiles.UpdateAchievement, same[*profile.Achievement])
}

// DeleteAchievement handles DELETE /api/achievements/:id
func (h *ProfileHandler) DeleteAchievement(c *gin.Context) {
	remove(c, h.profiles.DeleteAchievement, "Achievement deleted")
}

// ListProjects handles GET /api/projects. Only the projects the viewer may
// read are listed and counted.
func (h *ProfileHandler) ListProjects(c *gin.Context) {
	list(c, h.profiles.ListProjects, services.NewProjectView)
}

// GetProject handles GET /api/projects/:id
func (h *ProfileHandler) GetProject(c *gin.Context) {
	get(c, h.profiles.GetProject, services.NewProjectView)
}

// CreateProject handles POST /api/projects
func (h *ProfileHandler) CreateProject(c *gin.Context) {
	create(c, h.profiles.CreateProject, services.NewProjectView, "Project created")
}

// UpdateProject handles PATCH /api/projects/:id
func (h *ProfileHandler) UpdateProject(c *gin.Context) {
	update(c, h.profiles.UpdateProject, services.NewProjectView)
}

// DeleteProject handles DELETE /api/projects/:id
func (h *ProfileHandler) DeleteProject(c *gin.Context) {
	remove(c, h.profiles.DeleteProject, "Project deleted")
}

// ListTimeline handles GET /api/timeline
func (h *ProfileHandler) ListTimeline(c *gin.Context) {
	list(c, h.profiles.ListTimeline, row[profile.CareerTimeline])
}

// GetTimelineEntry handles GET /api/timeline/:id
func (h *ProfileHandler) GetTimelineEntry(c *gin.Context) {
	get(c, h.profiles.GetTimelineEntry, same[*profile.CareerTimeline])
}

// CreateTimelineEntry handles POST /api/timeline
func (h *ProfileHandler) CreateTimelineEntry(c *gin.Context) {
	create(c, h.profiles.CreateTimelineEntry, same[*profile.CareerTimeline], "Timeline entry created")
}

// UpdateTimelineEntry handles PATCH /api/timeline/:id
func (h *ProfileHandler) UpdateTimelineEntry(c *gin.Context) {
	update(c, h.profiles.UpdateTimelineEntry, same[*profile.CareerTimeline])
}

// DeleteTimelineEntry handles DELETE /api/timeline/:id
func (h *ProfileHandler) DeleteTimelineEntry(c *gin.Context) {
	remove(c, h.profiles.DeleteTimelineEntry, "Timeline entry deleted")
}
