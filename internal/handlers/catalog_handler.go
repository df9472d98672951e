package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/orbitview-api/internal/domain/catalog"
	"github.com/gravadigital/orbitview-api/internal/response"
	"github.com/gravadigital/orbitview-api/internal/services"
)

// CatalogHandler serves categories, tags, hosts, events, competitions and programs
type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	params, ok := pagination(c)
	if !ok {
		return
	}
	page, err := h.catalog.ListCategories(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// CreateCategory handles POST /api/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Category created", category)
}

// ListTags handles GET /api/tags
func (h *CatalogHandler) ListTags(c *gin.Context) {
	params, ok := pagination(c)
	if !ok {
		return
	}
	page, err := h.catalog.ListTags(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// CreateTag handles POST /api/tags
func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req services.TagRequest
	if !bindJSON(c, &req) {
		return
	}
	tag, err := h.catalog.CreateTag(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Tag created", tag)
}

// Hosts

func (h *CatalogHandler) ListHosts(c *gin.Context) {
	list(c, h.catalog.ListHosts, services.NewHostView)
}

func (h *CatalogHandler) GetHost(c *gin.Context) {
	get(c, h.catalog.GetHost, services.NewHostView)
}

func (h *CatalogHandler) CreateHost(c *gin.Context) {
	create(c, h.catalog.CreateHost, services.NewHostView, "Host created")
}

func (h *CatalogHandler) UpdateHost(c *gin.Context) {
	update(c, h.catalog.UpdateHost, services.NewHostView)
}

func (h *CatalogHandler) DeleteHost(c *gin.Context) {
	remove(c, h.catalog.DeleteHost, "Host deleted")
}

// Events

func (h *CatalogHandler) ListEvents(c *gin.Context) {
	list(c, h.catalog.ListEvents, row[catalog.Event])
}

func (h *CatalogHandler) GetEvent(c *gin.Context) {
	get(c, h.catalog.GetEvent, same[*catalog.Event])
}

func (h *CatalogHandler) CreateEvent(c *gin.Context) {
	create(c, h.catalog.CreateEvent, same[*catalog.Event], "Event created")
}

func (h *CatalogHandler) UpdateEvent(c *gin.Context) {
	update(c, h.catalog.UpdateEvent, same[*catalog.Event])
}

func (h *CatalogHandler) DeleteEvent(c *gin.Context) {
	remove(c, h.catalog.DeleteEvent, "Event deleted")
}

// Competitions

func (h *CatalogHandler) ListCompetitions(c *gin.Context) {
	list(c, h.catalog.ListCompetitions, row[catalog.Competition])
}

func (h *CatalogHandler) GetCompetition(c *gin.Context) {
	get(c, h.catalog.GetCompetition, same[*catalog.Competition])
}

func (h *CatalogHandler) CreateCompetition(c *gin.Context) {
	create(c, h.catalog.CreateCompetition, same[*catalog.Competition], "Competition created")
}

func (h *CatalogHandler) UpdateCompetition(c *gin.Context) {
	update(c, h.catalog.UpdateCompetition, same[*catalog.Competition])
}

func (h *CatalogHandler) DeleteCompetition(c *gin.Context) {
	remove(c, h.catalog.DeleteCompetition, "Competition deleted")
}

// Programs

func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	list(c, h.catalog.ListPrograms, row[catalog.Program])
}

func (h *CatalogHandler) GetProgram(c *gin.Context) {
	get(c, h.catalog.GetProgram, same[*catalog.Program])
}

func (h *CatalogHandler) CreateProgram(c *gin.Context) {
	create(c, h.catalog.CreateProgram, same[*catalog.Program], "Program created")
}

func (h *CatalogHandler) UpdateProgram(c *gin.Context) {
	update(c, h.catalog.UpdateProgram, same[*catalog.Program])
}

func (h *CatalogHandler) DeleteProgram(c *gin.Context) {
	remove(c, h.catalog.DeleteProgram, "Program deleted")
}
