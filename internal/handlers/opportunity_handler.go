package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/opportunity"
	"github.com/gravadigital/orbitview-api/internal/response"
	"github.com/gravadigital/orbitview-api/internal/services"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

// OpportunityHandler serves opportunities and the applications made to them
type OpportunityHandler struct {
	opportunities *services.OpportunityService
}

func NewOpportunityHandler(opportunities *services.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{opportunities: opportunities}
}

// ListOpportunities handles GET /api/opportunities
//
// Query: skills (repeatable slug, any match), type, remote, mine.
func (h *OpportunityHandler) ListOpportunities(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	params, ok := pagination(c)
	if !ok {
		return
	}

	filter := postgres.OpportunityFilter{
		Type: opportunity.Type(strings.ToUpper(c.Query("type"))),
	}
	for _, slug := range c.QueryArray("skills") {
		for _, s := range strings.Split(slug, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Skills = append(filter.Skills, s)
			}
		}
	}
	if filter.Remote, ok = optionalBool(c, "remote"); !ok {
		return
	}
	mine, ok := optionalBool(c, "mine")
	if !ok {
		return
	}
	filter.Mine = mine != nil && *mine

	page, err := h.opportunities.ListOpportunities(c.Request.Context(), me, filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// GetOpportunity handles GET /api/opportunities/:id
func (h *OpportunityHandler) GetOpportunity(c *gin.Context) {
	get(c, h.opportunities.GetOpportunity, same[*opportunity.Opportunity])
}

// CreateOpportunity handles POST /api/opportunities
func (h *OpportunityHandler) CreateOpportunity(c *gin.Context) {
	create(c, h.opportunities.CreateOpportunity, same[*opportunity.Opportunity], "Opportunity posted")
}

// UpdateOpportunity handles PATCH /api/opportunities/:id
func (h *OpportunityHandler) UpdateOpportunity(c *gin.Context) {
	update(c, h.opportunities.UpdateOpportunity, same[*opportunity.Opportunity])
}

// DeleteOpportunity handles DELETE /api/opportunities/:id
func (h *OpportunityHandler) DeleteOpportunity(c *gin.Context) {
	remove(c, h.opportunities.DeleteOpportunity, "Opportunity deleted")
}

// Apply handles POST /api/opportunities/:id/apply. The body is optional.
func (h *OpportunityHandler) Apply(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req services.ApplyRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	app, err := h.opportunities.Apply(c.Request.Context(), me, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Application submitted", app)
}

// ListApplications handles GET /api/applications
//
// Lists what the viewer applied to and what was sent to their postings.
// Query: opportunity, status.
func (h *OpportunityHandler) ListApplications(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	params, ok := pagination(c)
	if !ok {
		return
	}

	var filter postgres.ApplicationFilter
	if raw := c.Query("opportunity"); raw != "" {
		id, ok := parseID(c, "opportunity", raw)
		if !ok {
			return
		}
		filter.OpportunityID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, valid := opportunity.StatusFromString(raw)
		if !valid {
			response.Error(c, apperr.Validation("invalid status: "+raw))
			return
		}
		filter.Status = &status
	}

	page, err := h.opportunities.ListApplications(c.Request.Context(), me, filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// GetApplication handles GET /api/applications/:id
func (h *OpportunityHandler) GetApplication(c *gin.Context) {
	get(c, h.opportunities.GetApplication, same[*opportunity.Application])
}

// CreateApplication handles POST /api/applications
func (h *OpportunityHandler) CreateApplication(c *gin.Context) {
	create(c, h.opportunities.CreateApplication, same[*opportunity.Application], "Application submitted")
}

// UpdateApplication handles PATCH /api/applications/:id. Only the poster of
// the opportunity may change the status.
func (h *OpportunityHandler) UpdateApplication(c *gin.Context) {
	update(c, h.opportunities.UpdateApplication, same[*opportunity.Application])
}

// WithdrawApplication handles DELETE /api/applications/:id
func (h *OpportunityHandler) WithdrawApplication(c *gin.Context) {
	remove(c, h.opportunities.WithdrawApplication, "Application withdrawn")
}
