// Package handlers exposes the services over HTTP. Every handler reads the
// authenticated user once and passes it down as the viewer.
package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/middleware/auth"
	"github.com/gravadigital/orbitview-api/internal/response"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

// bindJSON decodes the body into req and answers 400 on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperr.Validation("invalid request payload: "+err.Error()))
		return false
	}
	return true
}

// pathID parses the :id route parameter
func pathID(c *gin.Context) (uuid.UUID, bool) {
	return parseID(c, "id", c.Param("id"))
}

func parseID(c *gin.Context, field, value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		response.Error(c, apperr.Validation(field+" must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads page and page_size; the repositories apply the defaults
func pagination(c *gin.Context) (postgres.PaginationParams, bool) {
	var params postgres.PaginationParams
	for name, dst := range map[string]*int{"page": &params.Page, "page_size": &params.PageSize} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(c, apperr.Validation(name+" must be a positive integer"))
			return params, false
		}
		*dst = n
	}
	return params, true
}

// optionalBool parses a boolean query parameter that may be absent
func optionalBool(c *gin.Context, name string) (*bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		response.Error(c, apperr.Validation(name+" must be true or false"))
		return nil, false
	}
	return &v, true
}

// mapPage converts the rows of a page, keeping the totals
func mapPage[T, V any](page *postgres.PaginatedResult[T], fn func(*T) V) *postgres.PaginatedResult[V] {
	out := make([]V, 0, len(page.Results))
	for i := range page.Results {
		out = append(out, fn(&page.Results[i]))
	}
	return &postgres.PaginatedResult[V]{
		Results:    out,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// viewer returns the authenticated user, answering 401 when there is none
func viewer(c *gin.Context) (uuid.UUID, bool) {
	id := auth.CurrentUser(c)
	if id == uuid.Nil {
		response.Error(c, apperr.Unauthenticated("authentication required"))
		return uuid.Nil, false
	}
	return id, true
}

// CRUD helpers shared by the plain endpoints

func list[T, V any](c *gin.Context, fn func(context.Context, uuid.UUID, postgres.PaginationParams) (*postgres.PaginatedResult[T], error), view func(*T) V) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	params, ok := pagination(c)
	if !ok {
		return
	}

	page, err := fn(c.Request.Context(), me, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, mapPage(page, view))
}

func get[T, V any](c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) (T, error), view func(T) V) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	rec, err := fn(c.Request.Context(), me, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view(rec))
}

func create[R, T, V any](c *gin.Context, fn func(context.Context, uuid.UUID, R) (T, error), view func(T) V, message string) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	var req R
	if !bindJSON(c, &req) {
		return
	}

	rec, err := fn(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message, view(rec))
}

func update[R, T, V any](c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID, R) (T, error), view func(T) V) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req R
	if !bindJSON(c, &req) {
		return
	}

	rec, err := fn(c.Request.Context(), me, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view(rec))
}

func remove(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) error, message string) {
	me, ok := viewer(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), me, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c, message)
}

// same returns the record unchanged
func same[T any](rec T) T { return rec }

// row is same for list pages
func row[T any](rec *T) T { return *rec }
