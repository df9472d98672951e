package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitializeWithWriter(io.Discard, "error")
	os.Exit(m.Run())
}

func TestStatusOf(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation:          http.StatusBadRequest,
		apperr.KindInvalidTarget:       http.StatusBadRequest,
		apperr.KindAlreadyInState:      http.StatusBadRequest,
		apperr.KindDuplicateConstraint: http.StatusBadRequest,
		apperr.KindUnauthenticated:     http.StatusUnauthorized,
		apperr.KindPermissionDenied:    http.StatusForbidden,
		apperr.KindNotFound:            http.StatusNotFound,
		apperr.KindRateLimited:         http.StatusTooManyRequests,
		apperr.KindInternal:            http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, StatusOf(kind), kind)
	}
}

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return w
}

func TestError(t *testing.T) {
	w := serve(func(c *gin.Context) { Error(c, apperr.PermissionDenied("only the poster can change the status")) })
	require.Equal(t, http.StatusForbidden, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "only the poster can change the status", body.Error)
	assert.Equal(t, "permission_denied", body.Kind)
	assert.Equal(t, http.StatusForbidden, body.Code)
}

func TestError_HidesInternalCause(t *testing.T) {
	w := serve(func(c *gin.Context) { Error(c, errors.New("pq: connection refused")) })
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestCreatedAndDeleted(t *testing.T) {
	w := serve(func(c *gin.Context) { Created(c, "Skill created", gin.H{"slug": "go"}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Skill created","data":{"slug":"go"}}`, w.Body.String())

	w = serve(func(c *gin.Context) { Deleted(c, "Project deleted") })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Project deleted"}`, w.Body.String())
}
