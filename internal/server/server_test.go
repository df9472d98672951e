package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/config"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/middleware/auth"
	"github.com/gravadigital/orbitview-api/internal/middleware/ratelimit"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

const secret = "server-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitializeWithWriter(io.Discard, "error")
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = "0"
	cfg.Auth.JWTSecret = secret
	cfg.RateLimit.Writes = 10
	cfg.RateLimit.Window = time.Minute
	cfg.CORS.AllowOrigins = "http://localhost:3000"
	cfg.CORS.AllowMethods = "GET,POST,PATCH,DELETE"
	cfg.CORS.AllowHeaders = "Authorization,Content-Type"
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), postgres.GormConfig(false))
	require.NoError(t, err)

	router, err := New(cfg, postgres.NewContainerWithDB(db), ratelimit.NewMemoryLimiter()).Router()
	require.NoError(t, err)
	return router, mock
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPingAndHealth(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	w := serve(router, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
	assert.Contains(t, w.Body.String(), `"open_connections"`)
}

func TestAPI_RequiresBearerToken(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	for _, path := range []string{"/api/users/me", "/api/projects", "/api/reactions/summary"} {
		w := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAPI_ProvisionsUserOnFirstRequest(t *testing.T) {
	router, mock := newTestRouter(t, testConfig())
	id := uuid.New()

	token, err := auth.Sign(secret, "", id, "ada", "ada@example.com", time.Hour)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(id.String(), "ada", "ada@example.com"))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data struct {
			ID       uuid.UUID `json:"id"`
			Username string    `json:"username"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, id, body.Data.ID)
	assert.Equal(t, "ada", body.Data.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCORS(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := serve(router, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RequiresSecret(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), postgres.GormConfig(false))
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Auth.JWTSecret = ""
	_, err = New(cfg, postgres.NewContainerWithDB(db), nil).Router()
	assert.Error(t, err)
}
