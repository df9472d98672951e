package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/orbitview-api/internal/config"
	"github.com/gravadigital/orbitview-api/internal/handlers"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/middleware/auth"
	"github.com/gravadigital/orbitview-api/internal/middleware/events"
	"github.com/gravadigital/orbitview-api/internal/middleware/ratelimit"
	"github.com/gravadigital/orbitview-api/internal/response"
	"github.com/gravadigital/orbitview-api/internal/services"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	repos      postgres.RepositoryContainer
	limiter    ratelimit.Limiter
}

// New creates a new server instance
func New(cfg *config.Config, repos postgres.RepositoryContainer, limiter ratelimit.Limiter) *Server {
	return &Server{
		config:  cfg,
		repos:   repos,
		limiter: limiter,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router, err := s.Router()
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		// Timeouts seguros según estándares de Go
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router configures the HTTP router with middleware and routes
func (s *Server) Router() (*gin.Engine, error) {
	// Configurar Gin
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware básico
	router.Use(events.CreateEvent())
	router.Use(gin.Recovery())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	origins := config.SplitList(s.config.CORS.AllowOrigins)
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = config.SplitList(s.config.CORS.AllowMethods)
	corsConfig.AllowHeaders = config.SplitList(s.config.CORS.AllowHeaders)
	corsConfig.ExposeHeaders = []string{events.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Inicializar servicios
	svc := services.New(s.repos)

	authMiddleware, err := auth.New(s.config.Auth.JWTSecret, s.config.Auth.JWTIssuer, svc.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to configure authentication: %w", err)
	}

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "OrbitView API is running",
			"status":  "healthy",
		})
	})
	router.GET("/health", s.health)

	// API routes
	api := router.Group("/api", authMiddleware.Authenticate())
	s.setupAPIRoutes(api, svc)

	return router, nil
}

// health reports the database status and pool metrics
func (s *Server) health(c *gin.Context) {
	if err := s.repos.Health(); err != nil {
		response.ErrorResponseWithMessage(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	data := gin.H{"status": "healthy", "database": "up"}
	if m, ok := s.repos.(interface{ Metrics() *postgres.DatabaseMetrics }); ok {
		data["connections"] = m.Metrics()
	}
	response.OK(c, data)
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(api *gin.RouterGroup, svc *services.Services) {
	// Inicializar handlers
	userHandler := handlers.NewUserHandler(svc.Users)
	skillHandler := handlers.NewSkillHandler(svc.Skills)
	profileHandler := handlers.NewProfileHandler(svc.Profiles)
	opportunityHandler := handlers.NewOpportunityHandler(svc.Opportunities)
	reactionHandler := handlers.NewReactionHandler(svc.Reactions)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog)
	submissionHandler := handlers.NewSubmissionHandler(svc.Submissions)

	limit := func(scope string) gin.HandlerFunc {
		return ratelimit.Middleware(s.limiter, scope, s.config.RateLimit.Writes, s.config.RateLimit.Window)
	}

	users := api.Group("/users")
	{
		users.GET("/me", userHandler.GetMe)
		users.PATCH("/me", userHandler.UpdateMe)
	}

	skills := api.Group("/skills")
	{
		skills.GET("", skillHandler.ListSkills)
		skills.POST("", skillHandler.CreateSkill)
		skills.GET("/:slug", skillHandler.GetSkill)
	}

	userSkills := api.Group("/user-skills")
	{
		userSkills.GET("", skillHandler.ListUserSkills)
		userSkills.POST("", skillHandler.CreateUserSkill)
		userSkills.GET("/:id", skillHandler.GetUserSkill)
		userSkills.PATCH("/:id", skillHandler.UpdateUserSkill)
		userSkills.DELETE("/:id", skillHandler.DeleteUserSkill)
		userSkills.POST("/:id/verify", limit("verify"), skillHandler.VerifyUserSkill)
	}

	achievements := api.Group("/achievements")
	{
		achievements.GET("", profileHandler.ListAchievements)
		achievements.POST("", profileHandler.CreateAchievement)
		achievements.GET("/:id", profileHandler.GetAchievement)
		achievements.PATCH("/:id", profileHandler.UpdateAchievement)
		achievements.DELETE("/:id", profileHandler.DeleteAchievement)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", profileHandler.ListProjects)
		projects.POST("", profileHandler.CreateProject)
		projects.GET("/:id", profileHandler.GetProject)
		projects.PATCH("/:id", profileHandler.UpdateProject)
		projects.DELETE("/:id", profileHandler.DeleteProject)
	}

	timeline := api.Group("/timeline")
	{
		timeline.GET("", profileHandler.ListTimeline)
		timeline.POST("", profileHandler.CreateTimelineEntry)
		timeline.GET("/:id", profileHandler.GetTimelineEntry)
		timeline.PATCH("/:id", profileHandler.UpdateTimelineEntry)
		timeline.DELETE("/:id", profileHandler.DeleteTimelineEntry)
	}

	opportunities := api.Group("/opportunities")
	{
		opportunities.GET("", opportunityHandler.ListOpportunities)
		opportunities.POST("", opportunityHandler.CreateOpportunity)
		opportunities.GET("/:id", opportunityHandler.GetOpportunity)
		opportunities.PATCH("/:id", opportunityHandler.UpdateOpportunity)
		opportunities.DELETE("/:id", opportunityHandler.DeleteOpportunity)
		opportunities.POST("/:id/apply", limit("apply"), opportunityHandler.Apply)
	}

	applications := api.Group("/applications")
	{
		applications.GET("", opportunityHandler.ListApplications)
		applications.POST("", limit("apply"), opportunityHandler.CreateApplication)
		applications.GET("/:id", opportunityHandler.GetApplication)
		applications.PATCH("/:id", opportunityHandler.UpdateApplication)
		applications.DELETE("/:id", opportunityHandler.WithdrawApplication)
	}

	reactions := api.Group("/reactions")
	{
		reactions.POST("", limit("reactions"), reactionHandler.SetReaction)
		reactions.DELETE("", limit("reactions"), reactionHandler.RemoveReaction)
		reactions.GET("/count", reactionHandler.CountReactions)
		reactions.GET("/summary", reactionHandler.Summary)
	}

	api.GET("/categories", catalogHandler.ListCategories)
	api.POST("/categories", catalogHandler.CreateCategory)
	api.GET("/tags", catalogHandler.ListTags)
	api.POST("/tags", catalogHandler.CreateTag)

	hosts := api.Group("/hosts")
	{
		hosts.GET("", catalogHandler.ListHosts)
		hosts.POST("", catalogHandler.CreateHost)
		hosts.GET("/:id", catalogHandler.GetHost)
		hosts.PATCH("/:id", catalogHandler.UpdateHost)
		hosts.DELETE("/:id", catalogHandler.DeleteHost)
	}

	eventRoutes := api.Group("/events")
	{
		eventRoutes.GET("", catalogHandler.ListEvents)
		eventRoutes.POST("", catalogHandler.CreateEvent)
		eventRoutes.GET("/:id", catalogHandler.GetEvent)
		eventRoutes.PATCH("/:id", catalogHandler.UpdateEvent)
		eventRoutes.DELETE("/:id", catalogHandler.DeleteEvent)
	}

	competitions := api.Group("/competitions")
	{
		competitions.GET("", catalogHandler.ListCompetitions)
		competitions.POST("", catalogHandler.CreateCompetition)
		competitions.GET("/:id", catalogHandler.GetCompetition)
		competitions.PATCH("/:id", catalogHandler.UpdateCompetition)
		competitions.DELETE("/:id", catalogHandler.DeleteCompetition)
	}

	programs := api.Group("/programs")
	{
		programs.GET("", catalogHandler.ListPrograms)
		programs.POST("", catalogHandler.CreateProgram)
		programs.GET("/:id", catalogHandler.GetProgram)
		programs.PATCH("/:id", catalogHandler.UpdateProgram)
		programs.DELETE("/:id", catalogHandler.DeleteProgram)
	}

	submissions := api.Group("/submissions")
	{
		submissions.GET("", submissionHandler.ListSubmissions)
		submissions.POST("", submissionHandler.CreateSubmission)
		submissions.GET("/:id", submissionHandler.GetSubmission)
		submissions.PATCH("/:id", submissionHandler.UpdateSubmission)
		submissions.DELETE("/:id", submissionHandler.DeleteSubmission)
	}
}
