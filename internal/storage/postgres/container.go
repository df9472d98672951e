package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/config"
	"github.com/gravadigital/orbitview-api/internal/logger"
)

// RepositoryContainer exposes every repository of the service
type RepositoryContainer interface {
	Users() UserRepository
	Skills() SkillRepository
	UserSkills() UserSkillRepository
	Achievements() AchievementRepository
	Projects() ProjectRepository
	Timeline() TimelineRepository
	Opportunities() OpportunityRepository
	Applications() ApplicationRepository
	Reactions() ReactionRepository
	Categories() CategoryRepository
	Hosts() HostRepository
	Events() EventRepository
	Competitions() CompetitionRepository
	Programs() ProgramRepository
	Submissions() SubmissionRepository
	Health() error
	Close() error
}

// repositories holds one instance of each repository bound to a *gorm.DB
type repositories struct {
	users         *PostgresUserRepository
	skills        *PostgresSkillRepository
	userSkills    *PostgresUserSkillRepository
	achievements  *PostgresAchievementRepository
	projects      *PostgresProjectRepository
	timeline      *PostgresTimelineRepository
	opportunities *PostgresOpportunityRepository
	applications  *PostgresApplicationRepository
	reactions     *PostgresReactionRepository
	categories    *PostgresCategoryRepository
	hosts         *PostgresHostRepository
	events        *PostgresEventRepository
	competitions  *PostgresCompetitionRepository
	programs      *PostgresProgramRepository
	submissions   *PostgresSubmissionRepository
}

func newRepositories(db *gorm.DB) repositories {
	return repositories{
		users:         NewPostgresUserRepository(db),
		skills:        NewPostgresSkillRepository(db),
		userSkills:    NewPostgresUserSkillRepository(db),
		achievements:  NewPostgresAchievementRepository(db),
		projects:      NewPostgresProjectRepository(db),
		timeline:      NewPostgresTimelineRepository(db),
		opportunities: NewPostgresOpportunityRepository(db),
		applications:  NewPostgresApplicationRepository(db),
		reactions:     NewPostgresReactionRepository(db),
		categories:    NewPostgresCategoryRepository(db),
		hosts:         NewPostgresHostRepository(db),
		events:        NewPostgresEventRepository(db),
		competitions:  NewPostgresCompetitionRepository(db),
		programs:      NewPostgresProgramRepository(db),
		submissions:   NewPostgresSubmissionRepository(db),
	}
}

func (r *repositories) Users() UserRepository { return r.users }
func (r *repositories) Skills() SkillRepository { return r.skills }
func (r *repositories) UserSkills() UserSkillRepository { return r.userSkills }
func (r *repositories) Achievements() AchievementRepository { return r.achievements }
func (r *repositories) Projects() ProjectRepository { return r.projects }
func (r *repositories) Timeline() TimelineRepository { return r.timeline }
func (r *repositories) Opportunities() OpportunityRepository { return r.opportunities }
func (r *repositories) Applications() ApplicationRepository { return r.applications }
func (r *repositories) Reactions() ReactionRepository { return r.reactions }
func (r *repositories) Categories() CategoryRepository { return r.categories }
func (r *repositories) Hosts() HostRepository { return r.hosts }
func (r *repositories) Events() EventRepository { return r.events }
func (r *repositories) Competitions() CompetitionRepository { return r.competitions }
func (r *repositories) Programs() ProgramRepository { return r.programs }
func (r *repositories) Submissions() SubmissionRepository { return r.submissions }

// Container implements RepositoryContainer
type Container struct {
	repositories
	db  *gorm.DB
	log *log.Logger
}

// NewContainer connects, migrates and builds every repository
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)
	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		repositories: newRepositories(db),
		db:           db,
		log:          logger.Repository("postgres_container"),
	}
}

// Health pings the database and logs the pool metrics
func (c *Container) Health() error {
	if err := HealthCheck(c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	metrics := GetDatabaseMetrics(c.db)
	c.log.Debug("Database connection metrics",
		"open_connections", metrics.OpenConnections,
		"in_use_connections", metrics.InUseConnections,
		"idle_connections", metrics.IdleConnections)
	return nil
}

// Metrics returns the pool metrics reported by /health
func (c *Container) Metrics() *DatabaseMetrics {
	return GetDatabaseMetrics(c.db)
}

// Close closes the database connection
func (c *Container) Close() error {
	c.log.Info("Closing PostgreSQL repository container...")

	if c.db == nil {
		return nil
	}

	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		c.log.Error("Failed to close database connection", "error", err)
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	if DB == c.db {
		DB = nil
	}
	c.db = nil

	c.log.Info("PostgreSQL repository container closed")
	return nil
}
