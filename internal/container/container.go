package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"psymatch/adapters/excel"
	"psymatch/adapters/postgres"
	"psymatch/app"
	"psymatch/domain/irt"
	"psymatch/internal"
	"psymatch/internal/config"
	"psymatch/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	AssessmentRepo ports.AssessmentRepository
	ItemRepo       ports.ItemRepository
	ItemBankWriter ports.ItemBankWriter
	ScoreRepo      ports.ScoreRepository
	ModelRepo      ports.ModelRepository
	CandidateRepo  ports.CandidateRepository

	// Application services
	Assessments *app.AssessmentService
	Matches     *app.MatchService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.Server.LogLevel)),
	}, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	c.DB = db

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.initRepositories()
	c.initServices()

	c.Logger.Info("container initialized with database connection")
	return nil
}

func (c *Container) initRepositories() {
	itemRepo := postgres.NewItemRepository(c.DB)
	c.AssessmentRepo = postgres.NewAssessmentRepository(c.DB)
	c.ItemRepo = itemRepo
	c.ItemBankWriter = itemRepo
	c.ScoreRepo = postgres.NewScoreRepository(c.DB)
	c.ModelRepo = postgres.NewModelRepository(c.DB)
	c.CandidateRepo = postgres.NewCandidateRepository(c.DB)
}

func (c *Container) initServices() {
	adaptive := irt.Config{
		MinItems:  c.Config.Adaptive.MinItems,
		MaxItems:  c.Config.Adaptive.MaxItems,
		TargetSEM: c.Config.Adaptive.TargetSEM,
	}
	c.Assessments = app.NewAssessmentService(
		c.AssessmentRepo,
		c.ItemRepo,
		c.ScoreRepo,
		c.CandidateRepo,
		adaptive,
		c.Config.Scoring.LikertWeight,
		c.Config.Scoring.AssessmentTTL,
		c.Logger,
	)
	c.Matches = app.NewMatchService(
		c.AssessmentRepo,
		c.ItemRepo,
		c.ScoreRepo,
		c.ModelRepo,
		c.Logger,
	)
}

// ImportItemBank loads the item bank from the configured workbook, if any.
func (c *Container) ImportItemBank(ctx context.Context) error {
	if c.Config.Paths.ItemBankFile == "" {
		return nil
	}
	importer := excel.NewImporter(c.Config.Paths.ItemBankFile, c.ItemBankWriter)
	if err := importer.Import(ctx); err != nil {
		return fmt.Errorf("importing item bank: %w", err)
	}
	c.Logger.Info("imported item bank from %s", c.Config.Paths.ItemBankFile)
	return nil
}

// Close releases container resources
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
