// Package container wires the application's dependencies. Every component
// receives its collaborators through its constructor; the container is the
// only place that knows the concrete graph.
package container

import (
	"context"
	"fmt"
	"time"

	"spendwise/internal/aggregate"
	"spendwise/internal/classify"
	"spendwise/internal/config"
	"spendwise/internal/csvparser"
	"spendwise/internal/export"
	"spendwise/internal/logging"
	"spendwise/internal/store"
	"spendwise/internal/vocab"
)

// Container holds the wired application dependencies. Immutable after
// creation; access goes through getters.
type Container struct {
	logger       logging.Logger
	config       *config.Config
	store        *store.SQLiteStore
	definitions  []vocab.Definition
	parser       *csvparser.Parser
	orchestrator *classify.Orchestrator
	engine       *aggregate.Engine
	exporter     *export.Exporter
}

// NewContainer creates and wires all application dependencies. The context
// bounds external client setup, not the container's lifetime.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLogging(cfg))

	definitions, err := vocab.Load(cfg.VocabPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("load category vocabulary: %w", err)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.DatabasePath(), logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var orchestrator *classify.Orchestrator
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		classifier, err := classify.NewGeminiClassifier(ctx,
			cfg.AI.APIKey,
			cfg.AI.Model,
			time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
			logger)
		if err != nil {
			_ = sqlStore.Close()
			return nil, fmt.Errorf("create classifier: %w", err)
		}
		orchestrator = classify.NewOrchestrator(classifier, sqlStore, definitions, logger,
			classify.WithChunkSize(cfg.AI.ChunkSize))
		logger.Info("AI classification enabled",
			logging.Field{Key: "model", Value: cfg.AI.Model})
	} else {
		logger.Info("AI classification disabled")
	}

	engine := aggregate.NewEngine(cfg.Locale.DayFirst, logger)

	return &Container{
		logger:       logger,
		config:       cfg,
		store:        sqlStore,
		definitions:  definitions,
		parser:       csvparser.NewParser(logger),
		orchestrator: orchestrator,
		engine:       engine,
		exporter:     export.NewExporter(engine, logger),
	}, nil
}

// WithOrchestrator returns a shallow copy of the container using the given
// classification workflow. Command tests substitute an orchestrator backed by
// a scripted classifier through root.SetContainer.
func (c *Container) WithOrchestrator(o *classify.Orchestrator) *Container {
	clone := *c
	clone.orchestrator = o
	return &clone
}

// Logger returns the application logger.
func (c *Container) Logger() logging.Logger {
	return c.logger
}

// Config returns the loaded configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Store returns the persistence backend.
func (c *Container) Store() *store.SQLiteStore {
	return c.store
}

// Definitions returns the category vocabulary.
func (c *Container) Definitions() []vocab.Definition {
	return c.definitions
}

// Parser returns the statement CSV parser.
func (c *Container) Parser() *csvparser.Parser {
	return c.parser
}

// Orchestrator returns the classification workflow, or nil when AI is
// disabled or no API key is configured.
func (c *Container) Orchestrator() *classify.Orchestrator {
	return c.orchestrator
}

// Engine returns the aggregation engine.
func (c *Container) Engine() *aggregate.Engine {
	return c.engine
}

// Exporter returns the spreadsheet/CSV exporter.
func (c *Container) Exporter() *export.Exporter {
	return c.exporter
}

// Close releases container resources.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
