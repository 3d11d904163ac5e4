package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/advisor"
	"github.com/spigell/career-craft/internal/ai"
	"github.com/spigell/career-craft/internal/ai/gemini"
	"github.com/spigell/career-craft/internal/docstore"
	"github.com/spigell/career-craft/internal/document"
	"github.com/spigell/career-craft/internal/logger"
	"github.com/spigell/career-craft/internal/profile"
	"github.com/spigell/career-craft/internal/secrets"
	"github.com/spigell/career-craft/internal/skillcache"
)

// runtime holds everything a command needs. Built once per process.
type runtime struct {
	logger   *zap.Logger
	config   *Config
	store    docstore.Store
	advisor  *advisor.Advisor
	reader   *document.Reader
	profiles *profile.Service
}

// needs selects what setup builds.
type needs struct {
	generator bool
}

// setup builds the runtime or exits. The returned cleanup closes the store.
func setup(ctx context.Context, n needs) (*runtime, func()) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store, err := newStore(ctx, config.Store)
	if err != nil {
		logger.Fatal("opening the document store", zap.Error(err))
	}

	rt := &runtime{
		logger:   logger,
		config:   config,
		store:    store,
		profiles: profile.NewService(store, logger),
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing the document store", zap.Error(err))
		}
		_ = logger.Sync()
	}

	if !n.generator {
		return rt, cleanup
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the generation client",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file in the configuration file"),
		)
	}

	var licenseKey string
	if config.Document != nil {
		licenseKey = config.Document.UnidocLicenseKey
	}

	reader, err := document.NewReader(licenseKey, logger)
	if err != nil {
		logger.Fatal("building the document reader", zap.Error(err))
	}

	rt.reader = reader

	cacheOpts := []skillcache.Option{}
	if config.Cache != nil {
		cacheOpts = append(cacheOpts,
			skillcache.WithTTL(config.Cache.TTL),
			skillcache.WithCollection(config.Cache.Collection),
		)
	}

	advisorOpts := []advisor.Option{advisor.WithDocumentReader(reader)}
	if config.Advisor != nil {
		advisorOpts = append(advisorOpts, advisor.WithStrictMatching(config.Advisor.StrictMatching))
	}
	if config.AI != nil && config.AI.Gemini != nil {
		advisorOpts = append(advisorOpts, advisor.WithMaxLogLength(config.AI.Gemini.MaxLogLength))
	}

	rt.advisor = advisor.New(
		generator,
		skillcache.New(store, logger, cacheOpts...),
		logger,
		advisorOpts...,
	)

	logger.Info("starting the career-craft", zap.String("version", version))

	return rt, cleanup
}

func newStore(ctx context.Context, cfg *StoreConfig) (docstore.Store, error) {
	if cfg == nil {
		cfg = &StoreConfig{}
	}

	var (
		store docstore.Store
		err   error
	)

	switch backend := strings.TrimSpace(strings.ToLower(cfg.Backend)); backend {
	case "", "memory":
		store = docstore.NewMemory()
	case "redis":
		opts := docstore.RedisOptions{}
		if cfg.Redis != nil {
			opts = docstore.RedisOptions{Address: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		}
		store, err = docstore.NewRedis(ctx, opts)
	case "valkey":
		opts := docstore.ValkeyOptions{}
		if cfg.Valkey != nil {
			opts = docstore.ValkeyOptions{Address: cfg.Valkey.Address, Password: cfg.Valkey.Password}
		}
		store, err = docstore.NewValkey(ctx, opts)
	case "postgres":
		if cfg.Postgres == nil || strings.TrimSpace(cfg.Postgres.DSN) == "" {
			return nil, fmt.Errorf("store.postgres.dsn is required for the postgres backend")
		}
		store, err = docstore.NewPostgres(ctx, cfg.Postgres.DSN)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	return docstore.WithPrefix(store, cfg.CollectionPrefix), nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
		Model:        cfg.Gemini.Model,
		MaxRetries:   cfg.Gemini.MaxRetries,
		Timeout:      cfg.Gemini.Timeout,
		MaxLogLength: cfg.Gemini.MaxLogLength,
	}, logger)
	if err != nil {
		return nil, err
	}

	return generator, nil
}

// commandContext is cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// printJSON writes v to stdout. Logs go to stderr, so the output stays parseable.
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// splitList accepts both repeated flags and comma separated values.
func splitList(values []string) []string {
	return advisor.SplitSkills(strings.Join(values, ","))
}
