package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/career-craft/internal/skillcache"
)

const (
	app       = "career-craft"
	envPrefix = "CAREER_CRAFT"
)

type Config struct {
	AI       *AIConfig       `mapstructure:"ai"`
	Store    *StoreConfig    `mapstructure:"store"`
	Cache    *CacheConfig    `mapstructure:"cache"`
	Advisor  *AdvisorConfig  `mapstructure:"advisor"`
	Document *DocumentConfig `mapstructure:"document"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string        `mapstructure:"api-key" json:"-"`
	APIKeyFile   string        `mapstructure:"api-key-file"`
	Model        string        `mapstructure:"model"`
	MaxRetries   int           `mapstructure:"max-retries"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxLogLength int           `mapstructure:"max-log-length"`
}

type StoreConfig struct {
	// Backend is one of memory, redis, valkey or postgres.
	Backend          string          `mapstructure:"backend"`
	CollectionPrefix string          `mapstructure:"collection-prefix"`
	Redis            *RedisConfig    `mapstructure:"redis"`
	Valkey           *ValkeyConfig   `mapstructure:"valkey"`
	Postgres         *PostgresConfig `mapstructure:"postgres"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password" json:"-"`
	DB       int    `mapstructure:"db"`
}

type ValkeyConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password" json:"-"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn" json:"-"`
}

type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	Collection string        `mapstructure:"collection"`
}

type AdvisorConfig struct {
	StrictMatching bool `mapstructure:"strict-matching"`
}

type DocumentConfig struct {
	UnidocLicenseKey string `mapstructure:"unidoc-license-key" json:"-"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-craft turns skills and resumes into job suggestions, skill gaps and career paths",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-craft.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.timeout", "60s")
	v.SetDefault("ai.gemini.max-log-length", 200)

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.collection-prefix", "")
	v.SetDefault("store.redis.address", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.valkey.address", "localhost:6379")
	v.SetDefault("store.valkey.password", "")
	v.SetDefault("store.postgres.dsn", "")

	v.SetDefault("cache.ttl", skillcache.DefaultTTL.String())
	v.SetDefault("cache.collection", skillcache.DefaultCollection)

	v.SetDefault("advisor.strict-matching", false)
	v.SetDefault("document.unidoc-license-key", "")
}

func initConfig() {
	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// The conventional variable names work without the prefix too.
	viper.BindEnv("ai.gemini.api-key-file", envPrefix+"_AI_GEMINI_API_KEY_FILE", "GEMINI_API_KEY_FILE")
	viper.BindEnv("document.unidoc-license-key", envPrefix+"_DOCUMENT_UNIDOC_LICENSE_KEY", "UNIDOC_LICENSE_API_KEY")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Only an explicitly requested config file is mandatory.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
