package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/credence/internal/model"
)

const version = "0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "credence",
	Short: "Credence - multi-modal credibility analysis demo",
	Long: `Credence runs a staged credibility analysis over text, image, video,
audio or combined submissions and reports a 0-100 score, a credibility
label, flags and a per-category breakdown, adjusted for a cultural context.

The default score model is randomized and content-agnostic. It is a
demonstration of the analysis flow, not a fact checker.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "credence v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.credence/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".credence"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv maps CREDENCE_* variables onto config keys,
// e.g. CREDENCE_PIPELINE_SINGLE_FLIGHT overrides pipeline.single_flight
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("CREDENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v, model.DefaultConfig())
}

// registerDefaults makes every config key known to viper so env overrides reach Unmarshal
func registerDefaults(v *viper.Viper, cfg *model.Config) {
	defaults := map[string]any{
		"pipeline.min_stage_delay":          cfg.Pipeline.MinStageDelay,
		"pipeline.max_stage_delay":          cfg.Pipeline.MaxStageDelay,
		"pipeline.single_flight":            cfg.Pipeline.SingleFlight,
		"scoring.backend":                   cfg.Scoring.Backend,
		"llm.provider":                      cfg.LLM.Provider,
		"llm.model":                         cfg.LLM.Model,
		"llm.api_key":                       cfg.LLM.APIKey,
		"llm.base_url":                      cfg.LLM.BaseURL,
		"llm.timeout":                       cfg.LLM.Timeout,
		"llm.max_tokens":                    cfg.LLM.MaxTokens,
		"http.timeout":                      cfg.HTTP.Timeout,
		"http.user_agent":                   cfg.HTTP.UserAgent,
		"http.max_body_bytes":               cfg.HTTP.MaxBodyBytes,
		"http.respect_robots":               cfg.HTTP.RespectRobots,
		"http.http_proxy":                   cfg.HTTP.HTTPProxy,
		"http.https_proxy":                  cfg.HTTP.HTTPSProxy,
		"http.allow_private_addresses":      cfg.HTTP.AllowPrivateAddresses,
		"cache.enabled":                     cfg.Cache.Enabled,
		"cache.memory_ttl":                  cfg.Cache.MemoryTTL,
		"cache.dir":                         cfg.Cache.Dir,
		"cache.disk_ttl":                    cfg.Cache.DiskTTL,
		"rate_limiting.requests_per_second": cfg.RateLimiting.RequestsPerSecond,
		"rate_limiting.burst_size":          cfg.RateLimiting.BurstSize,
		"concurrency.workers":               cfg.Concurrency.Workers,
		"server.addr":                       cfg.Server.Addr,
		"server.allowed_origins":            cfg.Server.AllowedOrigins,
		"server.requests_per_second":        cfg.Server.RequestsPerSecond,
		"server.burst":                      cfg.Server.Burst,
		"history.seed_demo":                 cfg.History.SeedDemo,
		"log.mode":                          cfg.Log.Mode,
		"log.level":                         cfg.Log.Level,
	}
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
}

// loadConfig merges defaults, config file, env and bound flags
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = model.DefaultConfig().Log.Level
	}
	return cfg, nil
}
