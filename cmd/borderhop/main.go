package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/borderhop/client"
	"github.com/persistorai/borderhop/internal/borders"
	"github.com/persistorai/borderhop/internal/config"
	"github.com/persistorai/borderhop/internal/pathfind"
)

// Build-time variables set via ldflags.
var (
	commit    = ""
	buildDate = ""
)

// Flag defaults. resolveConfig treats a flag still at its default as unset.
const (
	defaultAPIURL  = client.DefaultBaseURL
	defaultRate    = borders.DefaultRate
	defaultMaxHops = pathfind.DefaultMaxHops
	defaultTimeout = 10 * time.Second
)

var (
	flagURL      string
	flagFmt      string
	flagRate     float64
	flagMaxHops  int
	flagTimeout  time.Duration
	flagProfile  string
	flagLogLevel string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("borderhop version %s (commit: %s, built: %s)", config.Version, commit, buildDate)
	}
	return fmt.Sprintf("borderhop version %s", config.Version)
}

// profileConfig holds the search settings of a single profile.
type profileConfig struct {
	APIURL  string  `yaml:"api_url,omitempty"`
	Rate    float64 `yaml:"rate,omitempty"`
	MaxHops int     `yaml:"max_hops,omitempty"`
}

// profilesFile is the top-level config file structure.
type profilesFile struct {
	Profiles      map[string]profileConfig `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "borderhop",
		Short:   "borderhop finds the shortest land routes between countries",
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolveConfig()
			return validateFlags()
		},
		SilenceUsage:  true,
		SilenceErrors: true, // reported by reportError
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagURL, "api-url", defaultAPIURL, "REST Countries API base URL (env: BORDERHOP_API_URL)")
	pf.StringVar(&flagFmt, "format", "table", "Output format: json|table|quiet")
	pf.Float64Var(&flagRate, "rate", defaultRate, "Border lookups per second (env: BORDERHOP_RATE)")
	pf.IntVar(&flagMaxHops, "max-hops", defaultMaxHops, "Give up beyond this many border crossings (env: BORDERHOP_MAX_HOPS)")
	pf.DurationVar(&flagTimeout, "timeout", defaultTimeout, "Timeout of each countries API request")
	pf.StringVar(&flagProfile, "profile", "", "Config profile from ~/.borderhop/config.yaml (env: BORDERHOP_PROFILE)")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level for diagnostics on stderr")

	initCmd := newInitCmd()
	initCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil } // writes the config itself

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newRouteCmd())
	rootCmd.AddCommand(newCountriesCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// reportError prints err unless a banner already told the user what failed.
func reportError(w io.Writer, err error) {
	if errors.Is(err, errSearchFailed) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// resolveConfig fills flags left at their defaults: env first, then the
// selected profile of the config file.
func resolveConfig() {
	if flagURL == defaultAPIURL {
		if v := os.Getenv("BORDERHOP_API_URL"); v != "" {
			flagURL = v
		}
	}
	if flagRate == defaultRate {
		if v, err := strconv.ParseFloat(os.Getenv("BORDERHOP_RATE"), 64); err == nil {
			flagRate = v
		}
	}
	if flagMaxHops == defaultMaxHops {
		if v, err := strconv.Atoi(os.Getenv("BORDERHOP_MAX_HOPS")); err == nil {
			flagMaxHops = v
		}
	}

	_, cfg, err := loadConfigFile()
	if err != nil {
		return
	}

	p, ok := cfg.Profiles[profileName(cfg)]
	if !ok {
		return
	}
	if flagURL == defaultAPIURL && p.APIURL != "" {
		flagURL = p.APIURL
	}
	if flagRate == defaultRate && p.Rate > 0 {
		flagRate = p.Rate
	}
	if flagMaxHops == defaultMaxHops && p.MaxHops > 0 {
		flagMaxHops = p.MaxHops
	}
}

// profileName picks the profile: --profile, BORDERHOP_PROFILE, active_profile, "default".
func profileName(cfg *profilesFile) string {
	if flagProfile != "" {
		return flagProfile
	}
	if v := os.Getenv("BORDERHOP_PROFILE"); v != "" {
		return v
	}
	if cfg != nil && cfg.ActiveProfile != "" {
		return cfg.ActiveProfile
	}
	return "default"
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".borderhop", "config.yaml"), nil
}

func loadConfigFile() (string, *profilesFile, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfgPath, nil, err
	}
	var cfg profilesFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfgPath, nil, err
	}
	return cfgPath, &cfg, nil
}

func validateFlags() error {
	switch flagFmt {
	case "json", "table", "quiet":
	default:
		return fmt.Errorf("--format must be json, table or quiet, got %q", flagFmt)
	}
	if flagRate <= 0 || flagRate > 100 {
		return fmt.Errorf("--rate must be in (0, 100], got %g", flagRate)
	}
	if flagMaxHops < 1 || flagMaxHops > 50 {
		return fmt.Errorf("--max-hops must be between 1 and 50, got %d", flagMaxHops)
	}
	return nil
}

// newLogger returns a text logger on stderr so stdout stays parseable.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(flagLogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}
