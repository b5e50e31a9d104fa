package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInitCmd() *cobra.Command {
	var (
		initProfile string
		initURL     string
		initRate    float64
		initMaxHops int
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a borderhop configuration profile",
		Long:  "Interactive setup that creates or updates ~/.borderhop/config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nonInteractive := cmd.Flags().Changed("api-url") || cmd.Flags().Changed("rate") || cmd.Flags().Changed("max-hops")
			p := profileConfig{APIURL: initURL, Rate: initRate, MaxHops: initMaxHops}
			if !nonInteractive {
				p = promptProfile(p)
			}

			cfgPath, err := writeProfile(initProfile, p)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Printf("Profile %q saved to %s\n", initProfile, cfgPath)
			return nil
		},
	}

	// Local flags shadow the persistent ones of the same name.
	cmd.Flags().StringVar(&initProfile, "name", "default", "Profile name")
	cmd.Flags().StringVar(&initURL, "api-url", defaultAPIURL, "REST Countries API base URL")
	cmd.Flags().Float64Var(&initRate, "rate", defaultRate, "Border lookups per second")
	cmd.Flags().IntVar(&initMaxHops, "max-hops", defaultMaxHops, "Maximum border crossings")
	return cmd
}

func promptProfile(p profileConfig) profileConfig {
	fmt.Println("\n  borderhop setup")
	fmt.Println("  ───────────────")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	ask := func(label, current string) string {
		fmt.Printf("  %s [%s]: ", label, current)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	if v := ask("Countries API URL", p.APIURL); v != "" {
		p.APIURL = v
	}
	if v := ask("Lookups per second", strconv.FormatFloat(p.Rate, 'g', -1, 64)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Rate = f
		}
	}
	if v := ask("Max hops", strconv.Itoa(p.MaxHops)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.MaxHops = n
		}
	}
	return p
}

// writeProfile stores p under name, keeping other profiles, and makes it active.
func writeProfile(name string, p profileConfig) (string, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", err
	}

	cfg := &profilesFile{}
	if _, existing, err := loadConfigFile(); err == nil {
		cfg = existing
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]profileConfig{}
	}
	cfg.Profiles[name] = p
	cfg.ActiveProfile = name

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}
	return cfgPath, nil
}
