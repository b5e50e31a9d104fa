package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/borderhop/client"
)

// doctorProbe is the country used to check border lookups.
const doctorProbe = "FRA"

func newDoctorCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Check the config file, the search settings, the countries API and optionally a running server",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolveConfig() // validation is reported as a check
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), os.Stdout, serverURL)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Also check a running borderhop server, e.g. http://localhost:3040")
	return cmd
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor(ctx context.Context, w io.Writer, serverURL string) error {
	fmt.Fprintln(w, "\nborderhop doctor")
	fmt.Fprintln(w, "================")

	var results []checkResult

	// 1. Config file (optional).
	cfgPath, _, cfgErr := loadConfigFile()
	switch {
	case cfgErr == nil:
		results = append(results, checkResult{Name: "Config file", Passed: true, Detail: fmt.Sprintf("found (%s)", cfgPath)})
	case os.IsNotExist(cfgErr):
		results = append(results, checkResult{Name: "Config file", Passed: true, Detail: "none, using flags and environment"})
	default:
		results = append(results, checkResult{
			Name: "Config file", Passed: false, Detail: cfgPath,
			Hint: fmt.Sprintf("Fix or recreate it with: borderhop init\n   Error: %v", cfgErr),
		})
	}

	// 2. Settings.
	if err := validateFlags(); err != nil {
		results = append(results, checkResult{Name: "Settings", Passed: false, Hint: err.Error()})
	} else {
		results = append(results, checkResult{
			Name: "Settings", Passed: true,
			Detail: fmt.Sprintf("%g lookups/s, max %d hops", flagRate, flagMaxHops),
		})
	}

	api := client.New(flagURL, client.WithTimeout(flagTimeout))

	// 3. Countries API.
	n, err := doctorCheckCountries(ctx, api)
	if err != nil {
		results = append(results, checkResult{
			Name: "Countries API", Passed: false, Detail: flagURL,
			Hint: fmt.Sprintf("Check --api-url or BORDERHOP_API_URL.\n   Error: %v", err),
		})
	} else {
		results = append(results, checkResult{Name: "Countries API", Passed: true, Detail: fmt.Sprintf("%d countries", n)})

		// 4. Border lookup, only meaningful once the API answers.
		if err := doctorCheckBorders(ctx, api); err != nil {
			results = append(results, checkResult{
				Name: "Border lookup", Passed: false, Detail: doctorProbe,
				Hint: fmt.Sprintf("The API does not return borders for %s.\n   Error: %v", doctorProbe, err),
			})
		} else {
			results = append(results, checkResult{Name: "Border lookup", Passed: true, Detail: doctorProbe})
		}
	}

	// 5. Server (optional).
	if serverURL != "" {
		ver, err := doctorCheckHealth(ctx, serverURL)
		if err != nil {
			results = append(results, checkResult{
				Name: "Server reachable", Passed: false, Detail: serverURL,
				Hint: fmt.Sprintf("Is borderhop serve running?\n   Error: %v", err),
			})
		} else {
			results = append(results, checkResult{Name: "Server reachable", Passed: true, Detail: ver})
		}
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, r := range results {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Fprintf(w, "%s %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Fprintf(w, "%s %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Fprintf(w, "   Hint: %s\n", r.Hint)
		}
	}

	fmt.Fprintln(w)
	if !allPassed {
		fmt.Fprintln(w, "❌ Some checks failed.")
		return fmt.Errorf("doctor found issues")
	}
	fmt.Fprintln(w, "✅ All checks passed!")

	return nil
}

func doctorCheckCountries(ctx context.Context, api *client.Client) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*flagTimeout)
	defer cancel()

	all, err := api.Countries.All(ctx)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, fmt.Errorf("empty country list")
	}
	return len(all), nil
}

func doctorCheckBorders(ctx context.Context, api *client.Client) error {
	ctx, cancel := context.WithTimeout(ctx, flagTimeout)
	defer cancel()

	resp, err := api.Countries.Borders(ctx, doctorProbe)
	if err != nil {
		return err
	}
	if resp.Borders == nil {
		return fmt.Errorf("response has no borders field")
	}
	return nil
}

func doctorCheckHealth(ctx context.Context, serverURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/api/v1/health", nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var health struct {
		Version   string `json:"version"`
		Directory string `json:"directory"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return "", err
	}

	return "v" + health.Version + ", directory " + health.Directory, nil
}
