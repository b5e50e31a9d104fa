package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/persistorai/borderhop/internal/models"
)

// errSearchFailed makes the process exit non-zero after a failure banner.
var errSearchFailed = errors.New("search failed")

func newRouteCmd() *cobra.Command {
	var progress bool

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Find every shortest land route between two countries",
		Long: "Search the land border graph breadth first. Countries may be given\n" +
			"by common name (case-insensitive) or by three-letter code.",
		Example: `  borderhop route Portugal France
  borderhop route PRT "South Korea"
  borderhop route --format json DEU CHN`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd, args[0], args[1], progress)
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "Print each expanded country to stderr")
	return cmd
}

func runRoute(cmd *cobra.Command, from, to string, progress bool) error {
	eng := newEngine(newLogger())

	var onProgress func(models.RouteProgress)
	if progress {
		onProgress = func(p models.RouteProgress) { printProgress(os.Stderr, p) }
	}

	res, err := eng.routes.StreamRoute(cmd.Context(), from, to, onProgress)
	if err != nil {
		return err
	}

	switch flagFmt {
	case "json":
		formatJSON(res)
	case "quiet":
		formatQuiet(string(res.Status))
	default:
		printRoute(os.Stdout, res)
	}

	if res.Failed() {
		return errSearchFailed
	}
	return nil
}
