package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/persistorai/borderhop/internal/models"
)

// pathSeparator joins the country names of a rendered route.
const pathSeparator = " → "

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := len([]rune(cell)); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = cell + strings.Repeat(" ", max(0, w-len([]rune(cell))))
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func formatQuiet(s string) {
	fmt.Println(s)
}

// printRoute renders a search result the way the web page shows it: one line
// per route, or the banner when there is none, then the request count.
func printRoute(w io.Writer, res *models.RouteResult) {
	if res.Status == models.StatusFound {
		for _, p := range res.NamedPaths {
			fmt.Fprintln(w, strings.Join(p, pathSeparator))
		}
	} else {
		fmt.Fprintln(w, res.Message)
	}
	fmt.Fprintf(w, "API requests: %d\n", res.RequestCount)
}

// printProgress writes one line per expanded country.
func printProgress(w io.Writer, p models.RouteProgress) {
	fmt.Fprintf(w, "  step %d: %s (%d requests)\n", p.Step, p.Name, p.RequestCount)
}

func countryRows(list []models.Country) [][]string {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{c.Code, c.Name, strconv.FormatFloat(c.Area, 'f', 0, 64)})
	}
	return rows
}
