package main

import (
	"github.com/spf13/cobra"
)

func newCountriesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List countries, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := newEngine(newLogger())
			if err := eng.dir.Load(cmd.Context()); err != nil {
				return err
			}

			list := eng.dir.Suggestions()
			if limit > 0 && limit < len(list) {
				list = list[:limit]
			}

			switch flagFmt {
			case "json":
				formatJSON(list)
			case "quiet":
				for _, c := range list {
					formatQuiet(c.Code)
				}
			default:
				formatTable([]string{"CODE", "NAME", "AREA_KM2"}, countryRows(list))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many countries (0 for all)")
	return cmd
}
