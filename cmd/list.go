package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every document with its metadata",
	Long: `The list command prints an inventory of the content set: each
document's route, date, title, and categories, newest first. Titles
derived from file names (because the front-matter has none) are marked
with an asterisk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSite()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROUTE\tDATE\tTITLE\tCATEGORIES")
		for _, doc := range s.Docs {
			date := ""
			if !doc.Date.IsZero() {
				date = doc.Date.Format("2006-01-02")
			}
			title := doc.Title
			if doc.TitleFallback {
				title += " *"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", doc.Route, date, title, strings.Join(doc.Matter.Categories, ", "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
