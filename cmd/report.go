package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxagent/internal/config"
	"github.com/teemow/inboxagent/internal/store"
)

func newReportCmd() *cobra.Command {
	var emailID string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show saved results and their model cost",
		Long: `List the processed emails under the data directory with their category
and the cost report recorded while processing them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			s := store.New(cfg.Storage.DataDir)
			names, err := s.List()
			if err != nil {
				return err
			}
			if emailID != "" {
				names = []string{store.Sanitize(emailID)}
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results stored in", s.Root())
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "EMAIL\tCATEGORY\tCOST")
			for _, name := range names {
				category, err := s.ReadFile(name, store.FileCategory)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				usage, err := s.ReadFile(name, store.FileUsage)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, categoryLabel(category), totalLine(usage))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&emailID, "id", "", "Only show the result for this email id")

	return cmd
}

// categoryLabel pulls the label out of the stored decision.
func categoryLabel(decision string) string {
	var d struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(decision), &d); err != nil || d.Category == "" {
		return "-"
	}
	return d.Category
}

func totalLine(report string) string {
	const prefix = "Total Cost of all models: "
	for _, line := range strings.Split(report, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix)
		}
	}
	return "-"
}
