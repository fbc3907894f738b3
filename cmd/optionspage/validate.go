package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-optionspage/internal/app"
	"github.com/goliatone/go-optionspage/pkg/definition"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and page definitions",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	holder, _, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	cfg := holder.Get()

	set, err := definition.LoadFS(app.DefinitionsFS(cfg))
	if err != nil {
		return fmt.Errorf("definitions invalid: %w", err)
	}
	filter, closeFilter, err := app.BuildFilter(cfg.Filters)
	if err != nil {
		return fmt.Errorf("filters invalid: %w", err)
	}
	defer closeFilter()
	pages, err := set.BuildAll(filter)
	if err != nil {
		return fmt.Errorf("definitions invalid: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration valid")
	fmt.Fprintf(out, "  Storage: %s\n", cfg.Storage.Driver)
	fmt.Fprintf(out, "  Listen:  %s\n", cfg.Server.Addr())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tTITLE\tCAPABILITY\tTABS")
	for _, page := range pages {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", page.ID(), page.Title(), page.Capability(), len(page.Tabs()))
	}
	return w.Flush()
}
