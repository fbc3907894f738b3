package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-optionspage/pkg/options"
	"github.com/goliatone/go-optionspage/pkg/renderers/tui"
)

var (
	editTab    string
	editDryRun bool
	editFormat string
)

var editCmd = &cobra.Command{
	Use:   "edit <page>",
	Short: "Edit one tab of an options page with terminal prompts",
	Long: `Edit prompts for every field of a tab, prefilled with the stored values,
and saves the answers through the page sanitizer. With --dry-run the answers
are printed instead of saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editTab, "tab", "", "tab to edit (defaults to the first tab)")
	editCmd.Flags().BoolVar(&editDryRun, "dry-run", false, "print the answers instead of saving")
	editCmd.Flags().StringVar(&editFormat, "format", string(tui.OutputFormatPrettyText), "dry-run output: json, form or pretty")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	page, ok := a.Page(args[0])
	if !ok {
		return fmt.Errorf("page %q not found", args[0])
	}

	renderer, err := tui.New(
		tui.WithOutputFormat(tui.OutputFormat(editFormat)),
		tui.WithInfoWriter(cmd.ErrOrStderr()),
		tui.WithTheme(tui.Theme{InfoPrefix: "› ", ErrorPrefix: "✗ "}),
	)
	if err != nil {
		return err
	}

	view, err := page.View(ctx, options.RenderRequest{Tab: editTab})
	if err != nil {
		return err
	}
	if editDryRun {
		return renderer.Render(ctx, cmd.OutOrStdout(), view)
	}

	raw, err := renderer.Edit(ctx, view)
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "aborted, nothing saved")
		return nil
	}
	if errors.Is(err, tui.ErrNoSections) {
		return fmt.Errorf("page %q has no tab %q", page.ID(), view.CurrentTab)
	}
	if err != nil {
		return err
	}

	saved, err := a.Registry.Submit(ctx, view.CurrentTab, raw)
	if err != nil {
		return err
	}
	return reportSubmission(cmd, a, view.CurrentTab, "", saved)
}
