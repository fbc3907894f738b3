package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-optionspage/pkg/options"
)

var (
	renderTab    string
	renderLocale string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render <page>",
	Short: "Render an options page as HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderTab, "tab", "", "tab to render (defaults to the first tab)")
	renderCmd.Flags().StringVar(&renderLocale, "locale", "", "locale for labels")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (stdout if empty)")
}

func runRender(cmd *cobra.Command, args []string) error {
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

	var out io.Writer = cmd.OutOrStdout()
	if renderOutput != "" {
		file, err := os.Create(renderOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	err = page.RenderPage(ctx, out, options.RenderRequest{
		Tab:     renderTab,
		Locale:  renderLocale,
		Referer: page.TabURL(page.ResolveCurrentTab(renderTab)),
	})
	if err != nil {
		return err
	}
	if renderOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Page written to %s\n", renderOutput)
	}
	return nil
}
