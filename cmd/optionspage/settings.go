package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-optionspage/internal/app"
	"github.com/goliatone/go-optionspage/pkg/render"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage stored settings",
	Long: `Manage settings stored per tab namespace.

Writes go through the page sanitizer, so values are filtered exactly as a
form submission would be.

Examples:
  optionspage settings list
  optionspage settings list social
  optionspage settings get social twitter
  optionspage settings set social twitter https://twitter.com/acme
  optionspage settings delete social twitter`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list [namespace]",
	Short: "List namespaces, or the values of one namespace",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <namespace> <key>",
	Short: "Print a setting, falling back to the field default",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <namespace> <key> <value>",
	Short: "Set a setting through the page sanitizer",
	Args:  cobra.ExactArgs(3),
	RunE:  runSettingsSet,
}

var settingsDeleteCmd = &cobra.Command{
	Use:   "delete <namespace> <key>",
	Short: "Remove a setting so the field default applies",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsDelete,
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsDeleteCmd)
}

func runSettingsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	if len(args) == 0 {
		stored, err := a.Backend.Namespaces(ctx)
		if err != nil {
			return fmt.Errorf("list namespaces: %w", err)
		}
		saved := make(map[string]bool, len(stored))
		for _, ns := range stored {
			saved[ns] = true
		}

		fmt.Fprintln(w, "NAMESPACE\tPAGE\tSTORED")
		for _, page := range a.Server.Pages() {
			for _, tab := range page.Tabs() {
				fmt.Fprintf(w, "%s\t%s\t%t\n", tab.ID, page.ID(), saved[tab.ID])
				delete(saved, tab.ID)
			}
		}
		orphans := make([]string, 0, len(saved))
		for ns := range saved {
			orphans = append(orphans, ns)
		}
		sort.Strings(orphans)
		for _, ns := range orphans {
			fmt.Fprintf(w, "%s\t-\ttrue\n", ns)
		}
		return nil
	}

	namespace := args[0]
	values, err := a.Registry.Namespace(ctx, namespace)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
	for _, field := range a.Registry.Fields(namespace) {
		value, ok := values.Lookup(field.ID)
		source := "stored"
		if !ok {
			value, source = field.Default, "default"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", field.ID, truncate(value, 50), source)
		delete(values, field.ID)
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "%s\t%s\tunregistered\n", key, truncate(values[key], 50))
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	namespace, key := args[0], args[1]
	values, err := a.Registry.Namespace(ctx, namespace)
	if err != nil {
		return err
	}
	if value, ok := values.Lookup(key); ok {
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	}
	for _, field := range a.Registry.Fields(namespace) {
		if field.ID == key {
			fmt.Fprintln(cmd.OutOrStdout(), field.Default)
			return nil
		}
	}
	return fmt.Errorf("setting not found: %s.%s", namespace, key)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	return updateSetting(cmd, args[0], args[1], &args[2])
}

func runSettingsDelete(cmd *cobra.Command, args []string) error {
	return updateSetting(cmd, args[0], args[1], nil)
}

// updateSetting resubmits the namespace with key changed (or removed when
// value is nil) and reports sanitizer rejections.
func updateSetting(cmd *cobra.Command, namespace, key string, value *string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	values, err := a.Registry.Namespace(ctx, namespace)
	if err != nil {
		return err
	}
	raw := make(map[string]string, len(values)+1)
	for k, v := range values {
		raw[k] = v
	}
	if value != nil {
		raw[key] = *value
	} else {
		delete(raw, key)
	}

	saved, err := a.Registry.Submit(ctx, namespace, raw)
	if err != nil {
		return err
	}
	return reportSubmission(cmd, a, namespace, key, saved)
}

func reportSubmission(cmd *cobra.Command, a *app.App, namespace, key string, saved map[string]string) error {
	failed := false
	for _, item := range render.NormalizeErrors(a.Registry.Errors(namespace)) {
		if item.IsError() {
			failed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s: %s\n", item.Code, item.Message)
		}
	}
	if failed {
		return fmt.Errorf("some values were rejected")
	}
	if key != "" {
		if value, ok := saved[key]; ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s = %s\n", namespace, key, value)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s.%s removed\n", namespace, key)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s saved (%d values)\n", namespace, len(saved))
	return nil
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
