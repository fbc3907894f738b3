package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve options pages over HTTP",
	Long: `Serve mounts every page definition on the admin routes and accepts
form submissions. With definitions.watch enabled, edits to the config file or
the definitions directory remount the pages without a restart. SIGHUP forces
a reload.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}
