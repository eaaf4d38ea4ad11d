package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeafMist/dept-site/backend/internal/config"
	"github.com/DeafMist/dept-site/backend/internal/logger"
)

type app struct {
	dir string
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "contentctl",
		Short:         "Manage department site content",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.log == nil {
				a.log = logger.NewWithWriter(cmd.ErrOrStderr(), "contentctl", os.Getenv("LOG_FORMAT"), false)
			}
			if a.dir != "" {
				return nil
			}
			cfg, err := config.LoadCommon()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.dir = cfg.ContentDir
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.dir, "dir", "d", "", "content directory (defaults to CONTENT_DIR)")

	root.AddCommand(
		newValidateCmd(a),
		newSearchCmd(a),
		newSchemaCmd(),
		newRepairCmd(),
	)
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
