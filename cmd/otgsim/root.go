package main

import (
	"github.com/spf13/cobra"

	"github.com/ardnew/otgfs/pkg"
)

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:   "otgsim",
		Short: "Simulate the OTG FS device-mode interrupt front-end",
		Long: "otgsim drives the OTG FS interrupt front-end against a simulated " +
			"register bank and decodes controller register values.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := pkg.ParseLogLevel(logLevel)
			if err != nil {
				return err
			}
			format, err := pkg.ParseLogFormat(logFormat)
			if err != nil {
				return err
			}
			pkg.SetLogLevel(level)
			pkg.SetLogFormat(format)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "minimum log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	cmd.AddCommand(newRunCmd(), newDecodeCmd())
	return cmd
}
