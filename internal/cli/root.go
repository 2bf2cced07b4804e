package cli

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nixos-type-generator/internal/config"
	"nixos-type-generator/internal/errs"
	"nixos-type-generator/internal/logging"
)

const (
	shortDesc = "Compile Go type schemas into NixOS option definitions."
	longDesc  = `nixos-type-generator reads Go struct and enumeration declarations and
renders NixOS option definitions for them: types.submodule bindings for
records, types.enum for enumerations, and lib.mkOption attributes for fields.

Field annotations are read from struct tags (nixos, nixos_description,
nixos_default, ...) and type directives (//nixos:autodoc, //nixos:name).`
)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd(name string) *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:           name,
		Short:         shortDesc,
		Long:          longDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       GetVersionString(),
	}

	cmd.PersistentFlags().StringVar(args.logLevel, "log_level", "warn", "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(args.logFormat, "log_format", "text", "Set the log format (text, logfmt, json)")
	cmd.PersistentFlags().StringVarP(args.configPath, "config", "c", "",
		"Configuration file (default ./nixos-type-generator.yaml)")
	cmd.PersistentFlags().BoolVar(args.noColor, "no-color", false, "Disable colored output")

	err := cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(err)
	}

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		if args.GetNoColor() {
			color.NoColor = true
		}

		if err := setupLogging(cc, args.GetLogLevel(), args.GetLogFormat()); err != nil {
			return err
		}

		slog.Debug("ready to go")

		return nil
	}

	cmd.AddCommand(
		NewGenerateCmd(args),
		NewDescribeCmd(args),
		NewConfigSchemaCmd(),
		NewVersionCmd(),
	)

	return cmd
}

func setupLogging(cc *cobra.Command, level, format string) error {
	h, err := logging.CreateHandler(cc.ErrOrStderr(), level, format)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrLogHandlerFailed, err)
	}

	slog.SetDefault(slog.New(h))

	return nil
}

// applyLogConfig reinstalls the logger from the log section of the config
// file. Flags given on the command line win.
func applyLogConfig(cc *cobra.Command, args *RootArgs, cfg config.Log) error {
	level, format := args.GetLogLevel(), args.GetLogFormat()
	changed := false

	if cfg.Level != "" && cfg.Level != level && !cc.Flags().Changed("log_level") {
		level = cfg.Level
		changed = true
	}

	if cfg.Format != "" && cfg.Format != format && !cc.Flags().Changed("log_format") {
		format = cfg.Format
		changed = true
	}

	if !changed {
		return nil
	}

	return setupLogging(cc, level, format)
}
