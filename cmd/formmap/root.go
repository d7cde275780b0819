package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-formmap/internal/config"
	"github.com/a3tai/pdf-formmap/internal/logging"
	"github.com/a3tai/pdf-formmap/internal/output"
)

// app carries what every subcommand shares once flags are parsed.
type app struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
	format output.Format
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "formmap",
		Short: "Map the fillable areas of a PDF form",
		Long: `formmap reverse-engineers where text goes on a PDF form such as the
CRA T661. It lists AcroForm fields and widgets, scans the rectangles a page
draws and labels them from nearby text, inspects the resulting maps, and
renders preview or narrative overlays to check coordinates by eye.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./formmap.yaml)")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	flags.StringP("output", "o", config.OutputText, "output format: text, json, yaml")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "shorthand for --log-level=debug")

	root.AddCommand(
		a.newFieldsCmd(),
		a.newWidgetsCmd(),
		a.newScanCmd(),
		a.newInspectCmd(),
		a.newPreviewCmd(),
		a.newFillCmd(),
		a.newValidateCmd(),
		a.newPublishCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.format = format
	a.logger = logger
	if cfg.IsDebug() {
		logger.Debug("configuration loaded", zap.Stringer("config", cfg))
	}
	return nil
}

func (a *app) out(cmd *cobra.Command) *output.Writer {
	return output.NewWriter(cmd.OutOrStdout(), a.format)
}
