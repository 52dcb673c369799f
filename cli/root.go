package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankit-chaubey/image-metadata-extractor/core/config"
	"github.com/ankit-chaubey/image-metadata-extractor/core/logger"
)

// app carries state shared by every command.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New(), cfg: config.New()}

	root := &cobra.Command{
		Use:           "imgmeta",
		Short:         "Extract readable EXIF and container metadata from images",
		Long:          `imgmeta reads an image's container properties and its embedded EXIF/GPS tags and prints an ordered report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger.SetLevel(cfg.LogLevel)
			logger.Debug("configuration loaded (log level %s)", logger.Level())
			return nil
		},
	}

	// Global flags
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (yaml, json or toml)")
	pf.String("log-level", a.cfg.LogLevel, "Log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("log_level", pf.Lookup("log-level"))

	root.AddCommand(
		newExtractCommand(a),
		newDumpCommand(),
		newVersionCommand(),
	)
	return root
}
