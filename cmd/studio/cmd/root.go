package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kubishi/yaduha-studio/internal/config"
)

type rootOpts struct {
	cfgFile     string
	debugModeOn bool
	schemaPath  string
	renderer    string
	templates   string
}

var longRootCmdDescription = `studio drives the schema-driven sentence builder from a terminal.
It loads the sentence types a language package declares, synthesises
default values, walks the form, and previews the rendered sentence.
`

// NewRootCmd assembles the command tree. Each call returns independent
// state so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	opts := &rootOpts{}
	resolved := &settings{}

	rootCmd := &cobra.Command{
		Use:           "studio",
		Short:         "Build sentences from language package schemas.",
		Long:          longRootCmdDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return resolved.init(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (yaml, json, or toml)")
	flags.BoolVarP(&opts.debugModeOn, "debug", "d", false, "turn on debug mode")
	flags.StringVarP(&opts.schemaPath, "schema", "s", "", "schema set file or URL (env STUDIO_SCHEMA)")
	flags.StringVar(&opts.renderer, "renderer", "", "renderer used for previews (env STUDIO_RENDERER)")
	flags.StringVar(&opts.templates, "templates", "", "directory of sentence templates (env STUDIO_TEMPLATES_DIR)")

	rootCmd.AddCommand(
		newInspectCmd(resolved),
		newDefaultsCmd(resolved),
		newRenderCmd(resolved),
		newEditCmd(resolved),
		newWatchCmd(resolved),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.Errorf("studio: %v", err)
		os.Exit(1)
	}
}

// settings holds the configuration resolved before any subcommand runs.
type settings struct {
	cfg    config.Config
	logger *logrus.Logger
}

func (s *settings) init(cmd *cobra.Command, opts *rootOpts) error {
	v, err := config.New(opts.cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	if err := bindFlags(v, map[string]string{
		"schema":        "schema",
		"renderer":      "renderer",
		"templates_dir": "templates",
	}, flags.Lookup); err != nil {
		return err
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(cfg.Level())
	if opts.debugModeOn {
		logger.SetLevel(logrus.DebugLevel)
	}

	s.cfg = cfg
	s.logger = logger
	return nil
}

func bindFlags(v *viper.Viper, keys map[string]string, lookup func(string) *pflag.Flag) error {
	for key, name := range keys {
		flag := lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}
