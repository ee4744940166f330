package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nao1215/combobox"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "COMBOBOX"

// settings are the values shared by every subcommand.
type settings struct {
	LogLevel string `mapstructure:"log-level"`
	Theme    string `mapstructure:"theme"`
	Label    string `mapstructure:"label"`
	Multi    bool   `mapstructure:"multi"`
	Required bool   `mapstructure:"required"`
}

// cli carries the configuration and logger of one invocation.
type cli struct {
	v      *viper.Viper
	logger *log.Logger
}

func newCLI() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "combobox",
		Short:         "Searchable selector for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("theme", "default", "Color theme (default, dark, light, accessible, dracula)")
	rootCmd.PersistentFlags().String("label", "", "Label shown above the input")
	rootCmd.PersistentFlags().Bool("multi", false, "Allow selecting several values")
	rootCmd.PersistentFlags().Bool("required", false, "Refuse to finish without a selection")

	rootCmd.AddCommand(newPickCmd(c), newFieldsCmd(c), newLookupCmd(c))
	return rootCmd
}

// setup binds flags, environment variables and the config file, then builds
// the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := c.v.GetString("config"); file != "" {
		c.v.SetConfigFile(file)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger, err := newLogger(cmd.ErrOrStderr(), c.v.GetString("log-level"))
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

func (c *cli) settings() (settings, error) {
	var s settings
	if err := c.v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("failed to decode settings: %w", err)
	}
	return s, nil
}

// newLogger returns a stderr logger at the named level.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "combobox",
		ReportTimestamp: true,
	}), nil
}

// comboboxOptions turns the shared settings into engine options.
func (c *cli) comboboxOptions(s settings) []combobox.ConfigOption {
	options := []combobox.ConfigOption{
		combobox.WithLogger(c.logger),
		combobox.WithMultiselect(s.Multi),
		combobox.WithRequired(s.Required),
	}
	if s.Label != "" {
		options = append(options, combobox.WithLabel(s.Label))
	}
	return options
}

// run drives box from the terminal and prints the final change event.
func (c *cli) run(ctx context.Context, cmd *cobra.Command, box *combobox.Combobox, s settings) (combobox.ChangeEvent, error) {
	theme, ok := combobox.ThemeByName(s.Theme)
	if !ok {
		return combobox.ChangeEvent{}, fmt.Errorf("unknown theme %q", s.Theme)
	}

	session, err := combobox.NewSession(box, combobox.WithColorScheme(theme))
	if err != nil {
		return combobox.ChangeEvent{}, err
	}
	defer session.Close()

	if _, err := session.RunWithContext(ctx); err != nil {
		return combobox.ChangeEvent{}, err
	}

	ev := box.Event()
	if err := writeEvent(cmd.OutOrStdout(), ev); err != nil {
		return ev, err
	}
	return ev, nil
}

func writeEvent(w io.Writer, ev combobox.ChangeEvent) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ev); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// requireFlag reports an error when the string setting key is empty.
func (c *cli) requireFlag(key string) (string, error) {
	value := c.v.GetString(key)
	if value == "" {
		return "", fmt.Errorf("--%s is required (or set %s_%s)", key, envPrefix, strings.ToUpper(strings.ReplaceAll(key, "-", "_")))
	}
	return value, nil
}

// stringList reads a list setting given either as a list or as a comma
// separated string.
func (c *cli) stringList(key string) []string {
	switch v := c.v.Get(key).(type) {
	case []string:
		var list []string
		for _, s := range v {
			list = append(list, combobox.SplitList(s)...)
		}
		return list
	case []any:
		var list []string
		for _, s := range combobox.CoerceValues(v) {
			list = append(list, combobox.SplitList(s)...)
		}
		return list
	case string:
		return combobox.SplitList(v)
	default:
		return nil
	}
}
