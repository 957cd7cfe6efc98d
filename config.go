package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appName   = "ls-tree"
	envPrefix = "LSTREE"
)

// Settings is the fully resolved configuration of one run:
// defaults < config file < environment < flags.
type Settings struct {
	Path         string
	Format       string
	Exclude      []string
	ExcludeDir   []string
	ExcludeFile  []string
	ShowMetadata bool
	NoEmoji      bool
	GitIgnore    bool
	Clipboard    bool
	OutputFile   string
	PDFFile      string
	Interactive  bool
	LogLevel     string
}

// flagKeys maps viper keys to the cobra flags that override them.
var flagKeys = map[string]string{
	"format":        "format",
	"exclude":       "exclude",
	"exclude_dir":   "exclude-dir",
	"exclude_file":  "exclude-file",
	"show_metadata": "show-metadata",
	"no_emoji":      "no-emoji",
	"gitignore":     "gitignore",
	"clipboard":     "clipboard",
	"output_file":   "output-file",
	"pdf":           "pdf",
	"interactive":   "interactive",
	"log_level":     "log-level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("format", FormatTree.String())
	v.SetDefault("exclude", []string{})
	v.SetDefault("exclude_dir", []string{})
	v.SetDefault("exclude_file", []string{})
	v.SetDefault("show_metadata", false)
	v.SetDefault("no_emoji", false)
	v.SetDefault("gitignore", false)
	v.SetDefault("clipboard", false)
	v.SetDefault("output_file", "")
	v.SetDefault("pdf", "")
	v.SetDefault("interactive", false)
	v.SetDefault("log_level", "warn")
}

// bindFlags binds every known flag of fs to its viper key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// readConfig loads cfgFile, or config.toml from the user config directory or
// the working directory. A missing config file is not an error.
func readConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.Debugf("no config file found, using defaults and flags")
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	logger.Debugf("using config file %s", v.ConfigFileUsed())
	return nil
}

// loadSettings materialises Settings from an initialised viper instance.
func loadSettings(v *viper.Viper) Settings {
	return Settings{
		Path:         ".",
		Format:       strings.ToLower(strings.TrimSpace(v.GetString("format"))),
		Exclude:      v.GetStringSlice("exclude"),
		ExcludeDir:   v.GetStringSlice("exclude_dir"),
		ExcludeFile:  v.GetStringSlice("exclude_file"),
		ShowMetadata: v.GetBool("show_metadata"),
		NoEmoji:      v.GetBool("no_emoji"),
		GitIgnore:    v.GetBool("gitignore"),
		Clipboard:    v.GetBool("clipboard"),
		OutputFile:   v.GetString("output_file"),
		PDFFile:      v.GetString("pdf"),
		Interactive:  v.GetBool("interactive"),
		LogLevel:     v.GetString("log_level"),
	}
}

func (s Settings) filters() Filters {
	return Filters{Exclude: s.Exclude, ExcludeDir: s.ExcludeDir, ExcludeFile: s.ExcludeFile}
}

// validate rejects unknown formats, log levels and malformed patterns.
func (s Settings) validate() error {
	if _, err := parseFormat(s.Format); err != nil {
		return err
	}
	if _, err := parseLogLevel(s.LogLevel); err != nil {
		return err
	}
	return validateFilters(s.filters())
}
