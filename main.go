package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is the application version, set via ldflags.
var version = "dev"

var errNotDirectory = errors.New("is not a valid directory")

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

func newRootCmd() *cobra.Command {
	v := viper.New()
	setDefaults(v)
	var cfgFile string

	cmd := &cobra.Command{
		Use:   appName + " [PATH]",
		Short: "List a directory tree with exclusion filters and several output formats",
		Long: `ls-tree walks a directory, prunes entries matching the exclusion patterns
and prints the result as a tree, a flat path list, CSV, JSON or YAML.

Patterns are shell globs matched against the end of each path, so
"__pycache__" excludes every directory of that name and "src/*.pyc"
only the .pyc files directly inside a src directory.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(v, cfgFile); err != nil {
				return err
			}
			settings := loadSettings(v)
			if len(args) > 0 {
				settings.Path = args[0]
			}
			if err := initLogger(settings.LogLevel); err != nil {
				return err
			}
			defer syncLogger()
			return run(cmd.Context(), settings, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.String("format", FormatTree.String(), "Output format: "+formatList())
	flags.StringArrayP("exclude", "x", nil, "Glob pattern to exclude (files and directories, repeatable)")
	flags.StringArrayP("exclude-dir", "d", nil, "Glob pattern to exclude (directories only, repeatable)")
	flags.StringArrayP("exclude-file", "f", nil, "Glob pattern to exclude (files only, repeatable)")
	flags.BoolP("show-metadata", "m", false, "Show size and modification time of files and directories")
	flags.Bool("no-emoji", false, "Use [d]/[f] markers instead of emoji in the tree format")
	flags.Bool("gitignore", false, "Also exclude entries matched by the root's .gitignore")
	flags.BoolP("clipboard", "c", false, "Copy output to the clipboard")
	flags.StringP("output-file", "o", "", "Save output to the specified file")
	flags.String("pdf", "", "Save output as PDF")
	flags.Bool("interactive", false, "Pick the root directory with a fuzzy finder")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.config/ls-tree/config.toml)")

	if err := bindFlags(v, flags); err != nil {
		panic(err)
	}
	return cmd
}

// run resolves the root, walks it and delivers the rendered listing.
func run(ctx context.Context, settings Settings, stdout, stderr io.Writer) error {
	if err := settings.validate(); err != nil {
		return err
	}
	format, _ := parseFormat(settings.Format)
	filters := settings.filters()

	path := settings.Path
	if settings.Interactive {
		chosen, err := runInteractiveFinder(".", WalkOptions{Filters: filters})
		if err != nil {
			return err
		}
		if chosen == "" {
			return nil
		}
		path = chosen
	} else if isGitURL(path) {
		tempDir, err := cloneGitRepo(ctx, path, stderr)
		if err != nil {
			return err
		}
		defer func() {
			logger.Debugf("removing temporary directory %s", tempDir)
			_ = os.RemoveAll(tempDir)
		}()
		path = tempDir
	}

	root, err := resolveRoot(path)
	if err != nil {
		return err
	}

	walkOpts := WalkOptions{Filters: filters, CollectMetadata: settings.ShowMetadata}
	if settings.GitIgnore {
		ignore, err := loadGitIgnore(root)
		if err != nil {
			logger.Warnf("%v", err)
		}
		walkOpts.Ignore = ignore
	}

	icons, err := loadIconSet()
	if err != nil {
		logger.Warnf("ignoring icon overrides: %v", err)
		icons = defaultIcons
	}

	renderOpts := RenderOptions{
		Root:         root,
		ShowMetadata: settings.ShowMetadata,
		UseEmoji:     !settings.NoEmoji,
		Icons:        icons,
	}

	toSink := settings.PDFFile != "" || settings.OutputFile != "" || settings.Clipboard
	if !toSink {
		renderOpts.Color = colorEnabled(stdout)
		renderer, err := newRenderer(format, renderOpts)
		if err != nil {
			return err
		}
		return renderer.Render(stdout, walkTree(root, walkOpts))
	}

	if settings.PDFFile != "" {
		renderOpts.UseEmoji = false
	}
	renderer, err := newRenderer(format, renderOpts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, walkTree(root, walkOpts)); err != nil {
		return err
	}
	return deliver(settings, format, root, buf.String(), stdout, stderr)
}

// resolveRoot makes path absolute and checks that it is a directory.
func resolveRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("could not resolve path '%s': %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("path '%s' %w", abs, errNotDirectory)
	}
	return abs, nil
}

// deliver sends a rendered listing to the PDF, file or clipboard sink, in
// that order of precedence. Confirmations go to stderr.
func deliver(settings Settings, format Format, root, output string, stdout, stderr io.Writer) error {
	switch {
	case settings.PDFFile != "":
		if err := generatePDF(output, format, root, settings.PDFFile); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Output saved to %s\n", settings.PDFFile)
	case settings.OutputFile != "":
		if err := os.WriteFile(settings.OutputFile, []byte(output), 0o644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", settings.OutputFile, err)
		}
		fmt.Fprintf(stderr, "Output saved to %s\n", settings.OutputFile)
	case settings.Clipboard:
		if err := clipboardWrite(output); err != nil {
			logger.Warnf("error writing to clipboard: %v", err)
			_, werr := io.WriteString(stdout, output)
			return werr
		}
		fmt.Fprintln(stderr, "Output copied to clipboard.")
	}
	return nil
}

// colorEnabled reports whether w is a terminal that accepts colour.
func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
