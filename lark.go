package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/isaacev/Lark/config"
	"github.com/isaacev/Lark/feedback"
	"github.com/isaacev/Lark/frontend"
	"github.com/isaacev/Lark/logging"
	"github.com/isaacev/Lark/source"
)

const sourceExt = ".lark"

var configPath string
var noColor bool
var tabWidth int
var verbose bool
var debugShowAST bool
var maxErrors int

// settings is filled in before any command runs: the config file first,
// then any global flag given explicitly
var settings = config.Default()

func readSourceFiles(w io.Writer, args []string) (files []*source.File) {
	for _, arg := range args {
		// Try to convert every argument to an absolute path, if not possible
		// claim the file could not be found. If a path can be produced but has
		// the wrong extension, admit defeat for that argument
		abs, err := filepath.Abs(arg)
		if err != nil {
			fmt.Fprintf(w, "could not find '%s'\n", arg)
			continue
		}

		if filepath.Ext(abs) != sourceExt {
			fmt.Fprintf(w, "could not use '%s' with extension '%s'\n", abs, filepath.Ext(abs))
			continue
		}

		buf, err := os.ReadFile(abs)
		if err != nil {
			fmt.Fprintln(w, err.Error())
			continue
		}

		files = append(files, source.NewFile(abs, string(buf)))
	}

	return files
}

// checkFile parses a file and writes its rendered diagnostics, at most
// cfg.MaxErrors of them when that is positive. It reports whether the file
// had any diagnostics
func checkFile(w io.Writer, file *source.File, cfg config.Config, showAST bool) bool {
	expr, diags := frontend.ParseWithOptions(file, cfg.ParserOptions())

	if showAST && expr != nil {
		fmt.Fprintf(w, "# %s\n", file.Filename)
		fmt.Fprintln(w, frontend.Stringify(expr))
	}

	if len(diags) == 0 {
		return false
	}

	fmt.Fprintf(w, "# %s\n", file.Filename)

	shown := diags
	if cfg.MaxErrors > 0 && len(shown) > cfg.MaxErrors {
		shown = shown[:cfg.MaxErrors]
	}

	for _, d := range shown {
		fmt.Fprintln(w, feedback.FromDiagnostic(file, d).Make(cfg.Color))
	}

	if hidden := len(diags) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "... and %d more\n", hidden)
	}

	return true
}

// dumpTokens writes the layout-adjusted token stream of a file, one token per
// line
func dumpTokens(w io.Writer, file *source.File, opts frontend.Options) error {
	layout := frontend.NewLayout(frontend.NewLexer(file, opts))

	for {
		tok, err := layout.Next()
		if err != nil {
			return err
		}

		loc := file.Location(tok.Span.Start)
		fmt.Fprintf(w, "%-6s %s\n", loc, tok)

		if tok.Kind == frontend.EOF {
			return nil
		}
	}
}

// loadSettings reads the config file named by --config, or the one found in
// the working directory, then applies explicit global flags on top
func loadSettings(c *cli.Context) error {
	var err error

	if configPath != "" {
		settings, err = config.Load(configPath)
	} else {
		settings, _, err = config.Discover(".")
	}

	if err != nil {
		return err
	}

	if c.IsSet("no-color") {
		settings.Color = !noColor
	}

	if c.IsSet("tab-width") {
		settings.TabWidth = tabWidth
	}

	if c.IsSet("verbose") {
		settings.Verbose = verbose
	}

	if err := settings.Validate(); err != nil {
		return err
	}

	return logging.Init(settings.Verbose)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lark"
	app.Usage = "parse Lark source files and report syntax errors"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config",
			Usage:       "load settings from a .toml, .yaml or .json file",
			Destination: &configPath,
		},
		cli.BoolFlag{
			Name:        "no-color",
			Usage:       "hide colors in error messages",
			Destination: &noColor,
		},
		cli.IntFlag{
			Name:        "tab-width",
			Usage:       "columns between tab stops used by the layout rule",
			Value:       frontend.DefaultTabWidth,
			Destination: &tabWidth,
		},
		cli.BoolFlag{
			Name:        "verbose",
			Usage:       "write debug logs to stderr",
			Destination: &verbose,
		},
	}

	app.Before = loadSettings

	app.Commands = []cli.Command{
		{
			Name:    "check",
			Aliases: []string{"c"},
			Usage:   "Check the syntax of file(s)",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:        "debug-ast",
					Usage:       "show a basic representation of the syntax tree",
					Destination: &debugShowAST,
				},
				cli.IntFlag{
					Name:        "max-errors",
					Usage:       "show at most this many errors per file, 0 shows all",
					Value:       -1,
					Destination: &maxErrors,
				},
			},
			Action: func(c *cli.Context) error {
				cfg := settings
				if c.IsSet("max-errors") {
					cfg.MaxErrors = maxErrors
				}

				if err := cfg.Validate(); err != nil {
					return err
				}

				failed := false
				for _, f := range readSourceFiles(c.App.ErrWriter, c.Args()) {
					if checkFile(c.App.Writer, f, cfg, debugShowAST) {
						failed = true
					}
				}

				if failed {
					return cli.NewExitError("", 1)
				}

				return nil
			},
		},
		{
			Name:    "tokens",
			Aliases: []string{"t"},
			Usage:   "Print the layout-adjusted token stream of file(s)",
			Action: func(c *cli.Context) error {
				for _, f := range readSourceFiles(c.App.ErrWriter, c.Args()) {
					fmt.Fprintf(c.App.Writer, "# %s\n", f.Filename)

					err := dumpTokens(c.App.Writer, f, settings.ParserOptions())

					var lexErr *frontend.LexicalError
					if errors.As(err, &lexErr) {
						fmt.Fprintln(c.App.Writer, feedback.FromDiagnostic(f, frontend.Diagnostic{
							Span: lexErr.Span,
							Err:  &frontend.LexicalFailure{Kind: lexErr.Kind},
						}).Make(settings.Color))
					} else if err != nil {
						return err
					}
				}

				return nil
			},
		},
		{
			Name:  "repl",
			Usage: "Parse expressions interactively",
			Action: func(c *cli.Context) error {
				return runRepl(c.App.Writer, settings)
			},
		},
	}

	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}

	return app
}

func main() {
	defer logging.Sync()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
