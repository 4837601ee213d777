// Package main provides the semlens binary entry point.
// Semlens reads the Schema.org JSON-LD embedded in web pages, builds a
// knowledge graph from it and reports product variants, the publishing
// organization, breadcrumbs and dataset downloads.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semlens/config"
	"github.com/c360studio/semlens/pipeline"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semlens"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

// cliFlags holds every command-line flag. Only flags the user set override
// the loaded configuration.
type cliFlags struct {
	configPath  string
	logLevel    string
	metricsFile string

	format         string
	saveDir        string
	graph          bool
	graphOnly      bool
	dataDownloads  bool
	maxVariants    int
	allowHTTP      bool
	readability    bool
	combineBlocks  bool
	remoteContexts bool

	expanded    bool
	watch       bool
	concurrency int
}

func rootCmd() *cobra.Command {
	f := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "semlens <url>",
		Short: "Schema.org knowledge graph insights for web pages",
		Long: `Semlens fetches a web page, expands the Schema.org JSON-LD it embeds
into a knowledge graph and reports what it describes:

- Product groups with their variants, prices and availability
- The publishing organization
- Breadcrumbs
- Downloadable dataset distributions

Reports are Markdown by default; the graph can also be exported as
N-Triples, Turtle, JSON-LD, graph JSON or a CSV table of variants.

"semlens readiness <url>" checks how well the whole site serves AI agents.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppFromFlags(cmd, f)
			if err != nil {
				return err
			}
			return app.RunURL(cmd.Context(), args[0])
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	pf.StringVar(&f.format, "format", "", "Output format (markdown, json, jsonld, ntriples, turtle, csv)")
	pf.StringVarP(&f.saveDir, "save", "s", "", "Save output instead of printing it (--save=DIR or --save=FILE.md; current directory when bare)")
	pf.Lookup("save").NoOptDefVal = "."
	pf.BoolVarP(&f.graph, "graph", "g", false, "Include the knowledge graph JSON and a Mermaid diagram")
	pf.BoolVarP(&f.graphOnly, "graph-only", "G", false, "Leave the page Markdown out of the report")
	pf.BoolVarP(&f.dataDownloads, "data-downloads", "d", false, "Always show the data downloads section")
	pf.IntVar(&f.maxVariants, "max-variants", 0, "Limit variant table rows per product group (0 = all)")
	pf.BoolVar(&f.allowHTTP, "allow-http", false, "Allow plain http URLs")
	pf.BoolVar(&f.readability, "readability", false, "Extract the main article with readability before conversion")
	pf.BoolVar(&f.combineBlocks, "combine-blocks", false, "Merge all JSON-LD blocks of a page before expansion")
	pf.BoolVar(&f.remoteContexts, "remote-contexts", false, "Fetch the Schema.org context instead of using the embedded copy")

	cmd.AddCommand(analyzeCmd(f))
	cmd.AddCommand(readinessCmd(f))
	cmd.AddCommand(configCmd(f))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func analyzeCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file or glob>...",
		Short: "Analyze local HTML or JSON-LD files",
		Long: `Analyze local files without fetching anything. Files ending in .html or
.htm are read as pages; all other files as one compacted JSON-LD block,
or as expanded JSON-LD with --expanded. Patterns support ** globs.

With --watch the files are re-analyzed whenever they change.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppFromFlags(cmd, f)
			if err != nil {
				return err
			}
			input := pipeline.InputAuto
			if f.expanded {
				input = pipeline.InputExpanded
			}
			if f.watch {
				return app.Watch(cmd.Context(), args, input)
			}
			return app.RunFiles(cmd.Context(), args, input)
		},
	}

	cmd.Flags().BoolVar(&f.expanded, "expanded", false, "Input files are already expanded JSON-LD")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Re-analyze files when they change")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Files analyzed in parallel")
	return cmd
}

func readinessCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "readiness <url>",
		Short: "Check how well a site serves AI agents and crawlers",
		Long: `Check the site of a page for AI readiness:

- robots.txt rules for the major AI crawlers
- The sitemap listed in robots.txt or at /sitemap.xml
- .well-known files, validating ai-plugin.json, mcp.json and the
  OpenAPI document the plugin references
- Semantic HTML structure and JSON-LD on the page itself

The report carries a score from 0 to 100. Output is Markdown, or the
report as JSON with --format json.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppFromFlags(cmd, f)
			if err != nil {
				return err
			}
			return app.RunReadiness(cmd.Context(), args[0])
		},
	}
}

func configCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the user config file with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.NewLoader(newLogger(f.logLevel, cmd.ErrOrStderr())).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	return cmd
}

// newLogger creates a text logger writing to w. Unknown levels fall back to
// warn.
func newLogger(level string, w io.Writer) *slog.Logger {
	lvl := slog.LevelWarn
	if level != "" {
		if parsed, err := config.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// loadConfig loads the layered configuration and applies the flags the user
// set. It returns the logger configured from the final log level.
func loadConfig(cmd *cobra.Command, f *cliFlags) (*config.Config, *slog.Logger, error) {
	bootstrap := newLogger(f.logLevel, cmd.ErrOrStderr())
	cfg, err := config.NewLoader(bootstrap).LoadWithFile(f.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	applyFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.Log.Level, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// applyFlags copies the flags that were set on the command line into cfg.
func applyFlags(cmd *cobra.Command, f *cliFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("metrics-file") {
		cfg.Log.MetricsFile = f.metricsFile
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("save") {
		cfg.Output.SaveDir = f.saveDir
	}
	if changed("graph") {
		cfg.Output.IncludeGraph = f.graph
	}
	if changed("graph-only") {
		cfg.Output.GraphOnly = f.graphOnly
	}
	if changed("data-downloads") {
		cfg.Output.DataDownloads = f.dataDownloads
	}
	if changed("max-variants") {
		cfg.Output.MaxVariants = f.maxVariants
	}
	if changed("allow-http") {
		cfg.Fetch.AllowHTTP = f.allowHTTP
	}
	if changed("readability") {
		cfg.Analysis.Readability = f.readability
	}
	if changed("combine-blocks") {
		cfg.Analysis.CombineBlocks = f.combineBlocks
	}
	if changed("remote-contexts") {
		cfg.Fetch.RemoteContexts = f.remoteContexts
	}
	if changed("concurrency") {
		cfg.Batch.Concurrency = f.concurrency
	}
}

func newAppFromFlags(cmd *cobra.Command, f *cliFlags) (*App, error) {
	cfg, logger, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, logger, cmd.OutOrStdout())
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
