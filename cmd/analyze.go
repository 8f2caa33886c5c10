// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-profile-analyzer/internal/config"
	"github.com/naka-gawa/github-profile-analyzer/internal/gateway"
	"github.com/naka-gawa/github-profile-analyzer/internal/render"
	"github.com/naka-gawa/github-profile-analyzer/internal/usecase"
)

// Output formats accepted by --format.
const (
	formatConsole  = "console"
	formatJSON     = "json"
	formatCSV      = "csv"
	formatMarkdown = "md"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [username]",
	Short: "Analyzes a GitHub user's repositories and prints or exports the result",
	Long: `Fetches the profile and public repositories of a GitHub user, aggregates stars,
forks and language usage, and renders the analysis.

Formats: console (default), json, csv, md/markdown. CSV and Markdown need --output.
The username is prompted for when omitted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := logrus.New()
		logger.SetOutput(io.Discard) // Default: discard all logs.
		if verbose {
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(logrus.DebugLevel)
		}

		opts := analyzeOptions{Verbose: verbose}
		if len(args) > 0 {
			opts.Username = args[0]
		}
		opts.Output, _ = cmd.Flags().GetString("output")
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.NoColor, _ = cmd.Flags().GetBool("no-color")
		opts.Config.ConfigFile, _ = cmd.Flags().GetString("config")
		opts.Config.EnvFile, _ = cmd.Flags().GetString("env-file")
		opts.Config.Logger = logger

		a := newAnalyzer(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
		// Handled errors are reported on stderr; the exit status stays 0.
		a.run(context.Background(), opts)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("output", "o", "", "Output file for json, csv and md formats")
	analyzeCmd.Flags().StringP("format", "f", formatConsole, "Output format: console, json, csv, md")
	analyzeCmd.Flags().Bool("no-color", false, "Disable colored console output")
	analyzeCmd.Flags().String("config", "", "YAML config file (default: ./"+config.DefaultFileName+" or ~/.config/"+config.UserFileName+")")
	analyzeCmd.Flags().String("env-file", "", "dotenv file to load (default: "+config.DefaultEnvFile+")")
}

type analyzeOptions struct {
	Username string
	Output   string
	Format   string
	Verbose  bool
	NoColor  bool
	Config   config.Options
}

// analyzer wires configuration, the gateway, the aggregator and the renderers
// for one run of the analyze command.
type analyzer struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *logrus.Logger

	loadConfig func(config.Options) (*config.Config, error)
	newFetcher func(*config.Config, *logrus.Logger) (gateway.Fetcher, error)
}

func newAnalyzer(in io.Reader, out, errOut io.Writer, logger *logrus.Logger) *analyzer {
	return &analyzer{
		in:         in,
		out:        out,
		errOut:     errOut,
		logger:     logger,
		loadConfig: config.Load,
		newFetcher: func(cfg *config.Config, logger *logrus.Logger) (gateway.Fetcher, error) {
			g, err := gateway.NewGitHubGateway(cfg, logger)
			if err != nil {
				return nil, err
			}
			return g, nil
		},
	}
}

// normalizeFormat maps a --format value to one of the format constants.
func normalizeFormat(format string) (string, bool) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case formatConsole, formatJSON, formatCSV, formatMarkdown:
		return f, true
	case "markdown":
		return formatMarkdown, true
	}
	return "", false
}

// run executes one analysis. Every failure is reported on errOut.
func (a *analyzer) run(ctx context.Context, opts analyzeOptions) {
	format, ok := normalizeFormat(opts.Format)
	if !ok {
		fmt.Fprintf(a.errOut, "[!] Unknown format %q. Use console, json, csv, or md.\n", opts.Format)
		return
	}
	if opts.Output == "" {
		switch format {
		case formatCSV:
			fmt.Fprintln(a.errOut, "[!] Please specify an output file (--output) for CSV format.")
			return
		case formatMarkdown:
			fmt.Fprintln(a.errOut, "[!] Please specify an output file (--output) for Markdown format.")
			return
		}
	}

	username := strings.TrimSpace(opts.Username)
	if username == "" {
		var err error
		if username, err = a.prompt("Enter GitHub username: "); err != nil {
			fmt.Fprintf(a.errOut, "Error: %v\n", err)
			return
		}
		if username == "" {
			fmt.Fprintln(a.errOut, "[!] No username given.")
			return
		}
	}

	if err := a.analyze(ctx, username, format, opts); err != nil {
		a.report(username, err)
	}
}

func (a *analyzer) analyze(ctx context.Context, username, format string, opts analyzeOptions) error {
	cfg, err := a.loadConfig(opts.Config)
	if err != nil {
		return err
	}
	fetcher, err := a.newFetcher(cfg, a.logger)
	if err != nil {
		return err
	}

	profile, err := fetcher.FetchProfile(ctx, username)
	if err != nil {
		return err
	}
	repos, err := fetcher.FetchRepositories(ctx, username)
	if err != nil {
		return err
	}
	summary, err := usecase.NewAggregator(fetcher, a.logger).Summarize(ctx, repos, username)
	if err != nil {
		return err
	}

	switch format {
	case formatConsole:
		if opts.Output != "" {
			a.logger.Debugf("Ignoring --output %q for console format", opts.Output)
		}
		return render.Console(a.out, profile, summary, render.ConsoleOptions{Verbose: opts.Verbose, NoColor: opts.NoColor})
	case formatJSON:
		if opts.Output == "" {
			return render.JSON(a.out, profile, summary)
		}
		err = render.ExportJSON(opts.Output, profile, summary)
	case formatCSV:
		err = render.ExportCSV(opts.Output, summary)
	case formatMarkdown:
		err = render.ExportMarkdown(opts.Output, profile, summary)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported analysis to %s\n", opts.Output)
	return nil
}

// prompt asks for a line on the input stream. The question goes to errOut so
// that stdout carries only the rendered analysis.
func (a *analyzer) prompt(question string) (string, error) {
	fmt.Fprint(a.errOut, question)
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// report translates an error into a message for the user.
func (a *analyzer) report(username string, err error) {
	var rateLimit *gateway.RateLimitError
	var notFound *gateway.NotFoundError
	var httpErr *gateway.HTTPError
	switch {
	case errors.As(err, &rateLimit):
		fmt.Fprintf(a.errOut, "[!] API rate limit exceeded. Please set %s in your environment or .env file.\n", config.TokenEnvVar)
	case errors.As(err, &notFound):
		fmt.Fprintf(a.errOut, "[!] GitHub user %q was not found.\n", username)
	case errors.As(err, &httpErr):
		fmt.Fprintf(a.errOut, "HTTP Error: %v\n", err)
	default:
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	}
	a.logger.Debugf("analysis of %s failed: %+v", username, err)
}
