package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robby/loose-end/internal/app"
	"github.com/robby/loose-end/internal/auth"
	"github.com/robby/loose-end/internal/domain"
	"github.com/robby/loose-end/internal/gh"
	"github.com/robby/loose-end/internal/gitrepo"
	"github.com/robby/loose-end/internal/ui"
)

// Exit codes, also documented in the command help.
const (
	exitOK      = 0 // issue created (or run aborted by the user)
	exitFailure = 1 // nothing was created
	exitUsage   = 2 // argument error
	exitPartial = 3 // issue created but project linking failed
)

// projectAutoSentinel marks a bare -p flag (no board name given). NUL
// cannot appear in a real board title.
const projectAutoSentinel = "\x00auto"

var (
	// CLI flags
	projectFlag string
	debugFlag   bool
	openFlag    bool
)

func main() {
	os.Exit(run())
}

func run() int {
	exit := exitOK

	rootCmd := &cobra.Command{
		Use:   "loose-end [title] [description]",
		Short: "Create a GitHub issue, optionally linked to a Projects v2 board",
		Long: `loose-end creates a GitHub issue in the repository of the current
directory and can link it to a Projects v2 board.

Modes:
  Give both title and description for a one-shot (fast) invocation, or
  neither to be prompted for everything. Giving only one is an error.

Project linking:
  -p                link to the owner's only board (prompts to choose
                    when several exist in interactive mode)
  --project=NAME    link to the board whose title matches NAME
  (omit the flag to skip linking)

Authentication:
  1. GITHUB_TOKEN (or GH_TOKEN) environment variable
  2. GitHub CLI: 'gh auth login'
  3. A masked prompt, when a terminal is attached

Exit codes:
  0  issue created, or run aborted at the confirmation prompt
  1  nothing was created
  2  argument error
  3  issue created but project linking failed`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0, 2:
				return nil
			case 1:
				return errors.New("give both title and description for fast mode, or neither for interactive mode")
			default:
				return fmt.Errorf("accepts at most 2 args, received %d", len(args))
			}
		},
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			exit = execute(cmd, args)
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&projectFlag, "project", "p", "", "link to a Projects v2 board; bare -p picks the only board, --project=NAME matches by title")
	rootCmd.Flags().Lookup("project").NoOptDefVal = projectAutoSentinel
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "verbose diagnostic output (never prints the token)")
	rootCmd.Flags().BoolVarP(&openFlag, "open", "o", false, "open the created issue in the browser")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	return exit
}

func execute(cmd *cobra.Command, args []string) int {
	logger := newLogger(debugFlag)
	defer logger.Sync() //nolint:errcheck

	printer := ui.NewPrinter()
	prompter := ui.NewTerminalPrompter()

	req := app.Request{
		Interactive: len(args) == 0,
		Intent:      parseIntent(cmd),
	}
	if !req.Interactive {
		req.Draft = domain.IssueDraft{Title: args[0], Description: args[1]}
	}
	logger.Debug("parsed invocation",
		zap.Bool("interactive", req.Interactive),
		zap.Int("intent", int(req.Intent.Kind)))

	// Credential prompting needs a terminal regardless of mode: fast
	// mode with a tty may still ask for a token.
	canPrompt := isatty.IsTerminal(os.Stdin.Fd())

	controller := &app.Controller{
		Locator:     gitrepo.NewLocator(),
		Credentials: auth.NewResolver(canPrompt, prompter.Secret),
		NewObject: func(creds domain.Credentials) app.ObjectAPI {
			return gh.NewObjectClient(creds, logger)
		},
		NewGraph: func(creds domain.Credentials) app.GraphAPI {
			return gh.NewGraphClient(creds, logger)
		},
		Prompter: prompter,
		Printer:  printer,
		Logger:   logger,
	}

	result, err := controller.Run(context.Background(), req)
	if err != nil {
		if errors.Is(err, app.ErrAborted) {
			return exitOK
		}
		printer.Fail("%s", app.Describe(err))
		logger.Debug("run failed", zap.Error(err))
		return exitFailure
	}

	if openFlag && result.Issue.URL != "" {
		if err := browser.OpenURL(result.Issue.URL); err != nil {
			printer.Warn("Could not open browser: %v", err)
		}
	}

	if result.Outcome == app.OutcomeCreatedLinkFailed {
		return exitPartial
	}
	return exitOK
}

// parseIntent maps the -p flag onto a project intent: absent means no
// linking, bare means the sole board, a value means match by title.
func parseIntent(cmd *cobra.Command) domain.ProjectIntent {
	if !cmd.Flags().Changed("project") {
		return domain.NoProject()
	}
	if projectFlag == projectAutoSentinel || projectFlag == "" {
		return domain.AutoProject()
	}
	return domain.NamedProject(projectFlag)
}

// newLogger builds the --debug logger. Diagnostics go to stderr so they
// never mix with the report on stdout.
func newLogger(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
