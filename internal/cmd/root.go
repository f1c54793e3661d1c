// Package cmd provides the metaai command line interface.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adaiasmagdiel/metaai-go/internal/config"
	"github.com/adaiasmagdiel/metaai-go/internal/logging"
	"github.com/adaiasmagdiel/metaai-go/sdk/metaai"
)

var (
	configPath      string
	streamOutput    bool
	newConversation bool
	jsonOutput      bool
	debug           bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "metaai [message]",
	Short: "Chat with Meta AI from the terminal",
	Long: `metaai sends prompts to Meta AI through its web API.

With a message argument it prints one answer and exits. Without one it reads
prompts from standard input, one per line. In that mode:
  /new   start a new conversation
  /exit  quit`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logging.SetupBaseLogger()
		logging.SetDebug(debug || cfg.Debug)
		if err = logging.ConfigureLogOutput(cfg.LoggingToFile, cfg.LogDirectory()); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&streamOutput, "stream", false, "Print the answer while it is generated")
	rootCmd.Flags().BoolVar(&newConversation, "new", false, "Start a new conversation")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := clientOptions(cfg)
	if err != nil {
		return err
	}
	client, err := metaai.New(ctx, opts...)
	if err != nil {
		return err
	}

	r := &runner{
		client:          client,
		out:             cmd.OutOrStdout(),
		errOut:          cmd.ErrOrStderr(),
		stream:          streamOutput,
		json:            jsonOutput,
		newConversation: newConversation,
	}
	if len(args) > 0 {
		return r.ask(ctx, strings.Join(args, " "))
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return r.repl(ctx, newShellSource())
	}
	return r.repl(ctx, newScannerSource(cmd.InOrStdin()))
}

func clientOptions(c *config.Config) ([]metaai.Option, error) {
	timeout, err := c.Timeout()
	if err != nil {
		return nil, err
	}
	return []metaai.Option{
		metaai.WithProxy(c.ProxyURL),
		metaai.WithTLSFingerprint(c.TLSFingerprint),
		metaai.WithTimeout(timeout),
		metaai.WithSessionCookie(c.SessionCookie),
		metaai.WithEndpoints(metaai.Endpoints{
			Home:  c.Endpoints.Home,
			API:   c.Endpoints.API,
			Graph: c.Endpoints.Graph,
		}),
	}, nil
}

