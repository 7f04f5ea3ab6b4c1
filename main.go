package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/egor/engadvisor/advisor"
	"github.com/egor/engadvisor/catalog"
	"github.com/egor/engadvisor/config"
	"github.com/egor/engadvisor/feedback"
	"github.com/egor/engadvisor/llm"
	"github.com/egor/engadvisor/logging"
	"github.com/egor/engadvisor/metrics"
	"github.com/egor/engadvisor/session"
)

var (
	// Global flags
	verbose bool
	envFile string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "engadvisor",
	Short: "Engineering program advisor chatbot",
	Long: `engadvisor recommends UMD engineering majors and minors from a student's
interests. Messages are screened for personal data, matched against the
program catalog and answered by a chat completions model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		cfg = config.Load()

		var err error
		logger, err = logging.New(cfg.Env, verbose)
		if err != nil {
			return err
		}
		if cfg.UsingDevSecret() {
			logger.Warn("JWT_SECRET_KEY is not set, using the development secret")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(serveCmd, chatCmd)
}

// buildAdvisor loads the catalog and vocabulary and wires the orchestrator.
func buildAdvisor(rec *metrics.Recorder) (*advisor.Orchestrator, *session.Vocabulary, error) {
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	vocab, err := config.LoadVocabulary(cfg.InterestsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load interests: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("LLM_API_KEY is not set, generation requests will be rejected")
	}

	logger.Info("catalog loaded",
		zap.String("version", cat.Version()),
		zap.Int("programs", cat.Len()),
		zap.Strings("interests", vocab.Tags()),
	)

	o := advisor.New(cat.Programs(), llm.NewClient(cfg.LLM),
		advisor.WithLogger(logger),
		advisor.WithMetrics(rec),
		advisor.WithHistoryFile(cfg.HistoryFile),
		advisor.WithFeedbackSink(feedback.NewSink(cfg.FeedbackFile)),
	)
	return o, vocab, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
