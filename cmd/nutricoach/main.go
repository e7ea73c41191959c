package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vbonduro/nutricoach/internal/config"
	"github.com/vbonduro/nutricoach/internal/logging"
	"github.com/vbonduro/nutricoach/internal/service"
	"github.com/vbonduro/nutricoach/internal/vision"
	claudevision "github.com/vbonduro/nutricoach/internal/vision/claude"
	geminivision "github.com/vbonduro/nutricoach/internal/vision/gemini"
	ollamavision "github.com/vbonduro/nutricoach/internal/vision/ollama"
	"github.com/vbonduro/nutricoach/internal/web"
	"github.com/vbonduro/nutricoach/internal/web/templates"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nutricoach",
		Short: "AI nutrition coach - upload a meal photo, get a nutritional breakdown",
		Long: `NutriCoach serves a single web page where you upload a photo of a meal
and optionally ask a question about it. The photo is sent to a vision model
(Gemini by default) which returns an estimate of each food's portion size,
calories and macronutrients, plus healthier alternatives.

Configuration is read from the environment and from an optional .env file.

Examples:
  nutricoach
  nutricoach --addr :9090
  nutricoach --backend claude --model claude-sonnet-4-5
  nutricoach --env-file /etc/nutricoach.env --log-level debug`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if err := config.LoadDotEnv(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			cfg := config.Load()
			applyFlags(cmd.Flags(), cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides LISTEN_ADDR)")
	cmd.Flags().StringP("backend", "b", "", "Vision backend: gemini, claude or ollama (overrides VISION_BACKEND)")
	cmd.Flags().StringP("model", "m", "", "Model name for the selected backend")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")
	cmd.Flags().String("env-file", ".env", "Path to a dotenv file; missing files are ignored")
	return cmd
}

// applyFlags copies flags the user explicitly set over cfg. --model applies to
// whichever backend is selected after --backend is applied.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	set("addr", &cfg.ListenAddr)
	set("backend", &cfg.VisionBackend)
	set("log-level", &cfg.LogLevel)

	switch cfg.VisionBackend {
	case "claude":
		set("model", &cfg.ClaudeModel)
	case "ollama":
		set("model", &cfg.OllamaModel)
	default:
		set("model", &cfg.GeminiModel)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer cleanup()

	visionAnalyzer, err := newVisionAnalyzer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize vision backend", "backend", cfg.VisionBackend, "error", err)
		return err
	}

	analysisService := service.NewAnalysisService(visionAnalyzer, cfg.AnalysisTimeout, logger)
	server := web.NewServer(analysisService, templates.FS, web.NewCookieStore(sessionKey(cfg, logger)), logger)

	if err := server.Run(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

func newVisionAnalyzer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (vision.VisionAnalyzer, error) {
	switch cfg.VisionBackend {
	case "gemini", "":
		logger.Info("using Gemini vision backend", "model", cfg.GeminiModel)
		return geminivision.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Warn("CLAUDE_API_KEY is not set; analyses will fail until it is")
		}
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeAnalyzer(cfg.ClaudeAPIKey, cfg.ClaudeModel), nil
	case "ollama":
		logger.Info("using Ollama vision backend", "host", cfg.OllamaHost, "model", cfg.OllamaModel)
		return ollamavision.NewOllamaAnalyzer(cfg.OllamaHost, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unknown vision backend %q", cfg.VisionBackend)
	}
}

// sessionKey returns the flash-cookie signing key. Without SESSION_SECRET a
// random key is generated, so flashes do not survive a restart.
func sessionKey(cfg *config.Config, logger *slog.Logger) []byte {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret)
	}
	logger.Warn("SESSION_SECRET is not set; using a random per-process key")
	return securecookie.GenerateRandomKey(32)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
