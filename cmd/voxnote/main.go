// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	voxnote "github.com/poiesic/voxnote"
	"github.com/poiesic/voxnote/ai"
	"github.com/poiesic/voxnote/ai/ollama"
	"github.com/poiesic/voxnote/ai/openai"
	"github.com/poiesic/voxnote/bot"
	"github.com/poiesic/voxnote/bot/telegram"
	"github.com/poiesic/voxnote/stt"
	"github.com/poiesic/voxnote/summarize"
)

func main() {
	// Missing .env is fine, env vars or flags may carry the config.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "voxnote",
		Usage: "Telegram bot that turns voice notes into a searchable summary archive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"VOXNOTE_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the bot",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "telegram-token",
						Usage:    "Telegram bot token",
						Required: true,
						EnvVars:  []string{"VOXNOTE_TELEGRAM_TOKEN"},
					},
					&cli.StringFlag{
						Name:    "db-path",
						Aliases: []string{"d"},
						Usage:   "Path to the record database",
						Value:   "voxnote-db",
						EnvVars: []string{"VOXNOTE_DB_PATH"},
					},
					&cli.StringFlag{
						Name:    "db-backend",
						Usage:   "Storage backend (badger, sqlite)",
						Value:   voxnote.BackendBadger,
						EnvVars: []string{"VOXNOTE_DB_BACKEND"},
					},
					&cli.StringFlag{
						Name:     "stt-url",
						Usage:    "Speech-to-text transcription endpoint URL",
						Required: true,
						EnvVars:  []string{"VOXNOTE_STT_URL"},
					},
					&cli.StringFlag{
						Name:    "stt-model",
						Usage:   "Speech-to-text model name",
						EnvVars: []string{"VOXNOTE_STT_MODEL"},
					},
					&cli.StringFlag{
						Name:    "llm-backend",
						Usage:   "Summary LLM backend (ollama, openai)",
						Value:   ai.BackendOllama,
						EnvVars: []string{"VOXNOTE_LLM_BACKEND"},
					},
					&cli.StringFlag{
						Name:    "llm-host",
						Usage:   "LLM service host URL",
						Value:   "http://localhost:11434",
						EnvVars: []string{"VOXNOTE_LLM_HOST"},
					},
					&cli.StringFlag{
						Name:    "llm-model",
						Usage:   "LLM model name",
						Value:   "llama3.2",
						EnvVars: []string{"VOXNOTE_LLM_MODEL"},
					},
					&cli.StringFlag{
						Name:    "llm-api-key",
						Usage:   "API key for the openai backend",
						EnvVars: []string{"VOXNOTE_LLM_API_KEY"},
					},
					&cli.DurationFlag{
						Name:    "llm-timeout",
						Usage:   "Timeout for a single generation request",
						Value:   120 * time.Second,
						EnvVars: []string{"VOXNOTE_LLM_TIMEOUT"},
					},
					&cli.Float64Flag{
						Name:    "summary-deviation",
						Usage:   "Allowed relative deviation from the summary length window",
						Value:   summarize.DefaultDeviation,
						EnvVars: []string{"VOXNOTE_SUMMARY_DEVIATION"},
					},
					&cli.IntFlag{
						Name:    "summary-max-tries",
						Usage:   "Summary generation attempts before degrading",
						Value:   summarize.DefaultMaxTries,
						EnvVars: []string{"VOXNOTE_SUMMARY_MAX_TRIES"},
					},
					&cli.DurationFlag{
						Name:    "session-timeout",
						Usage:   "Edit dialog session timeout",
						Value:   5 * time.Minute,
						EnvVars: []string{"VOXNOTE_SESSION_TIMEOUT"},
					},
					&cli.IntFlag{
						Name:    "pool-size",
						Usage:   "Number of concurrent update handlers",
						Value:   16,
						EnvVars: []string{"VOXNOTE_POOL_SIZE"},
					},
					&cli.StringFlag{
						Name:    "health-addr",
						Usage:   "Listen address for the health endpoint, empty disables it",
						EnvVars: []string{"VOXNOTE_HEALTH_ADDR"},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	// Storage
	archive, err := voxnote.NewArchive(c.String("db-backend"), c.String("db-path"))
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	// Summary LLM
	aiConfig := ai.NewConfig(
		ai.WithBackend(c.String("llm-backend")),
		ai.WithHost(c.String("llm-host")),
		ai.WithModel(c.String("llm-model")),
		ai.WithAPIKey(c.String("llm-api-key")),
		ai.WithTimeout(c.Duration("llm-timeout")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid LLM configuration: %w", err)
	}

	var generator ai.Generator
	switch aiConfig.Backend {
	case ai.BackendOllama:
		generator, err = ollama.NewGenerator(aiConfig)
	case ai.BackendOpenAI:
		generator, err = openai.NewGenerator(aiConfig)
	default:
		return fmt.Errorf("unknown LLM backend %q", aiConfig.Backend)
	}
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	summarizer := summarize.NewSummarizer(generator,
		summarize.WithDeviation(c.Float64("summary-deviation")),
		summarize.WithMaxTries(c.Int("summary-max-tries")),
		summarize.WithAttemptTimeout(aiConfig.Timeout),
	)

	// Transcription
	var sttOpts []stt.ClientOption
	if model := c.String("stt-model"); model != "" {
		sttOpts = append(sttOpts, stt.WithModel(model))
	}
	transcriber, err := stt.NewClient(c.String("stt-url"), sttOpts...)
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	// Telegram transport
	client := telegram.NewClient(c.String("telegram-token"))

	engine, err := bot.New(
		archive.Records(),
		telegram.NewFetcher(client),
		transcriber,
		summarizer,
		telegram.NewResponder(client),
		bot.WithSessionTimeout(c.Duration("session-timeout")),
	)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	adapter, err := telegram.NewAdapter(client, engine,
		telegram.WithPoolSize(c.Int("pool-size")),
	)
	if err != nil {
		return fmt.Errorf("failed to create telegram adapter: %w", err)
	}
	defer adapter.Close()

	// Health endpoint
	if addr := c.String("health-addr"); addr != "" {
		health := bot.NewHealthServer(addr)
		go func() {
			if err := health.Start(); err != nil {
				logger.Error("health server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := health.Shutdown(shutdownCtx); err != nil {
				logger.Error("health server shutdown failed", "error", err)
			}
		}()
	}

	logger.Info("starting voxnote",
		"db_backend", c.String("db-backend"),
		"db_path", c.String("db-path"),
		"llm_backend", aiConfig.Backend,
		"llm_model", aiConfig.Model,
	)

	if err := adapter.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("bot stopped: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
