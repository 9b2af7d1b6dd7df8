package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/impostrico/internal/ai"
	"github.com/kiliankoe/impostrico/internal/ai/gemini"
	"github.com/kiliankoe/impostrico/internal/ai/ollama"
	"github.com/kiliankoe/impostrico/internal/ai/openai"
	"github.com/kiliankoe/impostrico/internal/cli"
	"github.com/kiliankoe/impostrico/internal/config"
	"github.com/kiliankoe/impostrico/internal/cue"
	"github.com/kiliankoe/impostrico/internal/game"
	"github.com/kiliankoe/impostrico/internal/spy"
	"github.com/kiliankoe/impostrico/internal/words"
)

func main() {
	offline := flag.Bool("offline", false, "Use the built-in word lists instead of WORD_PROVIDER")
	flag.Parse()

	_ = godotenv.Load()

	// logs go to stderr so they don't mix with the game text
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	log.Logger = log.Output(cw)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	name := cfg.WordProvider
	if *offline {
		name = "static"
	}
	llms := map[string]ai.Provider{
		"gemini": gemini.New(cfg.GeminiKey, cfg.GeminiBaseURL, cfg.WordTimeout),
		"openai": openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.WordTimeout),
		"ollama": ollama.New(cfg.OllamaHost, cfg.WordTimeout),
	}
	provider, err := words.Select(name, llms, cfg.WordModel, cfg.WordSystemPrompt)
	if err != nil {
		log.Fatal().Err(err).Str("provider", name).Msg("word provider")
	}

	opts := game.Options{
		Spy: spy.Options{
			Words:        provider,
			HandoffDelay: cfg.HandoffDelay,
			WordTimeout:  cfg.WordTimeout,
		},
		Cues: func(code string) cue.Player {
			return cue.Fanout{cli.Bell(os.Stdout), cue.Log{Logger: log.Logger, Scope: code}}
		},
		SingleSession: true,
	}
	if cfg.ExportEnabled {
		opts.Export = game.NewExporter(cfg.ExportFile)
	}
	tm := game.NewManager(opts)
	code, _ := tm.CreateTable()
	tbl, _ := tm.Get(code)
	defer tm.Remove(code)

	if err := cli.New(os.Stdin, os.Stdout, tbl).Run(context.Background()); err != nil {
		log.Error().Err(err).Msg("cli")
	}
}
