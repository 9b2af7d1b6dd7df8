package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/impostrico/internal/ai"
	"github.com/kiliankoe/impostrico/internal/ai/gemini"
	"github.com/kiliankoe/impostrico/internal/ai/ollama"
	"github.com/kiliankoe/impostrico/internal/ai/openai"
	"github.com/kiliankoe/impostrico/internal/config"
	"github.com/kiliankoe/impostrico/internal/game"
	"github.com/kiliankoe/impostrico/internal/spy"
	"github.com/kiliankoe/impostrico/internal/words"
	"github.com/kiliankoe/impostrico/internal/ws"
	staticserver "github.com/kiliankoe/impostrico/static"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Impostrico - hot-seat party games

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                  Port to listen on (default: 8080)
  WORD_PROVIDER         Secret word source: gemini, openai, ollama or static (default: gemini)
  WORD_MODEL            Model name (default depends on provider)
  WORD_SYSTEM_PROMPT    System prompt for the word request (optional)
  WORD_TIMEOUT          Word request timeout (default: 20s)
  API_KEY               Gemini API key (alias of GEMINI_API_KEY)
  GEMINI_API_KEY        Gemini API key
  GEMINI_BASE_URL       Custom Gemini API base URL (optional)
  OPENAI_API_KEY        OpenAI API key
  OPENAI_BASE_URL       Custom OpenAI API base URL (optional)
  OLLAMA_HOST           Ollama host URL (default: http://localhost:11434)
  REVEAL_HANDOFF_DELAY  Hand-off screen duration (default: 1500ms)
  SINGLE_SESSION        Keep only one table; replacing it needs its host token (default: true)
  EXPORT_ENABLED        Export finished games to a file (default: false)
  EXPORT_FILE           Path of the export file (default: ./impostrico-results.txt)
  LOG_LEVEL             debug, info, warn or error (default: info)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Impostrico %s\n", version)
		return
	}

	_ = godotenv.Load()

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(cw)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	llms := map[string]ai.Provider{
		"gemini": gemini.New(cfg.GeminiKey, cfg.GeminiBaseURL, cfg.WordTimeout),
		"openai": openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.WordTimeout),
		"ollama": ollama.New(cfg.OllamaHost, cfg.WordTimeout),
	}
	provider, err := words.Select(cfg.WordProvider, llms, cfg.WordModel, cfg.WordSystemPrompt)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.WordProvider).Msg("word provider")
	}
	log.Info().Str("provider", cfg.WordProvider).Msg("word provider ready")

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Socket server + table manager
	sock := ws.New()
	opts := game.Options{
		Spy: spy.Options{
			Words:        provider,
			HandoffDelay: cfg.HandoffDelay,
			WordTimeout:  cfg.WordTimeout,
		},
		Cues:          sock.CuePlayer,
		OnChange:      sock.Notify,
		SingleSession: cfg.SingleSession,
	}
	if cfg.ExportEnabled {
		opts.Export = game.NewExporter(cfg.ExportFile)
	}
	tm := game.NewManager(opts)
	sock.SetManager(tm)
	io := sock.Mount(r)
	defer io.Close()

	tableRoutes(r, tm)

	// Serve the embedded page for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Info().Str("port", port).Msg("listening")
	if err := http.ListenAndServe(":"+port, handlers.ProxyHeaders(r)); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
