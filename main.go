// Command magnate starts the property-trading board game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API,
//     WebSocket state broadcasts, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server backed by an internal HTTP API
//
// Flags control host/port, the definitions directory, the saves directory,
// debug logging and version output.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ocastro/magnate/api"
	"github.com/ocastro/magnate/game/config"
	"github.com/ocastro/magnate/game/service"
	"github.com/ocastro/magnate/game/session"
	"github.com/ocastro/magnate/transport/mcp"
	"github.com/ocastro/magnate/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Magnate Game Server"
)

// Configuration flags control how the server starts.
var (
	port      = flag.Int("port", 8080, "HTTP server port")
	host      = flag.String("host", "localhost", "HTTP server host")
	configDir = flag.String("config-dir", envOrDefault("CONFIG_DIR", "configs"), "Directory containing board and deck definitions")
	savesDir  = flag.String("saves-dir", envOrDefault("SAVES_DIR", "saves"), "Directory for saved games")
	debug     = flag.Bool("debug", false, "Enable debug logging")
	version   = flag.Bool("version", false, "Show version information")
)

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Error loading .env file")
		}
	} else {
		log.Info().Msg("Loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Determine mode from command
	args := flag.Args()
	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}

	log.Info().Str("mode", mode).Msgf("Starting %s v%s", AppName, Version)

	gameService, games, err := initializeServices()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(gameService)

	case "server", "http":
		runHTTPServer(gameService, games)

	default:
		log.Fatal().Msgf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an
// /mcp proxy endpoint.
func runHTTPServer(gameService service.GameService, games *session.Manager) {
	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", *host, *port)

	// MCP endpoint proxies through the same REST API
	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?gameId=<game_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Prune stale in-memory games in the background
	wg.Add(1)
	cleanupDone := make(chan struct{})
	go func() {
		defer wg.Done()
		cleanupRoutine(games, cleanupDone)
	}()

	sig := <-stop
	log.Info().Str("signal", sig.String()).Msg("Shutting down")
	close(cleanupDone)

	// Persist everything before exiting
	if err := games.SaveAll(); err != nil {
		log.Warn().Err(err).Msg("Failed to persist games on shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("Server stopped")
}

// mcpHandler adapts the MCP message handler to a plain HTTP endpoint.
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// initializeServices wires the definition manager, persistence, game
// registry and service.
func initializeServices() (service.GameService, *session.Manager, error) {
	definitions, err := config.NewManager(*configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create definition manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(*savesDir, definitions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create game persistence: %w", err)
	}

	games := session.NewManagerWithPersistence(persistence)

	// Resume saved games on startup
	if err := games.LoadSaved(); err != nil {
		log.Warn().Err(err).Msg("Failed to load saved games")
	}

	gameService := service.NewGameService(games, definitions)
	return gameService, games, nil
}

// cleanupRoutine periodically removes games that have not been accessed
// within the retention window. Saved files are untouched.
func cleanupRoutine(games *session.Manager, done <-chan struct{}) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			removed := games.CleanupExpired(24 * time.Hour)
			if removed > 0 {
				log.Info().Int("removed", removed).Msg("Cleaned up expired games")
			}
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It tries to reuse
// an external API at http://localhost:8080; if unavailable, it starts a
// minimal internal HTTP API bound to a random loopback port.
func runStdioMCPWithInternalServer(gameService service.GameService) {
	var baseURL string

	externalURL := "http://localhost:8080"
	log.Info().Str("url", externalURL).Msg("Checking for external API server")

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Info().Str("url", externalURL).Msg("External API server found, using it for MCP")
		baseURL = externalURL
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get available port")
		}

		internalAddr := listener.Addr().String()
		log.Info().Str("addr", internalAddr).Msg("Starting internal HTTP server for MCP stdio")

		hub := websocket.NewHub()
		go hub.Run()

		apiServer := api.NewServer(gameService, hub)
		httpServer := &http.Server{Handler: apiServer}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()

		// Give the listener a moment to accept
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	log.Info().Msg("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatal().Err(err).Msg("MCP stdio server error")
	}
}
