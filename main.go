// Command robot-server hosts sliding-robot puzzle games.
//
// It supports three commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "board" prints a freshly started game, optionally with its shortest solution
//
// Every flag can also be set through the environment variable named in its
// help text. A .env file in the working directory is loaded first.
package main

import (
	"context"
	"encoding/json"
	"errors"
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
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/robot-server/api"
	"github.com/wricardo/robot-server/game/config"
	"github.com/wricardo/robot-server/game/service"
	"github.com/wricardo/robot-server/game/session"
	"github.com/wricardo/robot-server/transport/mcp"
	"github.com/wricardo/robot-server/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Robot Server"
)

func main() {
	// a missing .env is the normal case
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).Warn("failed to load .env file")
		}
	} else {
		log.Info("loaded environment from .env")
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("robot-server failed")
	}
}

// newCommand builds the command tree. Flags declared on the root are visible
// to every subcommand.
func newCommand() *cli.Command {
	defaults := config.Default()

	return &cli.Command{
		Name:    "robot-server",
		Usage:   "host sliding-robot puzzle games over HTTP, WebSocket and MCP",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   defaults.Host,
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   defaults.SessionTTL,
				Usage:   "remove games not accessed for this long",
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.DurationFlag{
				Name:    "cleanup-interval",
				Value:   defaults.CleanupInterval,
				Usage:   "how often expired games are swept",
				Sources: cli.EnvVars("CLEANUP_INTERVAL"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"))
			return ctx, nil
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server with API, WebSocket and MCP endpoint",
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp"},
				Usage:   "run an MCP stdio server, starting an internal HTTP API if none answers",
				Action:  runStdioMCP,
			},
			boardCommand(),
		},
	}
}

func setupLogging(debug bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// settingsFrom collects the flag values into validated settings
func settingsFrom(cmd *cli.Command) (config.Settings, error) {
	settings := config.Settings{
		Host:            cmd.String("host"),
		Port:            int(cmd.Int("port")),
		Debug:           cmd.Bool("debug"),
		SessionTTL:      cmd.Duration("session-ttl"),
		CleanupInterval: cmd.Duration("cleanup-interval"),
		NgrokEnabled:    cmd.Bool("ngrok"),
		NgrokAuth:       cmd.String("ngrok-auth"),
		NgrokDomain:     cmd.String("ngrok-domain"),
	}
	return settings, settings.Validate()
}

// initializeServices wires the registry and the game service and starts the
// expired game sweep, which stops with ctx.
func initializeServices(ctx context.Context, settings config.Settings) (service.GameService, *session.Manager) {
	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager)

	go sessionCleanupRoutine(ctx, sessionManager, settings.CleanupInterval, settings.SessionTTL)

	return gameService, sessionManager
}

// sessionCleanupRoutine periodically removes games that have not been
// accessed within maxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.WithFields(log.Fields{"removed": removed, "remaining": manager.Count()}).Info("cleaned up expired games")
			}
		}
	}
}

// newMCPHandler serves single JSON-RPC messages over POST
func newMCPHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
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

// newRouter combines the REST API with the /mcp endpoint
func newRouter(gameService service.GameService, hub *websocket.Hub, baseURL string) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(gameService, hub))
	mainRouter.HandleFunc("/mcp", newMCPHandler(mcp.NewClient(baseURL)))
	return mainRouter
}

// runServe starts the HTTP server and, when enabled, an ngrok tunnel. It
// returns after SIGINT or SIGTERM once everything has shut down.
func runServe(ctx context.Context, cmd *cli.Command) error {
	settings, err := settingsFrom(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gameService, _ := initializeServices(ctx, settings)

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	addr := settings.Addr()
	mainRouter := newRouter(gameService, hub, settings.BaseURL())

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.WithFields(log.Fields{"version": Version, "addr": addr}).Infof("starting %s", AppName)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?game=<game_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	if settings.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, settings, mainRouter)
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err = <-serveErr:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.WithError(shutdownErr).Error("http server shutdown failed")
	}

	wg.Wait()
	log.Info("server stopped")
	return err
}

// runNgrok serves handler through a public tunnel until ctx is done
func runNgrok(ctx context.Context, settings config.Settings, handler http.Handler) {
	var tunnel ngrokConfig.Tunnel
	if settings.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.NgrokDomain))
		log.WithField("domain", settings.NgrokDomain).Info("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	log.Info("starting ngrok tunnel")
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(settings.NgrokAuth))
	if err != nil {
		log.WithError(err).Error("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.WithError(err).Warn("failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.WithField("url", ngrokURL).Info("ngrok tunnel established")
	log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	log.Infof("  WebSocket (ngrok): %s/ws?game=<game_id>", ngrokURL)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.WithError(err).Error("ngrok server error")
	}
	log.Info("ngrok tunnel closed")
}

// externalAPIAvailable reports whether a robot server answers at baseURL
func externalAPIAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/healthz")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server. It reuses the API at the configured
// address when one answers; otherwise it starts an internal HTTP API bound to
// a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	settings, err := settingsFrom(cmd)
	if err != nil {
		return err
	}

	baseURL := settings.BaseURL()
	log.WithField("url", baseURL).Info("checking for external API server")

	if externalAPIAvailable(baseURL) {
		log.WithField("url", baseURL).Info("external API server found, using it for MCP")
	} else {
		log.Info("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		gameService, _ := initializeServices(ctx, settings)

		hub := websocket.NewHub()
		go hub.Run()
		defer hub.Stop()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("internal HTTP server error")
			}
		}()
		log.WithField("url", baseURL).Info("internal HTTP server started")
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}
