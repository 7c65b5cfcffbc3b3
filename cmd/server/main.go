// Package main provides the entry point for the Draco Astrophotography Simulator.
//
// Draco Simulator is a dual-mode application that serves as both an educational
// astrophotography simulator AND a real equipment controller. Users learn through
// gamified simulation, then seamlessly transition to controlling real telescopes.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/darkdragonsastro/stellarcat/internal/api/rest"
	"github.com/darkdragonsastro/stellarcat/internal/api/websocket"
	"github.com/darkdragonsastro/stellarcat/internal/catalog"
	"github.com/darkdragonsastro/stellarcat/internal/database"
	"github.com/darkdragonsastro/stellarcat/internal/eventbus"
	"github.com/darkdragonsastro/stellarcat/internal/game"
	"github.com/darkdragonsastro/stellarcat/internal/mount"
	"github.com/darkdragonsastro/stellarcat/internal/starcat"
)

// Version information (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Config holds server configuration
type Config struct {
	Port            int
	Host            string
	DataDir         string
	MaxLevel        int
	EnableSimulator bool
	EnableLiveMode  bool
	Debug           bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		Host:            "0.0.0.0",
		DataDir:         "./data",
		MaxLevel:        3,
		EnableSimulator: true,
		EnableLiveMode:  false, // Requires real equipment
		Debug:           true,
	}
}

func main() {
	app := &cli.App{
		Name:  "stellarcat-server",
		Usage: "serves the Draco Astrophotography Simulator API",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: DefaultConfig().Port, Usage: "HTTP listen port"},
			&cli.StringFlag{Name: "host", Value: DefaultConfig().Host, Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "data-dir", Value: DefaultConfig().DataDir, Usage: "directory holding stars/*.cat and name index files"},
			&cli.IntFlag{Name: "max-level", Value: DefaultConfig().MaxLevel, Usage: "deepest geodesic subdivision level named by any cat file"},
			&cli.BoolFlag{Name: "enable-simulator", Value: DefaultConfig().EnableSimulator, Usage: "enable the gamified simulator mode"},
			&cli.BoolFlag{Name: "enable-live-mode", Value: DefaultConfig().EnableLiveMode, Usage: "enable real-equipment control mode"},
			&cli.BoolFlag{Name: "debug", Value: DefaultConfig().Debug, Usage: "enable debug logging"},
		},
		Action: func(cCtx *cli.Context) error {
			config := Config{
				Port:            cCtx.Int("port"),
				Host:            cCtx.String("host"),
				DataDir:         cCtx.String("data-dir"),
				MaxLevel:        cCtx.Int("max-level"),
				EnableSimulator: cCtx.Bool("enable-simulator"),
				EnableLiveMode:  cCtx.Bool("enable-live-mode"),
				Debug:           cCtx.Bool("debug"),
			}
			return runServer(config)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(config Config) error {
	fmt.Printf("Draco Astrophotography Simulator %s (built %s)\n", Version, BuildTime)
	fmt.Println("==========================================")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Initialize and start the server
	if err := run(ctx, config); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

// starEngineConfig builds a starcat.Config from the well-known file layout
// under dataDir/stars, the same directory layout cmd/catalog-gen writes.
func starEngineConfig(dataDir string) starcat.Config {
	cfg := starcat.DefaultConfig()
	starsDir := filepath.Join(dataDir, "stars")
	matches, _ := filepath.Glob(filepath.Join(starsDir, "*.cat"))
	cfg.CatFileNames = matches
	cfg.CommonNameFileName = filepath.Join(starsDir, "common_names.txt")
	cfg.SciNameFileName = filepath.Join(starsDir, "sci_names.txt")
	cfg.HipSpFileName = filepath.Join(starsDir, "hip_sp.txt")
	cfg.HipCidsFileName = filepath.Join(starsDir, "hip_cids.txt")
	return cfg
}

func run(ctx context.Context, config Config) error {
	// Initialize infrastructure
	bus := eventbus.NewInMemoryBus()
	db := database.NewInMemoryDB()

	// Initialize game service
	gameService := game.NewService(bus, db)
	if err := gameService.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize game service: %w", err)
	}
	if err := gameService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start game service: %w", err)
	}
	defer gameService.Stop(ctx)

	// Initialize catalogs
	engine := starcat.NewEngine(config.MaxLevel, starEngineConfig(config.DataDir))
	starCatalog := catalog.NewStarEngineCatalog(engine)
	if err := starCatalog.Load(ctx); err != nil {
		log.Printf("Warning: failed to load star catalogue: %v", err)
	}
	log.Printf("Loaded %d stars", starCatalog.Count())

	dsoCatalog := catalog.NewDSOCatalog("Messier")

	// Load embedded Messier catalog
	if err := dsoCatalog.Load(ctx); err != nil {
		log.Printf("Warning: failed to load Messier catalog: %v", err)
	}

	log.Printf("Loaded %d DSO objects", dsoCatalog.Count())

	// Initialize the simulated mount
	mountSim := mount.NewSimulator(mount.DefaultConfig(), nil)

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	// Initialize REST API server
	restConfig := rest.Config{
		Address: fmt.Sprintf("%s:%d", config.Host, config.Port),
		Debug:   config.Debug,
	}
	server := rest.NewServer(restConfig, gameService, starCatalog, dsoCatalog, mountSim)

	// Create HTTP server that combines REST + WebSocket
	mux := http.NewServeMux()

	// Mount REST API
	mux.Handle("/", server.Handler())

	// Mount WebSocket endpoint
	mux.HandleFunc("/ws", wsHub.HandleWebSocket)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: mux,
	}

	log.Printf("Starting server on %s:%d", config.Host, config.Port)
	log.Printf("Simulator mode: %v", config.EnableSimulator)
	log.Printf("Live mode: %v", config.EnableLiveMode)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	log.Printf("Server is ready at http://%s:%d", config.Host, config.Port)
	log.Println("")
	log.Println("API Endpoints:")
	log.Println("  GET  /api/v1/health           - Health check")
	log.Println("  GET  /api/v1/game/progress    - Player progress")
	log.Println("  GET  /api/v1/game/challenges  - All challenges")
	log.Println("  GET  /api/v1/game/achievements - All achievements")
	log.Println("  GET  /api/v1/game/store       - Equipment store")
	log.Println("  GET  /api/v1/catalog/dso/messier - Messier catalog")
	log.Println("  GET  /api/v1/catalog/visible  - Currently visible objects")
	log.Println("  GET  /api/v1/sky/conditions   - Sky conditions")
	log.Println("  GET  /api/v1/sky/twilight     - Twilight times")
	log.Println("  GET  /api/v1/sky/moon         - Moon info")
	log.Println("  WS   /ws                      - WebSocket connection")
	log.Println("")

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		log.Println("Shutting down gracefully...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
