package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nico916/football-comparator/internal/config"
	mcpserver "github.com/nico916/football-comparator/internal/mcp"
	"github.com/nico916/football-comparator/internal/server"
	"github.com/nico916/football-comparator/pkg/engine"
	"github.com/nico916/football-comparator/pkg/pca"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	httpAddr := flag.String("http-addr", "", "HTTP API address, overrides server.addr (e.g. :9091)")
	datasetPath := flag.String("dataset", "", "Season CSV file, overrides dataset.path")
	mcpMode := flag.Bool("mcp", false, "Serve the MCP protocol over stdio instead of HTTP")
	player := flag.String("player", "", "Print the neighbor report of this player as JSON and exit")
	version := flag.Bool("version", false, "Print the version and exit")

	flag.Parse()

	if *version {
		fmt.Println(mcpserver.Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if *httpAddr != "" {
		cfg.Server.Addr = *httpAddr
	}
	if *datasetPath != "" {
		cfg.Dataset.Path = *datasetPath
	}

	slog.SetDefault(cfg.Log.NewLogger())

	eng, err := engine.Open(cfg.EngineOptions())
	if err != nil {
		var degenerate *pca.DegenerateColumnError
		if errors.As(err, &degenerate) {
			log.Fatalf("Column '%s' has zero variance; remove it from the dataset or the attribute list", degenerate.Name)
		}
		log.Fatalf("Failed to load dataset: %v", err)
	}
	defer eng.Close()

	if *player != "" {
		report, err := eng.Neighbors(*player, 0)
		if err != nil {
			log.Fatalf("Query failed: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)
		if !report.Found {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *mcpMode {
		// Stdout belongs to the protocol; logs stay on stderr.
		if err := mcpserver.NewMCPServer(eng).Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("MCP server error: %v", err)
		}
		return
	}

	srv, err := server.NewServer(eng, cfg.Server)
	if err != nil {
		log.Fatalf("Could not create the server: %v", err)
	}

	go func() {
		if err := srv.Run(); err != nil {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	srv.Shutdown()
}
