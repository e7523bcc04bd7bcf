// hikari runs one compiled agent module: it loads an Agent Spec, wires the
// LLM Core, Vector Store, Slot Store and Conversation Orchestrator against
// a PostgreSQL-backed ent client, and serves the HTTP/WebSocket API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/api"
	"github.com/codeready-toolchain/hikari/pkg/conversation"
	"github.com/codeready-toolchain/hikari/pkg/database"
	"github.com/codeready-toolchain/hikari/pkg/llmcore"
	"github.com/codeready-toolchain/hikari/pkg/orchestrator"
	"github.com/codeready-toolchain/hikari/pkg/slot"
	"github.com/codeready-toolchain/hikari/pkg/step"
	"github.com/codeready-toolchain/hikari/pkg/template"
	"github.com/codeready-toolchain/hikari/pkg/vectorstore"
	"github.com/codeready-toolchain/hikari/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	specPath := flag.String("agent-spec", getEnv("AGENT_SPEC_PATH", "./deploy/agents/default.agent.yaml"), "Path to the *.agent.yaml module to run")
	httpAddr := flag.String("http-addr", getEnv("HTTP_ADDR", ":8080"), "HTTP listen address")
	envPath := flag.String("env-file", getEnv("ENV_FILE", "./deploy/config/.env"), "Path to a .env file")
	flag.Parse()

	log := slog.Default()

	if err := godotenv.Load(*envPath); err != nil {
		log.Warn("could not load .env file, continuing with existing environment", "path", *envPath, "error", err)
	}

	ctx := context.Background()

	spec, err := agentspec.LoadFile(*specPath)
	if err != nil {
		log.Error("failed to load agent spec", "path", *specPath, "error", err)
		os.Exit(1)
	}
	moduleID := moduleIDFromPath(*specPath)

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Error("failed to load database config", "error", err)
		os.Exit(1)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Error("error closing database client", "error", err)
		}
	}()
	log.Info("connected to database")

	slots := slot.NewStore(dbClient.Client, log)
	convStore := conversation.NewStore(dbClient.Client, log)

	apiKey := os.Getenv("LLM_API_KEY")
	memoryWindow := spec.Memory.WindowSize
	if memoryWindow <= 0 {
		memoryWindow = 20
	}
	core, err := llmcore.NewCore(spec.Model, apiKey, template.Template(spec.Prompts.System), convStore, memoryWindow)
	if err != nil {
		log.Error("failed to build LLM core", "error", err)
		os.Exit(1)
	}

	embedder := vectorstore.NewHTTPEmbedder(http.DefaultClient, getEnv("EMBEDDER_URL", ""), apiKey, getEnv("EMBEDDER_MODEL", ""))
	vectors := vectorstore.NewStore(dbClient.Client, embedder)

	deps := step.Deps{
		Generator:      core,
		ValidationTool: core,
		ExtractionTool: core,
		SummarizerTool: core,
		Retriever:      vectors,
		HTTPClient:     http.DefaultClient,
	}

	program, err := orchestrator.Compile(spec, deps)
	if err != nil {
		log.Error("failed to compile agent spec", "module_id", moduleID, "error", err)
		os.Exit(1)
	}

	runtime := orchestrator.New(program, convStore, slots, log)
	convSvc := conversation.NewService(dbClient.Client, runtime, log)

	hub := api.NewHub(log)
	hubStop := make(chan struct{})
	defer close(hubStop)
	go hub.Run(hubStop)

	server := api.NewServer(dbClient, convSvc, runtime, hub, moduleID, log)
	server.SetVersion(version.GitCommit)

	log.Info("starting hikari", "module_id", moduleID, "addr", *httpAddr)
	if err := server.Start(*httpAddr); err != nil {
		log.Error("http server exited", "error", err)
		os.Exit(1)
	}
}

// moduleIDFromPath derives a module id from an Agent Spec file path the same
// way agentspec.LoadDir derives one per file in a directory: the filename
// with its .agent.yaml suffix stripped.
func moduleIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, ".agent.yaml")
}
