package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/anthropics/telegram-codex-gateway/codex"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/usecase"
	"github.com/anthropics/telegram-codex-gateway/internal/conf"
	"github.com/anthropics/telegram-codex-gateway/internal/data"
	"github.com/anthropics/telegram-codex-gateway/internal/server"
	"github.com/anthropics/telegram-codex-gateway/internal/service"
	"github.com/anthropics/telegram-codex-gateway/telegram"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := conf.LoadFromEnv()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Resolve the allowlist once at startup
	allowlist, unresolved := domain.NewAllowlist(cfg.Access.AllowEntries)
	for _, entry := range unresolved {
		fmt.Printf("[Gateway] Warning: unresolvable allow entry ignored: %q\n", entry)
	}
	if allowlist.Empty() {
		log.Fatal("No resolvable entries in ALLOWED_CHAT_USER_IDS")
	}

	// Initialize clients
	telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram client: %v", err)
	}
	codexClient := codex.NewClient(cfg.Codex.WorkingDir, cfg.Codex.Model)

	// Initialize repository layer
	repos, err := data.NewRepositories(telegramClient, codexClient, cfg.Session.DBPath, cfg.Gateway.BufferCapacity)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	// Initialize usecase layer
	accessUC := usecase.NewAccessUsecase(allowlist, repos.ChatState, cfg.Debug)
	triggerUC := usecase.NewTriggerUsecase(allowlist)
	promptUC := usecase.NewPromptUsecase(cfg.Prompts.Prompt.Header)
	sessionUC := usecase.NewSessionUsecase(repos.Session, cfg.Session.ToSessionConfig())
	convUC := usecase.NewConversationUsecase(repos.ChatState, sessionUC, promptUC, repos.Agent, cfg.Codex.InvokeTimeout)

	// Initialize service layer
	gateway := service.NewGatewayService(
		accessUC, triggerUC, convUC,
		repos.ChatState, repos.Transport,
		cfg.Codex.WorkerPoolSize, cfg.Gateway.BusyPolicy, cfg.Prompts.Notices,
	)

	// Initialize server
	srv := server.NewTelegramServer(telegramClient, gateway)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		srv.Stop()
	}()

	fmt.Printf("Starting Telegram-Codex Gateway (workdir=%s, workers=%d)...\n",
		cfg.Codex.WorkingDir, cfg.Codex.WorkerPoolSize)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
