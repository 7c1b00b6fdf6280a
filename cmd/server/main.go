package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Wiritpol/Line-Bot-CP/config"
	httpDelivery "github.com/Wiritpol/Line-Bot-CP/internal/delivery/http"
	"github.com/Wiritpol/Line-Bot-CP/internal/domain"
	"github.com/Wiritpol/Line-Bot-CP/internal/infrastructure/catalog"
	"github.com/Wiritpol/Line-Bot-CP/internal/infrastructure/ollama"
	"github.com/Wiritpol/Line-Bot-CP/internal/usecase"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CP Chatbot Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog: %s", cfg.Catalog.CSVPath)

	// Catalog: CSV source behind an mtime-invalidated cache
	csvSource := catalog.NewCSVSource(cfg.Catalog.CSVPath, cfg.Matching.EnableDebugLogs)
	catalogCache := catalog.NewCache(csvSource, cfg.Catalog.CSVPath)

	// Embedding backend for semantic similarity
	embedClient := ollama.NewEmbeddingClient(cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel, cfg.Ollama.EmbedTimeout)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		embedClient.SetDebug(true)
		log.Printf("Ollama client debug mode enabled")
	}

	// Generation backend is optional; without it the bot answers with
	// deterministic canned texts only
	var generateClient *ollama.GenerateClient
	if cfg.Ollama.GenerateEnabled {
		generateClient = ollama.NewGenerateClient(
			cfg.Ollama.BaseURL,
			cfg.Ollama.GenerateModel,
			cfg.Ollama.GenerateTimeout,
			cfg.Ollama.SummaryTimeout,
		)
		if cfg.Server.Environment == "development" {
			generateClient.SetDebug(true)
		}
		log.Printf("Ollama generation: %s (model: %s)", cfg.Ollama.BaseURL, cfg.Ollama.GenerateModel)
	} else {
		log.Printf("Ollama generation disabled - canned fallback replies only")
	}

	// Usecase layer
	parser := usecase.NewPriceParser(cfg.Matching.EnableDebugLogs)

	searchService := usecase.NewSearchService(embedClient, parser, usecase.SearchConfig{
		DefaultTopK:        cfg.Matching.TopK,
		DefaultThreshold:   cfg.Matching.SearchThreshold,
		IncludeUnpriced:    cfg.Matching.IncludeUnpriced,
		EnableDebugLogging: cfg.Matching.EnableDebugLogs,
	})

	var summaryBackend usecase.SummaryBackend
	if generateClient != nil {
		summaryBackend = generateClient
	}
	summaryService := usecase.NewSummaryService(summaryBackend, cfg.Matching.EnableDebugLogs)

	chatService := usecase.NewChatService(
		catalogCache,
		embedClient,
		textGenerator(generateClient),
		summaryService,
		searchService,
		parser,
		usecase.ChatConfig{
			MenuThreshold:      cfg.Matching.MenuThreshold,
			SearchThreshold:    cfg.Matching.SearchThreshold,
			RelatedThreshold:   cfg.Matching.RelatedThreshold,
			TopK:               cfg.Matching.TopK,
			MenuSize:           cfg.Matching.MenuSize,
			EnableDebugLogging: cfg.Matching.EnableDebugLogs,
		},
	)

	log.Printf("Matching: menu=%.2f search=%.2f top_k=%d unpriced=%v",
		cfg.Matching.MenuThreshold,
		cfg.Matching.SearchThreshold,
		cfg.Matching.TopK,
		cfg.Matching.IncludeUnpriced)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(chatService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// textGenerator keeps the chat service's generator nil when generation is
// disabled (a typed nil pointer inside the interface would not be nil).
func textGenerator(client *ollama.GenerateClient) domain.TextGenerator {
	if client == nil {
		return nil
	}
	return client
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
