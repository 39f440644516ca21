// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/ai"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/connector"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/db"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/handler"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/queue"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/repository"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/service"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/ws"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	messageRepo := &repository.MessageRepository{DB: db.DB}
	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	executionRepo := &repository.ExecutionRepository{DB: db.DB}

	// Execution queue: RabbitMQ when configured, in-process otherwise.
	var q queue.Queue
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		pub, err := queue.NewAMQPPublisher(amqpURL)
		if err != nil {
			log.Fatal("failed to set up AMQP publisher:", err)
		}
		defer pub.Close()
		q = pub
	} else {
		log.Println("⚠️ AMQP_URL not set, using in-process execution queue")
		inmem := queue.NewInMemoryQueue()
		service.StartExecutionSubscriber(inmem, executionRepo, service.MockSend)
		q = inmem
	}

	connectors := connector.NewService(strings.EqualFold(os.Getenv("USE_REAL_DATA_SOURCES"), "true"))

	aiClient := ai.NewClientWithConfig(ai.Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
	})

	campaignService := &service.CampaignService{
		Synthesizer:   &service.Synthesizer{AI: aiClient},
		Connectors:    connectors,
		CampaignRepo:  campaignRepo,
		ExecutionRepo: executionRepo,
		Queue:         q,
	}

	registry := ws.NewRegistry()

	orchestrator := &service.Orchestrator{
		Registry:                  registry,
		AI:                        aiClient,
		Campaigns:                 campaignService,
		Connectors:                connectors,
		Messages:                  messageRepo,
		CampaignGenerationEnabled: !strings.EqualFold(os.Getenv("CAMPAIGN_GENERATION_ENABLED"), "false"),
	}

	chatHandler := &handler.ChatHandler{
		Registry:     registry,
		Orchestrator: orchestrator,
		MessageRepo:  messageRepo,
	}
	dataSourceHandler := &handler.DataSourceHandler{Connectors: connectors}
	campaignHandler := &handler.CampaignHandler{Service: campaignService}
	configHandler := &handler.ConfigHandler{}

	r := chi.NewRouter()

	// Chat routes
	r.Post("/api/chat/message", chatHandler.SendMessage)
	r.Get("/api/chat/history/{clientID}", chatHandler.GetHistory)
	r.Delete("/api/chat/history/{clientID}", chatHandler.ClearHistory)

	// Data source routes
	r.Get("/api/data-sources/", dataSourceHandler.ListSources)
	r.Post("/api/data-sources/connect/{sourceID}", dataSourceHandler.Connect)
	r.Get("/api/data-sources/connections", dataSourceHandler.ListConnections)
	r.Delete("/api/data-sources/disconnect/{sourceID}", dataSourceHandler.Disconnect)
	r.Get("/api/data-sources/data/{sourceID}", dataSourceHandler.GetData)

	// Campaign routes
	r.Post("/api/campaigns/generate", campaignHandler.Generate)
	r.Get("/api/campaigns/channels", campaignHandler.ListChannels)
	r.Post("/api/campaigns/execute/{campaignID}", campaignHandler.Execute)
	r.Get("/api/campaigns/history/{clientID}", campaignHandler.History)

	// Config routes
	r.Get("/", configHandler.Root)
	r.Get("/api/config/", configHandler.GetConfiguration)
	r.Get("/api/config/health", configHandler.Health)
	r.Get("/health", configHandler.Health)

	// Realtime chat
	r.Get("/ws/{clientID}", ws.ServeWS(registry, orchestrator))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
