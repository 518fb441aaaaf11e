package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-watch-store/internal/aws"
	"github.com/imrishuroy/go-watch-store/internal/cart"
	"github.com/imrishuroy/go-watch-store/internal/config"
	"github.com/imrishuroy/go-watch-store/internal/docstore"
	"github.com/imrishuroy/go-watch-store/internal/handlers"
	"github.com/imrishuroy/go-watch-store/internal/idempotency"
	"github.com/imrishuroy/go-watch-store/internal/orders"
	"github.com/imrishuroy/go-watch-store/internal/watches"
)

var collections = []string{watches.Collection, cart.Collection, orders.Collection, idempotency.Collection}

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// any origin, with credentials
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-Request-Id"},
		AllowCredentials: true,
	}))

	handlers.RegisterRoutes(r, cfg)
	return r
}

// connectStore returns nil when the store is not configured or unreachable;
// the API then answers every data route with database_unavailable.
func connectStore(ctx context.Context, cfg config.Config, clients *aws.AWSClients) *docstore.Store {
	if !cfg.DatabaseConfigured() {
		log.Printf("[api] DATABASE_URL or DATABASE_NAME not set, database unavailable")
		return nil
	}
	if clients == nil {
		log.Printf("[api] no aws clients, database unavailable")
		return nil
	}
	docs, err := docstore.Connect(ctx, clients.DynamoDB, docstore.Options{
		URL:         cfg.DatabaseURL,
		Name:        cfg.DatabaseName,
		Timeout:     cfg.DatabaseConnectTimeout,
		Collections: collections,
		TTL:         map[string]string{idempotency.Collection: idempotency.TTLAttribute},
	})
	if err != nil {
		log.Printf("[api] database unavailable: %v", err)
		return nil
	}
	return docs
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	clients, err := aws.NewAWSClients(ctx, cfg.AWSRegion, cfg.DatabaseURL)
	if err != nil {
		log.Printf("[api] failed to init aws clients: %v", err)
		clients = nil
	}

	hcfg := handlers.HandlerConfig{
		Docs:            connectStore(ctx, cfg, clients),
		IdempotencyTTL:  cfg.IdempotencyTTL,
		DatabaseURLSet:  cfg.DatabaseURL != "",
		DatabaseNameSet: cfg.DatabaseName != "",
	}
	if clients != nil {
		hcfg.Publisher = aws.NewPublisher(clients.SQS, cfg.OrdersQueueURL)
		hcfg.Metrics = aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace)
	}

	r := setupRouter(hcfg)

	if !cfg.InLambda() {
		addr := "0.0.0.0:" + cfg.Port
		log.Printf("[api] listening on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
