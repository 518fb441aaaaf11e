package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/go-watch-store/internal/aws"
	"github.com/imrishuroy/go-watch-store/internal/config"
	"github.com/imrishuroy/go-watch-store/internal/docstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	clients, err := aws.NewAWSClients(ctx, cfg.AWSRegion, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}
	docs, err := docstore.Connect(ctx, clients.DynamoDB, docstore.Options{
		URL:     cfg.DatabaseURL,
		Name:    cfg.DatabaseName,
		Timeout: cfg.DatabaseConnectTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	p := NewProcessor(docs, aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace))

	// RUN_LOCAL=true processes one simulated message and exits.
	if cfg.RunLocal {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"order_id":"00000000-0000-0000-0000-000000000000"}`
		}
		event := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "local", Body: body}}}
		if err := p.Handle(ctx, event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
