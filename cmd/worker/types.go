package main

import "github.com/imrishuroy/go-watch-store/internal/orders"

// WorkerMessage is the payload sent from API -> SQS -> Worker.
type WorkerMessage = orders.PlacedEvent
