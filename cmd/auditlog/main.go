package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"aftercare-ai-be/pkg/events"
	"aftercare-ai-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Tails the audit event stream from NATS JetStream. Useful when
// debugging routing decisions without grepping the structured log file.
// Usage: auditlog [-subject "events.>"] [-durable audit-tail]

func main() {
	subject := flag.String("subject", "events.>", "subject filter, e.g. events.ROUTE_CHOSEN")
	durable := flag.String("durable", "audit-tail", "durable consumer name")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sub, err := nats.NewSubscriber(natsURL)
	if err != nil {
		log.Fatalf("Error: cannot connect to NATS at %s: %v", natsURL, err)
	}
	defer sub.Close()

	if err := sub.Subscribe(*subject, *durable, printEvent); err != nil {
		log.Fatalf("Error: subscribe failed: %v", err)
	}

	color.Cyan("Tailing %s (durable %s), Ctrl-C to stop", *subject, *durable)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}

func printEvent(ctx context.Context, event events.Event) error {
	eventType := strings.TrimPrefix(event.EventType(), "events.")

	typeColor := color.New(color.FgGreen)
	switch eventType {
	case "PROVIDER_ERROR":
		typeColor = color.New(color.FgRed, color.Bold)
	case "STATE_TRANSITION":
		typeColor = color.New(color.FgCyan)
	case "ROUTE_CHOSEN":
		typeColor = color.New(color.FgYellow)
	}

	payload, _ := json.Marshal(event.Payload())
	fmt.Printf("%s %s %s\n",
		color.HiBlackString(event.Timestamp().Format("15:04:05")),
		typeColor.Sprintf("%-18s", eventType),
		string(payload),
	)
	return nil
}
