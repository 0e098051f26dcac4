// Command server runs the interview backend HTTP API.
//
// Configuration is read from config.yaml and environment variables; see
// internal/config for the full list. Exit codes: 0 = clean shutdown,
// 1 = startup or runtime error.
package main

import (
	"context"
	"log"

	"github.com/opscapture/interview-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
