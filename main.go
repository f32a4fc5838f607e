package main

import (
	"log"

	_ "twilio-gateway/docs"
	"twilio-gateway/internal/app"
)

// @title Twilio Gateway API
// @version 1.0
// @description Authenticates Twilio webhooks and relays orders to WhatsApp over RPC.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-KEY
func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
