// Package main is the entry point for the catering-service application.
//
// @title           Catering Service API
// @version         1.0.0
// @description     Order configuration and pricing for a catering storefront.
//
//	Customers build a cart from packages and a-la-carte trays, pick a
//	pickup or delivery slot and submit the order. Staff manage the menu,
//	settings and orders through the admin routes.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/catering-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for admin routes when JWT authentication is disabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer access token issued by /api/auth/login.
//
// @tag.name        Menu
// @tag.description Public menu listing
//
// @tag.name        Packages
// @tag.description Package selection and pricing
//
// @tag.name        Cart
// @tag.description Session cart operations
//
// @tag.name        Checkout
// @tag.description Fulfillment, slots and totals
//
// @tag.name        Orders
// @tag.description Order submission
//
// @tag.name        Admin
// @tag.description Menu, settings and order management
//
// @tag.name        Auth
// @tag.description Staff authentication endpoints
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/guttosm/catering-service/docs" // swagger docs

	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server)
	server.OnShutdown(application.Close)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("Server error")
	}
}
