// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fareline/internal/assist"
	"fareline/internal/config"
	httptransport "fareline/internal/http"
	"fareline/internal/identity"
	"fareline/internal/infra"
	"fareline/internal/maps"
	"fareline/internal/modules/booking"
	"fareline/internal/modules/history"
	"fareline/internal/modules/pricing"
	"fareline/internal/modules/rideshare"
	"fareline/internal/payment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Maps.APIKey == "" {
		log.Fatal("FARELINE_MAPS_API_KEY is required")
	}
	routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}
	placesSvc, err := maps.NewPlacesService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	tokens := infra.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TTLMinutes)*time.Minute)

	catalog := pricing.DefaultCatalog()
	pricingStore := pricing.NewStore(dbPool)
	pricingSvc := pricing.NewService(pricingStore, catalog)

	shareStore := rideshare.NewStore(redisClient, time.Duration(cfg.Offers.TTLMinutes)*time.Minute)
	shareSvc := rideshare.NewService(shareStore, cfg.Offers.SeedDemo)

	bookingStore := booking.NewStore(dbPool)
	bookingSvc := booking.NewService(bookingStore, pricingSvc, routeSvc)

	historySvc := history.NewService(history.NewStore(dbPool))

	identitySvc := identity.NewService(
		identity.NewProvider(cfg.Identity.BaseURL),
		identity.NewStore(dbPool),
		tokens,
	)

	paymentClient := payment.NewClient(cfg.Payment.ProviderURL)

	var responder assist.Responder = assist.NewCannedResponder()
	if cfg.AI.GeminiKey != "" {
		gemini, err := assist.NewGeminiResponder(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		responder = gemini
	}

	handler := httptransport.NewRouter(httptransport.ServerDeps{
		Booking:        bookingSvc,
		Pricing:        pricingSvc,
		Rideshare:      shareSvc,
		History:        historySvc,
		Identity:       identitySvc,
		Payments:       paymentClient,
		Assist:         responder,
		Places:         placesSvc,
		Verifier:       tokens,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go bookingSvc.RunSessionJanitor(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("fareline api listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
