// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fareline/internal/assist"
	"fareline/internal/http/handlers"
	"fareline/internal/http/middleware"
	"fareline/internal/identity"
	"fareline/internal/infra"
	"fareline/internal/maps"
	"fareline/internal/modules/booking"
	"fareline/internal/modules/history"
	"fareline/internal/modules/pricing"
	"fareline/internal/modules/rideshare"
	"fareline/internal/payment"
)

type ServerDeps struct {
	Booking   *booking.Service
	Pricing   *pricing.Service
	Rideshare *rideshare.Service
	History   *history.Service
	Identity  *identity.Service
	Payments  *payment.Client
	Assist    assist.Responder
	Places    *maps.PlacesService
	Verifier  infra.TokenVerifier

	// AllowedOrigins is a comma-separated origin list; "*" allows all.
	AllowedOrigins string
}

func NewRouter(deps ServerDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery(), corsFor(deps.AllowedOrigins))

	authHandler := handlers.NewAuthHandler(deps.Identity)
	quoteHandler := handlers.NewQuoteHandler(deps.Booking, deps.Pricing)
	shareHandler := handlers.NewRideshareHandler(deps.Rideshare, deps.Booking)
	bookingHandler := handlers.NewBookingHandler(deps.Booking)
	historyHandler := handlers.NewHistoryHandler(deps.History)
	paymentHandler := handlers.NewPaymentHandler(deps.Payments)
	assistHandler := handlers.NewAssistHandler(deps.Assist)

	r.POST("/api/auth/login", authHandler.Login)
	r.POST("/api/auth/register", authHandler.Register)
	r.GET("/api/vehicles", quoteHandler.Vehicles)
	r.POST("/api/payments/intent", paymentHandler.CreateIntent)
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })

	authed := r.Group("/api", middleware.Auth(deps.Verifier))
	authed.POST("/quotes", quoteHandler.Quote)
	authed.GET("/quotes/due", quoteHandler.AmountDue)
	authed.GET("/rideshare/offers", shareHandler.Offers)
	authed.POST("/rideshare/create", shareHandler.Create)
	authed.POST("/rideshare/join", shareHandler.Join)
	authed.POST("/rideshare/leave", shareHandler.Leave)
	authed.POST("/bookings", bookingHandler.Commit)
	authed.GET("/bookings/:id", bookingHandler.Get)
	authed.GET("/history", historyHandler.List)
	authed.GET("/history/export", historyHandler.ExportCSV)
	authed.GET("/history/:id/receipt", historyHandler.Receipt)
	authed.POST("/history/:id/feedback", historyHandler.Feedback)
	authed.POST("/assist/chat", assistHandler.Chat)

	// Autocomplete only exists when a maps client is configured.
	if deps.Places != nil {
		authed.GET("/places/suggest", handlers.NewPlacesHandler(deps.Places).Suggest)
	}

	return r
}

func corsFor(origins string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}
	return cors.New(cfg)
}
