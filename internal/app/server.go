package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"twilio-gateway/internal/common/ratelimit"
	"twilio-gateway/internal/handlers"
	"twilio-gateway/internal/middleware"
	"twilio-gateway/internal/server"
)

// Handler builds the full HTTP handler: routes plus request id, access
// logging and CORS.
func (app *App) Handler() http.Handler {
	h := handlers.New(handlers.Deps{
		WhatsApp: app.WhatsApp,
		Orders:   app.Orders,
		Dedupe:   app.Dedupe,
		Monitor:  app.Monitor,
		Store:    app.Storage,
		Settings: app.Config.Settings,
		Version:  Version,
		Logger:   app.Logger,
	})

	router := mux.NewRouter()
	SetupRoutes(router, h, RouteGuards{
		Webhook:      app.Gate.Middleware,
		Admin:        app.Auth.Middleware(app.adminMethods(), app.Logger),
		RateLimiter:  app.RateLimiter,
		RateLimitKey: ratelimit.KeyFunc(app.Config.TrustProxy),
		Logger:       app.Logger,
	})

	var handler http.Handler = router
	handler = middleware.CORS(app.Config.CORSOrigins)(handler)
	handler = middleware.Logging(app.Logger)(handler)
	handler = middleware.RequestID(handler)
	return handler
}

// RunServer creates the HTTP server with all handlers configured
func (app *App) RunServer() (*server.Server, http.Handler) {
	handler := app.Handler()
	return server.New(handler, app.Config.Port, "", ""), handler
}
