package app

import (
	"twilio-gateway/internal/common/auth"
	"twilio-gateway/internal/common/logging"
)

func (app *App) initializeAuth() {
	app.Auth = auth.NewAuthenticatorRegistry()
	if !app.Config.AdminAuthConfigured() {
		app.Logger.Warn("Admin API authentication is not configured; admin endpoints will refuse every request")
		return
	}
	app.Logger.Info("Admin API authentication configured",
		logging.Field{Key: "methods", Value: len(app.adminMethods())},
	)
}

// adminMethods lists the credentials accepted on admin routes.
func (app *App) adminMethods() []auth.Method {
	var methods []auth.Method
	if app.Config.APIKey != "" {
		methods = append(methods, auth.Method{
			Type: "apikey",
			Settings: map[string]string{
				"api_key":  app.Config.APIKey,
				"key_name": app.Config.APIKeyHeader,
			},
		})
	}
	if app.Config.JWTSecret != "" {
		methods = append(methods, auth.Method{
			Type:     "jwt",
			Settings: map[string]string{"secret": app.Config.JWTSecret},
		})
	}
	return methods
}
