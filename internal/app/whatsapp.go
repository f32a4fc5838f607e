package app

import (
	"fmt"

	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/monitor"
	"twilio-gateway/internal/orders"
	"twilio-gateway/internal/whatsapp"
)

func (app *App) initializeWhatsApp() error {
	client, err := whatsapp.NewClient(whatsapp.Config{
		Address:  app.Config.WhatsAppAddress,
		Protocol: app.Config.WhatsAppProtocol,
		Timeout:  app.Config.RPCTimeout(),
	}, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize WhatsApp client: %w", err)
	}

	app.WhatsApp = client
	app.Logger.Info("WhatsApp RPC client configured",
		logging.Field{Key: "address", Value: app.Config.WhatsAppAddress},
		logging.Field{Key: "protocol", Value: app.Config.WhatsAppProtocol},
	)
	return nil
}

func (app *App) initializeOrders() error {
	prices := orders.DefaultPriceTable()
	if app.Config.PricingFile != "" {
		loaded, err := orders.LoadPriceTable(app.Config.PricingFile)
		if err != nil {
			return err
		}
		prices = loaded
		app.Logger.Info("Price table loaded",
			logging.Field{Key: "file", Value: app.Config.PricingFile},
			logging.Field{Key: "order_types", Value: len(prices.Types())},
		)
	}

	app.Orders = orders.NewService(app.WhatsApp, app.Storage, prices, orders.Recipient{
		PhoneNumber: app.Config.WhatsAppPhoneToNotify,
		CountryCode: app.Config.WhatsAppCountryCode,
	}, app.Logger)
	return nil
}

func (app *App) initializeMonitor() error {
	var store monitor.SnapshotStore
	if app.RedisClient != nil {
		store = app.RedisClient
	}

	m, err := monitor.New(app.WhatsApp, monitor.Config{
		Schedule: app.Config.WhatsAppMonitorSchedule,
		Watch:    app.Config.WhatsAppWatchEnabled,
	}, store, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize WhatsApp monitor: %w", err)
	}
	app.Monitor = m
	return nil
}
