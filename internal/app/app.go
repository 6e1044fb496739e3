package app

import (
	"context"
	"log"

	"reflecto/internal/ai"
	"reflecto/internal/config"
	"reflecto/internal/database"
	"reflecto/internal/server"
	"reflecto/internal/services"
	"reflecto/internal/telegram"

	"github.com/robfig/cron/v3"
)

type Application struct {
	config     *config.Config
	db         *database.Database
	bot        *telegram.Bot
	services   *services.ServiceManager
	server     *server.Server
	cron       *cron.Cron
	cancelFunc context.CancelFunc
	ctx        context.Context
}

func New(cfg *config.Config) (*Application, error) {
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	advisor := ai.NewAdvisor(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	serviceManager := services.NewServiceManager(db, advisor)

	var bot *telegram.Bot
	if cfg.Telegram.Token != "" {
		bot, err = telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.UserUID, serviceManager)
		if err != nil {
			db.Close()
			return nil, err
		}
		serviceManager.SetNotificationSender(bot, cfg.Telegram.UserUID)
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config:     cfg,
		db:         db,
		bot:        bot,
		services:   serviceManager,
		server:     server.New(serviceManager, cfg.Server.Port),
		cron:       cron.New(),
		cancelFunc: cancel,
		ctx:        ctx,
	}

	app.setupCronJobs()

	return app, nil
}

func (a *Application) Start() error {
	log.Println("🚀 Starting application...")

	if a.bot != nil {
		go a.bot.Start(a.ctx)
		a.cron.Start()
		log.Printf("✅ Digest bot running: @%s", a.bot.GetUsername())
	}

	go func() {
		if err := a.server.ListenAndServe(); err != nil {
			log.Printf("❌ HTTP server stopped: %v", err)
			a.cancelFunc()
		}
	}()

	log.Printf("✅ Application started on port %s", a.config.Server.Port)
	return nil
}

func (a *Application) Stop() error {
	log.Println("🛑 Stopping application...")

	a.cancelFunc()
	a.cron.Stop()

	if err := a.db.Close(); err != nil {
		log.Printf("⚠️ Failed to close database: %v", err)
	}

	log.Println("✅ Application stopped")
	return nil
}

// Cron runs on server time (UTC); comments give the IST equivalents the
// schedule is designed around.
func (a *Application) setupCronJobs() {
	// Journaling reminder at 21:00 IST
	_, err := a.cron.AddFunc("30 15 * * *", func() {
		if a.services.Notification != nil {
			a.services.Notification.SendJournalingReminder()
		}
	})
	if err != nil {
		panic(err)
	}

	// Daily digest at 22:30 IST
	_, err = a.cron.AddFunc("0 17 * * *", func() {
		if a.services.Notification != nil {
			a.services.Notification.SendDailyDigest()
		}
	})
	if err != nil {
		panic(err)
	}
}
