package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"esom-requisition-server/config"
	"esom-requisition-server/internal/api/routes"
	"esom-requisition-server/internal/mailer"
)

func main() {
	// A .env file is a development convenience; absence is not an error.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	dispatcher, err := mailer.NewDispatcher(cfg, log)
	if err != nil {
		log.Fatalf("Could not create mail dispatcher: %v", err)
	}

	router := routes.SetupRouter(dispatcher, log)

	log.WithFields(logrus.Fields{
		"port": cfg.Server.Port,
		"mode": cfg.Mail.Mode,
	}).Info("starting ESOM requisition server")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
