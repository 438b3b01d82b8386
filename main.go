package main

import (
	"log"

	"finconsole/backend"
	"finconsole/config"
	"finconsole/console"
	"finconsole/database"
	"finconsole/models"
	authRoutes "finconsole/routers/authRoutes"
	collectionRoutes "finconsole/routers/collectionRoutes"
	consoleRoutes "finconsole/routers/consoleRoutes"
	customerRoutes "finconsole/routers/customerRoutes"
	"finconsole/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	models.TimestampLocation = config.AppConfig.Location()
	database.ConnectDb()

	client := backend.New(config.AppConfig.BackendURL, config.AppConfig.BackendTimeout())
	registry := console.NewRegistry()

	scheduler, err := utils.InitializeReconcileScheduler(registry, config.AppConfig.ReconcileSchedule, config.AppConfig.SessionTTL(), config.AppConfig.Location())
	if err != nil {
		log.Fatalf("Failed to start reconcile scheduler: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve the console front end from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app, registry, client)
	consoleRoutes.SetupConsoleRoutes(app, registry)
	customerRoutes.SetupCustomerRoutes(app, registry)
	collectionRoutes.SetupCollectionRoutes(app, registry)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	err = app.Listen(":" + config.AppConfig.Port)
	if scheduler != nil {
		scheduler.Stop()
	}
	registry.CloseAll()
	log.Fatal(err)
}
