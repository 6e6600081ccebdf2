package main

import (
	"mycomentor/pkg/config"
	app "mycomentor/services/marketplace/internal/app"

	_ "mycomentor/services/marketplace/docs" // Swagger docs
)

// @title           MycoMentor Marketplace Service API
// @version         1.0
// @description     Mushroom marketplace listings service for the MycoMentor platform

// @host      localhost:8082
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
