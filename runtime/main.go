package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/printvault/printvault_api/services"
)

// @title PrintVault API
// @version 1.0
// @description Digital marketplace for 3D-printable model files.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Msg("No .env file found, using system environment variables")
	}

	ctx, err := context.NewCtx(
		&services.JWTService{},
		&services.SqlService{},
		&services.RedisService{},
		&services.StorageService{},
		&services.MinIOService{},
		&services.EmailService{},
		&services.RateLimitService{},
		&services.AuthService{},
		&services.ProductService{},
		&services.OrderService{},
		&services.DownloadService{},
		&services.MediaService{},
		&services.MonitoringService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
