package main

import (
	"log"

	"github.com/orderdesk/orders-api/config"
	"github.com/orderdesk/orders-api/models"
	"github.com/orderdesk/orders-api/services"
)

func main() {
	log.Println("Starting Order Management API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := config.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.StatusChange{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	var imageService services.ImageService
	if cfg.ImageUploadsEnabled() {
		s3Service, err := services.NewS3Service(services.S3Options{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSS3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		imageService = services.NewImageService(s3Service)
		log.Printf("Product image uploads enabled (bucket %s)", cfg.AWSS3Bucket)
	} else {
		log.Println("AWS_S3_BUCKET not set, product image uploads disabled")
	}

	router := SetupRouter(db, imageService)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
