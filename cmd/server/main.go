package main

import (
	"log"

	"github.com/joho/godotenv"

	"taskboard/internal/app"
)

func main() {
	// .env is optional; real deployments set env vars directly
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	app.Run()
}
