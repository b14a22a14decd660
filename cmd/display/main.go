package main

import (
	"log"

	"github.com/relabs-tech/vehicle_odometry/internal/app"
	"github.com/relabs-tech/vehicle_odometry/internal/config"
)

func main() {
	log.Println("starting vehicle-odometry OLED display (MQTT subscriber)")

	if err := config.InitGlobal("odometry_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunDisplay(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
