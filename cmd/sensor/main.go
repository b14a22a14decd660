// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"

	"github.com/relabs-tech/vehicle_odometry/internal/app"
	"github.com/relabs-tech/vehicle_odometry/internal/config"
)

func main() {
	log.Println("starting vehicle-odometry sensor (MQTT producer)")

	// Load configuration
	if err := config.InitGlobal("odometry_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunSensor(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
