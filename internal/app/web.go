// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/vehicle_odometry/internal/config"
	"github.com/relabs-tech/vehicle_odometry/internal/odometry"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// RunWeb serves the latest odometry sample over HTTP and pushes live updates
// to websocket clients.
func RunWeb() error {
	var (
		mu         sync.RWMutex
		lastSample odometry.Sample
		haveSample bool
	)

	cfg := config.Get()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the odometry topic and keep the latest sample
	token := client.Subscribe(cfg.TopicOdometry, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s odometry.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: sample unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastSample = s
		haveSample = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicOdometry)

	// 3) JSON API endpoint: latest sample
	http.HandleFunc("/api/odometry", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSample {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSample); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Websocket endpoint: push the latest sample on a fixed cadence
	pushInterval := time.Duration(cfg.WebPushInterval) * time.Millisecond
	if pushInterval <= 0 {
		pushInterval = 200 * time.Millisecond
	}
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()
		log.Printf("web: websocket client connected from %s", r.RemoteAddr)

		ticker := time.NewTicker(pushInterval)
		defer ticker.Stop()

		for range ticker.C {
			mu.RLock()
			s := lastSample
			have := haveSample
			mu.RUnlock()
			if !have {
				continue
			}
			if err := conn.WriteJSON(s); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket write error: %v", err)
				}
				return
			}
		}
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
