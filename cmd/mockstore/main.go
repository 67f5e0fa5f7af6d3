// mockstore runs the in-memory collection store and identity endpoints for
// local development, seeded with a small catalog and a demo account.
package main

import (
	"flag"
	"log"
	"net/http"

	"rentgear-storefront/internal/logger"
	"rentgear-storefront/internal/remote/remotetest"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logger.Initialize(*logLevel, "text")

	server := remotetest.New()
	server.SeedAccount("demo@rentgear.dev", "demo-pass", "Demo User")
	server.SeedEquipment(
		map[string]any{
			"id": "eq-1", "name": "Canon EOS R5", "category": "Camera", "subCategory": "Mirrorless",
			"image": "https://images.rentgear.dev/eos-r5.jpg",
			"rentPerHour": 12500, "rentPerDay": 85000, "rating": 4.8, "available": true,
		},
		map[string]any{
			"id": "eq-2", "name": "DJI Mavic 3 Pro", "category": "Drone", "subCategory": "Camera Drone",
			"image": "https://images.rentgear.dev/mavic-3.jpg",
			"rentPerHour": 20000, "rentPerDay": 120000, "rating": 4.9, "available": true,
		},
		map[string]any{
			"id": "eq-3", "name": "PlayStation 5", "category": "Gaming", "subCategory": "Console",
			"image": "https://images.rentgear.dev/ps5.jpg",
			"rentPerHour": 5000, "rentPerDay": 30000, "rating": 4.7, "available": true,
		},
	)

	logger.Info("Mock collection store listening", "address", *addr)
	if err := http.ListenAndServe(*addr, server.Handler()); err != nil {
		log.Fatalf("Mock store server error: %v", err)
	}
}
