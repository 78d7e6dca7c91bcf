// Package main is the production entry point for Music Visualizer 3D.
//
// Music Visualizer 3D is an audio player with a real-time 3D visualizer:
// - Event-driven communication (no callbacks)
// - Dependency injection for testability
// - Ports and adapters around the audio engine and rendering backend
//
// Build:
//
//	go build -o build/musicvisualizer3d ./cmd
//
// Run:
//
//	./build/musicvisualizer3d
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/app"
)

func main() {
	// Create default configuration
	config := app.DefaultConfig()

	// Create the application with dependency injection
	application, err := app.NewApplication(config)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		fmt.Println("\nShutting down...")
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Run application (blocks until the window is closed)
	application.Run()

	fmt.Println("Application exited cleanly")
}
