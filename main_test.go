package main

import (
	"os"
	"testing"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}

	if *savesDir == "" {
		t.Error("Saves directory should have a default value")
	}
}

func TestInitializeServices(t *testing.T) {
	originalConfigDir := *configDir
	originalSavesDir := *savesDir
	*configDir = "configs"
	*savesDir = t.TempDir()
	defer func() {
		*configDir = originalConfigDir
		*savesDir = originalSavesDir
	}()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	gameService, games, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
	if games == nil {
		t.Fatal("Expected game manager to be initialized")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "/non/existent/path"
	defer func() { *configDir = originalConfigDir }()

	_, _, err := initializeServices()
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}
