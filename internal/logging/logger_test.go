package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetState clears package globals between tests.
func resetState() {
	loggersMu.Lock()
	for cat, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
		delete(loggers, cat)
	}
	loggersMu.Unlock()

	configMu.Lock()
	config = loggingConfig{}
	configMu.Unlock()
	logsDir = ""
	baseDir = ""
	logLevel = LevelInfo
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

// TestCategoriesWriteFiles tests that enabled categories create log files when debug_mode is true
func TestCategoriesWriteFiles(t *testing.T) {
	defer resetState()
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".trolley")

	writeConfig(t, configDir, `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"boot": true,
				"session": true,
				"api": true,
				"cart": true,
				"checkout": true,
				"store": true,
				"ui": true,
				"insights": true
			}
		}
	}`)

	if err := Initialize(configDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Session("probing identity for %s", "test")
	Cart("applied server cart with %d lines", 2)
	CheckoutDebug("transition %s -> %s", "Idle", "FetchingShipping")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(configDir, "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	found := map[string]bool{}
	for _, e := range entries {
		for _, cat := range []string{"session", "cart", "checkout"} {
			if strings.Contains(e.Name(), cat) {
				found[cat] = true
			}
		}
	}
	for _, cat := range []string{"session", "cart", "checkout"} {
		if !found[cat] {
			t.Errorf("expected log file for category %q", cat)
		}
	}
}

// TestNoLoggingWithoutDebugMode tests that nothing is written when debug_mode is false
func TestNoLoggingWithoutDebugMode(t *testing.T) {
	defer resetState()
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".trolley")

	writeConfig(t, configDir, `{"logging": {"debug_mode": false}}`)

	if err := Initialize(configDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	API("this should not be written")

	if _, err := os.Stat(filepath.Join(configDir, "logs")); !os.IsNotExist(err) {
		t.Errorf("logs directory should not exist in quiet mode")
	}
}

// TestCategoryFilter tests that disabled categories are no-ops
func TestCategoryFilter(t *testing.T) {
	defer resetState()
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".trolley")

	writeConfig(t, configDir, `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {"cart": true, "ui": false}
		}
	}`)

	if err := Initialize(configDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if !IsCategoryEnabled(CategoryCart) {
		t.Error("cart category should be enabled")
	}
	if IsCategoryEnabled(CategoryUI) {
		t.Error("ui category should be disabled")
	}

	UI("suppressed")
	Cart("written")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(configDir, "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), "ui") {
			t.Errorf("ui log file should not exist, found %s", e.Name())
		}
	}
}

// TestMissingConfigMeansQuiet tests that a missing preference file disables logging
func TestMissingConfigMeansQuiet(t *testing.T) {
	defer resetState()
	configDir := filepath.Join(t.TempDir(), ".trolley")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	if err := Initialize(configDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if IsDebugMode() {
		t.Error("debug mode should default to off without a config file")
	}
}
