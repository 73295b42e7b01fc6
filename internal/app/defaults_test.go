package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/custom/catalog.toml")
		t.Setenv(EnvHome, "/custom/catalog")

		got, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		want := Defaults{
			ConfigPath: "/custom/catalog.toml",
			BaseDir:    "/custom/catalog",
			LogDir:     "/custom/catalog/log",
		}
		if got != want {
			t.Errorf("GetDefaults() = %+v, want %+v", got, want)
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvHome, "")

		got, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()
		wantBase := filepath.Join(homeDir, ".local", "share", "catalog")
		want := Defaults{
			ConfigPath: filepath.Join(homeDir, ".config", "catalog.toml"),
			BaseDir:    wantBase,
			LogDir:     filepath.Join(wantBase, "log"),
		}
		if got != want {
			t.Errorf("GetDefaults() = %+v, want %+v", got, want)
		}
	})
}
