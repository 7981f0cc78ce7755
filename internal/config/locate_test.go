package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/acolita/wildcard-mcp/internal/testing/fakes/fakefs"
)

func TestSearchPaths(t *testing.T) {
	tests := []struct {
		name       string
		explicit   string
		env        string
		installDir string
		want       []string
	}{
		{
			name: "defaults only",
			want: []string{DefaultConfigPath, "config.toml"},
		},
		{
			name:       "all sources",
			explicit:   "/tmp/flag.toml",
			env:        "/srv/env.toml",
			installDir: "/opt/wildcard",
			want:       []string{"/tmp/flag.toml", "/srv/env.toml", "/opt/wildcard/config.toml", "config.toml"},
		},
		{
			name:     "duplicates collapse",
			explicit: "/config/config.toml",
			env:      "/config/./config.toml",
			want:     []string{DefaultConfigPath, "config.toml"},
		},
		{
			name: "env replaces mount",
			env:  "/srv/env.toml",
			want: []string{"/srv/env.toml", "config.toml"},
		},
		{
			name:       "install dir is working dir",
			installDir: ".",
			want:       []string{DefaultConfigPath, "config.toml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fakefs.New()
			if tt.env != "" {
				fsys.SetEnv(EnvConfigPath, tt.env)
			}

			got := SearchPaths(tt.explicit, fsys, tt.installDir)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("SearchPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLocateFirstExistingWins(t *testing.T) {
	fsys := fakefs.New()
	fsys.AddText("/config/config.toml", "")
	fsys.AddText("/opt/wildcard/config.toml", "")

	got, err := Locate([]string{"/missing.toml", "/config/config.toml", "/opt/wildcard/config.toml"}, fsys)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if got != "/config/config.toml" {
		t.Errorf("Locate() = %q, want /config/config.toml", got)
	}
}

func TestLocateSkipsDirectories(t *testing.T) {
	fsys := fakefs.New()
	fsys.AddText("/config/config.toml/placeholder", "")
	fsys.AddText("/opt/config.toml", "")

	got, err := Locate([]string{"/config/config.toml", "/opt/config.toml"}, fsys)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if got != "/opt/config.toml" {
		t.Errorf("Locate() = %q, want /opt/config.toml", got)
	}
}

func TestLocateNothingFound(t *testing.T) {
	fsys := fakefs.New()
	candidates := []string{"/env.toml", DefaultConfigPath, "config.toml"}

	_, err := Locate(candidates, fsys)
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("Locate() error = %v, want ErrConfigNotFound", err)
	}
	for _, c := range candidates {
		if !strings.Contains(err.Error(), c) {
			t.Errorf("error should name %q, got: %v", c, err)
		}
	}
	if !strings.Contains(err.Error(), EnvConfigPath) {
		t.Errorf("error should mention %s, got: %v", EnvConfigPath, err)
	}
}

func TestLocateEnvOverride(t *testing.T) {
	fsys := fakefs.New()
	fsys.SetEnv(EnvConfigPath, "/custom/wildcard.toml")
	fsys.AddText("/custom/wildcard.toml", "")
	fsys.AddText(DefaultConfigPath, "")

	got, err := Locate(SearchPaths("", fsys, ""), fsys)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if got != "/custom/wildcard.toml" {
		t.Errorf("Locate() = %q, want env override", got)
	}
}

func TestLocateEnvMissingSkipsMount(t *testing.T) {
	fsys := fakefs.New()
	fsys.SetEnv(EnvConfigPath, "/custom/missing.toml")
	fsys.AddText(DefaultConfigPath, "")
	fsys.AddText("/opt/wildcard/config.toml", "")

	got, err := Locate(SearchPaths("", fsys, "/opt/wildcard"), fsys)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if got != "/opt/wildcard/config.toml" {
		t.Errorf("Locate() = %q, want local fallback", got)
	}
}
