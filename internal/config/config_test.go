package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if cfg.Server.Addr != want.Server.Addr {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, want.Server.Addr)
	}
	if cfg.Tree.Particles != want.Tree.Particles {
		t.Errorf("Tree.Particles = %d, want default %d", cfg.Tree.Particles, want.Tree.Particles)
	}
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
camera:
  device: 2
tree:
  particles: 4000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Camera.Device != 2 {
		t.Errorf("Camera.Device = %d, want 2", cfg.Camera.Device)
	}
	if cfg.Tree.Particles != 4000 {
		t.Errorf("Tree.Particles = %d, want 4000", cfg.Tree.Particles)
	}
	// Untouched fields keep their defaults.
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Tree.Height != Default().Tree.Height {
		t.Errorf("Tree.Height = %f, want default", cfg.Tree.Height)
	}
}

func TestLoad_RejectsBadGeometry(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"zero particles", "tree:\n  particles: 0\n"},
		{"explode radius inside tree", "tree:\n  explode_radius: 1.0\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tree: ["), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
