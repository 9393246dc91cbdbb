// Package config loads the YAML configuration file controlling the
// camera, the server, and the generated tree.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/tannenbaum/internal/scene"
)

// Config is the root of the configuration file.
type Config struct {
	Camera CameraConfig `yaml:"camera"`
	Server ServerConfig `yaml:"server"`
	Tree   scene.Params `yaml:"tree"`

	// MotionThreshold is the percentage of changed pixels that counts as
	// motion for the inference cadence gate.
	MotionThreshold float64 `yaml:"motion_threshold"`
}

// CameraConfig selects the capture device.
type CameraConfig struct {
	Device int `yaml:"device"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Camera:          CameraConfig{Device: 0},
		Server:          ServerConfig{Addr: ":8080"},
		Tree:            scene.DefaultParams(),
		MotionThreshold: 1.0,
	}
}

// Load reads the configuration file at path, applying defaults for any
// omitted field. A missing file is not an error; it simply yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Tree.Particles <= 0 {
		return fmt.Errorf("tree.particles must be positive, got %d", c.Tree.Particles)
	}
	if c.Tree.Ornaments < 0 {
		return fmt.Errorf("tree.ornaments must not be negative, got %d", c.Tree.Ornaments)
	}
	if c.Tree.Height <= 0 || c.Tree.Radius <= 0 {
		return fmt.Errorf("tree dimensions must be positive")
	}
	if c.Tree.ExplodeRadius <= c.Tree.Radius {
		return fmt.Errorf("tree.explode_radius %.2f must exceed tree.radius %.2f",
			c.Tree.ExplodeRadius, c.Tree.Radius)
	}
	return nil
}
