// Package config handles poolstrap configuration and project root discovery.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the optional per-project override file.
const ConfigFileName = ".poolstrap.yaml"

// ManifestFileName marks the root of an s-nomp checkout.
const ManifestFileName = "package.json"

// Config represents the complete poolstrap configuration.
type Config struct {
	// Node configures the runtime version gate.
	Node NodeConfig `yaml:"node"`

	// Redis configures the liveness probe.
	Redis RedisConfig `yaml:"redis"`

	// Install configures the npm and node-gyp invocations.
	Install InstallConfig `yaml:"install"`

	// Patch configures the lazy-load patch target.
	Patch PatchConfig `yaml:"patch"`
}

// NodeConfig configures the Node.js requirement.
type NodeConfig struct {
	// MinMajor is the minimum accepted major version.
	MinMajor int `yaml:"min_major"`
}

// RedisConfig configures the redis liveness probe.
type RedisConfig struct {
	// Addr is the host:port of the redis server. The REDIS_ADDR
	// environment variable takes precedence over the file value.
	Addr string `yaml:"addr"`
}

// InstallConfig configures dependency installation and native rebuilds.
type InstallConfig struct {
	// NpmBin is the npm executable name.
	NpmBin string `yaml:"npm_bin"`

	// GypBin is the node-gyp executable name.
	GypBin string `yaml:"gyp_bin"`

	// NativePackages are the node_modules packages rebuilt with node-gyp,
	// in order.
	NativePackages []string `yaml:"native_packages"`
}

// PatchConfig configures the verushash lazy-load patch.
type PatchConfig struct {
	// File is the patch target, relative to the project root.
	File string `yaml:"file"`

	// Marker is the sentinel comment that identifies an applied patch.
	Marker string `yaml:"marker"`
}

// Default returns the built-in configuration for a stock s-nomp checkout.
func Default() *Config {
	return &Config{
		Node: NodeConfig{
			MinMajor: 20,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Install: InstallConfig{
			NpmBin:         "npm",
			GypBin:         "node-gyp",
			NativePackages: []string{"multi-hashing", "bignum"},
		},
		Patch: PatchConfig{
			File:   filepath.Join("node_modules", "stratum-pool", "lib", "algoProperties.js"),
			Marker: "// lazy load verushash only when needed",
		},
	}
}

// Load reads configuration for the given project root.
// Order of precedence: defaults, then .poolstrap.yaml, then environment.
// A missing config file or .env file is not an error.
func Load(root string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ConfigFileName, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", ConfigFileName, err)
	}

	// .env is how s-nomp deployments usually carry REDIS_ADDR around.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Node.MinMajor <= 0 {
		return fmt.Errorf("node.min_major must be positive, got %d", c.Node.MinMajor)
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr must not be empty")
	}
	if len(c.Install.NativePackages) == 0 {
		return fmt.Errorf("install.native_packages must not be empty")
	}
	if c.Patch.File == "" || c.Patch.Marker == "" {
		return fmt.Errorf("patch.file and patch.marker must not be empty")
	}
	return nil
}

// FindProjectRoot finds the s-nomp project root directory.
// It looks for package.json by walking up the directory tree.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if fileExists(filepath.Join(currentDir, ManifestFileName)) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", fmt.Errorf("no %s found in %s or any parent directory", ManifestFileName, absDir)
		}
		currentDir = parentDir
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
