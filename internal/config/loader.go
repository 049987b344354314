// internal/config/loader.go
//
// Option loader.
//
/*
Context
--------
`Load()` builds one immutable `Options` struct from three layers (highest
precedence last):

  1. Built-in defaults, the well-known `/etc/abbey` input paths.
  2. Optional tool env file (`ENVGEN_ENV_FILE`, default
     `/etc/abbey/envgen.env`), loaded into the process env via godotenv.
  3. Environment variables prefixed `ENVGEN_`, where `__` maps to “.”
     (e.g., `ENVGEN_LOG__LEVEL → log.level`).

After merging, the root directory is resolved, the output path is derived
from it when not given explicitly, and the result is validated.

Instrumentation
---------------
  • DEBUG spans for root discovery and the env overlay.
  • ERROR spans for overlay, unmarshal, and validation failures.
  • Logs use the global sugared logger (`zap.S()`), which is a no-op until
    `logger.New` installs the real one, so only re-loads are visible.

Notes
-----
  • `rootDir()` prefers the executable's own location; see its doc for
    the full precedence.  `package.json` marks the frontend root.
  • The optional tool env file only fills variables that are not already
    set, so the real environment always wins.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix marks the environment variables that override Options.
const EnvPrefix = "ENVGEN_"

// DefaultEnvFile holds tool options for hosts that cannot set a real env.
// ENVGEN_ENV_FILE points elsewhere.
const DefaultEnvFile = "/etc/abbey/envgen.env"

// rootMarker identifies the frontend directory that owns .env.local.
const rootMarker = "package.json"

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves the directory that receives .env.local, first match wins:
//
//  1. nearest ancestor of the executable holding package.json, so a binary
//     installed under <frontend>/bin writes next to its own frontend;
//  2. nearest ancestor of the working directory holding package.json, for
//     `go run` builds whose executable lives in a temp dir;
//  3. the executable's directory (its parent for a bin/ layout);
//  4. the working directory.
//
// ENVGEN_ROOT bypasses all of this.
func rootDir() string {
	exe, _ := os.Executable()
	wd, _ := os.Getwd()
	return resolveRoot(exe, wd)
}

func resolveRoot(exe, wd string) string {
	var exeDir string
	if exe != "" {
		exeDir = filepath.Dir(exe)
	}
	if dir, ok := findRoot(exeDir); ok {
		return dir
	}
	if dir, ok := findRoot(wd); ok {
		return dir
	}
	if exeDir != "" {
		if filepath.Base(exeDir) == "bin" {
			return filepath.Dir(exeDir)
		}
		return exeDir
	}
	return wd
}

func findRoot(start string) (string, bool) {
	if start == "" {
		return "", false
	}
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, rootMarker)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			return "", false
		}
		dir = parent
	}
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load applies the env overlay to the defaults, resolves paths, and validates.
func Load() (*Options, error) {
	opts := defaults()

	envFile := os.Getenv(EnvPrefix + "ENV_FILE")
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	// optional, no error if missing
	if err := godotenv.Load(envFile); err == nil {
		zap.S().Debugw("tool env file loaded", "file", envFile)
	}

	k := koanf.New(".")

	// ENVGEN_VAULT__SECRET_PATH → vault.secret_path
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("options env overlay failed", "err", err)
		return nil, err
	}
	zap.S().Debugw("options env overlay loaded", "keys", k.Keys())

	if err := k.Unmarshal("", &opts); err != nil {
		zap.S().Errorw("options unmarshal failed", "err", err)
		return nil, err
	}

	if opts.Root == "" {
		opts.Root = rootDir()
	}
	zap.S().Debugw("root resolved", "root", opts.Root)
	if opts.OutputPath == "" {
		opts.OutputPath = filepath.Join(opts.Root, DefaultOutputName)
	}

	if err := validateStruct(&opts); err != nil {
		zap.S().Errorw("options validation failed", "err", err)
		return nil, err
	}
	return &opts, nil
}
