// internal/envgen/run.go
//
// The I/O shell around Derive.
//
/*
Workflow
--------
  1. Read and parse the settings document (koanf file provider + YAML).
  2. Read the secrets file (go-envparse, no expansion, bad lines skipped).
  3. Optionally layer a Vault KV-v2 secret over the file secrets.
  4. Derive entries under a recover guard.
  5. In strict mode, fail when any copied secret was undefined.
  6. Overwrite the output file.

Nothing is written unless steps 1-5 succeed, so a failed run leaves the
previous output in place.
*/
package envgen

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/file"
	"go.uber.org/zap"

	"github.com/AdeptTravel/envgen/internal/config"
	"github.com/AdeptTravel/envgen/internal/secrets"
	"github.com/AdeptTravel/envgen/internal/settings"
	"github.com/AdeptTravel/envgen/internal/vault"
)

// OutputMode is the permission of a freshly created output file.
const OutputMode = 0o644

// Result summarizes a successful run.
type Result struct {
	OutputPath string
	Entries    int
	Missing    []string
}

// Run materializes the env file described by opts.
func Run(ctx context.Context, opts config.Options, log *zap.SugaredLogger) (*Result, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	doc, err := loadSettings(opts.SettingsPath)
	if err != nil {
		return nil, err
	}
	log.Debugw("settings loaded", "file", opts.SettingsPath, "keys", len(doc.Keys()))

	sec, err := loadSecrets(opts.SecretsPath, log)
	if err != nil {
		return nil, err
	}
	log.Debugw("secrets loaded", "file", opts.SecretsPath, "count", len(sec))

	if opts.Vault.Enabled() {
		sec, err = overlayVault(ctx, opts.Vault, sec)
		if err != nil {
			return nil, err
		}
		log.Debugw("vault overlay applied", "path", opts.Vault.SecretPath, "count", len(sec))
	}

	env, err := safeDerive(doc, sec)
	if err != nil {
		return nil, err
	}
	if len(env.Missing) > 0 {
		log.Warnw("secrets referenced but not defined", "names", env.Missing)
		if opts.Strict {
			return nil, &Error{
				Kind: KindEvaluate,
				Err:  fmt.Errorf("%w: %s", ErrMissingSecrets, strings.Join(env.Missing, ", ")),
			}
		}
	}

	if err := os.WriteFile(opts.OutputPath, env.Render(), OutputMode); err != nil {
		return nil, &Error{Kind: KindWrite, Path: opts.OutputPath, Err: err}
	}
	log.Infow("env file written", "file", opts.OutputPath, "entries", env.Len())

	return &Result{
		OutputPath: opts.OutputPath,
		Entries:    env.Len(),
		Missing:    env.Missing,
	}, nil
}

func loadSettings(path string) (*settings.Document, error) {
	b, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, &Error{Kind: KindRead, Path: path, Err: err}
	}
	doc, err := settings.Parse(b)
	if err != nil {
		return nil, &Error{Kind: KindParse, Path: path, Err: err}
	}
	return doc, nil
}

func loadSecrets(path string, log *zap.SugaredLogger) (secrets.Secrets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: KindRead, Path: path, Err: err}
	}
	defer f.Close()

	sec, skipped, err := secrets.Parse(f)
	if err != nil {
		return nil, &Error{Kind: KindRead, Path: path, Err: err}
	}
	if len(skipped) > 0 {
		log.Debugw("secrets lines skipped", "file", path, "lines", skipped)
	}
	return sec, nil
}

func overlayVault(ctx context.Context, vc config.Vault, sec secrets.Secrets) (secrets.Secrets, error) {
	cli, err := vault.New(vc.Addr, vc.Token)
	if err != nil {
		return nil, &Error{Kind: KindRead, Path: vc.SecretPath, Err: err}
	}
	kv, err := cli.ReadKV(ctx, vc.SecretPath)
	if err != nil {
		return nil, &Error{Kind: KindRead, Path: vc.SecretPath, Err: err}
	}
	return sec.Overlay(kv), nil
}

// safeDerive converts a panic inside the rule table into a KindEvaluate error.
func safeDerive(s Settings, sec SecretSource) (env *Env, err error) {
	defer func() {
		if r := recover(); r != nil {
			env = nil
			err = &Error{Kind: KindEvaluate, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return Derive(s, sec), nil
}
