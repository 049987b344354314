// internal/vault/vault.go
//
// Vault KV-v2 reader for envgen.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK for a single, one-shot read.  envgen
//     exits right after writing its output, so there is no token renewal.
//   - Every key of the secret becomes a secrets entry layered over the
//     dotenv file.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(addr, token)
//  2. kv,  err := cli.ReadKV(ctx, "secret/abbey/frontend")
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// Client reads KV-v2 secrets.  Zero value is invalid.
type Client struct {
	api *vault.Client
}

// New builds a client.  Empty addr or token fall back to VAULT_ADDR and
// VAULT_TOKEN, which the SDK reads on its own.
func New(addr, token string) (*Client, error) {
	cfg := vault.DefaultConfig()
	if cfg.Error != nil {
		return nil, fmt.Errorf("vault env cfg: %w", cfg.Error)
	}
	if addr != "" {
		cfg.Address = addr
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if token != "" {
		apiCli.SetToken(token)
	}
	return &Client{api: apiCli}, nil
}

// ReadKV returns every key of the KV-v2 secret at secretPath, where the
// first path element is the mount (e.g. "secret/abbey" → mount "secret").
func (c *Client) ReadKV(ctx context.Context, secretPath string) (map[string]string, error) {
	mount, rel := splitMount(secretPath)
	if mount == "" || rel == "" {
		return nil, errors.New("secret path must be <mount>/<path>")
	}

	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return nil, fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	out := make(map[string]string, len(sec.Data))
	for k, raw := range sec.Data {
		sval, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("value at %s#%s is not a string", secretPath, k)
		}
		out[k] = sval
	}
	return out, nil
}

func splitMount(p string) (mount, rel string) {
	p = strings.Trim(p, "/")
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}
