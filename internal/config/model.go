// internal/config/model.go
//
// Typed option model for envgen.
//
// Context
// -------
// These structs describe how the tool itself runs: where the settings
// document and secrets file live, where the generated env file goes, and
// the optional log, Vault, and metrics side channels.  They are NOT the
// deployment settings; those are read by `internal/settings`.
//
// Every field can be overridden with an `ENVGEN_`-prefixed environment
// variable, where `__` maps to “.”
// (e.g., `ENVGEN_VAULT__SECRET_PATH → vault.secret_path`).
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`; koanf ignores `yaml` tags.
//   • `Root` is resolved at load time when left empty.

package config

const (
	DefaultSettingsPath = "/etc/abbey/settings.yml"
	DefaultSecretsPath  = "/etc/abbey/.env"
	DefaultOutputName   = ".env.local"
	DefaultLogLevel     = "warn"
)

//
// Log section
//

// Log controls the stderr console core and the optional rotating file.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
}

//
// Vault section
//

// Vault names an optional KV-v2 secret whose keys are layered over the
// secrets file.  Addr falls back to VAULT_ADDR, Token to VAULT_TOKEN.
type Vault struct {
	Addr       string `koanf:"addr"        validate:"omitempty,url"`
	Token      string `koanf:"token"`
	SecretPath string `koanf:"secret_path"`
}

// Enabled reports whether a Vault overlay was requested.
func (v Vault) Enabled() bool { return v.SecretPath != "" }

//
// Metrics section
//

// Metrics points at a node-exporter textfile; empty disables it.
type Metrics struct {
	Textfile string `koanf:"textfile"`
}

//
// Root aggregate
//

// Options is the immutable aggregate returned by Load().
type Options struct {
	Root         string `koanf:"root"`
	SettingsPath string `koanf:"settings_path" validate:"required"`
	SecretsPath  string `koanf:"secrets_path"  validate:"required"`
	OutputPath   string `koanf:"output_path"   validate:"required"`

	// Strict turns referenced-but-missing secrets into a failure.
	Strict bool `koanf:"strict"`

	Log     Log     `koanf:"log"`
	Vault   Vault   `koanf:"vault"`
	Metrics Metrics `koanf:"metrics"`
}

// defaults returns Options with the fixed well-known paths filled in.
// OutputPath stays empty until the root is known.
func defaults() Options {
	return Options{
		SettingsPath: DefaultSettingsPath,
		SecretsPath:  DefaultSecretsPath,
		Log:          Log{Level: DefaultLogLevel},
	}
}
