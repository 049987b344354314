// internal/envgen/rules.go
//
// The rule table that turns settings and secrets into environment entries.
//
/*
Context
--------
`Derive` is a pure function: it reads its two inputs, never mutates them,
and returns a fresh Env.  Rules run in a fixed order:

  1. service URLs
  2. auth system (custom or clerk)
  3. auth providers, custom branch only
  4. TTS visibility
  5. collections visibility
  6. Stripe publishable key
  7. signed-out homepage visibility

Absent settings paths are expected and fall back to defaults.  Secrets that
a rule copies verbatim but that are undefined are emitted empty and listed
in Env.Missing.
*/
package envgen

import "fmt"

// Settings is a read-only dotted-path view of the settings document.
// *settings.Document satisfies it.
type Settings interface {
	Get(path string) any
}

// SecretSource resolves secret names.  secrets.Secrets satisfies it.
type SecretSource interface {
	Lookup(name string) (string, bool)
}

const (
	DefaultPublicBackendURL   = "http://localhost:5000"
	DefaultPublicFrontendURL  = "http://localhost:3000"
	DefaultInternalBackendURL = "http://backend:5000"

	AuthCustom = "custom"
	AuthClerk  = "clerk"

	// PlaceholderSecret must match the backend's fallback.
	PlaceholderSecret = "not-a-secret"
	LongTokenName     = "long-token"
)

// provider maps an auth.providers identifier to its enable flag and the
// secrets copied through for it.
type provider struct {
	id   string
	flag string
	keys []string
}

var providers = []provider{
	{
		id:   "google",
		flag: "NEXT_PUBLIC_ENABLE_GOOGLE_AUTH",
		keys: []string{"GOOGLE_CLIENT_ID", "GOOGLE_SECRET"},
	},
	{
		id:   "github",
		flag: "NEXT_PUBLIC_ENABLE_GITHUB_AUTH",
		keys: []string{"GITHUB_CLIENT_ID", "GITHUB_SECRET"},
	},
	{
		id:   "keycloak",
		flag: "NEXT_PUBLIC_ENABLE_KEYCLOAK_AUTH",
		keys: []string{
			"KEYCLOAK_PUBLIC_URL",
			"KEYCLOAK_INTERNAL_URL",
			"KEYCLOAK_REALM",
			"KEYCLOAK_SECRET",
			"KEYCLOAK_CLIENT_ID",
		},
	},
}

func lookupProvider(id string) (provider, bool) {
	for _, p := range providers {
		if p.id == id {
			return p, true
		}
	}
	return provider{}, false
}

// Derive applies every rule and returns the accumulated entries.
func Derive(s Settings, sec SecretSource) *Env {
	env := &Env{}

	deriveURLs(env, s)
	if authSystem(s) == AuthCustom {
		deriveCustomAuth(env, s, sec)
	} else {
		deriveClerkAuth(env, sec)
	}
	deriveTTS(env, s)
	deriveCollections(env, s)
	deriveBilling(env, sec)
	deriveHomepage(env, s)

	return env
}

/*──────────────────────────── service URLs ────────────────────────────────*/

func deriveURLs(env *Env, s Settings) {
	env.emit("NEXT_PUBLIC_BACKEND_URL",
		textOr(s, "services.backend.public_url", DefaultPublicBackendURL))
	env.emit("NEXT_PUBLIC_ROOT_URL",
		textOr(s, "services.frontend.public_url", DefaultPublicFrontendURL))
	env.emit("NEXT_SERVER_SIDE_BACKEND_URL",
		textOr(s, "services.backend.internal_url", DefaultInternalBackendURL))
}

/*──────────────────────────────── auth ────────────────────────────────────*/

// authSystem is custom when auth.system is unset, a falsy scalar, or
// "custom".  Any other value, mappings and lists included, selects clerk.
func authSystem(s Settings) string {
	v := s.Get("auth.system")
	if !truthy(v) || v == AuthCustom {
		return AuthCustom
	}
	return AuthClerk
}

func deriveCustomAuth(env *Env, s Settings, sec SecretSource) {
	env.emit("NEXT_PUBLIC_AUTH_SYSTEM", AuthCustom)

	if jwt := nonEmpty(sec, "CUSTOM_AUTH_SECRET"); jwt != "" {
		env.emit("JWT_SECRET", jwt)
		if refresh := nonEmpty(sec, "REFRESH_TOKEN_SECRET"); refresh != "" {
			env.emit("REFRESH_TOKEN_SECRET", refresh)
		} else {
			env.emit("REFRESH_TOKEN_SECRET", jwt)
		}
	} else {
		env.emit("JWT_SECRET", PlaceholderSecret)
		env.emit("REFRESH_TOKEN_SECRET", PlaceholderSecret)
	}

	for _, item := range list(s, "auth.providers") {
		id, ok := item.(string)
		if !ok {
			continue
		}
		p, ok := lookupProvider(id)
		if !ok {
			continue
		}
		env.emit(p.flag, 1)
		for _, key := range p.keys {
			env.copySecret(sec, key, key)
		}
	}
}

func deriveClerkAuth(env *Env, sec SecretSource) {
	env.emit("NEXT_PUBLIC_AUTH_SYSTEM", AuthClerk)
	env.copySecret(sec, "NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY", "CLERK_PUBLISHABLE_KEY")
	env.copySecret(sec, "CLERK_SECRET_KEY", "CLERK_SECRET_KEY")
	env.emit("NEXT_PUBLIC_LONG_TOKEN_NAME", LongTokenName)
}

/*─────────────────────────────── toggles ──────────────────────────────────*/

// deriveTTS hides TTS when no voices are configured.  With voices present
// nothing is emitted and the frontend default applies.
func deriveTTS(env *Env, s Settings) {
	if !hasItems(s, "tts.voices") {
		env.emit("NEXT_PUBLIC_HIDE_TTS", 1)
	}
}

// deriveCollections shows collections only for an explicit boolean false.
func deriveCollections(env *Env, s Settings) {
	if isBool(s, "collections.disabled", false) {
		env.emit("NEXT_PUBLIC_HIDE_COLLECTIONS", 0)
	} else {
		env.emit("NEXT_PUBLIC_HIDE_COLLECTIONS", 1)
	}
}

func deriveBilling(env *Env, sec SecretSource) {
	if key := nonEmpty(sec, "STRIPE_PUBLISHABLE_KEY"); key != "" {
		env.emit("NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY", key)
	}
}

// deriveHomepage shows the signed-out homepage only for an explicit true.
func deriveHomepage(env *Env, s Settings) {
	if isBool(s, "appearance.show_signed_out_homepage", true) {
		env.emit("NEXT_PUBLIC_HIDE_SIGNED_OUT_HOME_PAGE", 0)
	} else {
		env.emit("NEXT_PUBLIC_HIDE_SIGNED_OUT_HOME_PAGE", 1)
	}
}

/*──────────────────────────── value helpers ───────────────────────────────*/

// text returns the scalar at path as a string.  Absent paths, empty
// strings, false, zero, and container values count as not set.
func text(s Settings, path string) (string, bool) {
	switch v := s.Get(path).(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case bool:
		if !v {
			return "", false
		}
		return "true", true
	case int:
		return fmt.Sprint(v), v != 0
	case float64:
		return fmt.Sprint(v), v != 0
	case []any, map[string]any:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// truthy reports whether v is set: nil, "", false, and zero are not.
// Containers always are, even when empty.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

func textOr(s Settings, path, fallback string) string {
	if v, ok := text(s, path); ok {
		return v
	}
	return fallback
}

// list returns the sequence at path, or nil when it is absent or not a list.
func list(s Settings, path string) []any {
	items, _ := s.Get(path).([]any)
	return items
}

// hasItems reports a non-empty sequence or non-empty string at path.
func hasItems(s Settings, path string) bool {
	switch v := s.Get(path).(type) {
	case []any:
		return len(v) > 0
	case string:
		return v != ""
	default:
		return false
	}
}

// isBool reports whether path holds exactly the boolean want.
func isBool(s Settings, path string, want bool) bool {
	b, ok := s.Get(path).(bool)
	return ok && b == want
}

// nonEmpty returns the secret value, or "" when undefined.
func nonEmpty(sec SecretSource, name string) string {
	v, _ := sec.Lookup(name)
	return v
}
