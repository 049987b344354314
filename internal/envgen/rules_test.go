// internal/envgen/rules_test.go
//
// Unit-tests for the rule table.  Settings come from YAML snippets parsed
// by the real settings package; secrets are plain maps.

package envgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdeptTravel/envgen/internal/secrets"
	"github.com/AdeptTravel/envgen/internal/settings"
)

func mustSettings(t *testing.T, yml string) *settings.Document {
	t.Helper()
	doc, err := settings.Parse([]byte(yml))
	require.NoError(t, err)
	return doc
}

func value(t *testing.T, env *Env, name string) string {
	t.Helper()
	v, ok := env.Lookup(name)
	require.True(t, ok, "%s was not emitted", name)
	return v
}

func count(env *Env, name string) int {
	n := 0
	for _, e := range env.Entries {
		if e.Name == name {
			n++
		}
	}
	return n
}

func TestDerive_DefaultURLs(t *testing.T) {
	env := Derive(mustSettings(t, ""), secrets.Secrets{})

	assert.Equal(t, DefaultPublicBackendURL, value(t, env, "NEXT_PUBLIC_BACKEND_URL"))
	assert.Equal(t, DefaultPublicFrontendURL, value(t, env, "NEXT_PUBLIC_ROOT_URL"))
	assert.Equal(t, DefaultInternalBackendURL, value(t, env, "NEXT_SERVER_SIDE_BACKEND_URL"))
}

func TestDerive_URLOverrides(t *testing.T) {
	env := Derive(mustSettings(t, `
services:
  backend:
    public_url: https://api.abbey.example
    internal_url: ""
  frontend:
    public_url: https://abbey.example
`), secrets.Secrets{})

	assert.Equal(t, "https://api.abbey.example", value(t, env, "NEXT_PUBLIC_BACKEND_URL"))
	assert.Equal(t, "https://abbey.example", value(t, env, "NEXT_PUBLIC_ROOT_URL"))
	// empty string counts as not set
	assert.Equal(t, DefaultInternalBackendURL, value(t, env, "NEXT_SERVER_SIDE_BACKEND_URL"))
}

func TestDerive_AuthBranchExclusive(t *testing.T) {
	docs := map[string]string{
		"absent":   "",
		"empty":    "auth:\n  system: \"\"\n",
		"custom":   "auth:\n  system: custom\n",
		"clerk":    "auth:\n  system: clerk\n",
		"other":    "auth:\n  system: okta\n",
		"nullauth": "auth:\n",
		"map":      "auth:\n  system:\n    name: okta\n",
		"list":     "auth:\n  system: [okta]\n",
		"true":     "auth:\n  system: true\n",
		"false":    "auth:\n  system: false\n",
	}
	want := map[string]string{
		"absent":   AuthCustom,
		"empty":    AuthCustom,
		"custom":   AuthCustom,
		"clerk":    AuthClerk,
		"other":    AuthClerk,
		"nullauth": AuthCustom,
		"map":      AuthClerk,
		"list":     AuthClerk,
		"true":     AuthClerk,
		"false":    AuthCustom,
	}
	for name, yml := range docs {
		t.Run(name, func(t *testing.T) {
			env := Derive(mustSettings(t, yml), secrets.Secrets{})
			assert.Equal(t, 1, count(env, "NEXT_PUBLIC_AUTH_SYSTEM"))
			assert.Equal(t, want[name], value(t, env, "NEXT_PUBLIC_AUTH_SYSTEM"))
		})
	}
}

func TestDerive_CustomSecretFallback(t *testing.T) {
	env := Derive(mustSettings(t, ""), secrets.Secrets{"CUSTOM_AUTH_SECRET": "abc"})

	assert.Equal(t, "abc", value(t, env, "JWT_SECRET"))
	assert.Equal(t, "abc", value(t, env, "REFRESH_TOKEN_SECRET"))
}

func TestDerive_CustomSecretWithRefresh(t *testing.T) {
	env := Derive(mustSettings(t, ""), secrets.Secrets{
		"CUSTOM_AUTH_SECRET":   "abc",
		"REFRESH_TOKEN_SECRET": "xyz",
	})

	assert.Equal(t, "abc", value(t, env, "JWT_SECRET"))
	assert.Equal(t, "xyz", value(t, env, "REFRESH_TOKEN_SECRET"))
}

func TestDerive_CustomSecretPlaceholder(t *testing.T) {
	env := Derive(mustSettings(t, ""), secrets.Secrets{"REFRESH_TOKEN_SECRET": "ignored"})

	assert.Equal(t, PlaceholderSecret, value(t, env, "JWT_SECRET"))
	assert.Equal(t, PlaceholderSecret, value(t, env, "REFRESH_TOKEN_SECRET"))
}

func TestDerive_CustomSecretVerbatim(t *testing.T) {
	env := Derive(mustSettings(t, ""), secrets.Secrets{"CUSTOM_AUTH_SECRET": "pa$$w0rd$SALT"})

	assert.Equal(t, "pa$$w0rd$SALT", value(t, env, "JWT_SECRET"))
	assert.Contains(t, string(env.Render()), "JWT_SECRET='pa$$w0rd$SALT'\n")
}

func TestDerive_ClerkBranch(t *testing.T) {
	env := Derive(mustSettings(t, `
auth:
  system: clerk
  providers: [google]
`), secrets.Secrets{
		"CLERK_PUBLISHABLE_KEY": "pk_test",
		"CLERK_SECRET_KEY":      "sk_test",
		"CUSTOM_AUTH_SECRET":    "unused",
	})

	assert.Equal(t, "pk_test", value(t, env, "NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY"))
	assert.Equal(t, "sk_test", value(t, env, "CLERK_SECRET_KEY"))
	assert.Equal(t, LongTokenName, value(t, env, "NEXT_PUBLIC_LONG_TOKEN_NAME"))

	// providers and custom secrets belong to the custom branch only
	assert.Zero(t, count(env, "JWT_SECRET"))
	assert.Zero(t, count(env, "NEXT_PUBLIC_ENABLE_GOOGLE_AUTH"))
	assert.Empty(t, env.Missing)
}

func TestDerive_ProviderEnumeration(t *testing.T) {
	env := Derive(mustSettings(t, `
auth:
  providers: [google, bogus]
`), secrets.Secrets{"GOOGLE_CLIENT_ID": "gid", "GOOGLE_SECRET": "gsec"})

	assert.Equal(t, "1", value(t, env, "NEXT_PUBLIC_ENABLE_GOOGLE_AUTH"))
	assert.Equal(t, "gid", value(t, env, "GOOGLE_CLIENT_ID"))
	assert.Equal(t, "gsec", value(t, env, "GOOGLE_SECRET"))

	enabled := 0
	for _, e := range env.Entries {
		if strings.HasPrefix(e.Name, "NEXT_PUBLIC_ENABLE_") {
			enabled++
		}
	}
	assert.Equal(t, 1, enabled)
}

func TestDerive_ProvidersInDocumentOrder(t *testing.T) {
	env := Derive(mustSettings(t, `
auth:
  system: custom
  providers: [keycloak, github]
`), secrets.Secrets{})

	var names []string
	for _, e := range env.Entries {
		names = append(names, e.Name)
	}
	assert.Subset(t, names, []string{
		"NEXT_PUBLIC_ENABLE_KEYCLOAK_AUTH",
		"KEYCLOAK_PUBLIC_URL",
		"KEYCLOAK_INTERNAL_URL",
		"KEYCLOAK_REALM",
		"KEYCLOAK_SECRET",
		"KEYCLOAK_CLIENT_ID",
		"NEXT_PUBLIC_ENABLE_GITHUB_AUTH",
		"GITHUB_CLIENT_ID",
		"GITHUB_SECRET",
	})
	assert.Less(t, indexOf(names, "KEYCLOAK_CLIENT_ID"), indexOf(names, "NEXT_PUBLIC_ENABLE_GITHUB_AUTH"))

	// every credential was undefined, so all seven are reported
	assert.Equal(t, []string{
		"KEYCLOAK_PUBLIC_URL",
		"KEYCLOAK_INTERNAL_URL",
		"KEYCLOAK_REALM",
		"KEYCLOAK_SECRET",
		"KEYCLOAK_CLIENT_ID",
		"GITHUB_CLIENT_ID",
		"GITHUB_SECRET",
	}, env.Missing)
}

func TestDerive_NonListProvidersIgnored(t *testing.T) {
	env := Derive(mustSettings(t, "auth:\n  providers: google\n"), secrets.Secrets{})
	assert.Zero(t, count(env, "NEXT_PUBLIC_ENABLE_GOOGLE_AUTH"))
}

func TestDerive_TTS(t *testing.T) {
	env := Derive(mustSettings(t, ""), secrets.Secrets{})
	assert.Equal(t, "1", value(t, env, "NEXT_PUBLIC_HIDE_TTS"))

	env = Derive(mustSettings(t, "tts:\n  voices: []\n"), secrets.Secrets{})
	assert.Equal(t, "1", value(t, env, "NEXT_PUBLIC_HIDE_TTS"))

	env = Derive(mustSettings(t, "tts:\n  voices: [alloy]\n"), secrets.Secrets{})
	assert.Zero(t, count(env, "NEXT_PUBLIC_HIDE_TTS"))
}

func TestDerive_Collections(t *testing.T) {
	cases := []struct{ yml, want string }{
		{"", "1"},
		{"collections:\n  disabled: true\n", "1"},
		{"collections:\n  disabled: false\n", "0"},
		{"collections:\n  disabled: \"false\"\n", "1"},
		{"collections:\n  disabled: 0\n", "1"},
	}
	for _, c := range cases {
		env := Derive(mustSettings(t, c.yml), secrets.Secrets{})
		assert.Equal(t, c.want, value(t, env, "NEXT_PUBLIC_HIDE_COLLECTIONS"), c.yml)
	}
}

func TestDerive_Billing(t *testing.T) {
	env := Derive(mustSettings(t, ""), secrets.Secrets{})
	assert.Zero(t, count(env, "NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY"))

	env = Derive(mustSettings(t, ""), secrets.Secrets{"STRIPE_PUBLISHABLE_KEY": ""})
	assert.Zero(t, count(env, "NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY"))

	env = Derive(mustSettings(t, ""), secrets.Secrets{"STRIPE_PUBLISHABLE_KEY": "pk_live"})
	assert.Equal(t, "pk_live", value(t, env, "NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY"))
}

func TestDerive_Homepage(t *testing.T) {
	cases := []struct{ yml, want string }{
		{"", "1"},
		{"appearance:\n  show_signed_out_homepage: true\n", "0"},
		{"appearance:\n  show_signed_out_homepage: false\n", "1"},
		{"appearance:\n  show_signed_out_homepage: \"yes\"\n", "1"},
	}
	for _, c := range cases {
		env := Derive(mustSettings(t, c.yml), secrets.Secrets{})
		assert.Equal(t, c.want, value(t, env, "NEXT_PUBLIC_HIDE_SIGNED_OUT_HOME_PAGE"), c.yml)
	}
}

func TestDerive_EscapesSecretQuotes(t *testing.T) {
	env := Derive(mustSettings(t, ""), secrets.Secrets{"CUSTOM_AUTH_SECRET": "O'Brien"})
	assert.Contains(t, string(env.Render()), `JWT_SECRET='O\'Brien'`+"\n")
}

func TestDerive_DoesNotMutateInputs(t *testing.T) {
	sec := secrets.Secrets{"CUSTOM_AUTH_SECRET": "abc"}
	doc := mustSettings(t, "auth:\n  providers: [google]\n")
	before := doc.Keys()

	_ = Derive(doc, sec)

	assert.Equal(t, secrets.Secrets{"CUSTOM_AUTH_SECRET": "abc"}, sec)
	assert.Equal(t, before, doc.Keys())
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
