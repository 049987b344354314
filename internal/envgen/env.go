// internal/envgen/env.go
//
// Ordered accumulation and serialization of environment entries.
//
// Context
// -------
// Entries are kept in emission order so the generated file reads top to
// bottom the same way the rules run.  Names are not de-duplicated; a reader
// of the file (and Lookup) sees the last value written for a name.
//
// Quoting
// -------
// Each value is wrapped in single quotes and every embedded single quote is
// prefixed with a backslash.  Nothing else is escaped, so newlines and
// control characters pass through unchanged.

package envgen

import (
	"bytes"
	"fmt"
	"strings"
)

// Entry is one NAME='value' line.  Value holds the unquoted string.
type Entry struct {
	Name  string
	Value string
}

// Env is the ordered output of Derive.
type Env struct {
	Entries []Entry

	// Missing lists secret names a rule copied verbatim but which the
	// secrets source did not define.  They were emitted as empty strings.
	Missing []string
}

// emit coerces value to its string form and appends it.
func (e *Env) emit(name string, value any) {
	e.Entries = append(e.Entries, Entry{Name: name, Value: fmt.Sprint(value)})
}

// copySecret emits the secret called from under the name as, recording it
// as missing when the source does not define it.
func (e *Env) copySecret(sec SecretSource, as, from string) {
	v, ok := sec.Lookup(from)
	if !ok {
		e.Missing = append(e.Missing, from)
	}
	e.emit(as, v)
}

// Lookup returns the last value emitted under name.
func (e *Env) Lookup(name string) (string, bool) {
	for i := len(e.Entries) - 1; i >= 0; i-- {
		if e.Entries[i].Name == name {
			return e.Entries[i].Value, true
		}
	}
	return "", false
}

// Len reports how many entries were emitted.
func (e *Env) Len() int { return len(e.Entries) }

// Render serializes the entries, one line each, in emission order.
func (e *Env) Render() []byte {
	var buf bytes.Buffer
	for _, ent := range e.Entries {
		buf.WriteString(ent.Name)
		buf.WriteByte('=')
		buf.WriteString(Quote(ent.Value))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Quote escapes single quotes and wraps s in single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
