// Package secrets reads the dotenv-style credentials file.
//
// Values are taken literally: `$VAR` and `${VAR}` are not expanded, so a
// secret such as `pa$$w0rd` survives byte for byte.  A line that does not
// parse is skipped and reported instead of failing the whole file.
package secrets

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	envparse "github.com/hashicorp/go-envparse"
)

// maxLine bounds a single KEY=value line; PEM keys on one line fit easily.
const maxLine = 1 << 20

// Secrets maps variable names to raw values.  Treat it as read-only.
type Secrets map[string]string

// Parse decodes KEY=value lines.  It returns the 1-based numbers of lines
// that were skipped as malformed.  The error is non-nil only when r itself
// cannot be read.  A later definition of a name wins.
func Parse(r io.Reader) (Secrets, []int, error) {
	out := make(Secrets)
	var skipped []int

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for n := 1; sc.Scan(); n++ {
		kv, err := envparse.Parse(bytes.NewReader(sc.Bytes()))
		if err != nil {
			skipped = append(skipped, n)
			continue
		}
		for k, v := range kv {
			out[k] = v
		}
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read secrets: %w", err)
	}
	return out, skipped, nil
}

// Lookup returns the value and whether the name was defined at all.
func (s Secrets) Lookup(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

// Overlay returns a copy of s with every entry of other layered on top.
func (s Secrets) Overlay(other map[string]string) Secrets {
	out := make(Secrets, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
