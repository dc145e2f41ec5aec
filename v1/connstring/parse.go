package connstring

import (
	"fmt"
	"strings"
)

// Values holds the key/value pairs of a parsed connection string.
// Keys are matched case-insensitively.
type Values struct {
	keys   []string
	values map[string]string
}

// Get returns the value stored under key and whether the key was present.
func (v Values) Get(key string) (string, bool) {
	val, ok := v.values[normalizeKey(key)]
	return val, ok
}

// Keys returns the keys in the order they appeared, as written.
func (v Values) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Len returns the number of distinct keys.
func (v Values) Len() int {
	return len(v.values)
}

// nonEmpty reports whether key is present with a non-empty value.
func (v Values) nonEmpty(key string) bool {
	val, ok := v.Get(key)
	return ok && val != ""
}

// Parse splits a connection string written in the standard
// "key=value;key=value" syntax. Values may be enclosed in single or double
// quotes, in which case a doubled quote stands for a literal one and
// semicolons lose their meaning. Empty segments are ignored. When a key
// repeats, the last value wins.
func Parse(connectionString string) (Values, error) {
	v := Values{values: make(map[string]string)}
	s := connectionString
	for i := 0; i < len(s); {
		// skip separators and leading whitespace
		for i < len(s) && (s[i] == ';' || isSpace(s[i])) {
			i++
		}
		if i >= len(s) {
			break
		}

		eq := strings.IndexByte(s[i:], '=')
		semi := strings.IndexByte(s[i:], ';')
		if eq < 0 || (semi >= 0 && semi < eq) {
			return Values{}, &ClassificationError{
				Keys:   v.Keys(),
				Reason: fmt.Sprintf("malformed segment at offset %d", i),
			}
		}
		key := strings.TrimSpace(s[i : i+eq])
		if key == "" {
			return Values{}, &ClassificationError{
				Keys:   v.Keys(),
				Reason: fmt.Sprintf("empty key at offset %d", i),
			}
		}
		i += eq + 1

		for i < len(s) && isSpace(s[i]) {
			i++
		}

		var value string
		if i < len(s) && (s[i] == '"' || s[i] == '\'') {
			quote := s[i]
			i++
			var b strings.Builder
			closed := false
			for i < len(s) {
				if s[i] == quote {
					if i+1 < len(s) && s[i+1] == quote {
						b.WriteByte(quote)
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				b.WriteByte(s[i])
				i++
			}
			if !closed {
				return Values{}, &ClassificationError{
					Keys:   append(v.Keys(), key),
					Reason: "unterminated quoted value",
				}
			}
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			if i < len(s) && s[i] != ';' {
				return Values{}, &ClassificationError{
					Keys:   append(v.Keys(), key),
					Reason: "unexpected characters after quoted value",
				}
			}
			value = b.String()
		} else {
			end := strings.IndexByte(s[i:], ';')
			if end < 0 {
				end = len(s) - i
			}
			value = strings.TrimSpace(s[i : i+end])
			i += end
		}

		norm := normalizeKey(key)
		if _, seen := v.values[norm]; !seen {
			v.keys = append(v.keys, key)
		}
		v.values[norm] = value
	}
	return v, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.Join(strings.Fields(key), " "))
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
