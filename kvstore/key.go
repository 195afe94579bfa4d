package kvstore

import (
	"fmt"
	"strings"
)

// ValidateKey rejects keys that cannot be used portably across backends: empty
// keys, keys starting with a dot, and keys containing anything other than
// letters, digits, '-', '_' or '.'.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
