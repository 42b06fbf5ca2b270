package configset

import (
	"errors"
	"fmt"
	"math"
	"os"
	"os/user"
	"strconv"
	"strings"
)

// NormalizeKey folds the section and name parts of a dotted key to lower
// case and keeps the middle (subsection) part as is.
func NormalizeKey(key string) (string, error) {
	first := strings.IndexByte(key, '.')
	last := strings.LastIndexByte(key, '.')
	if first <= 0 {
		return "", fmt.Errorf("%w: key does not contain a section: %s", ErrInvalidKey, key)
	}
	if last == len(key)-1 {
		return "", fmt.Errorf("%w: key does not contain a variable name: %s", ErrInvalidKey, key)
	}

	b := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case i < first || i > last:
			if !isKeyChar(c) || (i == last+1 && !isAlpha(c)) {
				return "", fmt.Errorf("%w: %s", ErrInvalidKey, key)
			}
			c = toLower(c)
		case c == '\n':
			return "", fmt.Errorf("%w: %s", ErrInvalidKey, key)
		}
		b = append(b, c)
	}
	return string(b), nil
}

// ParseInt32 parses a signed integer with an optional k, m or g suffix.
func ParseInt32(s string) (int32, error) {
	v, err := parseSigned(s, math.MinInt32, math.MaxInt32)
	return int32(v), err
}

// ParseInt64 is ParseInt32 for 64-bit values.
func ParseInt64(s string) (int64, error) {
	return parseSigned(s, math.MinInt64, math.MaxInt64)
}

// ParseUint64 parses an unsigned integer with an optional k, m or g suffix.
// Negative literals are rejected.
func ParseUint64(s string) (uint64, error) {
	if s == "" || strings.ContainsRune(s, '-') {
		return 0, ErrInvalidValue
	}
	num, factor, err := splitUnit(s)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(num, 0, 64)
	if err != nil {
		return 0, numError(err)
	}
	if v > math.MaxUint64/factor {
		return 0, ErrOutOfRange
	}
	return v * factor, nil
}

// ParseBool accepts true/yes/on and false/no/off in any case, the empty
// string as false, and otherwise any integer, where nonzero is true.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off", "":
		return false, nil
	}
	v, err := ParseInt32(s)
	if err != nil {
		return false, ErrInvalidValue
	}
	return v != 0, nil
}

// ExpandPath replaces a leading "~/" with the current user's home directory
// and "~user/" with the home directory of that user. Other paths are
// returned unchanged.
func ExpandPath(path string) (string, error) {
	return expandPath(path, "")
}

func expandPath(path, home string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	name, rest := path[1:], ""
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name, rest = name[:i], name[i:]
	}

	if name == "" {
		if home != "" {
			return home + rest, nil
		}
		dir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return dir + rest, nil
	}

	u, err := user.Lookup(name)
	if err != nil {
		return "", fmt.Errorf("%w: failed to look up user %s: %v", ErrInvalidValue, name, err)
	}
	return u.HomeDir + rest, nil
}

func parseSigned(s string, min, max int64) (int64, error) {
	if s == "" {
		return 0, ErrInvalidValue
	}
	num, factor, err := splitUnit(s)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(num, 0, 64)
	if err != nil {
		return 0, numError(err)
	}
	f := int64(factor)
	if v > max/f || v < min/f {
		return 0, ErrOutOfRange
	}
	return v * f, nil
}

// splitUnit strips a trailing unit suffix and returns its multiplier.
func splitUnit(s string) (string, uint64, error) {
	factor := uint64(1)
	switch s[len(s)-1] {
	case 'k', 'K':
		factor = 1 << 10
	case 'm', 'M':
		factor = 1 << 20
	case 'g', 'G':
		factor = 1 << 30
	}
	if factor > 1 {
		s = s[:len(s)-1]
	}
	if s == "" || strings.ContainsRune(s, '_') {
		return "", 0, ErrInvalidValue
	}
	return s, factor, nil
}

func numError(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return ErrOutOfRange
	}
	return ErrInvalidValue
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKeyChar(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9') || c == '-'
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
