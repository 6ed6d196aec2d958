package parfile

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bft-labs/flashrestart/internal/domain"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidKey reports whether key can name a parameter.
func ValidKey(key string) bool {
	return identPattern.MatchString(key)
}

// FormatValue renders an override value as parameter-file text.
//
// Strings are written verbatim, so a caller that wants a quoted string
// passes the quotes ("\"run2_\""). Integers are decimal. Floats use the
// shortest exact decimal and keep a ".0" when integral. Bools become the
// Fortran literals .true. and .false.
func FormatValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		if x {
			return ".true.", nil
		}
		return ".false.", nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	}
	return "", fmt.Errorf("%w: %T", domain.ErrInvalidValue, v)
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidValue, f)
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, nil
}
