package stateid

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeCode normalizes a state FIPS code to 2 digits with zero-padding.
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if len(code) == 1 {
		return "0" + code
	}
	return code
}

// FormatCode formats a numeric state code the way TIGER/Line STATEFP
// attributes spell it.
func FormatCode(code int) string {
	return fmt.Sprintf("%02d", code)
}

// ParseCode parses a STATEFP attribute such as "06".
func ParseCode(s string) (int, error) {
	return strconv.Atoi(NormalizeCode(s))
}
