package census

import (
	"fmt"
	"strconv"
	"strings"
)

// NextCode returns prefix followed by the next number after the highest numeric suffix among existing.
// Codes that are not prefix+digits are ignored. Numbers are padded to three digits but never truncated.
func NextCode(prefix string, existing []string) string {
	var highest uint64
	for _, code := range existing {
		digits, ok := strings.CutPrefix(code, prefix)
		if !ok || digits == "" || !allDigits(digits) {
			continue
		}
		n, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1)
}

func allDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
