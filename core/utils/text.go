package utils

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NFC trims s and returns its canonical composition, so that names typed with combining
// accents and precomposed ones produce the same key.
func NFC(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// PGArray renders values as a PostgreSQL array literal: {"a", "b"}.
func PGArray(values []string) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('"')
		v = strings.ReplaceAll(v, `\`, `\\`)
		b.WriteString(strings.ReplaceAll(v, `"`, `\"`))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

// SplitList splits s on sep, trims each item and drops empty ones.
func SplitList(s, sep string) []string {
	var out []string
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// PadNumber left-pads the decimal number in s with zeros to width digits.
func PadNumber(s string, width int) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("not a number: %q", s)
	}
	return fmt.Sprintf("%0*d", width, n), nil
}

// Labelled renders "name (label)", or name alone when label is empty.
func Labelled(name, label string) string {
	if label == "" {
		return name
	}
	return name + " (" + label + ")"
}
