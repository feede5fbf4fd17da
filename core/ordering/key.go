package ordering

import (
	"fmt"
	"strings"
)

// Key is the natural key of a commune-like entity.
type Key struct {
	Kind Kind
	Code string
}

// KeyOf builds a Key from raw type and code columns.
func KeyOf(label, code string) (Key, error) {
	kind, err := ParseKind(label)
	if err != nil {
		return Key{}, err
	}
	return Key{Kind: kind, Code: code}, nil
}

// Compare orders keys by kind precedence, then code.
func Compare(a, b Key) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Code, b.Code)
}

// Less reports whether a sorts before b.
func Less(a, b Key) bool {
	return Compare(a, b) < 0
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.Code)
}

// NaturalKey is an ordered tuple of strings identifying an entity within one
// entity type.
type NaturalKey []string

// CompareNatural orders natural keys element by element; a strict prefix sorts first.
func CompareNatural(a, b NaturalKey) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// String returns an unambiguous encoding usable as a map key.
func (k NaturalKey) String() string {
	var b strings.Builder
	for i, part := range k {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(part)
	}
	return b.String()
}
