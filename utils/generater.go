package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GeneratePublicID builds a unique storage id from an uploaded file name,
// e.g. "license.pdf" -> "license-1b4e28ba".
func GeneratePublicID(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
	suffix := uuid.NewString()[:8]
	if base == "" || base == "." || base == "_" {
		return suffix
	}
	return base + "-" + suffix
}
