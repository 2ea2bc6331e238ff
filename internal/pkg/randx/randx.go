/*
Package randx generates identifiers: connection handles and blob names.
*/
package randx

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	nanoid "github.com/jaevor/go-nanoid"
)

const (
	// Base62Chars is the alphabet of blob name suffixes.
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// BlobSuffixLength is the number of random characters appended to a blob timestamp.
	BlobSuffixLength = 8

	// MaxExtensionLength bounds the extension copied from a client-supplied file name.
	MaxExtensionLength = 10
)

var blobSuffix = mustGenerator(Base62Chars, BlobSuffixLength)

func mustGenerator(alphabet string, length int) func() string {
	gen, err := nanoid.CustomASCII(alphabet, length)
	if err != nil {
		panic(fmt.Sprintf("randx: invalid nanoid generator: %v", err))
	}
	return gen
}

// ConnectionID returns a fresh opaque connection handle.
func ConnectionID() string {
	return uuid.NewString()
}

// BlobName derives a stored file name from the upload time and the extension of
// originalName: "<unix-millis>-<random>.<ext>". Extensions are lower-cased and
// reduced to alphanumerics; a missing or unusable extension yields "bin".
func BlobName(originalName string, now time.Time) string {
	return fmt.Sprintf("%d-%s.%s", now.UnixMilli(), blobSuffix(), Extension(originalName))
}

// Extension returns the sanitized extension of name without the dot.
func Extension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	clean := b.String()
	if clean == "" || len(clean) > MaxExtensionLength {
		return "bin"
	}
	return clean
}

// IsValidBlobName reports whether name has the shape produced by BlobName.
// It guards blob lookups against path traversal.
func IsValidBlobName(name string) bool {
	stamp, rest, ok := strings.Cut(name, "-")
	if !ok || stamp == "" {
		return false
	}

	suffix, ext, ok := strings.Cut(rest, ".")
	if !ok || len(suffix) != BlobSuffixLength || ext == "" || len(ext) > MaxExtensionLength {
		return false
	}

	for _, r := range stamp {
		if r < '0' || r > '9' {
			return false
		}
	}
	for _, r := range suffix + ext {
		if !strings.ContainsRune(Base62Chars, r) {
			return false
		}
	}

	return true
}
