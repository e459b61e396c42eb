package directory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoNameSeed marks a record missing the configured filename-seed
// attribute; no document can be keyed for it.
var ErrNoNameSeed = errors.New("filename seed attribute absent or empty")

// SanitizeName reduces s to a filesystem and document-name safe string.
// Unsafe runes become underscores; leading/trailing dots and spaces go.
func SanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 0x20, strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), " .")
}

// NewObject builds a classified object from a record. Identity comes from
// the normalized distinguishedname when present, otherwise from the
// sanitized display name, so pre-partitioned minimal dumps still key
// consistently. Enrichment and linking fill the derived fields afterwards.
func NewObject(rec *Record, class Class, seed string) (*Object, error) {
	seedVal, ok := rec.FirstString(seed)
	if !ok || strings.TrimSpace(seedVal) == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoNameSeed, seed)
	}

	name := SanitizeName(seedVal)
	if name == "" {
		return nil, fmt.Errorf("%w: %q sanitizes to empty", ErrNoNameSeed, seedVal)
	}

	identity := ""
	if dn, ok := rec.FirstString("distinguishedname"); ok && strings.TrimSpace(dn) != "" {
		identity = NormalizeIdentity(dn)
	} else {
		identity = NormalizeIdentity(name)
	}

	return &Object{
		Identity:    identity,
		DisplayName: name,
		Class:       class,
		Attributes:  rec,
	}, nil
}
