package directory

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// NormalizeIdentity canonicalizes a distinguished-name-equivalent string for
// use as a graph key. Strings that parse as DNs are rebuilt with upper-cased
// types and values and no spacing between RDNs; anything else is trimmed and
// upper-cased as-is. Synonymous representations beyond this are not folded.
func NormalizeIdentity(s string) string {
	trimmed := strings.TrimSpace(s)
	dn, err := ldap.ParseDN(trimmed)
	if err != nil || len(dn.RDNs) == 0 {
		return strings.ToUpper(trimmed)
	}

	rdns := make([]string, 0, len(dn.RDNs))
	for _, rdn := range dn.RDNs {
		attrs := make([]string, 0, len(rdn.Attributes))
		for _, attr := range rdn.Attributes {
			attrs = append(attrs, strings.ToUpper(attr.Type)+"="+strings.ToUpper(strings.TrimSpace(attr.Value)))
		}
		rdns = append(rdns, strings.Join(attrs, "+"))
	}
	return strings.Join(rdns, ",")
}

// CommonName extracts the first CN value from a DN-ish string. Used to render
// a readable token for references that resolve to no known object.
func CommonName(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	dn, err := ldap.ParseDN(trimmed)
	if err == nil {
		for _, rdn := range dn.RDNs {
			for _, attr := range rdn.Attributes {
				if strings.EqualFold(attr.Type, "CN") {
					return strings.TrimSpace(attr.Value), true
				}
			}
		}
		return "", false
	}

	// Not a parseable DN; salvage a leading CN= prefix if one is there.
	rest, ok := cutFold(trimmed, "CN=")
	if !ok {
		return "", false
	}
	if i := strings.IndexByte(rest, ','); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimSpace(rest)
	return rest, rest != ""
}

func cutFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return "", false
}
