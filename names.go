package adlookup

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// CanonicalToDN converts a canonical directory name, domain-first and
// slash-delimited, into its distinguished name.  The canonical name
// "sub.domain/ou1/ou2" becomes "OU=ou2,OU=ou1,DC=sub,DC=domain": container
// segments are reversed so the most-specific component comes first, and
// every segment value is escaped per RFC 4514.
//
// A canonical name with no container path ("a.b" or "a.b/") or with an
// empty segment is an error; use DomainDN for bare domain names.
func CanonicalToDN(canonical string) (string, error) {
	const op = "adlookup.CanonicalToDN"
	segments := strings.Split(canonical, "/")
	if len(segments) < 2 {
		return "", fmt.Errorf("%s: canonical name %q has no container path: %w", op, canonical, ErrInvalidParameter)
	}
	dc, err := DomainDN(segments[0])
	if err != nil {
		return "", fmt.Errorf("%s: canonical name %q: %w", op, canonical, err)
	}
	ous := segments[1:]
	parts := make([]string, 0, len(ous)+1)
	for i := len(ous) - 1; i >= 0; i-- {
		if ous[i] == "" {
			return "", fmt.Errorf("%s: canonical name %q has an empty container segment: %w", op, canonical, ErrInvalidParameter)
		}
		parts = append(parts, "OU="+EscapeValue(ous[i]))
	}
	parts = append(parts, dc)
	return strings.Join(parts, ","), nil
}

// DomainDN converts a dotted domain name ("corp.example.com") into its
// chain of domain components ("DC=corp,DC=example,DC=com").
func DomainDN(domain string) (string, error) {
	const op = "adlookup.DomainDN"
	if domain == "" {
		return "", fmt.Errorf("%s: missing domain: %w", op, ErrInvalidParameter)
	}
	labels := strings.Split(domain, ".")
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			return "", fmt.Errorf("%s: domain %q has an empty label: %w", op, domain, ErrInvalidParameter)
		}
		parts = append(parts, "DC="+EscapeValue(label))
	}
	return strings.Join(parts, ","), nil
}

// SplitIdentity splits a distinguished-name identity into the search term
// held by its leading RDN and the parent DN to search under.  For
// "cn=foo,ou=bar,dc=a,dc=b" the term is "foo" and the base is
// "ou=bar,dc=a,dc=b".  An identity without an "=" is not a distinguished
// name and is returned verbatim with an empty base.  A distinguished name
// with no parent container is an error.
func SplitIdentity(identity string) (term string, baseDN string, err error) {
	const op = "adlookup.SplitIdentity"
	if identity == "" {
		return "", "", fmt.Errorf("%s: missing identity: %w", op, ErrInvalidParameter)
	}
	if !strings.Contains(identity, "=") {
		return identity, "", nil
	}
	dn, err := ldap.ParseDN(identity)
	if err != nil {
		return "", "", fmt.Errorf("%s: invalid distinguished name %q: %v: %w", op, identity, err, ErrInvalidParameter)
	}
	if len(dn.RDNs) < 2 {
		return "", "", fmt.Errorf("%s: distinguished name %q has no parent container: %w", op, identity, ErrInvalidParameter)
	}
	lead := dn.RDNs[0]
	if len(lead.Attributes) == 0 || lead.Attributes[0].Value == "" {
		return "", "", fmt.Errorf("%s: distinguished name %q has an empty leading component: %w", op, identity, ErrInvalidParameter)
	}
	term = lead.Attributes[0].Value
	rest := make([]string, 0, len(dn.RDNs)-1)
	for _, rdn := range dn.RDNs[1:] {
		attrs := make([]string, 0, len(rdn.Attributes))
		for _, a := range rdn.Attributes {
			attrs = append(attrs, a.Type+"="+EscapeValue(a.Value))
		}
		rest = append(rest, strings.Join(attrs, "+"))
	}
	return term, strings.Join(rest, ","), nil
}

// ResolveBaseDN resolves a search root given in any supported form into a
// distinguished name.  The form is detected by substring tests, in order:
// a root containing both "." and "/" is a canonical name, a root
// containing "." alone is a dotted domain, and a root containing "dc=" is
// already a distinguished name and passes through untouched.  Anything
// else fails with ErrUnrecognizedRoot.
//
// ADSI-style paths are accepted: a leading "LDAP://" or "LDAPS://" scheme
// prefix is stripped before detection, since the client carries server
// URLs in its configuration rather than in the search root.
func ResolveBaseDN(root string) (string, error) {
	const op = "adlookup.ResolveBaseDN"
	trimmed := strings.TrimSpace(root)
	for _, scheme := range []string{"ldap://", "ldaps://"} {
		if len(trimmed) >= len(scheme) && strings.EqualFold(trimmed[:len(scheme)], scheme) {
			trimmed = trimmed[len(scheme):]
			break
		}
	}
	hasDot := strings.Contains(trimmed, ".")
	hasSlash := strings.Contains(trimmed, "/")
	switch {
	case hasDot && hasSlash:
		dn, err := CanonicalToDN(trimmed)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		return dn, nil
	case hasDot:
		dn, err := DomainDN(trimmed)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		return dn, nil
	case strings.Contains(strings.ToLower(trimmed), "dc="):
		return trimmed, nil
	default:
		return "", fmt.Errorf("%s: search root %q: %w", op, root, ErrUnrecognizedRoot)
	}
}

// EscapeValue will properly escape the input string as an ldap value
func EscapeValue(input string) string {
	if input == "" {
		return ""
	}

	// RFC4514 forbids un-escaped:
	// - leading space or hash
	// - trailing space
	// - special characters '"', '+', ',', ';', '<', '>', '\\'
	// - null
	for i := 0; i < len(input); i++ {
		escaped := false
		if input[i] == '\\' {
			i++
			escaped = true
		}
		switch input[i] {
		case '"', '+', ',', ';', '<', '>', '\\':
			if !escaped {
				input = input[0:i] + "\\" + input[i:]
				i++
			}
			continue
		}
		if escaped {
			input = input[0:i] + "\\" + input[i:]
			i++
		}
	}
	if input[0] == ' ' || input[0] == '#' {
		input = "\\" + input
	}
	if input[len(input)-1] == ' ' {
		input = input[0:len(input)-1] + "\\ "
	}
	return input
}

// EscapeFilter escapes the input string for use inside an ldap filter per
// RFC 4515.
func EscapeFilter(filter string) string {
	return ldap.EscapeFilter(filter)
}
