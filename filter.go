package adlookup

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// ObjectClass selects the directory object category a lookup matches.
type ObjectClass string

const (
	ClassUser               ObjectClass = "user"
	ClassContact            ObjectClass = "contact"
	ClassGroup              ObjectClass = "group"
	ClassOrganizationalUnit ObjectClass = "organizationalUnit"
)

func (c ObjectClass) validate() error {
	const op = "adlookup.(ObjectClass).validate"
	switch c {
	case ClassUser, ClassContact, ClassGroup, ClassOrganizationalUnit:
		return nil
	default:
		return fmt.Errorf("%s: unsupported object class %q: %w", op, string(c), ErrInvalidParameter)
	}
}

// searchAttributes are the attributes the default filter matches a search
// term against.
var searchAttributes = []string{
	"sAMAccountName",
	"givenName",
	"sn",
	"displayName",
	"proxyAddresses",
	"name",
}

// defaultFilter synthesizes the filter used when the caller supplies no
// explicit one: a disjunction of the term over searchAttributes, conjoined
// with an objectClass constraint.  The proxyAddresses clause always gets a
// leading wildcard since its values carry an address-type prefix
// ("SMTP:...").  Wildcards the caller put in the term survive escaping.
func defaultFilter(class ObjectClass, term string) string {
	escaped := escapeTerm(term)
	var b strings.Builder
	fmt.Fprintf(&b, "(&(objectClass=%s)(|", string(class))
	for _, attr := range searchAttributes {
		if attr == "proxyAddresses" {
			fmt.Fprintf(&b, "(%s=*%s)", attr, escaped)
			continue
		}
		fmt.Fprintf(&b, "(%s=%s)", attr, escaped)
	}
	b.WriteString("))")
	return b.String()
}

// escapeTerm escapes a search term per RFC 4515 while preserving any "*"
// wildcards the caller supplied.
func escapeTerm(term string) string {
	segments := strings.Split(term, "*")
	for i, s := range segments {
		segments[i] = ldap.EscapeFilter(s)
	}
	return strings.Join(segments, "*")
}
