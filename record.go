package adlookup

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/hashicorp/go-secure-stdlib/strutil"
)

// Record is a single directory entry projected onto the requested
// attributes.  An attribute holding exactly one value unwraps to a string;
// a multi-valued attribute remains a []string.  Attributes absent from the
// entry are omitted.
type Record map[string]any

// normalizeAttributes accepts attribute names given as list items or
// comma-delimited strings and produces a single deduplicated list.  The
// input []string{"cn,mail", "sn"} and []string{"cn", "mail", "sn"} yield
// the same result.
func normalizeAttributes(attrs []string) []string {
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		for _, name := range strings.Split(a, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return strutil.RemoveDuplicates(out, false)
}

// flattenRecord projects a directory entry onto the requested attribute
// list.  distinguishedName falls back to the entry's DN when the server
// did not return it as an attribute.
func flattenRecord(e *ldap.Entry, attrs []string) Record {
	rec := make(Record, len(attrs))
	for _, name := range attrs {
		values := e.GetAttributeValues(name)
		if len(values) == 0 && strings.EqualFold(name, DefaultAttribute) && e.DN != "" {
			values = []string{e.DN}
		}
		switch len(values) {
		case 0:
		case 1:
			rec[name] = values[0]
		default:
			rec[name] = append([]string(nil), values...)
		}
	}
	return rec
}
