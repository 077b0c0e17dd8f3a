// adlookup is a package for looking up objects (users, contacts, groups,
// organizational units) in Active-Directory-style directory services by
// identity.
//
// Identities and search roots may be given in loosely structured forms: a
// distinguished name, a canonical slash-delimited name, a dotted domain
// name, or a free-form search term with wildcards.  The package normalizes
// them, synthesizes an LDAP filter, and returns the matching entries
// projected onto a requested attribute list.
//
// Primary types provided by the package:
//
//   - Client: the directory client with its Lookup operation
//   - ClientConfig: the client's configuration, including its bind
//     credential
//   - Record: a single matching entry's requested attributes
package adlookup
