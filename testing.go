package adlookup

import (
	"fmt"

	"github.com/jimlambrt/gldap"
)

const (
	// TestDomainDN is the domain root used by the test entry constructors.
	TestDomainDN = "dc=example,dc=org"

	// TestUserDN is the container for test user and contact entries.
	TestUserDN = "ou=people,dc=example,dc=org"

	// TestGroupDN is the container for test group entries.
	TestGroupDN = "ou=groups,dc=example,dc=org"

	// TestBindPassword is the password assigned to every test user entry.
	TestBindPassword = "password"
)

// TestUsers creates AD-flavored user entries under TestUserDN, carrying the
// attributes the default lookup filter matches against.
func TestUsers(t TestingT, userNames []string) []*gldap.Entry {
	if v, ok := interface{}(t).(HelperT); ok {
		v.Helper()
	}
	entries := make([]*gldap.Entry, 0, len(userNames))
	for _, n := range userNames {
		dn := fmt.Sprintf("cn=%s,%s", n, TestUserDN)
		entries = append(entries, gldap.NewEntry(
			dn,
			map[string][]string{
				"objectClass":       {"user"},
				"cn":                {n},
				"name":              {n},
				"sAMAccountName":    {n},
				"displayName":       {n},
				"distinguishedName": {dn},
				"mail":              {fmt.Sprintf("%s@example.org", n)},
				"proxyAddresses": {
					fmt.Sprintf("SMTP:%s@example.org", n),
					fmt.Sprintf("smtp:%s@mail.example.org", n),
				},
				"password": {TestBindPassword},
			},
		))
	}
	return entries
}

// TestGroup creates an AD-flavored group entry under TestGroupDN whose
// members are user entries created by TestUsers.
func TestGroup(t TestingT, groupName string, memberNames []string) *gldap.Entry {
	if v, ok := interface{}(t).(HelperT); ok {
		v.Helper()
	}
	members := make([]string, 0, len(memberNames))
	for _, n := range memberNames {
		members = append(members, fmt.Sprintf("cn=%s,%s", n, TestUserDN))
	}
	dn := fmt.Sprintf("cn=%s,%s", groupName, TestGroupDN)
	return gldap.NewEntry(
		dn,
		map[string][]string{
			"objectClass":       {"group"},
			"cn":                {groupName},
			"name":              {groupName},
			"sAMAccountName":    {groupName},
			"distinguishedName": {dn},
			"member":            members,
		},
	)
}

// TestOU creates an organizational unit entry directly under TestDomainDN.
func TestOU(t TestingT, ouName string) *gldap.Entry {
	if v, ok := interface{}(t).(HelperT); ok {
		v.Helper()
	}
	dn := fmt.Sprintf("ou=%s,%s", ouName, TestDomainDN)
	return gldap.NewEntry(
		dn,
		map[string][]string{
			"objectClass":       {"organizationalUnit"},
			"ou":                {ouName},
			"name":              {ouName},
			"distinguishedName": {dn},
		},
	)
}
