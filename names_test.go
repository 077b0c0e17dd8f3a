package adlookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalToDN(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name            string
		canonical       string
		want            string
		wantErr         bool
		wantErrIs       error
		wantErrContains string
	}{
		{
			name:      "two-level-path",
			canonical: "a.b/x/y",
			want:      "OU=y,OU=x,DC=a,DC=b",
		},
		{
			name:      "single-ou",
			canonical: "corp.example.com/Users",
			want:      "OU=Users,DC=corp,DC=example,DC=com",
		},
		{
			name:      "deep-path-reversed",
			canonical: "example.org/east/dev/ops",
			want:      "OU=ops,OU=dev,OU=east,DC=example,DC=org",
		},
		{
			name:      "escapes-special-chars",
			canonical: "a.b/R+D,East",
			want:      "OU=R\\+D\\,East,DC=a,DC=b",
		},
		{
			name:            "no-container-path",
			canonical:       "corp.example.com",
			wantErr:         true,
			wantErrIs:       ErrInvalidParameter,
			wantErrContains: "no container path",
		},
		{
			name:            "empty-container-segment",
			canonical:       "a.b/x//y",
			wantErr:         true,
			wantErrIs:       ErrInvalidParameter,
			wantErrContains: "empty container segment",
		},
		{
			name:            "trailing-slash",
			canonical:       "a.b/",
			wantErr:         true,
			wantErrIs:       ErrInvalidParameter,
			wantErrContains: "empty container segment",
		},
		{
			name:            "empty-domain-label",
			canonical:       "a..b/x",
			wantErr:         true,
			wantErrIs:       ErrInvalidParameter,
			wantErrContains: "empty label",
		},
		{
			name:            "empty-input",
			canonical:       "",
			wantErr:         true,
			wantErrIs:       ErrInvalidParameter,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := CanonicalToDN(tc.canonical)
			if tc.wantErr {
				require.Error(err)
				if tc.wantErrIs != nil {
					assert.ErrorIs(err, tc.wantErrIs)
				}
				if tc.wantErrContains != "" {
					assert.Contains(err.Error(), tc.wantErrContains)
				}
				return
			}
			require.NoError(err)
			assert.Equal(tc.want, got)
		})
	}
}

func Test_DomainDN(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		domain  string
		want    string
		wantErr bool
	}{
		{
			name:   "three-labels",
			domain: "corp.example.com",
			want:   "DC=corp,DC=example,DC=com",
		},
		{
			name:   "single-label",
			domain: "example",
			want:   "DC=example",
		},
		{
			name:    "missing-domain",
			domain:  "",
			wantErr: true,
		},
		{
			name:    "empty-label",
			domain:  "a..b",
			wantErr: true,
		},
		{
			name:    "trailing-dot",
			domain:  "example.com.",
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := DomainDN(tc.domain)
			if tc.wantErr {
				require.Error(err)
				assert.ErrorIs(err, ErrInvalidParameter)
				return
			}
			require.NoError(err)
			assert.Equal(tc.want, got)
		})
	}
}

func TestSplitIdentity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name            string
		identity        string
		wantTerm        string
		wantBase        string
		wantErr         bool
		wantErrContains string
	}{
		{
			name:     "distinguished-name",
			identity: "cn=foo,ou=bar,dc=a,dc=b",
			wantTerm: "foo",
			wantBase: "ou=bar,dc=a,dc=b",
		},
		{
			name:     "escaped-leading-value",
			identity: "cn=Smith\\, John,ou=bar,dc=a,dc=b",
			wantTerm: "Smith, John",
			wantBase: "ou=bar,dc=a,dc=b",
		},
		{
			name:     "free-form-term",
			identity: "alice",
			wantTerm: "alice",
			wantBase: "",
		},
		{
			name:     "wildcard-term",
			identity: "ali*",
			wantTerm: "ali*",
			wantBase: "",
		},
		{
			name:            "dn-without-parent",
			identity:        "cn=foo",
			wantErr:         true,
			wantErrContains: "no parent container",
		},
		{
			name:            "missing-identity",
			identity:        "",
			wantErr:         true,
			wantErrContains: "missing identity",
		},
		{
			name:            "malformed-dn",
			identity:        "cn=foo,bar",
			wantErr:         true,
			wantErrContains: "invalid distinguished name",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			term, base, err := SplitIdentity(tc.identity)
			if tc.wantErr {
				require.Error(err)
				assert.ErrorIs(err, ErrInvalidParameter)
				if tc.wantErrContains != "" {
					assert.Contains(err.Error(), tc.wantErrContains)
				}
				return
			}
			require.NoError(err)
			assert.Equal(tc.wantTerm, term)
			assert.Equal(tc.wantBase, base)
		})
	}
}

func TestResolveBaseDN(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		root      string
		want      string
		wantErr   bool
		wantErrIs error
	}{
		{
			name: "canonical",
			root: "corp.example.com/Users",
			want: "OU=Users,DC=corp,DC=example,DC=com",
		},
		{
			name: "dotted-domain",
			root: "corp.example.com",
			want: "DC=corp,DC=example,DC=com",
		},
		{
			name: "distinguished-name",
			root: "ou=people,dc=example,dc=org",
			want: "ou=people,dc=example,dc=org",
		},
		{
			name: "distinguished-name-upper",
			root: "OU=People,DC=Example,DC=Org",
			want: "OU=People,DC=Example,DC=Org",
		},
		{
			name: "adsi-path-prefix",
			root: "LDAP://dc=example,dc=org",
			want: "dc=example,dc=org",
		},
		{
			name:      "unrecognized",
			root:      "bogus",
			wantErr:   true,
			wantErrIs: ErrUnrecognizedRoot,
		},
		{
			name:      "empty",
			root:      "",
			wantErr:   true,
			wantErrIs: ErrUnrecognizedRoot,
		},
		{
			name:      "dn-without-domain-component",
			root:      "ou=people",
			wantErr:   true,
			wantErrIs: ErrUnrecognizedRoot,
		},
		{
			name:      "malformed-canonical",
			root:      "corp.example.com/",
			wantErr:   true,
			wantErrIs: ErrInvalidParameter,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := ResolveBaseDN(tc.root)
			if tc.wantErr {
				require.Error(err)
				if tc.wantErrIs != nil {
					assert.ErrorIs(err, tc.wantErrIs)
				}
				return
			}
			require.NoError(err)
			assert.Equal(tc.want, got)
		})
	}
}

func TestEscapeValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain", "alice", "alice"},
		{"comma", "Smith, John", "Smith\\, John"},
		{"plus", "R+D", "R\\+D"},
		{"leading-hash", "#tag", "\\#tag"},
		{"trailing-space", "a ", "a\\ "},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EscapeValue(tc.value))
		})
	}
}
