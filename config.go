package adlookup

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-secure-stdlib/tlsutil"
)

const (
	// DefaultURL for the directory service
	DefaultURL = "ldap://127.0.0.1:389"

	// DefaultAttribute returned for each record when the caller requests
	// nothing else
	DefaultAttribute = "distinguishedName"

	// DefaultPageSize is the page size hint handed to the directory for
	// paged searches
	DefaultPageSize = 200

	// DefaultTLSMinVersion for the client
	DefaultTLSMinVersion = "tls12"

	// DefaultTLSMaxVersion for the client
	DefaultTLSMaxVersion = "tls13"
)

// ClientConfig defines the configuration for a directory client.
type ClientConfig struct {
	// URLs are the directory service URLs to try, in order (ldap:// or
	// ldaps:// schemes)
	URLs []string `yaml:"urls"`

	// BindDN is the service account used to bind before searching.  It may
	// be a distinguished name or an Active Directory userPrincipalName
	// (user@domain).  Required.
	BindDN string `yaml:"binddn"`

	// BindPassword is the password for BindDN.  Required.
	BindPassword string `yaml:"bindpass"`

	// SearchBase is the default search root applied when a lookup supplies
	// none.  It may be in distinguished-name, canonical, or dotted-domain
	// form.
	SearchBase string `yaml:"search_base"`

	// PageSize overrides DefaultPageSize for paged searches.
	PageSize uint32 `yaml:"page_size"`

	// RequestTimeout in seconds is used when dialing and for the duration
	// of individual requests.  Zero means the go-ldap default.
	RequestTimeout int `yaml:"request_timeout"`

	// StartTLS issues a StartTLS command after establishing an unencrypted
	// connection.
	StartTLS bool `yaml:"starttls"`

	// InsecureTLS skips LDAP server SSL certificate verification.  Insecure
	// and intended for testing only.
	InsecureTLS bool `yaml:"insecure_tls"`

	// TLSMinVersion is the minimum TLS version to use ("tls10", "tls11",
	// "tls12" or "tls13").
	TLSMinVersion string `yaml:"tls_min_version"`

	// TLSMaxVersion is the maximum TLS version to use ("tls10", "tls11",
	// "tls12" or "tls13").
	TLSMaxVersion string `yaml:"tls_max_version"`

	// Certificate is an optional CA certificate in PEM format used to
	// verify the directory server.
	Certificate string `yaml:"certificate"`

	// ClientTLSCert is the client certificate in PEM format used for mTLS.
	ClientTLSCert string `yaml:"client_tls_cert"`

	// ClientTLSKey is the client key in PEM format used for mTLS.
	ClientTLSKey string `yaml:"client_tls_key"`

	// Logger receives search failure and connection diagnostics.  When nil
	// a no-op logger is used.
	Logger hclog.Logger `yaml:"-"`
}

func (c *ClientConfig) clone() (*ClientConfig, error) {
	const op = "adlookup.(ClientConfig).clone"
	if c == nil {
		return nil, fmt.Errorf("%s: missing config: %w", op, ErrInvalidParameter)
	}
	clone := *c
	clone.URLs = append([]string(nil), c.URLs...)
	return &clone, nil
}

func (c *ClientConfig) validate() error {
	const op = "adlookup.(ClientConfig).validate"
	if c.BindDN == "" || c.BindPassword == "" {
		return fmt.Errorf("%s: missing bind credential (both binddn and bindpass are required): %w", op, ErrInvalidParameter)
	}
	tlsMinVersion, ok := tlsutil.TLSLookup[c.TLSMinVersion]
	if !ok {
		return fmt.Errorf("%s: invalid 'tls_min_version' in config: %w", op, ErrInvalidParameter)
	}
	tlsMaxVersion, ok := tlsutil.TLSLookup[c.TLSMaxVersion]
	if !ok {
		return fmt.Errorf("%s: invalid 'tls_max_version' in config: %w", op, ErrInvalidParameter)
	}
	if tlsMaxVersion < tlsMinVersion {
		return fmt.Errorf("%s: 'tls_max_version' must be greater than or equal to 'tls_min_version': %w", op, ErrInvalidParameter)
	}
	if c.Certificate != "" {
		if err := validateCertificate([]byte(c.Certificate)); err != nil {
			return fmt.Errorf("%s: failed to parse server tls cert: %w", op, err)
		}
	}
	if (c.ClientTLSCert != "" && c.ClientTLSKey == "") ||
		(c.ClientTLSCert == "" && c.ClientTLSKey != "") {
		return fmt.Errorf("%s: both client_tls_cert and client_tls_key must be set in configuration: %w", op, ErrInvalidParameter)
	}
	if c.ClientTLSCert != "" && c.ClientTLSKey != "" {
		if _, err := tls.X509KeyPair([]byte(c.ClientTLSCert), []byte(c.ClientTLSKey)); err != nil {
			return fmt.Errorf("%s: failed to parse client X509 key pair: %w", op, err)
		}
	}
	return nil
}

func validateCertificate(pemBlock []byte) error {
	const op = "adlookup.validateCertificate"
	if pemBlock == nil {
		return fmt.Errorf("%s: missing certificate pem block: %w", op, ErrInvalidParameter)
	}
	block, _ := pem.Decode(pemBlock)
	if block == nil || block.Type != "CERTIFICATE" {
		return fmt.Errorf("%s: failed to decode PEM block in the certificate: %w", op, ErrInvalidParameter)
	}
	_, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return fmt.Errorf("%s: failed to parse certificate %q: %w", op, err.Error(), ErrInvalidParameter)
	}
	return nil
}
