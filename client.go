package adlookup

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-secure-stdlib/tlsutil"
)

const (
	schemeLDAP    = "ldap"
	schemeLDAPTLS = "ldaps"
)

// Scope controls how deep below the search base a lookup descends.
type Scope string

const (
	// ScopeSubtree searches the base and everything below it
	ScopeSubtree Scope = "subtree"

	// ScopeOneLevel searches only the immediate children of the base
	ScopeOneLevel Scope = "onelevel"
)

func (s Scope) ldapScope() (int, error) {
	const op = "adlookup.(Scope).ldapScope"
	switch s {
	case ScopeSubtree:
		return ldap.ScopeWholeSubtree, nil
	case ScopeOneLevel:
		return ldap.ScopeSingleLevel, nil
	default:
		return 0, fmt.Errorf("%s: unsupported scope %q: %w", op, string(s), ErrInvalidParameter)
	}
}

// Client provides a client for looking up objects in a directory service.
type Client struct {
	conf   *ClientConfig
	conn   ldap.Client
	logger hclog.Logger
}

// NewClient will create a new client from the configuration.  The
// configuration must carry a bind credential (BindDN and BindPassword);
// validation fails fast before any connection is attempted.  The following
// defaults will be used if no config value is provided for them:
//   - URLs:			see constant DefaultURL
//   - PageSize:		see constant DefaultPageSize
//   - TLSMinVersion:	see constant DefaultTLSMinVersion
//   - TLSMaxVersion:	see constant DefaultTLSMaxVersion
func NewClient(ctx context.Context, conf *ClientConfig) (*Client, error) {
	const op = "adlookup.NewClient"
	if conf == nil {
		return nil, fmt.Errorf("%s: missing config: %w", op, ErrInvalidParameter)
	}
	clientConf, err := conf.clone()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(clientConf.URLs) == 0 {
		clientConf.URLs = []string{DefaultURL}
	}
	if clientConf.PageSize == 0 {
		clientConf.PageSize = DefaultPageSize
	}
	if clientConf.TLSMinVersion == "" {
		clientConf.TLSMinVersion = DefaultTLSMinVersion
	}
	if clientConf.TLSMaxVersion == "" {
		clientConf.TLSMaxVersion = DefaultTLSMaxVersion
	}
	if err := clientConf.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger := clientConf.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		conf:   clientConf,
		logger: logger,
	}, nil
}

// connect will connect to a directory server using the URLs from the config
// or the WithURLs option, trying each in order until one succeeds.  An
// already established connection is reused.
func (c *Client) connect(ctx context.Context, opt ...Option) error {
	const op = "adlookup.(Client).connect"
	if c.conf == nil {
		return fmt.Errorf("%s: missing configuration: %w", op, ErrInternal)
	}
	if c.conn != nil {
		return nil
	}
	opts := getLookupOpts(opt...)
	if len(c.conf.URLs) == 0 && len(opts.withURLs) == 0 {
		return fmt.Errorf("%s: missing both configuration and optional LDAP URLs: %w", op, ErrInvalidParameter)
	}
	if len(opts.withURLs) == 0 {
		opts.withURLs = c.conf.URLs
	}
	var retErr *multierror.Error
	var conn *ldap.Conn
	for _, uut := range opts.withURLs {
		u, err := url.Parse(uut)
		if err != nil {
			retErr = multierror.Append(retErr, fmt.Errorf("%s: error parsing url %q: %w", op, uut, err))
			continue
		}
		host, _, err := net.SplitHostPort(u.Host)
		if err != nil {
			host = u.Host
		}
		var tlsConfig *tls.Config
		switch u.Scheme {
		case schemeLDAP:
			conn, err = ldap.DialURL(uut)
			if err != nil {
				break
			}
			if conn == nil {
				err = fmt.Errorf("%s: empty connection after dialing: %w", op, ErrUnknown)
				break
			}
			if c.conf.StartTLS {
				tlsConfig, err = c.tlsConfig(host)
				if err != nil {
					break
				}
				err = conn.StartTLS(tlsConfig)
			}
		case schemeLDAPTLS:
			tlsConfig, err = c.tlsConfig(host)
			if err != nil {
				break
			}
			conn, err = ldap.DialURL(uut, ldap.DialWithTLSConfig(tlsConfig))
		default:
			retErr = multierror.Append(retErr, fmt.Errorf("%s: invalid LDAP scheme in url %q: %w", op, uut, ErrInvalidParameter))
			continue
		}
		if err == nil {
			retErr = nil
			break
		}
		retErr = multierror.Append(retErr, fmt.Errorf("%s: error connecting to host %q: %w", op, uut, err))
	}
	if retErr != nil {
		return retErr
	}
	if timeout := c.conf.RequestTimeout; timeout > 0 {
		conn.SetTimeout(time.Duration(timeout) * time.Second)
	}
	c.conn = conn
	return nil
}

// Lookup finds directory objects matching an identity and returns them
// projected onto the requested attributes.
//
// The identity may be a distinguished name or a free-form search term
// (possibly containing "*" wildcards).  A distinguished-name identity
// carries its own search root: the term is taken from the leading RDN and
// the base from the remainder, and any WithSearchBase option is ignored.
// Otherwise the base comes from WithSearchBase, falling back to the
// configured SearchBase, and may be in distinguished-name, canonical, or
// dotted-domain form.
//
// The search always retrieves every match rather than a single entry, so
// the requested attribute list can be constrained server-side.
//
// Supported options: WithSearchBase, WithFilter, WithObjectClass,
// WithScope, WithAttributes, WithPageSize, WithURLs
func (c *Client) Lookup(ctx context.Context, identity string, opt ...Option) ([]Record, error) {
	const op = "adlookup.(Client).Lookup"
	if identity == "" {
		return nil, fmt.Errorf("%s: missing identity: %w", op, ErrInvalidParameter)
	}
	opts := getLookupOpts(opt...)

	term, base, err := SplitIdentity(identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if base == "" {
		root := opts.withSearchBase
		if root == "" {
			root = c.conf.SearchBase
		}
		if base, err = ResolveBaseDN(root); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	filter := opts.withFilter
	if filter == "" {
		if err := opts.withClass.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		filter = defaultFilter(opts.withClass, term)
	}

	attrs := normalizeAttributes(opts.withAttributes)
	if len(attrs) == 0 {
		attrs = []string{DefaultAttribute}
	}

	scope, err := opts.withScope.ldapScope()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pageSize := opts.withPageSize
	if pageSize == 0 {
		pageSize = c.conf.PageSize
	}

	if err := c.connect(ctx, opt...); err != nil {
		return nil, fmt.Errorf("%s: failed to connect: %w", op, err)
	}
	if err := c.conn.Bind(c.conf.BindDN, c.conf.BindPassword); err != nil {
		if detail, ok := BindErrorDetail(err); ok {
			return nil, fmt.Errorf("%s: unable to bind (%s): %w", op, detail, err)
		}
		return nil, fmt.Errorf("%s: unable to bind: %w", op, err)
	}

	result, err := c.conn.SearchWithPaging(&ldap.SearchRequest{
		BaseDN:     base,
		Scope:      scope,
		Filter:     filter,
		Attributes: attrs,
	}, pageSize)
	if err != nil {
		c.logger.Error("directory search failed",
			"base", base,
			"filter", filter,
			"scope", string(opts.withScope),
			"err", err,
		)
		return nil, fmt.Errorf("%s: search under %q with filter %q: %v: %w", op, base, filter, err, ErrSearchFailed)
	}

	records := make([]Record, 0, len(result.Entries))
	for _, e := range result.Entries {
		records = append(records, flattenRecord(e, attrs))
	}
	return records, nil
}

// Close will close the client's connection to the directory service.
func (c *Client) Close(ctx context.Context) {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) tlsConfig(host string) (*tls.Config, error) {
	const op = "adlookup.(Client).tlsConfig"
	if host == "" {
		return nil, fmt.Errorf("%s: missing host: %w", op, ErrInvalidParameter)
	}
	tlsConfig := &tls.Config{
		ServerName: host,
	}

	if c.conf.TLSMinVersion != "" {
		tlsMinVersion, ok := tlsutil.TLSLookup[c.conf.TLSMinVersion]
		if !ok {
			return nil, fmt.Errorf("%s: invalid 'tls_min_version' in config: %w", op, ErrInvalidParameter)
		}
		tlsConfig.MinVersion = tlsMinVersion
	}

	if c.conf.TLSMaxVersion != "" {
		tlsMaxVersion, ok := tlsutil.TLSLookup[c.conf.TLSMaxVersion]
		if !ok {
			return nil, fmt.Errorf("%s: invalid 'tls_max_version' in config: %w", op, ErrInvalidParameter)
		}
		tlsConfig.MaxVersion = tlsMaxVersion
	}

	if c.conf.InsecureTLS {
		tlsConfig.InsecureSkipVerify = true
	}
	if c.conf.Certificate != "" {
		caPool := x509.NewCertPool()
		ok := caPool.AppendCertsFromPEM([]byte(c.conf.Certificate))
		if !ok {
			return nil, fmt.Errorf("%s: could not append CA certificate: %w", op, ErrUnknown)
		}
		tlsConfig.RootCAs = caPool
	}
	if c.conf.ClientTLSCert != "" && c.conf.ClientTLSKey != "" {
		certificate, err := tls.X509KeyPair([]byte(c.conf.ClientTLSCert), []byte(c.conf.ClientTLSKey))
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse client X509 key pair: %w", op, err)
		}
		tlsConfig.Certificates = append(tlsConfig.Certificates, certificate)
	} else if c.conf.ClientTLSCert != "" || c.conf.ClientTLSKey != "" {
		return nil, fmt.Errorf("%s: both client_tls_cert and client_tls_key must be set in configuration: %w", op, ErrInvalidParameter)
	}
	return tlsConfig, nil
}
