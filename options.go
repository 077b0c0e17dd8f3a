package adlookup

// Option defines a common functional options type which can be used in a
// variadic parameter pattern.
type Option func(interface{})

type lookupOptions struct {
	withURLs       []string
	withSearchBase string
	withFilter     string
	withClass      ObjectClass
	withScope      Scope
	withAttributes []string
	withPageSize   uint32
}

func lookupDefaults() lookupOptions {
	return lookupOptions{
		withClass:      ClassUser,
		withScope:      ScopeSubtree,
		withAttributes: []string{DefaultAttribute},
	}
}

// getLookupOpts gets the defaults and applies the opt overrides passed in.
func getLookupOpts(opt ...Option) lookupOptions {
	opts := lookupDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// ApplyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func ApplyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		if o == nil { // ignore any nil Options
			continue
		}
		o(opts)
	}
}

// WithURLs provides an optional set of directory URLs overriding the client
// configuration for a single lookup.
func WithURLs(urls ...string) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *lookupOptions:
			v.withURLs = urls
		}
	}
}

// WithSearchBase sets the search root for a lookup, in distinguished-name,
// canonical, or dotted-domain form.  It is ignored when the identity is
// itself a distinguished name, which carries its own root.
func WithSearchBase(root string) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *lookupOptions:
			v.withSearchBase = root
		}
	}
}

// WithFilter supplies a complete LDAP filter which is passed to the
// directory verbatim, suppressing synthesis of the default filter.
func WithFilter(filter string) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *lookupOptions:
			v.withFilter = filter
		}
	}
}

// WithObjectClass constrains the default filter to a directory object
// category.  The default is ClassUser.
func WithObjectClass(class ObjectClass) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *lookupOptions:
			v.withClass = class
		}
	}
}

// WithScope sets how deep below the search base a lookup descends.  The
// default is ScopeSubtree.
func WithScope(scope Scope) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *lookupOptions:
			v.withScope = scope
		}
	}
}

// WithAttributes requests the attributes returned for each record.  Each
// value may itself be a comma-delimited list; values are split, trimmed
// and deduplicated before the search.  The default is just
// DefaultAttribute.
func WithAttributes(attrs ...string) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *lookupOptions:
			v.withAttributes = attrs
		}
	}
}

// WithPageSize overrides the paged-search page size hint for a single
// lookup.
func WithPageSize(size uint32) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *lookupOptions:
			v.withPageSize = size
		}
	}
}
