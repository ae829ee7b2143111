package assets

// Resolver turns a source asset name into the URL path to serve.
type Resolver interface {
	// Asset resolves a source name to its full URL path, prefix and
	// fingerprint included.
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver over a manifest with a path prefix,
// typically "/static/".
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{manifest: m, prefix: prefix}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver creates a resolver that applies only the
// prefix. Used in development where fingerprinting is off.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + source
}
