// Package imgurl resolves stored image references into displayable URLs.
// The database may hold anything from a bare filename to a full URL,
// depending on how the image was uploaded; resolution normalizes all of
// them against the public base URL and appends a cache-busting timestamp so
// replaced images are not served stale from browser caches.
package imgurl

import (
	"strconv"
	"strings"
	"time"
)

// Placeholder is shown when a product has no primary image at all.
const Placeholder = "https://images.unsplash.com/photo-1515886657613-9f3515b0c78f?w=800&auto=format&fit=crop&q=80"

type Resolver struct {
	baseURL string
	now     func() time.Time
}

func New(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

// NewStatic resolves without cache busting; used in tests and sitemaps
// where stable URLs matter.
func NewStatic(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve maps a stored reference to a fully-qualified display URL.
// Empty input resolves to the placeholder.
func (r *Resolver) Resolve(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return Placeholder
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return r.bust(p)
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	// Bare filenames stored by older admin builds live under /uploads.
	if !strings.Contains(p, "/uploads/") {
		p = "/uploads" + p
	}
	return r.bust(r.baseURL + p)
}

func (r *Resolver) bust(u string) string {
	if r.now == nil {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "t=" + strconv.FormatInt(r.now().UnixMilli(), 10)
}
