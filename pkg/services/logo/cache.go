// Package logo caches the program logo used in exported documents.
package logo

import (
	"context"
	"encoding/base64"
	"sync"

	"github.com/edu-tools/report-atlas/pkg/store/client"
	"github.com/rs/zerolog"
)

// Cache loads the logo once per process and hands out both the raw PNG (for
// PDF embedding) and its base64 form (for HTML data URIs). A failed fetch is
// remembered as "no logo": exports proceed without branding rather than
// blocking on a broken asset.
type Cache struct {
	client client.ReportsClient

	once sync.Once
	raw  []byte
	b64  string
}

func NewCache(c client.ReportsClient) *Cache {
	return &Cache{client: c}
}

// Raw returns the logo PNG bytes, or nil when unavailable.
func (c *Cache) Raw(ctx context.Context) []byte {
	c.load(ctx)
	return c.raw
}

// Base64 returns the logo as a base64 string, or "" when unavailable.
func (c *Cache) Base64(ctx context.Context) string {
	c.load(ctx)
	return c.b64
}

func (c *Cache) load(ctx context.Context) {
	c.once.Do(func() {
		data, err := c.client.FetchLogo(ctx)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("logo unavailable, exports will omit it")
			return
		}
		c.raw = data
		c.b64 = base64.StdEncoding.EncodeToString(data)
	})
}
