package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Cached remembers extracted text by document content hash, so a document
// submitted again within ttl is not parsed twice. Failures are not cached.
type Cached struct {
	next  Extractor
	cache *gocache.Cache
}

// NewCached wraps e with a content-addressed text cache. A non-positive
// ttl returns e unchanged.
func NewCached(e Extractor, ttl time.Duration) Extractor {
	if ttl <= 0 {
		return e
	}
	return &Cached{
		next:  e,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// ExtractText implements Extractor.
func (c *Cached) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	sum := sha256.Sum256(pdf)
	key := hex.EncodeToString(sum[:])

	if v, found := c.cache.Get(key); found {
		zap.L().Debug("ocr: text cache hit", zap.String("sha256", key))
		return v.(string), nil
	}

	text, err := c.next.ExtractText(ctx, pdf)
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(key, text)
	return text, nil
}
