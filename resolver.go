package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"runtime"

	"github.com/h2non/filetype"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned for pages whose content is not a recognised image
var ErrNotImage = errors.New("not an image")

// ImageResolver turns page handles into decoded images. Decoded images are
// kept in an LRU so flipping back and forth does not hit the disk again.
type ImageResolver struct {
	cache *lru.Cache[string, image.Image]
	log   *zap.Logger
}

// NewImageResolver creates a resolver caching up to cacheSize decoded pages
func NewImageResolver(cacheSize int, log *zap.Logger) *ImageResolver {
	cache, err := lru.New[string, image.Image](cacheSize)
	if err != nil {
		log.Error("Failed to create LRU cache, falling back to 16 entries", zap.Error(err))
		cache, _ = lru.New[string, image.Image](16)
	}
	return &ImageResolver{cache: cache, log: log}
}

// Resolve reads the whole page and decodes it. It never returns a partially
// read image.
func (r *ImageResolver) Resolve(ctx context.Context, page PageHandle) (image.Image, error) {
	key := page.Key()
	if img, ok := r.cache.Get(key); ok {
		r.log.Debug("Cache HIT", zap.String("page", key), zap.Int("cached", r.cache.Len()))
		return img, nil
	}

	data, err := page.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, fmt.Errorf("%s: %w", page.Name(), ErrNotImage)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s (%s): %w", page.Name(), kind.MIME.Value, err)
	}
	r.cache.Add(key, img)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	r.log.Debug("Cache MISS",
		zap.String("page", key),
		zap.String("mime", kind.MIME.Value),
		zap.Int("cached", r.cache.Len()),
		zap.Uint64("allocMB", mem.Alloc/1024/1024))
	return img, nil
}

// Purge drops every cached image
func (r *ImageResolver) Purge() {
	r.cache.Purge()
}
