package main

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// How deep to descend looking for a cover image
	maxCoverDepth = 8
	// Concurrent cover lookups
	coverLookupLimit = 8

	thumbnailWidth  = 160
	thumbnailHeight = 230
)

// Cover is one book of the library grid
type Cover struct {
	Name  string
	Dir   Directory  // opened when the cover is selected
	Image PageHandle // nil when the book has no images
}

// LoadCovers lists the top-level entries of dir and finds a representative
// image for each. Lookups run concurrently; the result only depends on the
// entry names, never on completion order.
func LoadCovers(ctx context.Context, dir Directory, strategy SortStrategy, log *zap.Logger) ([]Cover, error) {
	entries, err := dir.Entries(ctx)
	if err != nil {
		return nil, err
	}

	// Folders and archives are books; a loose image is a book of one page
	var books []Entry
	for _, entry := range entries {
		if !entry.IsFile || isSupportedExt(entry.Name) {
			books = append(books, entry)
		}
	}

	covers := make([]Cover, len(books))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(coverLookupLimit)
	for i, book := range books {
		g.Go(func() error {
			img, err := firstImage(gctx, book, strategy, 0)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("Cover lookup failed", zap.String("book", book.Name), zap.Error(err))
			}
			bookDir := book.Dir
			if book.IsFile {
				bookDir = &pageDirectory{parent: dir, entry: book}
			}
			covers[i] = Cover{Name: book.Name, Dir: bookDir, Image: img}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sorted := sortByName(covers, func(c Cover) string { return c.Name }, strategy)
	log.Debug("Library loaded", zap.String("path", dir.Path()), zap.Int("books", len(sorted)))
	return sorted, nil
}

// pageDirectory presents a single image file as a directory
type pageDirectory struct {
	parent Directory
	entry  Entry
}

func (d *pageDirectory) Name() string { return d.entry.Name }

func (d *pageDirectory) Path() string { return d.parent.Path() + "/" + d.entry.Name }

func (d *pageDirectory) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []Entry{d.entry}, nil
}

// firstImage follows the first sorted candidate of each level until it hits an image
func firstImage(ctx context.Context, entry Entry, strategy SortStrategy, depth int) (PageHandle, error) {
	if entry.IsFile {
		if isSupportedExt(entry.Name) {
			return entry.Handle, nil
		}
		return nil, nil
	}
	if depth >= maxCoverDepth {
		return nil, nil
	}

	children, err := entry.Dir.Entries(ctx)
	if err != nil {
		return nil, err
	}
	children = sortByName(children, func(e Entry) string { return e.Name }, strategy)
	for _, child := range children {
		if child.IsFile && !isSupportedExt(child.Name) {
			continue
		}
		return firstImage(ctx, child, strategy, depth+1)
	}
	return nil, nil
}

// Thumbnail scales a cover to fit the library grid cell
func Thumbnail(img image.Image) image.Image {
	return imaging.Fit(img, thumbnailWidth, thumbnailHeight, imaging.Lanczos)
}
