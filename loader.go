package main

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// LoadedDirectory is the result of a successful directory load
type LoadedDirectory struct {
	Name   string
	Path   string
	Pages  []PageHandle // sorted, immutable until the next load
	Listed []PageHandle // the same pages in enumeration order
}

// DirectoryLoader picks a directory and enumerates its pages
type DirectoryLoader struct {
	picker DirectoryPicker
	log    *zap.Logger

	mu       sync.Mutex
	strategy SortStrategy
}

// NewDirectoryLoader creates a loader using picker for selection
func NewDirectoryLoader(picker DirectoryPicker, strategy SortStrategy, log *zap.Logger) *DirectoryLoader {
	return &DirectoryLoader{picker: picker, strategy: strategy, log: log}
}

// SetStrategy changes the sort order used by subsequent loads
func (l *DirectoryLoader) SetStrategy(strategy SortStrategy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.strategy = strategy
}

func (l *DirectoryLoader) currentStrategy() SortStrategy {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.strategy
}

// Load asks the picker for a directory and lists it. A cancelled pick is
// reported as ErrPickCancelled so callers can treat it as a no-op.
func (l *DirectoryLoader) Load(ctx context.Context) (*LoadedDirectory, error) {
	dir, err := l.picker.ChooseDirectory(ctx)
	if err != nil {
		if errors.Is(err, ErrPickCancelled) {
			l.log.Debug("Directory selection cancelled")
		}
		return nil, err
	}
	return l.LoadFrom(ctx, dir)
}

// LoadFrom lists an already chosen directory
func (l *DirectoryLoader) LoadFrom(ctx context.Context, dir Directory) (*LoadedDirectory, error) {
	entries, err := dir.Entries(ctx)
	if err != nil {
		return nil, err
	}

	pages := make([]PageHandle, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		if !entry.IsFile || !isSupportedExt(entry.Name) {
			skipped++
			continue
		}
		pages = append(pages, entry.Handle)
	}

	strategy := l.currentStrategy()
	sorted := sortPages(pages, strategy)
	l.log.Info("Directory loaded",
		zap.String("name", dir.Name()),
		zap.String("path", dir.Path()),
		zap.Int("pages", len(sorted)),
		zap.Int("skipped", skipped),
		zap.String("sort", strategy.Name()))

	return &LoadedDirectory{Name: dir.Name(), Path: dir.Path(), Pages: sorted, Listed: pages}, nil
}
