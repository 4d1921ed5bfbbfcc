package main

import (
	"slices"
	"strings"

	"github.com/maruel/natural"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort method identifiers as they appear in the configuration
const (
	SortLocale     = "locale"  // Locale-aware collation (default)
	SortNatural    = "natural" // Natural sort order (e.g., file1, file2, file10)
	SortSimple     = "simple"  // Simple string sort (byte order)
	SortEntryOrder = "entry"   // Maintain enumeration order (no sort)
)

// SortStrategy defines the interface for different sorting strategies
type SortStrategy interface {
	// Comparator returns a fresh comparison function. Collators keep internal
	// buffers, so a comparator must not be shared between goroutines.
	Comparator() func(a, b string) int
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the identifier used in the configuration
	ID() string
}

// LocaleSortStrategy orders names the way the user's locale expects
type LocaleSortStrategy struct {
	Tag language.Tag
}

func (s *LocaleSortStrategy) Comparator() func(a, b string) int {
	c := collate.New(s.Tag)
	return func(a, b string) int {
		if r := c.CompareString(a, b); r != 0 {
			return r
		}
		// Collation may consider distinct names equal; keep the order total
		return strings.Compare(a, b)
	}
}

func (s *LocaleSortStrategy) Name() string { return "Locale" }

func (s *LocaleSortStrategy) ID() string { return SortLocale }

// NaturalSortStrategy implements natural sorting using maruel/natural
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Comparator() func(a, b string) int {
	return func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	}
}

func (s *NaturalSortStrategy) Name() string { return "Natural" }

func (s *NaturalSortStrategy) ID() string { return SortNatural }

// SimpleSortStrategy implements lexicographical sorting
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Comparator() func(a, b string) int {
	return strings.Compare
}

func (s *SimpleSortStrategy) Name() string { return "Simple" }

func (s *SimpleSortStrategy) ID() string { return SortSimple }

// EntryOrderSortStrategy preserves the original order
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Comparator() func(a, b string) int {
	return func(a, b string) int { return 0 }
}

func (s *EntryOrderSortStrategy) Name() string { return "Entry Order" }

func (s *EntryOrderSortStrategy) ID() string { return SortEntryOrder }

// GetSortStrategy returns the strategy for the configured sort method.
// The locale is only used by the locale strategy.
func GetSortStrategy(sortMethod string, locale language.Tag) SortStrategy {
	switch sortMethod {
	case SortNatural:
		return &NaturalSortStrategy{}
	case SortSimple:
		return &SimpleSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &LocaleSortStrategy{Tag: locale}
	}
}

// GetAllSortStrategies returns all available sort strategies in cycling order
func GetAllSortStrategies(locale language.Tag) []SortStrategy {
	return []SortStrategy{
		&LocaleSortStrategy{Tag: locale},
		&NaturalSortStrategy{},
		&SimpleSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}

// NextSortMethod returns the sort method following current in cycling order
func NextSortMethod(current string) string {
	all := GetAllSortStrategies(language.Und)
	i := slices.IndexFunc(all, func(s SortStrategy) bool { return s.ID() == current })
	return all[(i+1)%len(all)].ID()
}

// sortByName returns a sorted copy of items without modifying the original
func sortByName[T any](items []T, name func(T) string, strategy SortStrategy) []T {
	result := make([]T, len(items))
	copy(result, items)

	cmp := strategy.Comparator()
	slices.SortStableFunc(result, func(a, b T) int {
		return cmp(name(a), name(b))
	})
	return result
}

// sortPages sorts page handles by name using the given strategy
func sortPages(pages []PageHandle, strategy SortStrategy) []PageHandle {
	return sortByName(pages, PageHandle.Name, strategy)
}
