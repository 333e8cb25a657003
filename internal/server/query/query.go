// Package query implements the filtering, sorting and pagination shared by
// the notes and tasks stores, so both resources follow exactly the same
// rules.
//
// The order of evaluation is fixed: ownership, state filters, search, sort,
// pagination.
package query

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
)

// MaxLimit caps a single page.
const MaxLimit = 500

// Sort is a named sort order.
type Sort string

const (
	SortNewest   Sort = "newest"
	SortOldest   Sort = "oldest"
	SortAZ       Sort = "az"
	SortZA       Sort = "za"
	SortPriority Sort = "priority"
	SortDue      Sort = "due"
)

// Record is what both notes and tasks expose to the engine.
type Record interface {
	RecordID() string
	OwnerID() string
	Locked() bool
	Deleted() bool
	Archived() bool
	Favorite() bool
	SortTitle() string
	Created() time.Time
	TagList() []string
	SearchText() []string
}

// Completable records can be filtered by completion.
type Completable interface {
	IsCompleted() bool
}

// Prioritized records support the priority and due sorts.
type Prioritized interface {
	PriorityRank() int
	DueAt() *time.Time
}

// Options is a parsed listing request. Nil pointers mean "no filter".
type Options struct {
	Search          string
	Locked          *bool
	Completed       *bool
	Favorite        *bool
	Tag             string
	IncludeDeleted  bool
	IncludeArchived bool
	Sort            Sort
	Limit           int
	Offset          int
}

// DefaultOptions returns the options of a bare listing request.
func DefaultOptions() Options {
	return Options{IncludeArchived: true, Sort: SortNewest}
}

// NormalizeSearch trims and case-folds a search string.
func NormalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate checks the options against what type T supports.
func Validate[T Record](opts Options) error {
	var zero T
	switch opts.Sort {
	case "", SortNewest, SortOldest, SortAZ, SortZA:
	case SortPriority, SortDue:
		if _, ok := any(zero).(Prioritized); !ok {
			return fmt.Errorf("%w: sort %q is not supported here", common.ErrorValidation, opts.Sort)
		}
	default:
		return fmt.Errorf("%w: unknown sort %q", common.ErrorValidation, opts.Sort)
	}
	if opts.Completed != nil {
		if _, ok := any(zero).(Completable); !ok {
			return fmt.Errorf("%w: completed filter is not supported here", common.ErrorValidation)
		}
	}
	if opts.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", common.ErrorValidation)
	}
	return nil
}

// Apply returns the records owned by userID that match opts, in sort order
// and paginated. The input slice is not modified.
func Apply[T Record](userID string, items []T, opts Options) ([]T, error) {
	if err := Validate[T](opts); err != nil {
		return nil, err
	}

	search := NormalizeSearch(opts.Search)
	tag := NormalizeSearch(opts.Tag)

	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.OwnerID() != userID {
			continue
		}
		if !matches(it, opts, search, tag) {
			continue
		}
		out = append(out, it)
	}

	slices.SortStableFunc(out, comparator[T](opts.Sort))

	return paginate(out, opts.Limit, opts.Offset), nil
}

// Matches reports whether a single record passes the state and text filters
// of opts. Ownership is not checked here.
func Matches[T Record](it T, opts Options) bool {
	return matches(it, opts, NormalizeSearch(opts.Search), NormalizeSearch(opts.Tag))
}

func matches[T Record](it T, opts Options, search, tag string) bool {
	if it.Deleted() && !opts.IncludeDeleted {
		return false
	}
	if it.Archived() && !opts.IncludeArchived {
		return false
	}

	// An omitted locked filter hides the locked partition.
	wantLocked := opts.Locked != nil && *opts.Locked
	if it.Locked() != wantLocked {
		return false
	}

	if opts.Completed != nil {
		c, ok := any(it).(Completable)
		if !ok || c.IsCompleted() != *opts.Completed {
			return false
		}
	}
	if opts.Favorite != nil && it.Favorite() != *opts.Favorite {
		return false
	}
	if tag != "" && !hasTag(it.TagList(), tag) {
		return false
	}
	if search != "" && !containsFolded(it.SearchText(), search) {
		return false
	}
	return true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

func containsFolded(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
