package query

import (
	"cmp"
	"strings"
	"time"
)

// comparator returns a total order for s. Every order ends with the record
// id so the result is deterministic and safe to paginate.
func comparator[T Record](s Sort) func(a, b T) int {
	byID := func(a, b T) int { return cmp.Compare(a.RecordID(), b.RecordID()) }

	switch s {
	case SortOldest:
		return func(a, b T) int {
			return then(a.Created().Compare(b.Created()), a, b, byID)
		}
	case SortAZ:
		return func(a, b T) int {
			return then(compareTitle(a, b), a, b, byID)
		}
	case SortZA:
		return func(a, b T) int {
			return then(-compareTitle(a, b), a, b, byID)
		}
	case SortPriority:
		return func(a, b T) int {
			pa, pb := any(a).(Prioritized), any(b).(Prioritized)
			if c := cmp.Compare(pb.PriorityRank(), pa.PriorityRank()); c != 0 {
				return c
			}
			return then(compareDue(pa.DueAt(), pb.DueAt()), a, b, byID)
		}
	case SortDue:
		return func(a, b T) int {
			pa, pb := any(a).(Prioritized), any(b).(Prioritized)
			return then(compareDue(pa.DueAt(), pb.DueAt()), a, b, byID)
		}
	default:
		return func(a, b T) int {
			return then(b.Created().Compare(a.Created()), a, b, byID)
		}
	}
}

func then[T any](c int, a, b T, next func(a, b T) int) int {
	if c != 0 {
		return c
	}
	return next(a, b)
}

func compareTitle[T Record](a, b T) int {
	return strings.Compare(strings.ToLower(a.SortTitle()), strings.ToLower(b.SortTitle()))
}

// compareDue orders earlier due dates first and missing ones last.
func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
