package models

import (
	"net/url"
	"strconv"
)

// Filters are the listing parameters the CLI remembers between runs.
type Filters struct {
	Search          string `json:"search,omitempty"`
	Sort            string `json:"sort,omitempty"`
	Tag             string `json:"tag,omitempty"`
	Favorite        *bool  `json:"favorite,omitempty"`
	Completed       *bool  `json:"completed,omitempty"`
	IncludeArchived *bool  `json:"include_archived,omitempty"`
	IncludeDeleted  bool   `json:"include_deleted,omitempty"`
	Limit           int    `json:"limit,omitempty"`
	Offset          int    `json:"offset,omitempty"`
}

// Query encodes f as listing query parameters. locked selects the
// partition.
func (f Filters) Query(locked bool) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}
	setBool(q, "favorite", f.Favorite)
	setBool(q, "completed", f.Completed)
	setBool(q, "include_archived", f.IncludeArchived)
	if f.IncludeDeleted {
		q.Set("include_deleted", "true")
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if locked {
		q.Set("locked", "true")
	}
	return q
}

func setBool(q url.Values, name string, v *bool) {
	if v != nil {
		q.Set(name, strconv.FormatBool(*v))
	}
}
