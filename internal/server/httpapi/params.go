package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/query"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", common.ErrorValidation, err)
	}
	return nil
}

// listOptions reads the listing query parameters. Absent parameters keep
// the defaults of query.DefaultOptions.
func listOptions(q url.Values) (query.Options, error) {
	opts := query.DefaultOptions()
	opts.Search = q.Get("search")
	opts.Tag = q.Get("tag")
	if s := q.Get("sort"); s != "" {
		opts.Sort = query.Sort(s)
	}

	var err error
	if opts.Locked, err = optionalBool(q, "locked"); err != nil {
		return opts, err
	}
	if opts.Completed, err = optionalBool(q, "completed"); err != nil {
		return opts, err
	}
	if opts.Favorite, err = optionalBool(q, "favorite"); err != nil {
		return opts, err
	}
	if v, err := optionalBool(q, "include_deleted"); err != nil {
		return opts, err
	} else if v != nil {
		opts.IncludeDeleted = *v
	}
	if v, err := optionalBool(q, "include_archived"); err != nil {
		return opts, err
	} else if v != nil {
		opts.IncludeArchived = *v
	}
	if opts.Limit, err = optionalInt(q, "limit"); err != nil {
		return opts, err
	}
	if opts.Offset, err = optionalInt(q, "offset"); err != nil {
		return opts, err
	}
	return opts, nil
}

func optionalBool(q url.Values, name string) (*bool, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", common.ErrorValidation, name)
	}
	return &v, nil
}

func optionalInt(q url.Values, name string) (int, error) {
	s := q.Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrorValidation, name)
	}
	return v, nil
}
