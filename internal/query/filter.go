package query

import (
	"net/url"
	"strconv"
	"strings"
)

// FilterSpec is the parsed, bounded form of an inbound report request.
type FilterSpec struct {
	Kind     Kind
	Search   string
	Filters  map[string]string
	Page     int
	PageSize int
}

var allowedPageSizes = []int{10, 25, 50, 100}

// ParseFilterSpec normalizes raw query params into a FilterSpec. The parse is
// tolerant and never fails: bad pages default to 1, a pageSize outside the
// allow-list falls back to the kind default, and filter keys the kind does
// not understand are dropped.
func ParseFilterSpec(kind Kind, params url.Values) FilterSpec {
	spec := FilterSpec{
		Kind:     kind,
		Search:   strings.TrimSpace(params.Get("search")),
		Filters:  map[string]string{},
		Page:     1,
		PageSize: DefaultPageSize(kind),
	}

	if p, err := strconv.Atoi(strings.TrimSpace(params.Get("page"))); err == nil && p >= 1 {
		spec.Page = p
	}

	if ps, err := strconv.Atoi(strings.TrimSpace(params.Get("pageSize"))); err == nil {
		for _, allowed := range allowedPageSizes {
			if ps == allowed {
				spec.PageSize = ps
				break
			}
		}
	}

	cfg := kindConfigs[kind]
	for _, f := range cfg.Filters {
		v := strings.TrimSpace(params.Get("filter." + f.Key))
		if v != "" {
			spec.Filters[f.Key] = v
		}
	}

	return spec
}

// HasFilters reports whether any search text or categorical filter is active.
// The pagination total policy depends on this: only an unfiltered request may
// take its total from the precomputed summary number.
func (s FilterSpec) HasFilters() bool {
	return s.Search != "" || len(s.Filters) > 0
}
