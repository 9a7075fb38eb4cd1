package query

import (
	"net/url"
	"testing"
)

func TestParseFilterSpecDefaults(t *testing.T) {
	spec := ParseFilterSpec(KindEnrollment, url.Values{})

	if spec.Page != 1 {
		t.Fatalf("page should default to 1, got %d", spec.Page)
	}
	if spec.PageSize != 10 {
		t.Fatalf("pageSize should default to 10, got %d", spec.PageSize)
	}
	if spec.HasFilters() {
		t.Fatalf("empty params should have no active filters")
	}
}

func TestParseFilterSpecPageSizeAllowList(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"10", 10},
		{"25", 25},
		{"50", 50},
		{"100", 100},
		{"7", 10},
		{"1000", 10},
		{"-5", 10},
		{"abc", 10},
		{"", 10},
	}

	for _, tc := range cases {
		params := url.Values{}
		if tc.raw != "" {
			params.Set("pageSize", tc.raw)
		}
		spec := ParseFilterSpec(KindEnrollment, params)
		if spec.PageSize != tc.want {
			t.Errorf("pageSize %q: got %d want %d", tc.raw, spec.PageSize, tc.want)
		}
	}
}

func TestParseFilterSpecBadPageFallsBack(t *testing.T) {
	for _, raw := range []string{"0", "-3", "x"} {
		params := url.Values{"page": {raw}}
		spec := ParseFilterSpec(KindEnrollment, params)
		if spec.Page != 1 {
			t.Errorf("page %q: got %d want 1", raw, spec.Page)
		}
	}
}

func TestParseFilterSpecUnknownKeysIgnored(t *testing.T) {
	params := url.Values{
		"filter.course":  {"12"},
		"filter.unknown": {"zzz"},
		"filter.role":    {"student"},
	}
	spec := ParseFilterSpec(KindEnrollment, params)

	if _, ok := spec.Filters["unknown"]; ok {
		t.Fatalf("unknown filter key should be dropped")
	}
	if spec.Filters["course"] != "12" || spec.Filters["role"] != "student" {
		t.Fatalf("known filters lost: %+v", spec.Filters)
	}
}

func TestParseFilterSpecSearchTrimmed(t *testing.T) {
	spec := ParseFilterSpec(KindStudent, url.Values{"search": {"  mar  "}})
	if spec.Search != "mar" {
		t.Fatalf("search not trimmed: %q", spec.Search)
	}

	empty := ParseFilterSpec(KindStudent, url.Values{"search": {"   "}})
	if empty.Search != "" || empty.HasFilters() {
		t.Fatalf("whitespace search should mean no search filter")
	}
}
