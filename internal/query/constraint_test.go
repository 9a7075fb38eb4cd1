package query

import (
	"context"
	"strings"
	"testing"
)

type stubLookup struct {
	roles map[string]int64
}

func (l stubLookup) RoleID(_ context.Context, shortname string) (int64, bool) {
	id, ok := l.roles[shortname]
	return id, ok
}

func (l stubLookup) EnrollmentStatus(name string) (int64, bool) {
	switch name {
	case "active":
		return 0, true
	case "suspended":
		return 1, true
	}
	return 0, false
}

func specWith(filters map[string]string, search string) FilterSpec {
	return FilterSpec{Kind: KindEnrollment, Filters: filters, Search: search, Page: 1, PageSize: 10}
}

func TestBuildPlanDeterministic(t *testing.T) {
	lookup := stubLookup{roles: map[string]int64{"student": 5}}
	spec := specWith(map[string]string{"role": "student", "status": "active", "course": "7"}, "mar")

	a := BuildPlan(context.Background(), 1, spec, lookup)
	b := BuildPlan(context.Background(), 1, spec, lookup)

	aSQL, aArgs := a.CountSQL()
	bSQL, bArgs := b.CountSQL()
	if aSQL != bSQL {
		t.Fatalf("same spec produced different SQL:\n%s\n%s", aSQL, bSQL)
	}
	if len(aArgs) != len(bArgs) {
		t.Fatalf("same spec produced different args: %v vs %v", aArgs, bArgs)
	}
}

func TestCountAndPageShareConstraints(t *testing.T) {
	lookup := stubLookup{roles: map[string]int64{"student": 5}}
	spec := specWith(map[string]string{"role": "student"}, "mar")
	plan := BuildPlan(context.Background(), 1, spec, lookup)

	countSQL, countArgs := plan.CountSQL()
	pageSQL, pageArgs := plan.PageSQL(10, 0)

	countWhere := countSQL[strings.Index(countSQL, "WHERE"):]
	pageWhere := pageSQL[strings.Index(pageSQL, "WHERE"):strings.Index(pageSQL, " ORDER BY")]
	if countWhere != pageWhere {
		t.Fatalf("count and page WHERE diverged:\n%s\n%s", countWhere, pageWhere)
	}

	// Page args are the count args plus limit and offset, nothing else.
	if len(pageArgs) != len(countArgs)+2 {
		t.Fatalf("page args: got %d want %d", len(pageArgs), len(countArgs)+2)
	}
	for i := range countArgs {
		if pageArgs[i] != countArgs[i] {
			t.Fatalf("arg %d diverged: %v vs %v", i, pageArgs[i], countArgs[i])
		}
	}
}

func TestBuildPlanValuesAreBoundNotInterpolated(t *testing.T) {
	lookup := stubLookup{}
	needle := "mar'; DROP TABLE enrollments--"
	spec := specWith(map[string]string{"cohort": needle}, needle)
	plan := BuildPlan(context.Background(), 1, spec, lookup)

	sql, args := plan.CountSQL()
	if strings.Contains(sql, needle) {
		t.Fatalf("user value leaked into SQL text: %s", sql)
	}

	found := false
	for _, a := range args {
		if s, ok := a.(string); ok && strings.Contains(s, needle) {
			found = true
		}
	}
	if !found {
		t.Fatalf("user value missing from bound args: %v", args)
	}
}

func TestBuildPlanDropsUnresolvedSymbols(t *testing.T) {
	lookup := stubLookup{roles: map[string]int64{}}
	spec := specWith(map[string]string{"role": "ghost", "status": "nonsense", "course": "abc"}, "")
	plan := BuildPlan(context.Background(), 1, spec, lookup)

	// Only the org-scope constraint should survive.
	if len(plan.Constraints) != 1 || plan.Constraints[0].Name != "org" {
		t.Fatalf("unresolved filters should drop silently, got %+v", plan.Constraints)
	}
}

func TestBuildPlanOrgScopeAlwaysFirst(t *testing.T) {
	lookup := stubLookup{roles: map[string]int64{"student": 5}}
	for _, spec := range []FilterSpec{
		specWith(nil, ""),
		specWith(map[string]string{"role": "student"}, "mar"),
	} {
		plan := BuildPlan(context.Background(), 42, spec, lookup)
		if plan.Constraints[0].Name != "org" {
			t.Fatalf("org constraint must come first, got %+v", plan.Constraints)
		}
		if plan.Constraints[0].Args[0] != int64(42) {
			t.Fatalf("org arg wrong: %v", plan.Constraints[0].Args)
		}
	}
}

func TestPlanWithDoesNotMutateOriginal(t *testing.T) {
	lookup := stubLookup{}
	plan := BuildPlan(context.Background(), 1, specWith(nil, ""), lookup)
	before := len(plan.Constraints)

	seg := plan.With(Constraint{Name: "completed", Predicate: "cm.state = 1"})
	if len(plan.Constraints) != before {
		t.Fatalf("With mutated the base plan")
	}
	if len(seg.Constraints) != before+1 {
		t.Fatalf("With did not append, got %d constraints", len(seg.Constraints))
	}
}

func TestParseKind(t *testing.T) {
	for _, slug := range []string{"enrollment", "student", "assignment", "course-completion"} {
		if _, ok := ParseKind(slug); !ok {
			t.Errorf("kind %q should parse", slug)
		}
	}
	if _, ok := ParseKind("payroll"); ok {
		t.Fatalf("unknown kind should not parse")
	}
}
