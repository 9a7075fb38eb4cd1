package query

import (
	"context"
	"strconv"
	"strings"
)

// Constraint is one bound, parameterized predicate. User-supplied values only
// ever travel through Args; Predicate text is fixed per filter.
type Constraint struct {
	Name      string
	Predicate string
	Args      []any
}

// Lookup resolves symbolic filter values to store ids. A miss is not an
// error; the corresponding constraint is dropped.
type Lookup interface {
	RoleID(ctx context.Context, shortname string) (int64, bool)
	EnrollmentStatus(name string) (int64, bool)
}

// QueryPlan carries everything the count query and the page query share.
// Both queries are rendered from the same plan value, so their WHERE sets
// cannot drift apart.
type QueryPlan struct {
	Kind        Kind
	Constraints []Constraint

	cfg kindConfig
}

// BuildPlan translates a FilterSpec into the constraint list for its kind.
// Constraint order is deterministic: org scope first, then categorical
// filters in config order, then the search OR-group. The same kind and spec
// always produce a structurally identical plan.
func BuildPlan(ctx context.Context, orgID int64, spec FilterSpec, lookup Lookup) QueryPlan {
	cfg := kindConfigs[spec.Kind]
	plan := QueryPlan{Kind: spec.Kind, cfg: cfg}

	plan.Constraints = append(plan.Constraints, Constraint{
		Name:      "org",
		Predicate: cfg.OrgColumn + " = ?",
		Args:      []any{orgID},
	})

	for _, f := range cfg.Filters {
		raw, ok := spec.Filters[f.Key]
		if !ok {
			continue
		}
		switch f.Mode {
		case "int":
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				continue
			}
			plan.Constraints = append(plan.Constraints, Constraint{
				Name:      f.Key,
				Predicate: f.Column + " = ?",
				Args:      []any{id},
			})
		case "role":
			id, ok := lookup.RoleID(ctx, raw)
			if !ok {
				continue
			}
			plan.Constraints = append(plan.Constraints, Constraint{
				Name:      f.Key,
				Predicate: f.Column + " = ?",
				Args:      []any{id},
			})
		case "status":
			id, ok := lookup.EnrollmentStatus(raw)
			if !ok {
				continue
			}
			plan.Constraints = append(plan.Constraints, Constraint{
				Name:      f.Key,
				Predicate: f.Column + " = ?",
				Args:      []any{id},
			})
		default:
			plan.Constraints = append(plan.Constraints, Constraint{
				Name:      f.Key,
				Predicate: f.Column + " = ?",
				Args:      []any{raw},
			})
		}
	}

	if spec.Search != "" {
		parts := make([]string, 0, len(cfg.Search))
		args := make([]any, 0, len(cfg.Search))
		like := "%" + spec.Search + "%"
		for _, col := range cfg.Search {
			parts = append(parts, col+" LIKE ?")
			args = append(args, like)
		}
		plan.Constraints = append(plan.Constraints, Constraint{
			Name:      "search",
			Predicate: "(" + strings.Join(parts, " OR ") + ")",
			Args:      args,
		})
	}

	return plan
}

// With returns a copy of the plan carrying one extra constraint. Segment
// counts use this so a segment can never filter differently than the page.
func (p QueryPlan) With(extra Constraint) QueryPlan {
	cp := p
	cp.Constraints = make([]Constraint, 0, len(p.Constraints)+1)
	cp.Constraints = append(cp.Constraints, p.Constraints...)
	cp.Constraints = append(cp.Constraints, extra)
	return cp
}

func (p QueryPlan) where() (string, []any) {
	parts := make([]string, 0, len(p.Constraints))
	args := []any{}
	for _, c := range p.Constraints {
		parts = append(parts, c.Predicate)
		args = append(args, c.Args...)
	}
	if len(parts) == 0 {
		return "1=1", args
	}
	return strings.Join(parts, " AND "), args
}

// CountSQL renders the count query for the plan.
func (p QueryPlan) CountSQL() (string, []any) {
	where, args := p.where()
	return "SELECT " + p.cfg.CountExpr + " FROM " + p.cfg.From + " WHERE " + where, args
}

// AggregateSQL renders a grouped-stat query over the plan's joins and WHERE
// set. Stats computed this way can never filter differently than the page.
func (p QueryPlan) AggregateSQL(selectExpr string) (string, []any) {
	where, args := p.where()
	return "SELECT " + selectExpr + " FROM " + p.cfg.From + " WHERE " + where, args
}

// PageSQL renders the page query for the plan. Ordering is fixed per kind and
// is part of the plan, never a client-supplied parameter.
func (p QueryPlan) PageSQL(limit, offset int) (string, []any) {
	where, args := p.where()
	q := "SELECT " + p.cfg.Select + " FROM " + p.cfg.From + " WHERE " + where
	if p.cfg.GroupBy != "" {
		q += " GROUP BY " + p.cfg.GroupBy
	}
	q += " ORDER BY " + p.cfg.OrderBy + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	return q, args
}
