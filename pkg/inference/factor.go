package inference

import (
	"sort"
	"strconv"
	"strings"
)

// factor is one term of the joint distribution during variable elimination:
// a table over the Cartesian product of vars, keyed by assignment.
type factor struct {
	vars    []string
	entries []factorEntry
}

type factorEntry struct {
	vals map[string]int
	prob float64
}

func unaryFactor(name string, dist []float64) factor {
	entries := make([]factorEntry, len(dist))
	for s, p := range dist {
		entries[s] = factorEntry{vals: map[string]int{name: s}, prob: p}
	}
	return factor{vars: []string{name}, entries: entries}
}

// conditionalFactor builds the factor for a child node from its CPT, scoped
// over parents ∪ {child}.
func conditionalFactor(child string, parents []string, columns map[string][]float64) (factor, error) {
	vars := append(append([]string{}, parents...), child)
	var entries []factorEntry
	for key, col := range columns {
		parentVals, err := parseStateKey(key, len(parents))
		if err != nil {
			return factor{}, err
		}
		for s, p := range col {
			vals := make(map[string]int, len(parents)+1)
			for i, pv := range parentVals {
				vals[parents[i]] = pv
			}
			vals[child] = s
			entries = append(entries, factorEntry{vals: vals, prob: p})
		}
	}
	return factor{vars: vars, entries: entries}, nil
}

func parseStateKey(key string, n int) ([]int, error) {
	if n == 0 {
		return nil, nil
	}
	parts := strings.Split(key, ",")
	if len(parts) != n {
		return nil, strconv.ErrSyntax
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func containsVar(vars []string, v string) bool {
	for _, x := range vars {
		if x == v {
			return true
		}
	}
	return false
}

// multiply joins two factors on their shared variables.
func multiply(a, b factor) factor {
	shared := intersect(a.vars, b.vars)
	newVars := union(a.vars, b.vars)

	var entries []factorEntry
	for _, ea := range a.entries {
		for _, eb := range b.entries {
			agree := true
			for _, v := range shared {
				if ea.vals[v] != eb.vals[v] {
					agree = false
					break
				}
			}
			if !agree {
				continue
			}
			merged := make(map[string]int, len(ea.vals)+len(eb.vals))
			for k, v := range ea.vals {
				merged[k] = v
			}
			for k, v := range eb.vals {
				merged[k] = v
			}
			entries = append(entries, factorEntry{vals: merged, prob: ea.prob * eb.prob})
		}
	}
	return factor{vars: newVars, entries: entries}
}

// sumOut marginalizes variable x out of f.
func sumOut(f factor, x string) factor {
	newVars := make([]string, 0, len(f.vars)-1)
	for _, v := range f.vars {
		if v != x {
			newVars = append(newVars, v)
		}
	}

	order := make([]string, 0, len(f.entries))
	totals := make(map[string]float64, len(f.entries))
	representative := make(map[string]map[string]int, len(f.entries))
	for _, e := range f.entries {
		key := assignmentKey(newVars, e.vals)
		if _, seen := totals[key]; !seen {
			order = append(order, key)
			vals := make(map[string]int, len(newVars))
			for _, v := range newVars {
				vals[v] = e.vals[v]
			}
			representative[key] = vals
		}
		totals[key] += e.prob
	}

	entries := make([]factorEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, factorEntry{vals: representative[key], prob: totals[key]})
	}
	return factor{vars: newVars, entries: entries}
}

func assignmentKey(vars []string, vals map[string]int) string {
	var b strings.Builder
	for i, v := range vars {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.Itoa(vals[v]))
	}
	return b.String()
}

func intersect(a, b []string) []string {
	bSet := make(map[string]bool, len(b))
	for _, v := range b {
		bSet[v] = true
	}
	var out []string
	for _, v := range a {
		if bSet[v] {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func union(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, v := range append(append([]string{}, a...), b...) {
		if !set[v] {
			set[v] = true
			out = append(out, v)
		}
	}
	return out
}
