// Package reconcile classifies vault files into linked-existing,
// unlinked-existing and nonexistent buckets.
package reconcile

import "sort"

// Classification is the three-way split of one file kind. LinkedExisting and
// UnlinkedExisting map short names to relative paths; Nonexistent is sorted.
type Classification struct {
	LinkedExisting   map[string]string
	UnlinkedExisting map[string]string
	Nonexistent      []string
}

// Classify splits referenced targets against the existing index for one file
// kind. A target that exists under another kind (otherKind holds the other
// kinds' relative paths) is not reported as nonexistent here; its own kind
// accounts for it.
func Classify(referenced []string, existing map[string]string, otherKind map[string]struct{}) Classification {
	linked := make(map[string]string)
	missing := make(map[string]struct{})
	for _, target := range referenced {
		if rel, ok := existing[target]; ok {
			linked[target] = rel
			continue
		}
		if _, ok := otherKind[target]; ok {
			continue
		}
		missing[target] = struct{}{}
	}

	unlinked := make(map[string]string)
	for name, rel := range existing {
		if _, ok := linked[name]; !ok {
			unlinked[name] = rel
		}
	}

	nonexistent := make([]string, 0, len(missing))
	for name := range missing {
		nonexistent = append(nonexistent, name)
	}
	sort.Strings(nonexistent)

	return Classification{
		LinkedExisting:   linked,
		UnlinkedExisting: unlinked,
		Nonexistent:      nonexistent,
	}
}

// EliminateAccounted removes candidates that any of the given sets already
// account for, returning the survivors sorted.
func EliminateAccounted(candidates []string, accounted ...map[string]struct{}) []string {
	var out []string
	for _, c := range candidates {
		claimed := false
		for _, set := range accounted {
			if _, ok := set[c]; ok {
				claimed = true
				break
			}
		}
		if !claimed {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Set builds a membership set from map keys.
func Set(m map[string]string) map[string]struct{} {
	s := make(map[string]struct{}, len(m))
	for k := range m {
		s[k] = struct{}{}
	}
	return s
}

// SliceSet builds a membership set from a slice.
func SliceSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}
