package models

import "sort"

// SkillSet is a sorted, de-duplicated list of lowercase skill tokens.
// Build it with NewSkillSet so the invariant holds.
type SkillSet []string

func NewSkillSet(tokens ...string) SkillSet {
	seen := make(map[string]struct{}, len(tokens))
	set := make(SkillSet, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		set = append(set, t)
	}
	sort.Strings(set)
	return set
}

func (s SkillSet) Contains(skill string) bool {
	i := sort.SearchStrings(s, skill)
	return i < len(s) && s[i] == skill
}

func (s SkillSet) Union(other SkillSet) SkillSet {
	merged := make([]string, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return NewSkillSet(merged...)
}

// Intersect returns the skills present in both sets.
func (s SkillSet) Intersect(other SkillSet) SkillSet {
	out := make(SkillSet, 0)
	for _, skill := range s {
		if other.Contains(skill) {
			out = append(out, skill)
		}
	}
	return out
}

// Difference returns the skills of s that are missing from other.
func (s SkillSet) Difference(other SkillSet) SkillSet {
	out := make(SkillSet, 0)
	for _, skill := range s {
		if !other.Contains(skill) {
			out = append(out, skill)
		}
	}
	return out
}

func (s SkillSet) IsEmpty() bool {
	return len(s) == 0
}
