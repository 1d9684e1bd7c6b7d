package acl

import "sort"

// DeriveManagers returns the sorted union of the users who qualify as
// project managers directly and those who qualify through team membership.
// It is the pure core of the derived-authority recompute, kept separate
// from storage so the rule is testable on its own.
func DeriveManagers(direct, viaTeams []int64) []int64 {
	seen := make(map[int64]struct{}, len(direct)+len(viaTeams))
	for _, id := range direct {
		seen[id] = struct{}{}
	}
	for _, id := range viaTeams {
		seen[id] = struct{}{}
	}

	managers := make([]int64, 0, len(seen))
	for id := range seen {
		managers = append(managers, id)
	}
	sort.Slice(managers, func(i, j int) bool { return managers[i] < managers[j] })
	return managers
}
