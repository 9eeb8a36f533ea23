package entities

// Contains reports whether list holds target.
func Contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

// Dedupe drops empty and repeated ids, keeping first-seen order.
func Dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Diff returns ids present in next but not prev, and in prev but not next.
func Diff(prev, next []string) (added, removed []string) {
	for _, id := range next {
		if !Contains(prev, id) {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if !Contains(next, id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}
