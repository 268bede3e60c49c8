package storage

// Changes summarizes the ID-level difference between two snapshots.
type Changes struct {
	// Added are video IDs present in the new snapshot but not the old one.
	Added []string
	// Removed are video IDs present in the old snapshot but not the new one.
	Removed []string
}

// Diff computes the set difference between two snapshots by video ID,
// preserving snapshot order. It exists for run logging; the playlist sync
// does not depend on it.
func Diff(old, new []Video) Changes {
	oldIDs := make(map[string]struct{}, len(old))
	for _, v := range old {
		oldIDs[v.ID] = struct{}{}
	}
	newIDs := make(map[string]struct{}, len(new))
	for _, v := range new {
		newIDs[v.ID] = struct{}{}
	}

	var changes Changes
	for _, v := range new {
		if _, ok := oldIDs[v.ID]; !ok {
			changes.Added = append(changes.Added, v.ID)
		}
	}
	for _, v := range old {
		if _, ok := newIDs[v.ID]; !ok {
			changes.Removed = append(changes.Removed, v.ID)
		}
	}
	return changes
}
