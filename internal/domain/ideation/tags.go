package ideation

import "github.com/google/uuid"

// NewlyTagged returns the ids present in after but not in before, in the
// order they appear in after. Duplicates in after are reported once.
func NewlyTagged(before, after []uuid.UUID) []uuid.UUID {
	prior := make(map[uuid.UUID]struct{}, len(before))
	for _, id := range before {
		prior[id] = struct{}{}
	}

	added := make([]uuid.UUID, 0, len(after))
	for _, id := range after {
		if _, ok := prior[id]; ok {
			continue
		}
		prior[id] = struct{}{}
		added = append(added, id)
	}
	return added
}

// DedupeTags drops nil and repeated ids, keeping first occurrence order
func DedupeTags(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
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
