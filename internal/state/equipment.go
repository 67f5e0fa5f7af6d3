package state

import "rentgear-storefront/internal/domain"

// Equipment is the read-only catalog projection: the full list, per-category
// buckets, and the selected-equipment pointer for the detail view.
type Equipment struct {
	All        []domain.Equipment
	ByCategory map[string][]domain.Equipment
	Selected   *domain.Equipment
	Loading    bool
	Error      string
}

// Begin marks a catalog fetch as in flight.
func (e *Equipment) Begin() {
	e.Loading = true
	e.Error = ""
}

// Fail records a terminal fetch failure.
func (e *Equipment) Fail(msg string) {
	e.Loading = false
	e.Error = msg
}

// ApplyFetchAll replaces the full list and rebuilds the category buckets.
func (e *Equipment) ApplyFetchAll(items []domain.Equipment) {
	e.Loading = false
	e.All = make([]domain.Equipment, len(items))
	copy(e.All, items)
	e.ByCategory = make(map[string][]domain.Equipment)
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		e.ByCategory[item.Category] = append(e.ByCategory[item.Category], item)
	}
}

// ApplyFetchCategory replaces a single category bucket.
func (e *Equipment) ApplyFetchCategory(category string, items []domain.Equipment) {
	e.Loading = false
	if e.ByCategory == nil {
		e.ByCategory = make(map[string][]domain.Equipment)
	}
	bucket := make([]domain.Equipment, len(items))
	copy(bucket, items)
	e.ByCategory[category] = bucket
}

// ApplyFetchOne replaces the selected-equipment pointer.
func (e *Equipment) ApplyFetchOne(item domain.Equipment) {
	e.Loading = false
	selected := item
	e.Selected = &selected
}

// ClearSelected drops the selected-equipment pointer.
func (e *Equipment) ClearSelected() {
	e.Selected = nil
}

// Snapshot returns a copy safe to hand outside the coordinator's lock.
func (e *Equipment) Snapshot() Equipment {
	out := *e
	out.All = make([]domain.Equipment, len(e.All))
	copy(out.All, e.All)
	out.ByCategory = make(map[string][]domain.Equipment, len(e.ByCategory))
	for category, items := range e.ByCategory {
		bucket := make([]domain.Equipment, len(items))
		copy(bucket, items)
		out.ByCategory[category] = bucket
	}
	if e.Selected != nil {
		selected := *e.Selected
		out.Selected = &selected
	}
	return out
}
