// Package state holds the client-side projections of the cart, order and
// equipment aggregates. Reducer methods are the only mutation path; the
// synchronization coordinator serializes all calls, so no locking happens
// here.
package state

import (
	"rentgear-storefront/internal/domain"
	"rentgear-storefront/internal/pricing"
)

// Cart is the in-memory projection of the user's cart. Items keep insertion
// order; identity within the cart is the (EquipmentID, RentalType) pair.
type Cart struct {
	Items      []domain.CartItem
	TotalCents int64
	ItemCount  int
	Loading    bool
	Error      string
	Synced     bool
}

// Begin marks a cart intent as in flight and clears any previous error.
func (c *Cart) Begin() {
	c.Loading = true
	c.Error = ""
}

// Fail records a terminal failure for the in-flight intent. Prior cart
// contents are left untouched.
func (c *Cart) Fail(msg string) {
	c.Loading = false
	c.Error = msg
}

// ApplyAdd merges a confirmed line item into the cart. An existing line with
// the same (EquipmentID, RentalType) absorbs the quantity; its duration and
// rates are left unchanged. Otherwise the item is appended.
func (c *Cart) ApplyAdd(item domain.CartItem) {
	c.Loading = false
	for i := range c.Items {
		if c.Items[i].SameLine(item) {
			c.Items[i].Quantity += item.Quantity
			c.recompute()
			return
		}
	}
	if item.RentalDuration < 1 {
		item.RentalDuration = 1
	}
	c.Items = append(c.Items, item)
	c.recompute()
}

// ApplyFetch replaces the local projection with the remote collection's
// current contents. Full replace, not a merge.
func (c *Cart) ApplyFetch(items []domain.CartItem) {
	c.Loading = false
	c.Items = make([]domain.CartItem, len(items))
	copy(c.Items, items)
	for i := range c.Items {
		if c.Items[i].RentalDuration < 1 {
			c.Items[i].RentalDuration = 1
		}
	}
	c.Synced = true
	c.recompute()
}

// ApplyRemove deletes the line item with the given store-assigned id.
// An absent id is a no-op.
func (c *Cart) ApplyRemove(lineItemID string) {
	c.Loading = false
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ID != lineItemID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.recompute()
}

// ApplyUpdate shallow-merges the update into the matching line item and
// recomputes totals. Unknown ids are ignored.
func (c *Cart) ApplyUpdate(lineItemID string, update domain.CartItemUpdate) {
	for i := range c.Items {
		if c.Items[i].ID != lineItemID {
			continue
		}
		if update.Quantity != nil {
			c.Items[i].Quantity = *update.Quantity
		}
		if update.RentalDuration != nil {
			c.Items[i].RentalDuration = *update.RentalDuration
		}
		c.recompute()
		return
	}
}

// ApplyClear empties the cart and marks the projection stale.
func (c *Cart) ApplyClear() {
	c.Loading = false
	c.Items = nil
	c.TotalCents = 0
	c.ItemCount = 0
	c.Synced = false
}

// Snapshot returns a copy safe to hand outside the coordinator's lock.
func (c *Cart) Snapshot() Cart {
	out := *c
	out.Items = make([]domain.CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

// recompute refreshes the derived fields after every mutation. ItemCount is
// the number of distinct lines, not the sum of quantities.
func (c *Cart) recompute() {
	c.TotalCents = pricing.CartTotal(c.Items)
	c.ItemCount = len(c.Items)
}
