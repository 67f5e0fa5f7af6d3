package state

import "rentgear-storefront/internal/domain"

// Orders is the in-memory projection of the user's orders: the active list,
// the history list, and the current-order pointer. The three projections are
// updated together so a status change or cancellation is visible everywhere.
type Orders struct {
	Orders      []domain.Order
	History     []domain.Order
	Current     *domain.Order
	Loading     bool
	Error       string
	Creating    bool
	CreateError string
}

// Begin marks a fetch/update intent as in flight.
func (o *Orders) Begin() {
	o.Loading = true
	o.Error = ""
}

// Fail records a terminal failure for the in-flight intent.
func (o *Orders) Fail(msg string) {
	o.Loading = false
	o.Error = msg
}

// BeginCreate marks a checkout intent as in flight.
func (o *Orders) BeginCreate() {
	o.Creating = true
	o.CreateError = ""
}

// FailCreate records a terminal checkout failure.
func (o *Orders) FailCreate(msg string) {
	o.Creating = false
	o.CreateError = msg
}

// ApplyCreate appends a freshly placed order to both lists and points
// Current at it.
func (o *Orders) ApplyCreate(order domain.Order) {
	o.Creating = false
	o.Orders = append(o.Orders, order)
	o.History = append(o.History, order)
	current := order
	o.Current = &current
}

// ApplyFetchAll replaces both list projections from the remote store.
func (o *Orders) ApplyFetchAll(orders []domain.Order) {
	o.Loading = false
	o.Orders = make([]domain.Order, len(orders))
	copy(o.Orders, orders)
	o.History = make([]domain.Order, len(orders))
	copy(o.History, orders)
}

// ApplyFetchOne replaces the current-order pointer.
func (o *Orders) ApplyFetchOne(order domain.Order) {
	o.Loading = false
	current := order
	o.Current = &current
}

// ApplySetStatus overwrites the status in every projection holding the
// order. Transitions are not validated; use domain.OrderStatus.CanTransition
// when legality matters.
func (o *Orders) ApplySetStatus(orderID string, status domain.OrderStatus) {
	o.Loading = false
	for i := range o.Orders {
		if o.Orders[i].ID == orderID {
			o.Orders[i].Status = status
		}
	}
	for i := range o.History {
		if o.History[i].ID == orderID {
			o.History[i].Status = status
		}
	}
	if o.Current != nil && o.Current.ID == orderID {
		o.Current.Status = status
	}
}

// ApplyCancel removes the order from both lists and clears Current if it
// pointed at the cancelled order. The remote call behind this is a hard
// delete, so no Cancelled tombstone is kept locally.
func (o *Orders) ApplyCancel(orderID string) {
	o.Loading = false
	o.Orders = removeOrder(o.Orders, orderID)
	o.History = removeOrder(o.History, orderID)
	if o.Current != nil && o.Current.ID == orderID {
		o.Current = nil
	}
}

// ClearCurrent drops the current-order pointer.
func (o *Orders) ClearCurrent() {
	o.Current = nil
}

// Clear drops all order projections, e.g. on logout.
func (o *Orders) Clear() {
	o.Orders = nil
	o.History = nil
	o.Current = nil
}

// Snapshot returns a copy safe to hand outside the coordinator's lock.
func (o *Orders) Snapshot() Orders {
	out := *o
	out.Orders = make([]domain.Order, len(o.Orders))
	copy(out.Orders, o.Orders)
	out.History = make([]domain.Order, len(o.History))
	copy(out.History, o.History)
	if o.Current != nil {
		current := *o.Current
		out.Current = &current
	}
	return out
}

func removeOrder(orders []domain.Order, orderID string) []domain.Order {
	kept := orders[:0]
	for _, order := range orders {
		if order.ID != orderID {
			kept = append(kept, order)
		}
	}
	return kept
}
