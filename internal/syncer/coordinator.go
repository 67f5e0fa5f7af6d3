// Package syncer sequences remote store calls in response to domain intents
// and reconciles the responses back into the local projections. All state
// mutation funnels through the reducers under one mutex; I/O never touches
// state directly.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"rentgear-storefront/internal/domain"
	"rentgear-storefront/internal/logger"
	"rentgear-storefront/internal/pricing"
	"rentgear-storefront/internal/remote"
	"rentgear-storefront/internal/state"
)

// Intent identifies a category of remote work. Latest-wins guarding is per
// intent: a newer call of the same intent supersedes a pending one, and the
// superseded response is discarded instead of clobbering newer state.
type Intent string

const (
	IntentAddToCart       Intent = "add_to_cart"
	IntentFetchCart       Intent = "fetch_cart"
	IntentRemoveFromCart  Intent = "remove_from_cart"
	IntentClearCart       Intent = "clear_cart"
	IntentCreateOrder     Intent = "create_order"
	IntentFetchOrders     Intent = "fetch_orders"
	IntentFetchOrder      Intent = "fetch_order"
	IntentUpdateOrder     Intent = "update_order_status"
	IntentCancelOrder     Intent = "cancel_order"
	IntentFetchEquipment  Intent = "fetch_equipment"
	IntentFetchEqCategory Intent = "fetch_equipment_by_category"
	IntentFetchEqByID     Intent = "fetch_equipment_by_id"
)

var (
	// ErrNotAuthenticated is returned when a cart or order intent arrives
	// without a signed-in user.
	ErrNotAuthenticated = errors.New("no authenticated user")

	// ErrEmptyCart rejects checkout before any remote call is made.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrMissingDeliveryDate rejects checkout before any remote call is made.
	ErrMissingDeliveryDate = errors.New("delivery date is required")

	// ErrStaleResponse marks a call whose result was discarded because a
	// newer call of the same intent was issued while it was in flight.
	ErrStaleResponse = errors.New("response superseded by a newer request")
)

// Notifier sends the order confirmation after a successful checkout.
// Delivery is best-effort and never affects the order.
type Notifier interface {
	OrderPlaced(ctx context.Context, email, name string, order domain.Order) error
}

// CacheStore persists fetched projections for offline browsing. Writes are
// best-effort.
type CacheStore interface {
	SaveEquipment(ctx context.Context, items []domain.Equipment) error
	SaveOrders(ctx context.Context, orders []domain.Order) error
}

// CheckoutInfo is the user-entered half of an order.
type CheckoutInfo struct {
	PaymentMethod   string
	DeliveryAddress string
	DeliveryDate    string
}

// Coordinator owns the cart, order and equipment projections and is the only
// component allowed to mutate them. Methods are safe for concurrent use.
type Coordinator struct {
	store       remote.Store
	currentUser func() *domain.User
	notifier    Notifier
	cache       CacheStore

	mu        sync.Mutex
	cart      state.Cart
	orders    state.Orders
	equipment state.Equipment
	seq       map[Intent]uint64
}

// NewCoordinator wires the coordinator to the remote store and the auth
// collaborator's current-user accessor. notifier and cache may be nil.
func NewCoordinator(store remote.Store, currentUser func() *domain.User, notifier Notifier, cache CacheStore) *Coordinator {
	return &Coordinator{
		store:       store,
		currentUser: currentUser,
		notifier:    notifier,
		cache:       cache,
		seq:         make(map[Intent]uint64),
	}
}

// Cart returns a copy of the cart projection.
func (c *Coordinator) Cart() state.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Snapshot()
}

// Orders returns a copy of the order projections.
func (c *Coordinator) Orders() state.Orders {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orders.Snapshot()
}

// Equipment returns a copy of the catalog projection.
func (c *Coordinator) Equipment() state.Equipment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.equipment.Snapshot()
}

// AddToCart computes the add-time price, creates the remote line-item
// document and merges the confirmed document into the cart. The item is
// never added optimistically; on failure the cart is left unchanged.
func (c *Coordinator) AddToCart(ctx context.Context, eq domain.Equipment, rentalType domain.RentalType, quantity, rentalDuration int) error {
	user := c.currentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	seq := c.begin(IntentAddToCart, c.cart.Begin)
	item := domain.CartItem{
		EquipmentID:     eq.ID,
		Name:            eq.Name,
		Category:        eq.Category,
		SubCategory:     eq.SubCategory,
		Image:           eq.Image,
		RentalType:      rentalType,
		Quantity:        quantity,
		RentalDuration:  rentalDuration,
		HourlyRateCents: eq.RentPerHourCents,
		DailyRateCents:  eq.RentPerDayCents,
		PriceCents:      pricing.LinePrice(eq, rentalType, rentalDuration),
		AddedAt:         time.Now().UTC(),
	}

	created, err := c.store.CreateCartItem(ctx, user.ID, item)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[IntentAddToCart] != seq {
		return ErrStaleResponse
	}
	if err != nil {
		c.cart.Fail(err.Error())
		return err
	}
	c.cart.ApplyAdd(*created)
	return nil
}

// FetchCart replaces the local cart projection with the remote collection's
// contents.
func (c *Coordinator) FetchCart(ctx context.Context) error {
	user := c.currentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	seq := c.begin(IntentFetchCart, c.cart.Begin)
	items, err := c.store.ListCartItems(ctx, user.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[IntentFetchCart] != seq {
		return ErrStaleResponse
	}
	if err != nil {
		c.cart.Fail(err.Error())
		return err
	}
	c.cart.ApplyFetch(items)
	return nil
}

// RemoveFromCart deletes one line item remotely, then locally. Removing an
// id the cart does not hold is a no-op locally.
func (c *Coordinator) RemoveFromCart(ctx context.Context, lineItemID string) error {
	seq := c.begin(IntentRemoveFromCart, c.cart.Begin)
	err := c.store.DeleteDocument(ctx, lineItemID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[IntentRemoveFromCart] != seq {
		return ErrStaleResponse
	}
	if err != nil {
		c.cart.Fail(err.Error())
		return err
	}
	c.cart.ApplyRemove(lineItemID)
	return nil
}

// UpdateCartItem shallow-merges quantity/duration into a line item. This is
// a local-only mutation; the cart mirror converges on the next sync.
func (c *Coordinator) UpdateCartItem(lineItemID string, update domain.CartItemUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart.ApplyUpdate(lineItemID, update)
}

// ClearCart deletes every line item remotely, one document at a time, and
// clears the local cart only after all deletes succeed. A failure partway
// aborts the remaining deletes and leaves the local cart intact; documents
// already deleted stay deleted remotely (best-effort, not transactional).
func (c *Coordinator) ClearCart(ctx context.Context) error {
	seq := c.begin(IntentClearCart, c.cart.Begin)

	c.mu.Lock()
	items := make([]domain.CartItem, len(c.cart.Items))
	copy(items, c.cart.Items)
	c.mu.Unlock()

	if err := c.deleteLineItems(ctx, items); err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.seq[IntentClearCart] != seq {
			return ErrStaleResponse
		}
		c.cart.Fail(err.Error())
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[IntentClearCart] != seq {
		return ErrStaleResponse
	}
	c.cart.ApplyClear()
	return nil
}

// CreateOrder validates the checkout input, snapshots the cart into an
// immutable order, creates it remotely and then drains the cart. The drain
// always empties the local cart; a failed remote delete never rolls back the
// placed order.
func (c *Coordinator) CreateOrder(ctx context.Context, info CheckoutInfo) (*domain.Order, error) {
	user := c.currentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	if info.DeliveryDate == "" {
		return nil, ErrMissingDeliveryDate
	}

	c.mu.Lock()
	cartSnapshot := c.cart.Snapshot()
	c.mu.Unlock()
	if len(cartSnapshot.Items) == 0 {
		return nil, ErrEmptyCart
	}

	summary := pricing.Summarize(cartSnapshot.TotalCents)
	draft := domain.OrderDraft{
		Items:            cartSnapshot.Items,
		SubtotalCents:    summary.SubtotalCents,
		DeliveryFeeCents: summary.DeliveryFeeCents,
		TaxCents:         summary.TaxCents,
		TotalCents:       summary.TotalCents,
		PaymentMethod:    info.PaymentMethod,
		DeliveryAddress:  info.DeliveryAddress,
		DeliveryDate:     info.DeliveryDate,
	}

	seq := c.begin(IntentCreateOrder, c.orders.BeginCreate)
	order, err := c.store.CreateOrder(ctx, user.ID, draft)

	c.mu.Lock()
	if c.seq[IntentCreateOrder] != seq {
		c.mu.Unlock()
		return nil, ErrStaleResponse
	}
	if err != nil {
		c.orders.FailCreate(err.Error())
		c.mu.Unlock()
		return nil, err
	}
	c.orders.ApplyCreate(*order)
	c.mu.Unlock()

	// Checkout consumes the cart. Remote deletes are best-effort; the local
	// cart empties regardless of their outcome.
	if err := c.drainLineItems(ctx, cartSnapshot.Items); err != nil {
		logger.Warn("Cart drain after order placement left remote documents behind",
			"order_id", order.ID, "error", err)
	}
	c.mu.Lock()
	c.cart.ApplyClear()
	c.mu.Unlock()

	if c.notifier != nil && user.Email != "" {
		if err := c.notifier.OrderPlaced(ctx, user.Email, user.Name, *order); err != nil {
			logger.Warn("Order confirmation email failed", "order_id", order.ID, "error", err)
		}
	}

	return order, nil
}

// FetchOrders replaces both order list projections from the remote store.
func (c *Coordinator) FetchOrders(ctx context.Context) error {
	user := c.currentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	seq := c.begin(IntentFetchOrders, c.orders.Begin)
	orders, err := c.store.ListOrders(ctx, user.ID)

	c.mu.Lock()
	if c.seq[IntentFetchOrders] != seq {
		c.mu.Unlock()
		return ErrStaleResponse
	}
	if err != nil {
		c.orders.Fail(err.Error())
		c.mu.Unlock()
		return err
	}
	c.orders.ApplyFetchAll(orders)
	c.mu.Unlock()

	c.writeOrderCache(ctx, orders)
	return nil
}

// FetchOrderByID replaces the current-order projection.
func (c *Coordinator) FetchOrderByID(ctx context.Context, orderID string) error {
	seq := c.begin(IntentFetchOrder, c.orders.Begin)
	order, err := c.store.GetOrder(ctx, orderID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[IntentFetchOrder] != seq {
		return ErrStaleResponse
	}
	if err != nil {
		c.orders.Fail(err.Error())
		return err
	}
	c.orders.ApplyFetchOne(*order)
	return nil
}

// UpdateOrderStatus overwrites the status remotely and in every local
// projection. Transitions are not validated here.
func (c *Coordinator) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	seq := c.begin(IntentUpdateOrder, c.orders.Begin)
	err := c.store.UpdateOrderStatus(ctx, orderID, status)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[IntentUpdateOrder] != seq {
		return ErrStaleResponse
	}
	if err != nil {
		c.orders.Fail(err.Error())
		return err
	}
	c.orders.ApplySetStatus(orderID, status)
	return nil
}

// CancelOrder hard-deletes the order document remotely and removes the order
// from every local projection.
func (c *Coordinator) CancelOrder(ctx context.Context, orderID string) error {
	seq := c.begin(IntentCancelOrder, c.orders.Begin)
	err := c.store.DeleteDocument(ctx, orderID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[IntentCancelOrder] != seq {
		return ErrStaleResponse
	}
	if err != nil {
		c.orders.Fail(err.Error())
		return err
	}
	c.orders.ApplyCancel(orderID)
	return nil
}

// ClearCurrentOrder drops the current-order pointer.
func (c *Coordinator) ClearCurrentOrder() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders.ClearCurrent()
}

// FetchEquipment replaces the full catalog projection.
func (c *Coordinator) FetchEquipment(ctx context.Context) error {
	seq := c.begin(IntentFetchEquipment, c.equipment.Begin)
	items, err := c.store.ListEquipment(ctx)

	c.mu.Lock()
	if c.seq[IntentFetchEquipment] != seq {
		c.mu.Unlock()
		return ErrStaleResponse
	}
	if err != nil {
		c.equipment.Fail(err.Error())
		c.mu.Unlock()
		return err
	}
	c.equipment.ApplyFetchAll(items)
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.SaveEquipment(ctx, items); err != nil {
			logger.Warn("Equipment cache write failed", "error", err)
		}
	}
	return nil
}

// FetchEquipmentByCategory replaces one category bucket.
func (c *Coordinator) FetchEquipmentByCategory(ctx context.Context, category string) error {
	seq := c.begin(IntentFetchEqCategory, c.equipment.Begin)
	items, err := c.store.ListEquipmentByCategory(ctx, category)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[IntentFetchEqCategory] != seq {
		return ErrStaleResponse
	}
	if err != nil {
		c.equipment.Fail(err.Error())
		return err
	}
	c.equipment.ApplyFetchCategory(category, items)
	return nil
}

// FetchEquipmentByID replaces the selected-equipment projection.
func (c *Coordinator) FetchEquipmentByID(ctx context.Context, id string) error {
	seq := c.begin(IntentFetchEqByID, c.equipment.Begin)
	eq, err := c.store.GetEquipment(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[IntentFetchEqByID] != seq {
		return ErrStaleResponse
	}
	if err != nil {
		c.equipment.Fail(err.Error())
		return err
	}
	c.equipment.ApplyFetchOne(*eq)
	return nil
}

// ClearSelectedEquipment drops the selected-equipment pointer.
func (c *Coordinator) ClearSelectedEquipment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.equipment.ClearSelected()
}

// Reset drops all projections, e.g. on logout.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart.ApplyClear()
	c.orders.Clear()
	c.equipment.ClearSelected()
}

// begin bumps the intent's sequence number and runs the reducer's begin
// marker under the lock. The returned sequence identifies the latest issued
// call for that intent; completions holding an older sequence are stale.
func (c *Coordinator) begin(intent Intent, markBegin func()) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq[intent]++
	markBegin()
	return c.seq[intent]
}

// deleteLineItems issues one remote delete per item sequentially, stopping
// at the first failure. Items without a store id were never mirrored and are
// skipped.
func (c *Coordinator) deleteLineItems(ctx context.Context, items []domain.CartItem) error {
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if err := c.store.DeleteDocument(ctx, item.ID); err != nil {
			return err
		}
	}
	return nil
}

// drainLineItems deletes every item's remote document, continuing past
// failures, and reports the first error encountered.
func (c *Coordinator) drainLineItems(ctx context.Context, items []domain.CartItem) error {
	var firstErr error
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if err := c.store.DeleteDocument(ctx, item.ID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Coordinator) writeOrderCache(ctx context.Context, orders []domain.Order) {
	if c.cache == nil {
		return
	}
	if err := c.cache.SaveOrders(ctx, orders); err != nil {
		logger.Warn("Order cache write failed", "error", err)
	}
}
