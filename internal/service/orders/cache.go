package orders

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"near2door-tracker/internal/apperr"
	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/logx"
)

type viewKey struct {
	actor domain.Actor
	owner string
}

// Cache is the read-through copy of backend orders, one list per caller view.
type Cache struct {
	lister           orderLister
	creator          orderCreator
	operationTimeout time.Duration
	logger           logx.Logger

	mu     sync.RWMutex
	orders map[string]domain.Order
	views  map[viewKey][]string
}

// NewCache creates an empty cache.
func NewCache(lister orderLister, creator orderCreator, timeout time.Duration, logger logx.Logger) *Cache {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Cache{
		lister:           lister,
		creator:          creator,
		operationTimeout: timeout,
		logger:           logger,
		orders:           make(map[string]domain.Order),
		views:            make(map[viewKey][]string),
	}
}

func keyFor(who domain.Identity) (viewKey, error) {
	switch who.Actor {
	case domain.ActorCustomer, domain.ActorAgent:
		if strings.TrimSpace(who.UserID) == "" {
			return viewKey{}, fmt.Errorf("%w: missing user id", apperr.ErrUnauthorized)
		}
		return viewKey{actor: who.Actor, owner: who.UserID}, nil
	case domain.ActorShop:
		if strings.TrimSpace(who.ShopID) == "" {
			return viewKey{}, fmt.Errorf("%w: missing shop id", apperr.ErrUnauthorized)
		}
		return viewKey{actor: who.Actor, owner: who.ShopID}, nil
	case domain.ActorAdmin:
		return viewKey{actor: who.Actor}, nil
	default:
		return viewKey{}, fmt.Errorf("%w: unknown actor %q", apperr.ErrUnauthorized, who.Actor)
	}
}

// Refresh reloads the caller's view from the backend.
func (c *Cache) Refresh(ctx context.Context, who domain.Identity) ([]domain.Order, error) {
	key, err := keyFor(who)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.operationTimeout)
	defer cancel()

	var list []domain.Order
	switch key.actor {
	case domain.ActorCustomer:
		list, err = c.lister.ListUserOrders(ctx, key.owner)
	case domain.ActorAgent:
		list, err = c.lister.ListAgentOrders(ctx, key.owner)
	case domain.ActorShop:
		list, err = c.lister.ListShopOrders(ctx, key.owner)
	default:
		list, err = c.lister.ListAllOrders(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("refresh %s orders: %w", key.actor, err)
	}

	ids := make([]string, 0, len(list))
	c.mu.Lock()
	for _, o := range list {
		if o.ID == "" {
			continue
		}
		c.orders[o.ID] = o
		ids = append(ids, o.ID)
	}
	c.views[key] = ids
	c.mu.Unlock()

	c.logger.Debug("order view refreshed",
		logx.String("actor", string(key.actor)),
		logx.Int("orders", len(ids)),
	)
	return cloneOrders(list), nil
}

// View returns the cached list of the caller without calling the backend.
func (c *Cache) View(who domain.Identity) []domain.Order {
	key, err := keyFor(who)
	if err != nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := c.views[key]
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := c.orders[id]; ok {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

// Lookup returns an order, refreshing the caller's view on a miss.
func (c *Cache) Lookup(ctx context.Context, who domain.Identity, orderID string) (domain.Order, error) {
	if o, ok := c.Get(orderID); ok {
		return o, nil
	}
	if _, err := c.Refresh(ctx, who); err != nil {
		return domain.Order{}, err
	}
	if o, ok := c.Get(orderID); ok {
		return o, nil
	}
	return domain.Order{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
}

// Get returns a cached order.
func (c *Cache) Get(orderID string) (domain.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.orders[orderID]
	if !ok {
		return domain.Order{}, false
	}
	return cloneOrder(o), true
}

// Put stores the server copy of an order.
func (c *Cache) Put(o domain.Order) {
	if o.ID == "" {
		return
	}
	c.mu.Lock()
	c.orders[o.ID] = cloneOrder(o)
	c.mu.Unlock()
}

// SetStatus moves a cached order from one status to another, only if it is
// still in from. It reports whether the swap happened.
func (c *Cache) SetStatus(orderID string, from, to domain.OrderStatus) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.orders[orderID]
	if !ok || o.Status != from {
		return false
	}
	o.Status = to
	c.orders[orderID] = o
	return true
}

// ApplyStatus records a status pushed by the backend. Unknown orders are ignored
// and a finalized order never changes again.
func (c *Cache) ApplyStatus(orderID string, status domain.OrderStatus) bool {
	if !status.Valid() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.orders[orderID]
	if !ok || o.Status.Terminal() {
		return false
	}
	o.Status = status
	c.orders[orderID] = o
	return true
}

// Create places an order for a customer and adds it to their view.
func (c *Cache) Create(ctx context.Context, who domain.Identity, in domain.NewOrder) (domain.Order, error) {
	if who.Actor != domain.ActorCustomer {
		return domain.Order{}, fmt.Errorf("%w: only customers place orders", apperr.ErrUnauthorized)
	}
	in.CustomerID = who.UserID
	if err := in.Validate(); err != nil {
		return domain.Order{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.operationTimeout)
	defer cancel()

	o, err := c.creator.CreateOrder(ctx, in)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	if o.ID == "" {
		return domain.Order{}, fmt.Errorf("create order: backend returned no id")
	}
	if o.Status == "" {
		o.Status = domain.StatusPending
	}
	if want := in.ComputedTotal(); o.TotalPrice != 0 && math.Abs(o.TotalPrice-want) > 0.005 {
		c.logger.Warn("order total mismatch",
			logx.String("order_id", o.ID),
			logx.Float64("backend_total", o.TotalPrice),
			logx.Float64("computed_total", want),
		)
	}

	key, _ := keyFor(who)
	c.mu.Lock()
	c.orders[o.ID] = cloneOrder(o)
	c.views[key] = append([]string{o.ID}, c.views[key]...)
	c.mu.Unlock()

	return o, nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.Item(nil), o.Items...)
	return o
}

func cloneOrders(in []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(in))
	for _, o := range in {
		out = append(out, cloneOrder(o))
	}
	return out
}
