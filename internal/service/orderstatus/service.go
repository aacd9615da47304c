package orderstatus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"near2door-tracker/internal/apperr"
	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/gateway/backend"
	"near2door-tracker/internal/logx"
)

// Transition outcomes reported to metrics.
const (
	ResultApplied  = "applied"
	ResultDenied   = "denied"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Service applies status changes optimistically and reconciles with the backend.
type Service struct {
	machine          Machine
	cache            orderCache
	backend          statusBackend
	tracking         trackingNotifier
	metrics          transitionRecorder
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates a Service. tracking and metrics may be nil.
func NewService(cache orderCache, be statusBackend, tracking trackingNotifier, metrics transitionRecorder, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		cache:            cache,
		backend:          be,
		tracking:         tracking,
		metrics:          metrics,
		operationTimeout: timeout,
		logger:           logger,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Transition moves orderID to status on behalf of who.
func (s *Service) Transition(ctx context.Context, who domain.Identity, orderID string, to domain.OrderStatus) (domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.Order{}, fmt.Errorf("%w: order id is required", apperr.ErrInvalid)
	}
	if !to.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, to)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := s.cache.Lookup(ctx, who, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := authorize(who, current); err != nil {
		s.observe(ResultDenied)
		return domain.Order{}, err
	}

	next, err := s.machine.Attempt(current.Status, to, who.Actor)
	if err != nil {
		s.observe(ResultDenied)
		return domain.Order{}, err
	}

	if !s.cache.SetStatus(orderID, current.Status, next) {
		s.observe(ResultDenied)
		return domain.Order{}, fmt.Errorf("%w: order %s changed concurrently", apperr.ErrConflict, orderID)
	}

	server, err := s.send(ctx, who, current, next)
	if err != nil {
		s.cache.SetStatus(orderID, next, current.Status)

		result := ResultFailed
		if he, ok := backend.AsHTTPError(err); ok && he.Rejected() {
			result = ResultRejected
		}
		s.observe(result)
		s.logger.Warn("status change rolled back",
			logx.String("order_id", orderID),
			logx.String("from", string(current.Status)),
			logx.String("to", string(next)),
			logx.String("result", result),
			logx.Err(err),
		)
		return domain.Order{}, err
	}

	updated := current
	updated.Status = next
	if server != nil && server.ID != "" {
		updated = *server
		if !updated.Status.Valid() {
			updated.Status = next
		}
	}
	s.cache.Put(updated)
	s.observe(ResultApplied)

	s.logger.Info("order status changed",
		logx.String("order_id", orderID),
		logx.String("actor", string(who.Actor)),
		logx.String("status", string(updated.Status)),
	)

	if s.tracking != nil {
		s.tracking.HandleOrderStatus(ctx, orderID, updated.Status)
	}
	return updated, nil
}

// AllowedActions returns the statuses who may move orderID to next.
func (s *Service) AllowedActions(ctx context.Context, who domain.Identity, orderID string) (domain.Order, []domain.OrderStatus, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.cache.Lookup(ctx, who, orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if authorize(who, o) != nil {
		return o, []domain.OrderStatus{}, nil
	}
	return o, s.machine.Allowed(o.Status, who.Actor), nil
}

func (s *Service) send(ctx context.Context, who domain.Identity, o domain.Order, to domain.OrderStatus) (*domain.Order, error) {
	switch who.Actor {
	case domain.ActorShop:
		return s.backend.UpdateShopOrderStatus(ctx, shopOf(who, o), o.ID, to)
	case domain.ActorAgent:
		return s.backend.UpdateDeliveryStatus(ctx, o.ID, to)
	default:
		return nil, fmt.Errorf("%w: %s cannot change status", apperr.ErrUnauthorized, who.Actor)
	}
}

// authorize checks ownership when the order names its shop or agent.
func authorize(who domain.Identity, o domain.Order) error {
	switch who.Actor {
	case domain.ActorShop:
		if o.ShopID != "" && who.ShopID != o.ShopID {
			return fmt.Errorf("%w: order belongs to another shop", apperr.ErrUnauthorized)
		}
		if shopOf(who, o) == "" {
			return fmt.Errorf("%w: shop of order %s is unknown", apperr.ErrInvalid, o.ID)
		}
	case domain.ActorAgent:
		if o.AgentID != "" && who.UserID != o.AgentID {
			return fmt.Errorf("%w: order is assigned to another agent", apperr.ErrUnauthorized)
		}
	}
	return nil
}

// shopOf prefers the shop named by the order over the caller's own.
func shopOf(who domain.Identity, o domain.Order) string {
	if o.ShopID != "" {
		return o.ShopID
	}
	return strings.TrimSpace(who.ShopID)
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(result)
	}
}
