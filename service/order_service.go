// Package service implements the order lifecycle engine: order creation with
// frozen price snapshots, role-gated status transitions, and race-safe reads
// and updates over the persistence layer.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-grub-api/apperr"
	"campus-grub-api/models"
	"campus-grub-api/repository"
	"campus-grub-api/statemachine"

	"go.uber.org/zap"
)

const (
	// estimatedDeliveryOffset is added to the order time at creation.
	estimatedDeliveryOffset = 30 * time.Minute
	// numberRetries bounds regeneration attempts when an order number
	// collides with an existing one.
	numberRetries = 3
)

type OrderService struct {
	orders      *repository.OrderRepository
	menu        *repository.MenuItemRepository
	restaurants *repository.RestaurantRepository
	pricing     Pricing
	log         *zap.Logger
	now         func() time.Time
	newNumber   func(time.Time) string
}

func NewOrderService(
	orders *repository.OrderRepository,
	menu *repository.MenuItemRepository,
	restaurants *repository.RestaurantRepository,
	pricing Pricing,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:      orders,
		menu:        menu,
		restaurants: restaurants,
		pricing:     pricing,
		log:         log,
		now:         time.Now,
		newNumber:   generateOrderNumber,
	}
}

type OrderItemInput struct {
	MenuItemID          uint   `json:"menu_item_id" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,min=1"`
	SpecialInstructions string `json:"special_instructions"`
}

type CreateOrderInput struct {
	UserID               uint
	RestaurantID         uint
	Items                []OrderItemInput
	DeliveryAddress      models.DeliveryAddress
	DeliveryInstructions string
	PaymentMethod        models.PaymentMethod
}

func (in *CreateOrderInput) validate() error {
	if len(in.Items) == 0 {
		return apperr.New(apperr.Validation, "order must contain at least one item")
	}
	for i, it := range in.Items {
		if it.Quantity < 1 {
			return apperr.New(apperr.Validation, "item %d: quantity must be at least 1", i)
		}
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return apperr.New(apperr.Validation, "unknown payment method %q", in.PaymentMethod)
	}
	addr := in.DeliveryAddress
	if addr.Street == "" || addr.City == "" || addr.State == "" || addr.ZipCode == "" {
		return apperr.New(apperr.Validation, "delivery address requires street, city, state and zip code")
	}
	return nil
}

// CreateOrder validates the request, snapshots catalog prices, computes
// totals and persists the order with status pending. The whole order is
// rejected if any menu item fails to resolve; nothing is persisted partway.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	restaurant, err := s.restaurants.GetByID(ctx, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant.Status != models.RestaurantApproved {
		return nil, apperr.New(apperr.Validation, "restaurant %q is not accepting orders", restaurant.Name)
	}
	if !restaurant.IsOpen {
		return nil, apperr.New(apperr.Validation, "restaurant %q is currently closed", restaurant.Name)
	}

	ids := make([]uint, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.MenuItemID)
	}
	catalog, err := s.menu.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var missing, unavailable []string
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		menuItem, ok := catalog[it.MenuItemID]
		if !ok {
			missing = append(missing, fmt.Sprint(it.MenuItemID))
			continue
		}
		if menuItem.RestaurantID != in.RestaurantID {
			return nil, apperr.New(apperr.Validation,
				"menu item %q does not belong to this restaurant", menuItem.Name)
		}
		if !menuItem.IsAvailable {
			unavailable = append(unavailable, menuItem.Name)
			continue
		}
		items = append(items, models.OrderItem{
			MenuItemID:          menuItem.ID,
			Name:                menuItem.Name,
			UnitPrice:           menuItem.Price,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
			LineTotal:           roundMoney(menuItem.Price * float64(it.Quantity)),
		})
	}
	if len(missing) > 0 {
		return nil, apperr.New(apperr.Validation, "menu items not found: %s", strings.Join(missing, ", "))
	}
	if len(unavailable) > 0 {
		return nil, apperr.New(apperr.Validation, "menu items not available: %s", strings.Join(unavailable, ", "))
	}

	subtotal, fee, tax, total := s.pricing.computeTotals(items)
	now := s.now()

	order := &models.Order{
		UserID:                in.UserID,
		RestaurantID:          in.RestaurantID,
		Items:                 items,
		Subtotal:              subtotal,
		DeliveryFee:           fee,
		Tax:                   tax,
		Total:                 total,
		Status:                models.StatusPending,
		PaymentMethod:         in.PaymentMethod,
		PaymentStatus:         models.PaymentStatusPending,
		DeliveryAddress:       in.DeliveryAddress,
		DeliveryInstructions:  in.DeliveryInstructions,
		OrderTime:             now,
		EstimatedDeliveryTime: now.Add(estimatedDeliveryOffset),
	}

	// The unique index on order_number is the real uniqueness guarantee;
	// regenerate and retry on collision before giving up.
	var createErr error
	for attempt := 0; attempt < numberRetries; attempt++ {
		order.OrderNumber = s.newNumber(s.now())
		history := &models.OrderStatusHistory{
			ToStatus:  models.StatusPending,
			ChangedBy: in.UserID,
			Note:      "order placed",
		}
		createErr = s.orders.Create(ctx, order, history)
		if createErr == nil {
			s.log.Info("order created",
				zap.String("order_number", order.OrderNumber),
				zap.Uint("user_id", in.UserID),
				zap.Uint("restaurant_id", in.RestaurantID),
				zap.Float64("total", order.Total))
			return order, nil
		}
		if !repository.IsDuplicate(createErr) {
			return nil, apperr.Wrap(apperr.Persistence, createErr, "persisting order")
		}
		s.log.Warn("order number collision, regenerating",
			zap.String("order_number", order.OrderNumber),
			zap.Int("attempt", attempt+1))
	}
	return nil, apperr.Wrap(apperr.Persistence, createErr,
		"could not allocate a unique order number after %d attempts", numberRetries)
}

// GetOrder fetches one order by id. Pure read; view authorization is the
// caller's job (see CanView).
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// CanView reports whether the actor may see this order: the placer, the
// owner of the fulfilling restaurant, or an admin.
func CanView(order *models.Order, actor statemachine.Actor) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return order.UserID == actor.UserID
	case models.RoleRestaurantOwner:
		return actor.RestaurantID != 0 && order.RestaurantID == actor.RestaurantID
	}
	return false
}

// OrderPage is one page of a filtered listing plus pagination metadata.
type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Total  int64          `json:"total"`
	Pages  int64          `json:"pages"`
}

// ListOrders returns orders matching the filter, newest first. An empty
// filter matches everything; callers gate who may ask for that.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter, page, limit int) (*OrderPage, error) {
	for _, st := range filter.Statuses {
		if !models.ValidStatus(st) {
			return nil, apperr.New(apperr.Validation, "unknown status %q", st)
		}
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	orders, total, err := s.orders.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return &OrderPage{Orders: orders, Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// ParseStatusFilter splits a comma-separated status query parameter into a
// status set. Multi-status queries ("pending,ready") are first-class.
func ParseStatusFilter(raw string) []models.OrderStatus {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	statuses := make([]models.OrderStatus, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			statuses = append(statuses, models.OrderStatus(p))
		}
	}
	return statuses
}

// TransitionOrder moves an order to the requested status on behalf of the
// actor. The write is conditioned on the status still being the one just
// read; if a concurrent transition won the race the result is Conflict and
// the caller should refetch before deciding to retry.
func (s *OrderService) TransitionOrder(ctx context.Context, orderID uint, requested models.OrderStatus, actor statemachine.Actor, note string) (*models.Order, error) {
	if !models.ValidStatus(requested) {
		return nil, apperr.New(apperr.Validation, "unknown status %q", requested)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.CanTransition(order, requested, actor); err != nil {
		return nil, err
	}

	now := s.now()
	patch := map[string]any{
		"status":     requested,
		"updated_at": now,
	}
	switch requested {
	case models.StatusPreparing:
		patch["preparation_time"] = now
	case models.StatusReady:
		patch["ready_time"] = now
	case models.StatusOutForDelivery:
		patch["out_for_delivery_time"] = now
	case models.StatusDelivered:
		patch["actual_delivery_time"] = now
	case models.StatusCancelled:
		patch["cancelled_at"] = now
		patch["cancelled_by"] = actor.Role
		patch["cancellation_reason"] = note
	}

	applied, err := s.orders.UpdateStatus(ctx, orderID, order.Status, patch)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Either the order vanished or another actor changed the status
		// between our read and write. Refetch to tell the two apart.
		if _, ferr := s.orders.GetByID(ctx, orderID); ferr != nil {
			return nil, ferr
		}
		return nil, apperr.New(apperr.Conflict,
			"order %d changed while processing; refetch and retry", orderID)
	}

	if err := s.orders.AppendHistory(ctx, &models.OrderStatusHistory{
		OrderID:    orderID,
		FromStatus: order.Status,
		ToStatus:   requested,
		ChangedBy:  actor.UserID,
		Note:       note,
	}); err != nil {
		// The transition itself committed; a lost audit row is logged, not
		// surfaced as a failure of the transition.
		s.log.Error("failed to record status history", zap.Uint("order_id", orderID), zap.Error(err))
	}

	s.log.Info("order transitioned",
		zap.Uint("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(requested)),
		zap.Uint("actor_id", actor.UserID),
		zap.String("actor_role", string(actor.Role)))

	return s.orders.GetByID(ctx, orderID)
}

// NextActions exposes the legal next statuses for this actor so dashboards
// never re-derive transition rules.
func (s *OrderService) NextActions(order *models.Order, actor statemachine.Actor) []models.OrderStatus {
	return statemachine.NextActions(order, actor)
}

// Stats aggregates counts by status and non-cancelled revenue, scoped by the
// filter (empty filter: platform-wide).
type Stats struct {
	ByStatus map[models.OrderStatus]int64 `json:"by_status"`
	Revenue  float64                      `json:"revenue"`
}

func (s *OrderService) Stats(ctx context.Context, filter repository.OrderFilter) (*Stats, error) {
	byStatus, err := s.orders.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orders.Revenue(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &Stats{ByStatus: byStatus, Revenue: revenue}, nil
}
