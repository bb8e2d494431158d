// Package statemachine is the single source of truth for order status
// transitions. No other layer (handlers, dashboards, clients) decides whether
// a transition is legal; they submit requests and render NextActions.
package statemachine

import (
	"campus-grub-api/apperr"
	"campus-grub-api/models"
)

// Actor identifies who is requesting a transition. RestaurantID is the
// restaurant the actor owns (zero when the actor owns none).
type Actor struct {
	UserID       uint
	Role         models.UserRole
	RestaurantID uint
}

// Transition defines a valid state change and who can perform it
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role models.UserRole
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Restaurant accepts and hands the order through the kitchen
	{From: models.StatusPending, To: models.StatusReady, Role: models.RoleRestaurantOwner},
	{From: models.StatusReady, To: models.StatusOutForDelivery, Role: models.RoleRestaurantOwner},
	// The placing user confirms receipt
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Role: models.RoleUser},
	// Cancellation policy: the placer may bail out before the kitchen starts,
	// the restaurant up until hand-off, an admin from any non-terminal state.
	{From: models.StatusPending, To: models.StatusCancelled, Role: models.RoleUser},
	{From: models.StatusPending, To: models.StatusCancelled, Role: models.RoleRestaurantOwner},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Role: models.RoleRestaurantOwner},
	{From: models.StatusPreparing, To: models.StatusCancelled, Role: models.RoleRestaurantOwner},
	{From: models.StatusReady, To: models.StatusCancelled, Role: models.RoleRestaurantOwner},
	{From: models.StatusPending, To: models.StatusCancelled, Role: models.RoleAdmin},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Role: models.RoleAdmin},
	{From: models.StatusPreparing, To: models.StatusCancelled, Role: models.RoleAdmin},
	{From: models.StatusReady, To: models.StatusCancelled, Role: models.RoleAdmin},
	{From: models.StatusOutForDelivery, To: models.StatusCancelled, Role: models.RoleAdmin},
}

type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// rolesByEdge maps each legal (from, to) edge to the roles allowed to take it
var rolesByEdge = func() map[transitionKey][]models.UserRole {
	m := make(map[transitionKey][]models.UserRole)
	for _, t := range validTransitions {
		k := transitionKey{t.From, t.To}
		m[k] = append(m[k], t.Role)
	}
	return m
}()

// actorMatches checks that the actor's identity binds to this order for the
// given role: owners must own the order's restaurant, users must be the
// placer, admins match any order.
func actorMatches(role models.UserRole, actor Actor, order *models.Order) bool {
	if actor.Role != role {
		return false
	}
	switch role {
	case models.RoleRestaurantOwner:
		return actor.RestaurantID != 0 && actor.RestaurantID == order.RestaurantID
	case models.RoleUser:
		return actor.UserID == order.UserID
	case models.RoleAdmin:
		return true
	}
	return false
}

// CanTransition decides whether actor may move order from its current status
// to the requested one. It returns nil when permitted, an InvalidTransition
// error when the edge is illegal for everyone (including any attempt to leave
// a terminal status), and a Forbidden error when the edge is legal for some
// role but not for this actor.
func CanTransition(order *models.Order, requested models.OrderStatus, actor Actor) error {
	current := order.Status
	if current.IsTerminal() {
		return apperr.New(apperr.InvalidTransition,
			"order is %s; no further transitions are permitted", current)
	}
	roles, ok := rolesByEdge[transitionKey{current, requested}]
	if !ok {
		return apperr.New(apperr.InvalidTransition,
			"cannot move order from %s to %s; valid next states: %s",
			current, requested, describeValidFrom(current))
	}
	for _, role := range roles {
		if actorMatches(role, actor, order) {
			return nil
		}
	}
	return apperr.New(apperr.Forbidden,
		"%s is not allowed to move this order from %s to %s", actor.Role, current, requested)
}

// ValidTransitionsFrom returns all valid next states from a given state,
// for any actor.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// NextActions returns the statuses this actor may request for this order
// right now. Dashboards render buttons from this instead of re-deriving the
// rules client-side.
func NextActions(order *models.Order, actor Actor) []models.OrderStatus {
	var actions []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From != order.Status || seen[t.To] {
			continue
		}
		if actorMatches(t.Role, actor, order) {
			actions = append(actions, t.To)
			seen[t.To] = true
		}
	}
	return actions
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
