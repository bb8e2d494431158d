package handlers

import (
	"net/http"
	"strconv"

	"campus-grub-api/apperr"
	"campus-grub-api/middleware"
	"campus-grub-api/models"
	"campus-grub-api/repository"
	"campus-grub-api/service"
	"campus-grub-api/statemachine"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders      *service.OrderService
	restaurants *repository.RestaurantRepository
	log         *zap.Logger
}

func NewOrderHandler(orders *service.OrderService, restaurants *repository.RestaurantRepository, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, restaurants: restaurants, log: log}
}

// actorFrom builds the transition actor from the authenticated principal,
// resolving the owned restaurant for restaurant_owner callers.
func (h *OrderHandler) actorFrom(c *gin.Context) statemachine.Actor {
	actor := statemachine.Actor{
		UserID: middleware.GetUserID(c),
		Role:   middleware.GetRole(c),
	}
	if actor.Role == models.RoleRestaurantOwner {
		if rest, err := h.restaurants.GetByOwner(c.Request.Context(), actor.UserID); err == nil {
			actor.RestaurantID = rest.ID
		}
	}
	return actor
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return uint(id), true
}

type PlaceOrderRequest struct {
	RestaurantID         uint                     `json:"restaurant_id" binding:"required"`
	Items                []service.OrderItemInput `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress      models.DeliveryAddress   `json:"delivery_address" binding:"required"`
	DeliveryInstructions string                   `json:"delivery_instructions"`
	PaymentMethod        models.PaymentMethod     `json:"payment_method" binding:"required"`
}

// PlaceOrder creates a new order for the authenticated customer.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		UserID:               middleware.GetUserID(c),
		RestaurantID:         req.RestaurantID,
		Items:                req.Items,
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryInstructions: req.DeliveryInstructions,
		PaymentMethod:        req.PaymentMethod,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns the authenticated customer's orders, newest first.
// Supports ?status=pending,ready multi-status filtering and pagination.
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	filter := repository.OrderFilter{
		UserID:   middleware.GetUserID(c),
		Statuses: service.ParseStatusFilter(c.Query("status")),
	}
	pageResult, err := h.orders.ListOrders(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pageResult)
}

// GetOrderDetail returns one order. Only the placer, the fulfilling
// restaurant's owner or an admin may view it.
func (h *OrderHandler) GetOrderDetail(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	actor := h.actorFrom(c)
	if !service.CanView(order, actor) {
		respondError(c, h.log, apperr.New(apperr.Forbidden, "this order is not visible to you"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":        order,
		"next_actions": h.orders.NextActions(order, actor),
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateStatus is the single transition endpoint for every role. The state
// machine arbitrates legality; concurrent writers lose with a 409 and are
// expected to refetch.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := h.actorFrom(c)
	order, err := h.orders.TransitionOrder(c.Request.Context(), id, req.Status, actor, req.Note)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Order status updated",
		"order":        order,
		"next_actions": h.orders.NextActions(order, actor),
	})
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels via the same transition machinery as every other
// status change.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.orders.TransitionOrder(c.Request.Context(), id, models.StatusCancelled, h.actorFrom(c), req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": order})
}
