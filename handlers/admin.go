package handlers

import (
	"net/http"
	"strconv"

	"campus-grub-api/apperr"
	"campus-grub-api/models"
	"campus-grub-api/repository"
	"campus-grub-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	orders      *service.OrderService
	restaurants *repository.RestaurantRepository
	users       *repository.UserRepository
	log         *zap.Logger
}

func NewAdminHandler(
	orders *service.OrderService,
	restaurants *repository.RestaurantRepository,
	users *repository.UserRepository,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{orders: orders, restaurants: restaurants, users: users, log: log}
}

// ListOrders is the administrative listing: any combination of user,
// restaurant and status filters, or none at all for the whole platform.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	var filter repository.OrderFilter
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		filter.UserID = uint(id)
	}
	if v := c.Query("restaurant_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant_id"})
			return
		}
		filter.RestaurantID = uint(id)
	}
	filter.Statuses = service.ParseStatusFilter(c.Query("status"))

	pageResult, err := h.orders.ListOrders(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pageResult)
}

// Stats returns platform-wide order counts by status and revenue.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context(), repository.OrderFilter{})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

type SetRestaurantStatusRequest struct {
	Status models.RestaurantStatus `json:"status" binding:"required"`
}

// SetRestaurantStatus approves or rejects a restaurant registration.
func (h *AdminHandler) SetRestaurantStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}
	var req SetRestaurantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.RestaurantApproved, models.RestaurantRejected, models.RestaurantPending:
	default:
		respondError(c, h.log, apperr.New(apperr.Validation, "unknown restaurant status %q", req.Status))
		return
	}
	if err := h.restaurants.SetStatus(c.Request.Context(), uint(id), req.Status); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant status updated", "status": req.Status})
}

func (h *AdminHandler) ListRestaurants(c *gin.Context) {
	rests, err := h.restaurants.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rests), "restaurants": rests})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}
