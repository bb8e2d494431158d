package handlers

import (
	"net/http"
	"strconv"

	"campus-grub-api/repository"
	"campus-grub-api/statemachine"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PublicHandler struct {
	restaurants *repository.RestaurantRepository
	menu        *repository.MenuItemRepository
	log         *zap.Logger
}

func NewPublicHandler(restaurants *repository.RestaurantRepository, menu *repository.MenuItemRepository, log *zap.Logger) *PublicHandler {
	return &PublicHandler{restaurants: restaurants, menu: menu, log: log}
}

// ListRestaurants returns approved restaurants only.
func (h *PublicHandler) ListRestaurants(c *gin.Context) {
	rests, err := h.restaurants.ListApproved(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rests), "restaurants": rests})
}

func (h *PublicHandler) GetRestaurant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}
	rest, err := h.restaurants.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": rest})
}

func (h *PublicHandler) GetMenu(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}
	items, err := h.menu.ListByRestaurant(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// GetStateMachineInfo publishes the transition table for docs and clients.
func (h *PublicHandler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"transitions": statemachine.GetAllTransitions(),
	})
}
