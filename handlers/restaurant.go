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

type RestaurantHandler struct {
	restaurants *repository.RestaurantRepository
	menu        *repository.MenuItemRepository
	orders      *service.OrderService
	log         *zap.Logger
}

func NewRestaurantHandler(
	restaurants *repository.RestaurantRepository,
	menu *repository.MenuItemRepository,
	orders *service.OrderService,
	log *zap.Logger,
) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, menu: menu, orders: orders, log: log}
}

// ownRestaurant resolves the caller's restaurant or writes the error response.
func (h *RestaurantHandler) ownRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	rest, err := h.restaurants.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return nil, false
	}
	return rest, true
}

type CreateRestaurantRequest struct {
	Name         string  `json:"name" binding:"required"`
	Cuisine      string  `json:"cuisine"`
	Description  string  `json:"description"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	DeliveryTime string  `json:"delivery_time"`
	MinimumOrder float64 `json:"minimum_order"`
}

// CreateRestaurant registers a restaurant; it stays pending until an admin
// approves it.
func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.restaurants.GetByOwner(c.Request.Context(), middleware.GetUserID(c)); err == nil {
		respondError(c, h.log, apperr.New(apperr.Validation, "you already have a restaurant registered"))
		return
	}
	rest := &models.Restaurant{
		OwnerID:      middleware.GetUserID(c),
		Name:         req.Name,
		Cuisine:      req.Cuisine,
		Description:  req.Description,
		Address:      req.Address,
		Phone:        req.Phone,
		DeliveryTime: req.DeliveryTime,
		MinimumOrder: req.MinimumOrder,
		Status:       models.RestaurantPending,
		IsOpen:       true,
	}
	if err := h.restaurants.Create(c.Request.Context(), rest); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Restaurant registered; awaiting admin approval",
		"restaurant": rest,
	})
}

// GetMyRestaurant returns the caller's restaurant with its menu.
func (h *RestaurantHandler) GetMyRestaurant(c *gin.Context) {
	rest, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	items, err := h.menu.ListByRestaurant(c.Request.Context(), rest.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	rest.MenuItems = items
	c.JSON(http.StatusOK, gin.H{"restaurant": rest})
}

type UpdateRestaurantRequest struct {
	Name         *string  `json:"name"`
	Cuisine      *string  `json:"cuisine"`
	Description  *string  `json:"description"`
	Address      *string  `json:"address"`
	Phone        *string  `json:"phone"`
	DeliveryTime *string  `json:"delivery_time"`
	MinimumOrder *float64 `json:"minimum_order"`
	IsOpen       *bool    `json:"is_open"`
}

func (h *RestaurantHandler) UpdateRestaurant(c *gin.Context) {
	rest, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		rest.Name = *req.Name
	}
	if req.Cuisine != nil {
		rest.Cuisine = *req.Cuisine
	}
	if req.Description != nil {
		rest.Description = *req.Description
	}
	if req.Address != nil {
		rest.Address = *req.Address
	}
	if req.Phone != nil {
		rest.Phone = *req.Phone
	}
	if req.DeliveryTime != nil {
		rest.DeliveryTime = *req.DeliveryTime
	}
	if req.MinimumOrder != nil {
		rest.MinimumOrder = *req.MinimumOrder
	}
	if req.IsOpen != nil {
		rest.IsOpen = *req.IsOpen
	}
	if err := h.restaurants.Update(c.Request.Context(), rest); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": rest})
}

type MenuItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Category     string  `json:"category"`
	IsAvailable  *bool   `json:"is_available"`
	IsVegetarian bool    `json:"is_vegetarian"`
	SpiceLevel   string  `json:"spice_level"`
}

func (h *RestaurantHandler) AddMenuItem(c *gin.Context) {
	rest, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item := &models.MenuItem{
		RestaurantID: rest.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		IsAvailable:  true,
		IsVegetarian: req.IsVegetarian,
		SpiceLevel:   req.SpiceLevel,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := h.menu.Create(c.Request.Context(), item); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

func (h *RestaurantHandler) UpdateMenuItem(c *gin.Context) {
	rest, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}
	item, err := h.menu.GetByID(c.Request.Context(), uint(itemID))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if item.RestaurantID != rest.ID {
		respondError(c, h.log, apperr.New(apperr.Forbidden, "menu item belongs to another restaurant"))
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Category = req.Category
	item.IsVegetarian = req.IsVegetarian
	item.SpiceLevel = req.SpiceLevel
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := h.menu.Update(c.Request.Context(), item); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

func (h *RestaurantHandler) DeleteMenuItem(c *gin.Context) {
	rest, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}
	item, err := h.menu.GetByID(c.Request.Context(), uint(itemID))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if item.RestaurantID != rest.ID {
		respondError(c, h.log, apperr.New(apperr.Forbidden, "menu item belongs to another restaurant"))
		return
	}
	if err := h.menu.Delete(c.Request.Context(), item.ID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// GetRestaurantOrders is the owner dashboard listing: filtered page of this
// restaurant's orders, a status summary, and the legal next actions per
// order so the UI never re-derives transition rules.
func (h *RestaurantHandler) GetRestaurantOrders(c *gin.Context) {
	rest, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	filter := repository.OrderFilter{
		RestaurantID: rest.ID,
		Statuses:     service.ParseStatusFilter(c.Query("status")),
	}
	pageResult, err := h.orders.ListOrders(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	stats, err := h.orders.Stats(c.Request.Context(), repository.OrderFilter{RestaurantID: rest.ID})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	actor := statemachine.Actor{
		UserID:       middleware.GetUserID(c),
		Role:         models.RoleRestaurantOwner,
		RestaurantID: rest.ID,
	}
	nextActions := make(map[uint][]models.OrderStatus, len(pageResult.Orders))
	for i := range pageResult.Orders {
		nextActions[pageResult.Orders[i].ID] = h.orders.NextActions(&pageResult.Orders[i], actor)
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant":    rest.Name,
		"orders":        pageResult,
		"order_summary": stats.ByStatus,
		"next_actions":  nextActions,
	})
}
