// Package seed loads the reproducible sample data set used for local
// development and integration tests: six owner accounts, six approved
// restaurants and two menu items each.
package seed

import (
	"fmt"

	"campus-grub-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type menuSeed struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Vegetarian  bool
	SpiceLevel  string
}

type restaurantSeed struct {
	Name         string
	Description  string
	Cuisine      string
	DeliveryTime string
	Rating       float64
	Menu         []menuSeed
}

var restaurants = []restaurantSeed{
	{
		Name: "Wrapchik", Description: "Delicious rolls and wraps.", Cuisine: "Rolls & Wraps",
		DeliveryTime: "15-20 min", Rating: 4.8,
		Menu: []menuSeed{
			{Name: "Paneer Wrap", Description: "Grilled paneer with veggies.", Price: 120, Category: "Wraps", Vegetarian: true, SpiceLevel: "Medium"},
			{Name: "Chicken Tikka Roll", Description: "Juicy chicken tikka roll.", Price: 140, Category: "Rolls", SpiceLevel: "Medium"},
		},
	},
	{
		Name: "Pizza Nation", Description: "Cheesy pizzas.", Cuisine: "Italian Pizza",
		DeliveryTime: "20-25 min", Rating: 4.7,
		Menu: []menuSeed{
			{Name: "Margherita Pizza", Description: "Classic pizza with mozzarella.", Price: 320, Category: "Pizzas", Vegetarian: true, SpiceLevel: "Mild"},
			{Name: "Pepperoni Pizza", Description: "Spicy pepperoni pizza.", Price: 380, Category: "Pizzas", SpiceLevel: "Medium"},
		},
	},
	{
		Name: "Dessert Club", Description: "Sweet treats.", Cuisine: "Desserts & Sweets",
		DeliveryTime: "10-15 min", Rating: 4.6,
		Menu: []menuSeed{
			{Name: "Chocolate Lava Cake", Description: "Warm chocolate cake.", Price: 150, Category: "Cakes", Vegetarian: true, SpiceLevel: "Mild"},
			{Name: "Rasmalai", Description: "Soft cheese dumplings.", Price: 120, Category: "Sweets", Vegetarian: true, SpiceLevel: "Mild"},
		},
	},
	{
		Name: "Honey Cafe", Description: "Cafe and snacks.", Cuisine: "Cafe & Snacks",
		DeliveryTime: "18-22 min", Rating: 4.5,
		Menu: []menuSeed{
			{Name: "Cappuccino", Description: "Rich espresso with milk foam.", Price: 100, Category: "Coffee", Vegetarian: true, SpiceLevel: "Mild"},
			{Name: "Veg Club Sandwich", Description: "Triple layered sandwich.", Price: 120, Category: "Snacks", Vegetarian: true, SpiceLevel: "Mild"},
		},
	},
	{
		Name: "Sips and Bites", Description: "Beverages and fast food.", Cuisine: "Beverages & Fast Food",
		DeliveryTime: "12-18 min", Rating: 4.4,
		Menu: []menuSeed{
			{Name: "Oreo Shake", Description: "Creamy shake with Oreo.", Price: 120, Category: "Shakes", Vegetarian: true, SpiceLevel: "Mild"},
			{Name: "Veg Burger", Description: "Crispy veggie patty.", Price: 90, Category: "Fast Food", Vegetarian: true, SpiceLevel: "Mild"},
		},
	},
	{
		Name: "Chilli Chatkara", Description: "Spicy Indian street food.", Cuisine: "Indian Street Food",
		DeliveryTime: "25-30 min", Rating: 4.3,
		Menu: []menuSeed{
			{Name: "Pav Bhaji", Description: "Spicy mashed veggies.", Price: 110, Category: "Street Food", Vegetarian: true, SpiceLevel: "Hot"},
			{Name: "Chole Bhature", Description: "Fried bread with spicy chickpea curry.", Price: 130, Category: "Street Food", Vegetarian: true, SpiceLevel: "Hot"},
		},
	},
}

// Run wipes and repopulates users, restaurants and menu items. Orders are
// never seeded; they are always created through the lifecycle engine.
func Run(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.OrderStatusHistory{}, &models.OrderItem{}, &models.Order{},
			&models.MenuItem{}, &models.Restaurant{}, &models.User{},
		} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return fmt.Errorf("clearing table: %w", err)
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("test123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		for i, rs := range restaurants {
			owner := models.User{
				Name:         fmt.Sprintf("Owner%d", i+1),
				Email:        fmt.Sprintf("owner%d@grub.com", i+1),
				PasswordHash: string(hash),
				Role:         models.RoleRestaurantOwner,
				Phone:        fmt.Sprintf("%d%d%d", i+1, i+1, i+1),
			}
			if err := tx.Create(&owner).Error; err != nil {
				return fmt.Errorf("seeding owner %d: %w", i+1, err)
			}
			rest := models.Restaurant{
				OwnerID:      owner.ID,
				Name:         rs.Name,
				Description:  rs.Description,
				Cuisine:      rs.Cuisine,
				DeliveryTime: rs.DeliveryTime,
				Rating:       rs.Rating,
				TotalReviews: 10,
				MinimumOrder: 100,
				Status:       models.RestaurantApproved,
				IsOpen:       true,
			}
			if err := tx.Create(&rest).Error; err != nil {
				return fmt.Errorf("seeding restaurant %q: %w", rs.Name, err)
			}
			for _, ms := range rs.Menu {
				item := models.MenuItem{
					RestaurantID: rest.ID,
					Name:         ms.Name,
					Description:  ms.Description,
					Price:        ms.Price,
					Category:     ms.Category,
					IsAvailable:  true,
					IsVegetarian: ms.Vegetarian,
					SpiceLevel:   ms.SpiceLevel,
				}
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("seeding menu item %q: %w", ms.Name, err)
				}
			}
		}

		student := models.User{
			Name:         "Test Student",
			Email:        "student@grub.com",
			PasswordHash: string(hash),
			Role:         models.RoleUser,
			Phone:        "999",
			Address:      "Hostel Block A, Room 101",
		}
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		admin := models.User{
			Name:         "Platform Admin",
			Email:        "admin@grub.com",
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}
		return tx.Create(&admin).Error
	})
}
