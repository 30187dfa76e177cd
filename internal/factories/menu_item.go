package factories

import (
	"fmt"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
)

// SeedMenu is the house catalog every storefront starts with.
func SeedMenu() []models.MenuItem {
	return []models.MenuItem{
		{
			ID:          1,
			Name:        "Margherita Pizza",
			Description: "Fresh mozzarella, tomato sauce, basil leaves",
			Price:       decimal.RequireFromString("18.99"),
			Rating:      decimal.RequireFromString("4.8"),
			Time:        "25-30 min",
			Category:    "Pizza",
			Image:       "https://images.unsplash.com/photo-1604382354936-07c5d9983bd3?w=400&h=300&fit=crop",
			Popular:     true,
		},
		{
			ID:          2,
			Name:        "Chicken Burger",
			Description: "Grilled chicken breast, lettuce, tomato, special sauce",
			Price:       decimal.RequireFromString("14.99"),
			Rating:      decimal.RequireFromString("4.6"),
			Time:        "15-20 min",
			Category:    "Burgers",
			Image:       "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400&h=300&fit=crop",
		},
		{
			ID:          3,
			Name:        "Caesar Salad",
			Description: "Crisp romaine, parmesan, croutons, caesar dressing",
			Price:       decimal.RequireFromString("12.99"),
			Rating:      decimal.RequireFromString("4.4"),
			Time:        "10-15 min",
			Category:    "Salads",
			Image:       "https://images.unsplash.com/photo-1551248429-40975aa4de74?w=400&h=300&fit=crop",
		},
		{
			ID:          4,
			Name:        "Beef Tacos",
			Description: "Seasoned ground beef, lettuce, cheese, salsa",
			Price:       decimal.RequireFromString("16.99"),
			Rating:      decimal.RequireFromString("4.7"),
			Time:        "20-25 min",
			Category:    "Mexican",
			Image:       "https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b?w=400&h=300&fit=crop",
			Popular:     true,
		},
		{
			ID:          5,
			Name:        "Chocolate Cake",
			Description: "Rich chocolate cake with creamy frosting",
			Price:       decimal.RequireFromString("8.99"),
			Rating:      decimal.RequireFromString("4.9"),
			Time:        "5-10 min",
			Category:    "Desserts",
			Image:       "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=400&h=300&fit=crop",
		},
		{
			ID:          6,
			Name:        "Pad Thai",
			Description: "Stir-fried rice noodles with shrimp, tofu, peanuts",
			Price:       decimal.RequireFromString("15.99"),
			Rating:      decimal.RequireFromString("4.5"),
			Time:        "20-25 min",
			Category:    "Asian",
			Image:       "https://images.unsplash.com/photo-1559314809-0f31657b2321?w=400&h=300&fit=crop",
		},
	}
}

var dishesByCategory = map[string][]string{
	"Pizza":    {"Pepperoni Pizza", "Hawaiian Pizza", "Veggie Supreme Pizza", "Four Cheese Pizza"},
	"Burgers":  {"Classic Cheeseburger", "Veggie Burger", "BBQ Bacon Burger", "Mushroom Swiss Burger"},
	"Salads":   {"Greek Salad", "Cobb Salad", "Quinoa Salad", "Caprese Salad"},
	"Mexican":  {"Chicken Burrito", "Guacamole Bowl", "Cheese Quesadilla", "Fish Tacos"},
	"Asian":    {"Kung Pao Chicken", "Green Curry", "Pork Dumplings", "Chicken Ramen"},
	"Desserts": {"Tiramisu", "Apple Pie", "Mango Sticky Rice", "Baklava"},
}

var menuCategories = []string{"Pizza", "Burgers", "Salads", "Mexican", "Asian", "Desserts"}

type MenuItemFactory struct {
	fake faker.Faker
}

func NewMenuItemFactory(f faker.Faker) *MenuItemFactory {
	return &MenuItemFactory{fake: f}
}

// CreateMenuItem builds a plausible extra dish. Prices are whole cents and
// ratings one decimal place so totals stay exact.
func (mf *MenuItemFactory) CreateMenuItem(id int) models.MenuItem {
	category := mf.fake.RandomStringElement(menuCategories)
	minutes := mf.fake.IntBetween(1, 6) * 5
	return models.MenuItem{
		ID:          id,
		Name:        mf.fake.RandomStringElement(dishesByCategory[category]),
		Description: mf.fake.Lorem().Sentence(8),
		Price:       decimal.New(int64(mf.fake.IntBetween(499, 2999)), -2),
		Rating:      decimal.New(int64(mf.fake.IntBetween(35, 50)), -1),
		Time:        fmt.Sprintf("%d-%d min", minutes, minutes+5),
		Category:    category,
		Image:       fmt.Sprintf("https://picsum.photos/seed/foodcloud-%d/400/300", id),
		Popular:     mf.fake.IntBetween(1, 5) == 1,
	}
}

// CreateMenuItems returns n extras with ids starting at firstID.
func (mf *MenuItemFactory) CreateMenuItems(firstID, n int) []models.MenuItem {
	items := make([]models.MenuItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, mf.CreateMenuItem(firstID+i))
	}
	return items
}
