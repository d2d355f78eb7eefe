package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"store_order/internal/config"
	"store_order/internal/database"
	"store_order/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Force recreate all tables
	fmt.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		&models.Sale{},
		&models.Order{},
		&models.OrderItem{},
		&models.Recommendation{},
		&models.Inventory{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	// Create tables with proper schema
	fmt.Println("Creating tables...")
	err = db.AutoMigrate(
		&models.Recommendation{},
		&models.OrderItem{},
		&models.Order{},
		&models.Inventory{},
		&models.Sale{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	seedInventory(db)
	seedSales(db)
	seedOrders(db)

	fmt.Println("Database initialized successfully!")
}

func seedInventory(db *gorm.DB) {
	fmt.Println("Seeding inventory...")

	type product struct {
		name      string
		category  string
		quantity  int
		unitPrice int64
		expiry    string
	}
	products := []product{
		{"rice ball", "ready meals", 15, 1500, "2026-09-20"},
		{"lunch box", "ready meals", 8, 5000, "2026-09-18"},
		{"cup noodles", "noodles", 25, 1200, "2027-03-15"},
		{"milk", "dairy", 12, 2500, "2026-09-25"},
		{"bread", "bakery", 18, 2000, "2026-09-22"},
		{"soft drink", "beverages", 35, 1500, "2027-06-30"},
		{"snacks", "snacks", 28, 1800, "2027-04-20"},
		{"instant ramen", "noodles", 45, 900, "2027-05-10"},
		{"ice cream", "frozen", 22, 2000, "2027-08-15"},
		{"umbrella", "household", 3, 5000, "2028-12-31"},
	}

	for _, p := range products {
		expiry, err := time.Parse("2006-01-02", p.expiry)
		if err != nil {
			log.Fatal("Invalid expiry date:", err)
		}
		record := models.Inventory{
			ProductName: p.name,
			Category:    p.category,
			Quantity:    p.quantity,
			SafeStock:   20,
			UnitPrice:   decimal.NewFromInt(p.unitPrice),
			ExpiryDate:  &expiry,
		}
		if err := db.Create(&record).Error; err != nil {
			log.Fatal("Failed to seed inventory:", err)
		}
	}
	fmt.Printf("Seeded %d inventory records\n", len(products))
}

func seedSales(db *gorm.DB) {
	fmt.Println("Seeding sales (last 30 days)...")

	products := []string{
		"rice ball", "lunch box", "cup noodles", "milk",
		"bread", "soft drink", "snacks", "instant ramen",
	}
	prices := []int64{1500, 2000, 2500, 5000}

	count := 0
	for i := 0; i < 30; i++ {
		saleDate := time.Now().AddDate(0, 0, -i)
		for _, product := range products {
			// Three sales per product per day, roughly morning, noon, evening
			for j := 0; j < 3; j++ {
				sale := models.Sale{
					ProductName:  product,
					QuantitySold: rand.Intn(5) + 1,
					SalePrice:    decimal.NewFromInt(prices[rand.Intn(len(prices))]),
					SaleDate:     saleDate,
					DayOfWeek:    saleDate.Weekday().String(),
				}
				if err := db.Create(&sale).Error; err != nil {
					log.Fatal("Failed to seed sales:", err)
				}
				count++
			}
		}
	}
	fmt.Printf("Seeded %d sales records\n", count)
}

func seedOrders(db *gorm.DB) {
	fmt.Println("Seeding order history...")

	products := []string{"rice ball", "lunch box", "cup noodles", "milk", "bread"}
	costs := []int64{1000, 1500, 2000}

	count := 0
	for i := 0; i < 10; i++ {
		orderDate := time.Now().AddDate(0, 0, -i*3)
		deliveryDate := orderDate.AddDate(0, 0, 2)

		for j := 0; j < 3; j++ {
			quantity := rand.Intn(31) + 20
			unitCost := decimal.NewFromInt(costs[rand.Intn(len(costs))])
			status := string(models.OrderApproved)
			if rand.Intn(3) == 0 {
				status = string(models.OrderPending)
			}

			order := models.Order{
				ProductName:     products[(i+j)%len(products)],
				QuantityOrdered: quantity,
				UnitCost:        unitCost,
				TotalCost:       unitCost.Mul(decimal.NewFromInt(int64(quantity))),
				OrderDate:       orderDate,
				DeliveryDate:    &deliveryDate,
				Status:          status,
			}
			if err := db.Create(&order).Error; err != nil {
				log.Fatal("Failed to seed orders:", err)
			}
			count++
		}
	}
	fmt.Printf("Seeded %d order records\n", count)
}
