// Seed script for local development: wipes and repopulates the directory
// collections plus a day of bookings, so the queue endpoints have something
// to show. Run with a local Mongo: go run ./tests
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"trimly/config"
	"trimly/database"
	"trimly/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	config.LoadConfig()
	database.InitDB()
	db := database.DB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, name := range []string{"shops", "employees", "customers", "bookings", "notifications"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", name, err)
		}
	}

	shop := models.Shop{
		ID:      "shop-corner-cuts",
		Name:    "Corner Cuts",
		Phone:   "+91-98450-00000",
		Address: "12 MG Road, Bengaluru",
		Active:  true,
	}
	if _, err := db.Collection("shops").InsertOne(ctx, shop); err != nil {
		log.Fatalf("Failed to insert shop: %v", err)
	}

	menu := []models.Service{
		{ID: "svc-haircut", Name: "Haircut", DurationMinutes: 30},
		{ID: "svc-beard", Name: "Beard Trim", DurationMinutes: 15},
		{ID: "svc-shave", Name: "Shave", DurationMinutes: 20},
		{ID: "svc-headmassage", Name: "Head Massage", DurationMinutes: 25},
	}

	employeeNames := []string{"Ravi", "Sana", "Imran"}
	var employees []interface{}
	var employeeIDs []string
	for i, name := range employeeNames {
		id := fmt.Sprintf("emp-%d", i+1)
		employeeIDs = append(employeeIDs, id)
		employees = append(employees, models.Employee{
			ID:       id,
			ShopID:   shop.ID,
			Name:     name,
			Active:   true,
			Services: menu,
		})
	}
	if _, err := db.Collection("employees").InsertMany(ctx, employees); err != nil {
		log.Fatalf("Failed to insert employees: %v", err)
	}

	customerNames := []string{"Asha", "Vikram", "Meera", "Arjun", "Divya", "Kiran", "Nisha", "Rohan"}
	var customers []interface{}
	var customerIDs []string
	for i, name := range customerNames {
		id := fmt.Sprintf("cust-%d", i+1)
		customerIDs = append(customerIDs, id)
		customers = append(customers, models.Customer{
			ID:     id,
			Name:   name,
			Phone:  fmt.Sprintf("+91-98450-%05d", i+1),
			Active: true,
		})
	}
	if _, err := db.Collection("customers").InsertMany(ctx, customers); err != nil {
		log.Fatalf("Failed to insert customers: %v", err)
	}

	// A plausible afternoon per employee: back-to-back bookings separated by
	// the configured buffer, starting a few minutes from now.
	rand.Seed(time.Now().UnixNano())
	buffer := time.Duration(config.AppConfig.BufferMinutes) * time.Minute
	now := time.Now().UTC()

	var bookings []interface{}
	custIdx := 0
	for _, empID := range employeeIDs {
		cursor := now.Add(buffer)
		perEmployee := 2 + rand.Intn(3)
		for i := 0; i < perEmployee && custIdx < len(customerIDs); i++ {
			service := menu[rand.Intn(len(menu))]
			end := cursor.Add(time.Duration(service.DurationMinutes) * time.Minute)
			bookings = append(bookings, models.Booking{
				ID:              uuid.New().String(),
				ShopID:          shop.ID,
				EmployeeID:      empID,
				CustomerID:      customerIDs[custIdx],
				ServiceIDs:      []string{service.ID},
				DurationMinutes: service.DurationMinutes,
				JoinTime:        cursor,
				EndTime:         end,
				Status:          models.StatusBooked,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
			custIdx++
			cursor = end.Add(buffer)
		}
	}
	if len(bookings) > 0 {
		if _, err := db.Collection("bookings").InsertMany(ctx, bookings); err != nil {
			log.Fatalf("Failed to insert bookings: %v", err)
		}
	}

	log.Printf("Seeded %d employees, %d customers, %d bookings for shop %s",
		len(employees), len(customers), len(bookings), shop.ID)
}
