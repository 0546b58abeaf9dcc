package directoryRepo

import (
	"context"
	"fmt"
	"time"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDirectoryRepo implements DirectoryRepository using MongoDB.
type MongoDirectoryRepo struct {
	shopColl     *mongo.Collection
	employeeColl *mongo.Collection
	customerColl *mongo.Collection
}

// NewMongoDirectoryRepo constructs a new instance of MongoDirectoryRepo.
func NewMongoDirectoryRepo() DirectoryRepository {
	db := database.DB()
	return &MongoDirectoryRepo{
		shopColl:     db.Collection("shops"),
		employeeColl: db.Collection("employees"),
		customerColl: db.Collection("customers"),
	}
}

// GetShop retrieves a shop document by ID.
func (repo *MongoDirectoryRepo) GetShop(ctx context.Context, shopID string) (*models.Shop, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var shop models.Shop
	if err := repo.shopColl.FindOne(ctxWithTimeout, bson.M{"id": shopID}).Decode(&shop); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching shop with id %s: %w", shopID, err)
	}
	return &shop, nil
}

// GetEmployee retrieves an employee document by ID.
func (repo *MongoDirectoryRepo) GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var employee models.Employee
	if err := repo.employeeColl.FindOne(ctxWithTimeout, bson.M{"id": employeeID}).Decode(&employee); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching employee with id %s: %w", employeeID, err)
	}
	return &employee, nil
}

// ListEmployeesByShop retrieves all employees registered to a shop.
func (repo *MongoDirectoryRepo) ListEmployeesByShop(ctx context.Context, shopID string) ([]models.Employee, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.employeeColl.Find(ctxWithTimeout, bson.M{"shop_id": shopID})
	if err != nil {
		return nil, fmt.Errorf("error listing employees for shop %s: %w", shopID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var employees []models.Employee
	if err := cursor.All(ctxWithTimeout, &employees); err != nil {
		return nil, fmt.Errorf("error decoding employees for shop %s: %w", shopID, err)
	}
	return employees, nil
}

// GetCustomer retrieves a customer document by ID.
func (repo *MongoDirectoryRepo) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var customer models.Customer
	if err := repo.customerColl.FindOne(ctxWithTimeout, bson.M{"id": customerID}).Decode(&customer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching customer with id %s: %w", customerID, err)
	}
	return &customer, nil
}

// ClearCustomerFCMToken removes a customer's push token.
func (repo *MongoDirectoryRepo) ClearCustomerFCMToken(ctx context.Context, customerID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$unset": bson.M{"fcm_token": ""}}
	if _, err := repo.customerColl.UpdateOne(ctxWithTimeout, bson.M{"id": customerID}, update); err != nil {
		return fmt.Errorf("error clearing FCM token for customer %s: %w", customerID, err)
	}
	return nil
}

// ClearShopFCMToken removes a shop's push token.
func (repo *MongoDirectoryRepo) ClearShopFCMToken(ctx context.Context, shopID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$unset": bson.M{"fcm_token": ""}}
	if _, err := repo.shopColl.UpdateOne(ctxWithTimeout, bson.M{"id": shopID}, update); err != nil {
		return fmt.Errorf("error clearing FCM token for shop %s: %w", shopID, err)
	}
	return nil
}
