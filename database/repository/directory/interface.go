package directoryRepo

import (
	"context"

	"trimly/models"
)

// DirectoryRepository is the read-mostly identity store for shops, employees
// and customers. The scheduling core only reads names, active flags, service
// menus and push tokens; shop/employee CRUD lives in a separate admin surface.
type DirectoryRepository interface {
	GetShop(ctx context.Context, shopID string) (*models.Shop, error)
	GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error)
	ListEmployeesByShop(ctx context.Context, shopID string) ([]models.Employee, error)
	GetCustomer(ctx context.Context, customerID string) (*models.Customer, error)

	// ClearCustomerFCMToken prunes a dead push token after FCM reports the
	// device is permanently unreachable.
	ClearCustomerFCMToken(ctx context.Context, customerID string) error
	ClearShopFCMToken(ctx context.Context, shopID string) error
}
