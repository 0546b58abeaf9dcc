package models

// Service is one offering on an employee's menu (e.g. "Haircut", 30 min).
type Service struct {
	ID              string `bson:"id" json:"id"`
	Name            string `bson:"name" json:"name"`
	DurationMinutes int    `bson:"duration_minutes" json:"duration_minutes"`
}

// Shop is a walk-in service shop. Read-only input to the scheduling core;
// shop CRUD lives outside this service.
type Shop struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Phone    string `bson:"phone" json:"phone"`
	Address  string `bson:"address" json:"address"`
	Active   bool   `bson:"active" json:"active"`
	FCMToken string `bson:"fcm_token,omitempty" json:"-"` // Push target for the shop dashboard
}

// Employee is a single service resource inside a shop. Each employee's
// timeline is scheduled independently of the others.
type Employee struct {
	ID       string    `bson:"id" json:"id"`
	ShopID   string    `bson:"shop_id" json:"shop_id"`
	Name     string    `bson:"name" json:"name"`
	Active   bool      `bson:"active" json:"active"`
	Services []Service `bson:"services" json:"services"` // Menu this employee can perform
}

// ServiceByID returns the employee's service with the given id, if offered.
func (e *Employee) ServiceByID(id string) (Service, bool) {
	for _, svc := range e.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

// Customer holds the directory fields the scheduler needs: a display name for
// queue status lines and a push token for notifications.
type Customer struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Phone    string `bson:"phone" json:"phone"`
	Active   bool   `bson:"active" json:"active"`
	FCMToken string `bson:"fcm_token,omitempty" json:"-"`
}
