package domain

import "time"

// Customer клиент салона
type Customer struct {
	ID        int64
	FullName  string
	Phone     *string
	Email     *string
	CreatedAt time.Time
}
