package models

import (
	"time"
)

type Customer struct {
	CustomerID  int64      `json:"customer_id" db:"customer_id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	Name        string     `json:"name" db:"name"`
	Gender      *string    `json:"gender" db:"gender"`
	Phone       *string    `json:"phone" db:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth" db:"date_of_birth"`
	Address     *string    `json:"address" db:"address"`
	City        *string    `json:"city" db:"city"`
	State       *string    `json:"state" db:"state"`
	Pincode     *string    `json:"pincode" db:"pincode"`
	IDNumber    *string    `json:"id_number" db:"id_number"`
	AgentID     *int64     `json:"agent_id" db:"agent_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

func (Customer) TableName() string {
	return "customers"
}

func (Customer) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS customers (
		customer_id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(user_id),
		name TEXT NOT NULL,
		gender TEXT,
		phone TEXT,
		date_of_birth DATE,
		address TEXT,
		city TEXT,
		state TEXT,
		pincode TEXT,
		id_number TEXT,
		agent_id BIGINT REFERENCES agents(agent_id),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
