package models

import (
	"time"
)

type Agent struct {
	AgentID        int64     `json:"agent_id" db:"agent_id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Phone          *string   `json:"phone" db:"phone"`
	Branch         *string   `json:"branch" db:"branch"`
	Specialization *string   `json:"specialization" db:"specialization"`
	CommissionRate float64   `json:"commission_rate" db:"commission_rate"`
	TotalSales     float64   `json:"total_sales" db:"total_sales"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (Agent) TableName() string {
	return "agents"
}

func (Agent) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS agents (
		agent_id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(user_id),
		name TEXT NOT NULL,
		phone TEXT,
		branch TEXT,
		specialization TEXT,
		commission_rate NUMERIC(5,2) NOT NULL DEFAULT 5.00,
		total_sales NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
