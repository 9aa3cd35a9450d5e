package models

import (
	"time"
)

type PurchasedPolicy struct {
	PurchasedPolicyID int64      `json:"purchased_policy_id" db:"purchased_policy_id"`
	CustomerID        int64      `json:"customer_id" db:"customer_id"`
	PolicyID          int64      `json:"policy_id" db:"policy_id"`
	StartDate         time.Time  `json:"start_date" db:"start_date"`
	EndDate           *time.Time `json:"end_date" db:"end_date"`
	PremiumAmount     float64    `json:"premium_amount" db:"premium_amount"`
	PaymentFrequency  string     `json:"payment_frequency" db:"payment_frequency"`
	Status            string     `json:"status" db:"status"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

func (PurchasedPolicy) TableName() string {
	return "purchased_policies"
}

func (PurchasedPolicy) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS purchased_policies (
		purchased_policy_id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(customer_id),
		policy_id BIGINT NOT NULL REFERENCES policies(policy_id),
		start_date DATE NOT NULL,
		end_date DATE,
		premium_amount NUMERIC(12,2) NOT NULL,
		payment_frequency TEXT NOT NULL DEFAULT 'yearly',
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
