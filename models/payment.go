package models

import (
	"time"
)

type Payment struct {
	PaymentID         int64     `json:"payment_id" db:"payment_id"`
	PurchasedPolicyID *int64    `json:"purchased_policy_id" db:"purchased_policy_id"`
	ClaimID           *int64    `json:"claim_id" db:"claim_id"`
	Amount            float64   `json:"amount" db:"amount"`
	PaymentMethod     string    `json:"payment_method" db:"payment_method"`
	PaymentType       string    `json:"payment_type" db:"payment_type"`
	TransactionID     string    `json:"transaction_id" db:"transaction_id"`
	Status            string    `json:"status" db:"status"`
	PaymentDate       time.Time `json:"payment_date" db:"payment_date"`
}

func (Payment) TableName() string {
	return "payments"
}

func (Payment) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS payments (
		payment_id BIGSERIAL PRIMARY KEY,
		purchased_policy_id BIGINT REFERENCES purchased_policies(purchased_policy_id),
		claim_id BIGINT REFERENCES claims(claim_id),
		amount NUMERIC(12,2) NOT NULL,
		payment_method TEXT NOT NULL,
		payment_type TEXT NOT NULL DEFAULT 'premium',
		transaction_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'completed',
		payment_date TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
