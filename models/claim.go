package models

import (
	"time"
)

type Claim struct {
	ClaimID           int64      `json:"claim_id" db:"claim_id"`
	PurchasedPolicyID int64      `json:"purchased_policy_id" db:"purchased_policy_id"`
	ClaimAmount       float64    `json:"claim_amount" db:"claim_amount"`
	IncidentDate      time.Time  `json:"incident_date" db:"incident_date"`
	Description       *string    `json:"description" db:"description"`
	HospitalName      *string    `json:"hospital_name" db:"hospital_name"`
	Status            string     `json:"status" db:"status"`
	SettlementAmount  *float64   `json:"settlement_amount" db:"settlement_amount"`
	SettlementDate    *time.Time `json:"settlement_date" db:"settlement_date"`
	Remarks           *string    `json:"remarks" db:"remarks"`
	ReviewedBy        *int64     `json:"reviewed_by" db:"reviewed_by"`
	ClaimDate         time.Time  `json:"claim_date" db:"claim_date"`
}

func (Claim) TableName() string {
	return "claims"
}

func (Claim) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS claims (
		claim_id BIGSERIAL PRIMARY KEY,
		purchased_policy_id BIGINT NOT NULL REFERENCES purchased_policies(purchased_policy_id),
		claim_amount NUMERIC(12,2) NOT NULL,
		incident_date DATE NOT NULL,
		description TEXT,
		hospital_name TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		settlement_amount NUMERIC(12,2),
		settlement_date TIMESTAMP WITH TIME ZONE,
		remarks TEXT,
		reviewed_by BIGINT REFERENCES users(user_id),
		claim_date TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
