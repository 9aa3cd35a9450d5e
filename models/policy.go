package models

import (
	"time"
)

type Policy struct {
	PolicyID       int64     `json:"policy_id" db:"policy_id"`
	Name           string    `json:"name" db:"name"`
	Type           string    `json:"type" db:"type"`
	Description    *string   `json:"description" db:"description"`
	BasePremium    float64   `json:"base_premium" db:"base_premium"`
	CoverageAmount float64   `json:"coverage_amount" db:"coverage_amount"`
	DurationYears  int       `json:"duration_years" db:"duration_years"`
	MinAge         *int      `json:"min_age" db:"min_age"`
	MaxAge         *int      `json:"max_age" db:"max_age"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (Policy) TableName() string {
	return "policies"
}

func (Policy) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS policies (
		policy_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT,
		base_premium NUMERIC(12,2) NOT NULL,
		coverage_amount NUMERIC(14,2) NOT NULL,
		duration_years INTEGER NOT NULL DEFAULT 1,
		min_age INTEGER,
		max_age INTEGER,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

// HealthPolicy extends a policy of type 'health' 1:1.
type HealthPolicy struct {
	PolicyID         int64   `json:"policy_id" db:"policy_id"`
	RoomRentLimit    float64 `json:"room_rent_limit" db:"room_rent_limit"`
	PreExistingCover bool    `json:"pre_existing_cover" db:"pre_existing_cover"`
	MaternityCover   bool    `json:"maternity_cover" db:"maternity_cover"`
	NetworkHospitals int     `json:"network_hospitals" db:"network_hospitals"`
}

func (HealthPolicy) TableName() string {
	return "health_policies"
}

func (HealthPolicy) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS health_policies (
		policy_id BIGINT PRIMARY KEY REFERENCES policies(policy_id),
		room_rent_limit NUMERIC(12,2) NOT NULL DEFAULT 0,
		pre_existing_cover BOOLEAN NOT NULL DEFAULT FALSE,
		maternity_cover BOOLEAN NOT NULL DEFAULT FALSE,
		network_hospitals INTEGER NOT NULL DEFAULT 0
	);`
}

// LifePolicy extends a policy of type 'life' 1:1.
type LifePolicy struct {
	PolicyID        int64   `json:"policy_id" db:"policy_id"`
	SumAssured      float64 `json:"sum_assured" db:"sum_assured"`
	MaturityBenefit bool    `json:"maturity_benefit" db:"maturity_benefit"`
	AccidentalCover bool    `json:"accidental_cover" db:"accidental_cover"`
}

func (LifePolicy) TableName() string {
	return "life_policies"
}

func (LifePolicy) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS life_policies (
		policy_id BIGINT PRIMARY KEY REFERENCES policies(policy_id),
		sum_assured NUMERIC(14,2) NOT NULL DEFAULT 0,
		maturity_benefit BOOLEAN NOT NULL DEFAULT FALSE,
		accidental_cover BOOLEAN NOT NULL DEFAULT FALSE
	);`
}

// FamilyPolicy extends a policy of type 'family' 1:1.
type FamilyPolicy struct {
	PolicyID          int64   `json:"policy_id" db:"policy_id"`
	MaxMembers        int     `json:"max_members" db:"max_members"`
	PerMemberCoverage float64 `json:"per_member_coverage" db:"per_member_coverage"`
	ChildAgeLimit     int     `json:"child_age_limit" db:"child_age_limit"`
}

func (FamilyPolicy) TableName() string {
	return "family_policies"
}

func (FamilyPolicy) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS family_policies (
		policy_id BIGINT PRIMARY KEY REFERENCES policies(policy_id),
		max_members INTEGER NOT NULL DEFAULT 4,
		per_member_coverage NUMERIC(14,2) NOT NULL DEFAULT 0,
		child_age_limit INTEGER NOT NULL DEFAULT 25
	);`
}
