package models

import (
	"time"
)

type SupportTicket struct {
	TicketID    int64      `json:"ticket_id" db:"ticket_id"`
	CustomerID  int64      `json:"customer_id" db:"customer_id"`
	Subject     string     `json:"subject" db:"subject"`
	Description string     `json:"description" db:"description"`
	Priority    string     `json:"priority" db:"priority"`
	Status      string     `json:"status" db:"status"`
	AssignedTo  *int64     `json:"assigned_to" db:"assigned_to"`
	Resolution  *string    `json:"resolution" db:"resolution"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at" db:"resolved_at"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

func (SupportTicket) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS support_tickets (
		ticket_id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(customer_id),
		subject TEXT NOT NULL,
		description TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'open',
		assigned_to BIGINT REFERENCES agents(agent_id),
		resolution TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		resolved_at TIMESTAMP WITH TIME ZONE
	);`
}
