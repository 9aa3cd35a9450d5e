package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SamreenA11/healthsure-management/models"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type DB struct {
	*sql.DB
}

var Database *DB

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Database = &DB{db}
	return Database, nil
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables() error {
	// Order matters: foreign keys point backwards in this list
	tables := []interface{}{
		models.User{},
		models.Agent{},
		models.Customer{},
		models.Policy{},
		models.HealthPolicy{},
		models.LifePolicy{},
		models.FamilyPolicy{},
		models.PurchasedPolicy{},
		models.Claim{},
		models.Payment{},
		models.SupportTicket{},
	}

	for _, model := range tables {
		if tableModel, ok := model.(interface {
			TableName() string
			CreateTableSQL() string
		}); ok {
			tableName := tableModel.TableName()
			if _, err := db.Exec(tableModel.CreateTableSQL()); err != nil {
				return fmt.Errorf("failed to create table %s: %w", tableName, err)
			}
			logrus.WithField("table", tableName).Debug("table ensured")
		}
	}

	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("database schema ready")
	return nil
}

// runMigrations handles schema updates for existing tables
func (db *DB) runMigrations() error {
	migrations := []string{
		// Columns added after the initial schema shipped
		`ALTER TABLE agents ADD COLUMN IF NOT EXISTS specialization TEXT;`,
		`ALTER TABLE agents ADD COLUMN IF NOT EXISTS total_sales NUMERIC(14,2) NOT NULL DEFAULT 0;`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS id_number TEXT;`,
		`ALTER TABLE claims ADD COLUMN IF NOT EXISTS remarks TEXT;`,
		`ALTER TABLE claims ADD COLUMN IF NOT EXISTS reviewed_by BIGINT REFERENCES users(user_id);`,
		`ALTER TABLE payments ADD COLUMN IF NOT EXISTS claim_id BIGINT REFERENCES claims(claim_id);`,
		`ALTER TABLE payments ADD COLUMN IF NOT EXISTS payment_type TEXT NOT NULL DEFAULT 'premium';`,
		`ALTER TABLE support_tickets ADD COLUMN IF NOT EXISTS resolution TEXT;`,
		`ALTER TABLE support_tickets ADD COLUMN IF NOT EXISTS resolved_at TIMESTAMP WITH TIME ZONE;`,

		// Lookup indexes for the denormalized list views
		`CREATE INDEX IF NOT EXISTS idx_customers_agent_id ON customers(agent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_customers_user_id ON customers(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_agents_user_id ON agents(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_purchased_policies_customer_id ON purchased_policies(customer_id);`,
		`CREATE INDEX IF NOT EXISTS idx_claims_purchased_policy_id ON claims(purchased_policy_id);`,
		`CREATE INDEX IF NOT EXISTS idx_claims_status ON claims(status);`,
		`CREATE INDEX IF NOT EXISTS idx_payments_purchased_policy_id ON payments(purchased_policy_id);`,
		`CREATE INDEX IF NOT EXISTS idx_payments_payment_date ON payments(payment_date);`,
		`CREATE INDEX IF NOT EXISTS idx_support_tickets_customer_id ON support_tickets(customer_id);`,

		// Backfill rows that predate the status columns
		`UPDATE users SET status = 'active' WHERE status IS NULL OR status = '';`,

		// Create an admin user if none exists (password: change on first login)
		`INSERT INTO users (email, password_hash, role, status)
		 SELECT 'admin@healthsure.local', '$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy', 'admin', 'active'
		 WHERE NOT EXISTS (SELECT 1 FROM users WHERE role = 'admin');`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			logrus.WithFields(logrus.Fields{"migration": i + 1, "error": err}).Warn("migration failed, continuing")
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
