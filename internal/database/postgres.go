package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Properties table (listing criteria mirror the encrypted on-chain
		// thresholds in plaintext)
		`CREATE TABLE IF NOT EXISTS properties (
			id VARCHAR(64) PRIMARY KEY,
			on_chain_id VARCHAR(128),
			owner_address VARCHAR(64) NOT NULL,
			address TEXT NOT NULL,
			rent INTEGER NOT NULL,
			type VARCHAR(32) NOT NULL,
			available_from VARCHAR(64) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			images TEXT[] NOT NULL DEFAULT '{}',
			min_income INTEGER NOT NULL DEFAULT 0,
			min_seniority_months INTEGER NOT NULL DEFAULT 0,
			require_savings_buffer BOOLEAN NOT NULL DEFAULT FALSE,
			require_guarantor BOOLEAN NOT NULL DEFAULT FALSE,
			employment_types TEXT[] NOT NULL DEFAULT '{}',
			features TEXT[] NOT NULL DEFAULT '{}',
			applicants_count INTEGER NOT NULL DEFAULT 0,
			max_missed_payments INTEGER NOT NULL DEFAULT 0,
			max_occupants INTEGER NOT NULL DEFAULT 1,
			min_tenancy_duration VARCHAR(64) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			amenities TEXT[] NOT NULL DEFAULT '{}',
			bedrooms INTEGER NOT NULL DEFAULT 0,
			bathrooms INTEGER NOT NULL DEFAULT 0,
			sq_ft INTEGER NOT NULL DEFAULT 0,
			year_built INTEGER NOT NULL DEFAULT 0,
			pet_policy VARCHAR(255) NOT NULL DEFAULT '',
			furnished_status VARCHAR(255) NOT NULL DEFAULT '',
			transport TEXT NOT NULL DEFAULT ''
		)`,

		// Applications table
		`CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY,
			property_id VARCHAR(64) NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			tenant_address VARCHAR(64) NOT NULL,
			status VARCHAR(32) NOT NULL,
			timestamp TIMESTAMP NOT NULL DEFAULT NOW(),
			anonymous_id VARCHAR(32) NOT NULL,
			occupants INTEGER NOT NULL DEFAULT 1,
			move_in_date VARCHAR(64) NOT NULL DEFAULT '',
			is_eligible_fhe BOOLEAN NOT NULL DEFAULT FALSE,
			doc_hash VARCHAR(128),
			verification_tx VARCHAR(128),
			is_verified_on_chain BOOLEAN NOT NULL DEFAULT FALSE,
			is_document_verified BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		// Confidential profiles table (address stored lowercased)
		`CREATE TABLE IF NOT EXISTS confidential_profiles (
			address VARCHAR(64) PRIMARY KEY,
			salary INTEGER NOT NULL DEFAULT 0,
			seniority_months INTEGER NOT NULL DEFAULT 0,
			savings INTEGER NOT NULL DEFAULT 0,
			guarantor_income INTEGER NOT NULL DEFAULT 0,
			missed_payments INTEGER NOT NULL DEFAULT 0,
			household_size INTEGER NOT NULL DEFAULT 0,
			sealed BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		// Indexes for the hot lookups
		`CREATE INDEX IF NOT EXISTS idx_applications_tenant ON applications(LOWER(tenant_address))`,
		`CREATE INDEX IF NOT EXISTS idx_applications_property ON applications(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties(LOWER(owner_address))`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
