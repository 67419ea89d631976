package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection
func NewDB() (*DB, error) {
	// Get connection string from environment variable
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		// Try to build from individual components
		host := getEnvOrDefault("DB_HOST", "localhost")
		port := getEnvOrDefault("DB_PORT", "5432")
		user := getEnvOrDefault("DB_USER", "teletekst")
		password := getEnvOrDefault("DB_PASSWORD", "")
		dbname := getEnvOrDefault("DB_NAME", "teletekst")
		sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=teletekst",
			host, port, user, password, dbname, sslmode)
	}

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}

	// Initialize schema
	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// getEnvOrDefault falls back to the default only when the variable is not set
// at all; an explicitly empty value (e.g. a blank password) is kept
func getEnvOrDefault(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return value
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables if they don't exist
func (db *DB) initSchema() error {
	// Try to create schema if it doesn't exist (but don't fail if we don't
	// have permission)
	_, err := db.conn.Exec(`CREATE SCHEMA IF NOT EXISTS teletekst`)
	if err != nil {
		log.Printf("Note: Could not create schema (may already exist): %v\n", err)
	}

	_, err = db.conn.Exec(`SET search_path TO teletekst`)
	if err != nil {
		return fmt.Errorf("failed to set search path: %w", err)
	}

	// Create snapshots table
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id SERIAL PRIMARY KEY,
			taken_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}

	// Create snapshot_pages table
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snapshot_pages (
			id SERIAL PRIMARY KEY,
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			page_number INTEGER NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			CONSTRAINT valid_page_number CHECK (page_number BETWEEN 100 AND 999),
			UNIQUE (snapshot_id, page_number)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshot_pages table: %w", err)
	}

	// Create post_state table, tracking which notification message belongs
	// to each (title, page number) combination
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS post_state (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			page_number INTEGER NOT NULL,
			message_id INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (title, page_number)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create post_state table: %w", err)
	}

	// Create indexes
	_, err = db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_snapshot_pages_snapshot_id ON snapshot_pages(snapshot_id)`)
	if err != nil {
		log.Printf("Warning: Failed to create index on snapshot_pages.snapshot_id: %v\n", err)
	}

	_, err = db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at)`)
	if err != nil {
		log.Printf("Warning: Failed to create index on snapshots.taken_at: %v\n", err)
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// GetConn returns the underlying database connection
func (db *DB) GetConn() *sql.DB {
	return db.conn
}
