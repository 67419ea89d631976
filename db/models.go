package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jochie/teletekst/models"
)

// StoredSnapshot identifies one persisted snapshot
type StoredSnapshot struct {
	ID      int
	TakenAt time.Time
}

// SaveSnapshot persists a snapshot and its pages in one transaction
func (db *DB) SaveSnapshot(snapshot models.Snapshot) (*StoredSnapshot, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stored StoredSnapshot
	err = tx.QueryRow(`
		INSERT INTO snapshots DEFAULT VALUES
		RETURNING id, taken_at
	`).Scan(&stored.ID, &stored.TakenAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for _, number := range snapshot.Numbers() {
		page := snapshot[number]
		_, err = tx.Exec(`
			INSERT INTO snapshot_pages (snapshot_id, page_number, title, content)
			VALUES ($1, $2, $3, $4)
		`, stored.ID, page.Number, page.Title, strings.Join(page.Content, "\n"))
		if err != nil {
			return nil, fmt.Errorf("failed to insert page %d: %w", page.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return &stored, nil
}

// LoadLatestSnapshot returns the most recently persisted snapshot, or nil if
// none has been stored yet
func (db *DB) LoadLatestSnapshot() (models.Snapshot, *StoredSnapshot, error) {
	var stored StoredSnapshot
	err := db.conn.QueryRow(`
		SELECT id, taken_at
		FROM snapshots
		ORDER BY taken_at DESC, id DESC
		LIMIT 1
	`).Scan(&stored.ID, &stored.TakenAt)

	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT page_number, title, content
		FROM snapshot_pages
		WHERE snapshot_id = $1
		ORDER BY page_number
	`, stored.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot pages: %w", err)
	}
	defer rows.Close()

	snapshot := models.Snapshot{}
	for rows.Next() {
		var number int
		var title, content string
		if err := rows.Scan(&number, &title, &content); err != nil {
			return nil, nil, fmt.Errorf("failed to scan snapshot page: %w", err)
		}
		page, err := models.NewPage(number, title, splitContent(content))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid stored page %d: %w", number, err)
		}
		snapshot[page.Number] = page
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate snapshot pages: %w", err)
	}

	return snapshot, &stored, nil
}

// PruneSnapshots deletes all but the newest keep snapshots
func (db *DB) PruneSnapshots(keep int) error {
	_, err := db.conn.Exec(`
		DELETE FROM snapshots
		WHERE id NOT IN (
			SELECT id FROM snapshots
			ORDER BY taken_at DESC, id DESC
			LIMIT $1
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

// GetPostState returns the notification message ID associated with the given
// title and page number, or 0 if there is none
func (db *DB) GetPostState(title string, pageNumber int) (int, error) {
	var messageID int
	err := db.conn.QueryRow(`
		SELECT message_id
		FROM post_state
		WHERE title = $1 AND page_number = $2
	`, title, pageNumber).Scan(&messageID)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get post state: %w", err)
	}
	return messageID, nil
}

// SetPostState records the notification message ID for the given title and
// page number, replacing any previous entry
func (db *DB) SetPostState(title string, pageNumber, messageID int) error {
	_, err := db.conn.Exec(`
		INSERT INTO post_state (title, page_number, message_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (title, page_number)
		DO UPDATE SET message_id = $3, updated_at = CURRENT_TIMESTAMP
	`, title, pageNumber, messageID)
	if err != nil {
		return fmt.Errorf("failed to set post state: %w", err)
	}
	return nil
}

// ClearPostState removes the entry for the given title and page number
func (db *DB) ClearPostState(title string, pageNumber int) error {
	_, err := db.conn.Exec(`
		DELETE FROM post_state
		WHERE title = $1 AND page_number = $2
	`, title, pageNumber)
	if err != nil {
		return fmt.Errorf("failed to clear post state: %w", err)
	}
	return nil
}

// splitContent reverses the joining done in SaveSnapshot. An empty string
// maps back to no lines at all.
func splitContent(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
