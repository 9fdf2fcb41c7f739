package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// CompletionLog is one recorded language-model exchange.
type CompletionLog struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Operation  string    `json:"operation"`
	Transcript string    `json:"transcript"`
	Response   string    `json:"response"`
	Metadata   string    `json:"metadata"`
	Rating     *int      `json:"rating,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
}

type CompletionMetadata struct {
	Model          string  `json:"model"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
	ResponseTimeMS int64   `json:"response_time_ms"`
	InputTokens    int64   `json:"input_tokens"`
	OutputTokens   int64   `json:"output_tokens"`
	Stage          int     `json:"stage,omitempty"`
	Error          *string `json:"error,omitempty"`
}

// CompletionLogger keeps an audit trail of completions in sqlite. It is not
// story state; nothing reads it back during play.
type CompletionLogger struct {
	db *sql.DB
}

func NewCompletionLogger(path string) (*CompletionLogger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows one writer; serialise through a single connection.
	db.SetMaxOpenConns(1)

	logger := &CompletionLogger{db: db}
	if err := logger.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return logger, nil
}

func (cl *CompletionLogger) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS completions (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		operation TEXT NOT NULL,
		transcript TEXT NOT NULL,
		response TEXT NOT NULL,
		metadata TEXT NOT NULL,
		rating INTEGER,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_completions_timestamp ON completions(timestamp);
	`

	_, err := cl.db.Exec(schema)
	return err
}

// LogCompletion stores one exchange and returns its id.
func (cl *CompletionLogger) LogCompletion(
	ctx context.Context,
	operation string,
	transcript interface{},
	response string,
	metadata CompletionMetadata,
) (string, error) {
	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcript: %w", err)
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	id := uuid.NewString()
	_, err = cl.db.ExecContext(ctx, `
		INSERT INTO completions (id, timestamp, operation, transcript, response, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, time.Now().UTC(), operation, string(transcriptJSON), response, string(metadataJSON))
	if err != nil {
		return "", fmt.Errorf("failed to insert completion: %w", err)
	}

	return id, nil
}

func (cl *CompletionLogger) GetRecentCompletions(ctx context.Context, limit int) ([]CompletionLog, error) {
	rows, err := cl.db.QueryContext(ctx, `
		SELECT id, timestamp, operation, transcript, response, metadata, rating, notes
		FROM completions
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []CompletionLog
	for rows.Next() {
		var c CompletionLog
		err := rows.Scan(&c.ID, &c.Timestamp, &c.Operation, &c.Transcript,
			&c.Response, &c.Metadata, &c.Rating, &c.Notes)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}

// ErrCompletionNotFound is returned when rating an unknown id.
var ErrCompletionNotFound = errors.New("completion not found")

func (cl *CompletionLogger) RateCompletion(ctx context.Context, id string, rating int, notes string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	res, err := cl.db.ExecContext(ctx, `
		UPDATE completions
		SET rating = ?, notes = ?
		WHERE id = ?
	`, rating, notesPtr, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCompletionNotFound
	}
	return nil
}

func (cl *CompletionLogger) Close() error {
	return cl.db.Close()
}
