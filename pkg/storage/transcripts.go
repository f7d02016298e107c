// Package storage provides the server-side transcript cache. Caption
// downloads are by far the slowest and most quota-hungry part of a search,
// and a video's transcript rarely changes, so fetched transcripts are kept
// in a local sqlite database, zstd-compressed, keyed by video ID.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// TranscriptStore caches video transcripts with an optional TTL.
type TranscriptStore struct {
	db      *sql.DB
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewTranscriptStore opens (and if needed creates) the cache database at
// dbPath. ttl controls how long entries stay fresh; zero disables expiry.
func NewTranscriptStore(dbPath string, ttl time.Duration) (*TranscriptStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Apply performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transcripts (
			video_id TEXT PRIMARY KEY,
			transcript BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		)
	`); err != nil {
		return nil, fmt.Errorf("creating transcripts table: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	return &TranscriptStore{
		db:      db,
		ttl:     ttl,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Get returns the cached transcript for videoID. ok is false when the entry
// is absent or stale; stale entries are removed on the way out.
func (s *TranscriptStore) Get(ctx context.Context, videoID string) (string, bool, error) {
	var compressed []byte
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT transcript, fetched_at FROM transcripts WHERE video_id = ?",
		videoID,
	).Scan(&compressed, &fetchedAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying transcript: %w", err)
	}

	if s.ttl > 0 && time.Since(time.Unix(fetchedAt, 0)) > s.ttl {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM transcripts WHERE video_id = ?", videoID); err != nil {
			return "", false, fmt.Errorf("evicting stale transcript: %w", err)
		}
		return "", false, nil
	}

	transcript, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return "", false, fmt.Errorf("decompressing transcript: %w", err)
	}
	return string(transcript), true, nil
}

// Put stores the transcript for videoID, replacing any previous entry.
func (s *TranscriptStore) Put(ctx context.Context, videoID, transcript string) error {
	compressed := s.encoder.EncodeAll([]byte(transcript), nil)

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO transcripts (video_id, transcript, fetched_at) VALUES (?, ?, ?)",
		videoID, compressed, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing transcript: %w", err)
	}
	return nil
}

// Stats reports the number of cached transcripts.
func (s *TranscriptStore) Stats(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transcripts").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting transcripts: %w", err)
	}
	return count, nil
}

func (s *TranscriptStore) Close() error {
	s.decoder.Close()
	if err := s.encoder.Close(); err != nil {
		return fmt.Errorf("closing zstd encoder: %w", err)
	}
	return s.db.Close()
}
