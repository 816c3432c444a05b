package manifest

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pass2bw/constants"
	"pass2bw/internal/common"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	base_dir      TEXT NOT NULL,
	started_at    TEXT NOT NULL,
	finished_at   TEXT,
	scanned       INTEGER NOT NULL DEFAULT 0,
	matched       INTEGER NOT NULL DEFAULT 0,
	exported      INTEGER NOT NULL DEFAULT 0,
	failed        INTEGER NOT NULL DEFAULT 0,
	output_path   TEXT
);
CREATE TABLE IF NOT EXISTS entries (
	id            TEXT PRIMARY KEY,
	run_id        TEXT NOT NULL REFERENCES runs(id),
	source_path   TEXT NOT NULL,
	content_hash  TEXT,
	status        TEXT NOT NULL,
	error_message TEXT,
	processed_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_run ON entries(run_id);
`

// Store is a SQLite audit trail of conversion runs and per-entry outcomes.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the manifest database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "open manifest")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "ping manifest")
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "migrate manifest")
	}
	logger.Debug("manifest open", "path", path)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun inserts a new run row and returns its ID.
func (s *Store) BeginRun(ctx context.Context, baseDir string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, base_dir, started_at) VALUES (?, ?, ?)`,
		id.String(), baseDir, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return uuid.Nil, common.WrapError(err, "begin run")
	}
	return id, nil
}

// RunSummary carries the final counters for FinishRun.
type RunSummary struct {
	Scanned    uint32
	Matched    uint32
	Exported   uint32
	Failed     uint32
	OutputPath string
}

// FinishRun stamps the run row with its end time and counters.
func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, sum RunSummary) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, scanned = ?, matched = ?, exported = ?, failed = ?, output_path = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339),
		sum.Scanned, sum.Matched, sum.Exported, sum.Failed, sum.OutputPath,
		runID.String(),
	)
	return common.WrapError(err, "finish run")
}

// RecordEntry appends one per-entry outcome to the run.
func (s *Store) RecordEntry(ctx context.Context, runID uuid.UUID, sourcePath, hashHex string, status constants.EntryStatus, errMsg string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, run_id, source_path, content_hash, status, error_message, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), runID.String(), sourcePath, hashHex, string(status), errMsg,
		time.Now().UTC().Format(time.RFC3339),
	)
	return common.WrapError(err, "record entry")
}
