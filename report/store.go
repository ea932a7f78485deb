package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS clusterings (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    segment    TEXT NOT NULL,
    n_clusters INTEGER NOT NULL,
    silhouette REAL NOT NULL,
    centroids  BLOB,
    created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS evaluations (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    segment     TEXT NOT NULL,
    k           INTEGER NOT NULL,
    folds       INTEGER NOT NULL,
    cv_accuracy REAL NOT NULL,
    auc         REAL NOT NULL,
    confusion   TEXT,
    report      TEXT,
    created_at  TIMESTAMP NOT NULL
);
`

// ClusteringResult is one persisted clustering outcome for a data segment.
type ClusteringResult struct {
	Segment    string
	Clusters   int
	Silhouette float64
	Centroids  [][]float32
	CreatedAt  time.Time
}

// EvaluationResult is one persisted classifier evaluation for a data
// segment.
type EvaluationResult struct {
	Segment    string
	K          int
	Folds      int
	CVAccuracy float64
	AUC        float64
	Confusion  string
	Report     string
	CreatedAt  time.Time
}

// Store is a SQLite-backed sink for analysis results.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at dsn and ensures the result
// schema exists. Pass ":memory:" for an in-memory store.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("report: open %s: %w", dsn, err)
	}
	store, err := NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an existing database handle, ensuring the result schema.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("report: db is nil")
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("report: ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// SaveClustering persists a clustering result and returns its row id. A
// zero CreatedAt is filled with the current time.
func (s *Store) SaveClustering(ctx context.Context, r ClusteringResult) (int64, error) {
	if r.Segment == "" {
		return 0, fmt.Errorf("report: clustering result needs a segment name")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	blob, err := EncodeCentroids(r.Centroids)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO clusterings(segment, n_clusters, silhouette, centroids, created_at) VALUES(?, ?, ?, ?, ?)`,
		r.Segment, r.Clusters, r.Silhouette, blob, r.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SaveEvaluation persists a classifier evaluation and returns its row id. A
// zero CreatedAt is filled with the current time.
func (s *Store) SaveEvaluation(ctx context.Context, r EvaluationResult) (int64, error) {
	if r.Segment == "" {
		return 0, fmt.Errorf("report: evaluation result needs a segment name")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations(segment, k, folds, cv_accuracy, auc, confusion, report, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Segment, r.K, r.Folds, r.CVAccuracy, r.AUC, r.Confusion, r.Report, r.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Clusterings returns the stored clustering results for a segment in
// insertion order. An empty segment returns every row.
func (s *Store) Clusterings(ctx context.Context, segment string) ([]ClusteringResult, error) {
	rows, err := s.query(ctx,
		`SELECT segment, n_clusters, silhouette, centroids, created_at FROM clusterings`, segment)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClusteringResult
	for rows.Next() {
		var r ClusteringResult
		var blob []byte
		if err := rows.Scan(&r.Segment, &r.Clusters, &r.Silhouette, &blob, &r.CreatedAt); err != nil {
			return nil, err
		}
		if r.Centroids, err = DecodeCentroids(blob); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Evaluations returns the stored classifier evaluations for a segment in
// insertion order. An empty segment returns every row.
func (s *Store) Evaluations(ctx context.Context, segment string) ([]EvaluationResult, error) {
	rows, err := s.query(ctx,
		`SELECT segment, k, folds, cv_accuracy, auc, confusion, report, created_at FROM evaluations`, segment)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EvaluationResult
	for rows.Next() {
		var r EvaluationResult
		if err := rows.Scan(&r.Segment, &r.K, &r.Folds, &r.CVAccuracy, &r.AUC, &r.Confusion, &r.Report, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) query(ctx context.Context, base, segment string) (*sql.Rows, error) {
	if segment == "" {
		return s.db.QueryContext(ctx, base+` ORDER BY id`)
	}
	return s.db.QueryContext(ctx, base+` WHERE segment = ? ORDER BY id`, segment)
}
