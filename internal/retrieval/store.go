package retrieval

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/teemow/inboxagent/internal/mail"
)

// DefaultNamespace is used when none is configured.
const DefaultNamespace = "inbox"

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Store is a SQLite-backed vector store.
type Store struct {
	db        *sql.DB
	embedder  Embedder
	namespace string
}

// Open opens or creates the vector database at path.
func Open(path, namespace string, embedder Embedder) (*Store, error) {
	if embedder == nil {
		return nil, errors.New("retrieval: embedder is required")
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers; one connection avoids busy errors.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, embedder: embedder, namespace: namespace}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	stmts := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		`CREATE TABLE IF NOT EXISTS vectors (
			id TEXT PRIMARY KEY,
			namespace TEXT NOT NULL,
			text TEXT NOT NULL,
			embedding BLOB NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vectors_namespace ON vectors(namespace)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Index replaces the namespace's content with the embedding of e.
func (s *Store) Index(ctx context.Context, e mail.Email) error {
	text := e.JSON()
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed email: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vectors WHERE namespace = ?`, s.namespace); err != nil {
		return fmt.Errorf("clear namespace: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO vectors (id, namespace, text, embedding, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), s.namespace, text, encodeVector(vec), time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert vector: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Clear removes every vector of the namespace.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM vectors WHERE namespace = ?`, s.namespace); err != nil {
		return fmt.Errorf("clear namespace: %w", err)
	}
	return nil
}

type match struct {
	text  string
	score float64
}

// Retrieve embeds prompt and returns a JSON array with the texts of the topK
// most similar vectors, best first.
func (s *Store) Retrieve(ctx context.Context, prompt string, topK int) (string, error) {
	if topK <= 0 {
		topK = 1
	}
	query, err := s.embedder.Embed(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("embed prompt: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT text, embedding FROM vectors WHERE namespace = ?`, s.namespace)
	if err != nil {
		return "", fmt.Errorf("query vectors: %w", err)
	}
	defer rows.Close()

	var matches []match
	for rows.Next() {
		var (
			text string
			blob []byte
		)
		if err := rows.Scan(&text, &blob); err != nil {
			return "", fmt.Errorf("scan vector: %w", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return "", err
		}
		matches = append(matches, match{text: text, score: cosine(query, vec)})
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("read vectors: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > topK {
		matches = matches[:topK]
	}

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.text)
	}
	out, err := json.Marshal(texts)
	if err != nil {
		return "", fmt.Errorf("encode context: %w", err)
	}
	return string(out), nil
}

// encodeVector stores a vector as little-endian float32 values.
func encodeVector(v []float64) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(float32(f)))
	}
	return b
}

func decodeVector(b []byte) ([]float64, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob length %d", len(b))
	}
	v := make([]float64, len(b)/4)
	for i := range v {
		v[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return v, nil
}

// cosine returns the cosine similarity of a and b, or 0 when either is a
// zero vector or their lengths differ.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
