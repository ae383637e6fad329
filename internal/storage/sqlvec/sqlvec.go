package sqlvec

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/0x5457/codesearch/internal/models"
	"github.com/0x5457/codesearch/internal/storage"
	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

// Neighbor is one nearest-neighbour hit from a snapshot.
type Neighbor struct {
	ID        string  `json:"id"`
	FilePath  string  `json:"filePath"`
	StartLine int     `json:"startLine"`
	EndLine   int     `json:"endLine"`
	Kind      string  `json:"kind"`
	Symbols   string  `json:"symbols"`
	Distance  float32 `json:"distance"`
}

// Store exports chunk embeddings into a sqlite-vec table so a finished run
// can be inspected offline.
type Store struct {
	db        *sql.DB
	dimension int
}

func New(path string, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid vector dimension %d", dimension)
	}
	// enable sqlite-vec for all future connections
	sqlite_vec.Auto()
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, dimension); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, dimension: dimension}, nil
}

func migrate(db *sql.DB, dim int) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS vec_chunks (
		rid INTEGER PRIMARY KEY,
		id TEXT UNIQUE NOT NULL,
		file TEXT NOT NULL,
		start_line INTEGER,
		end_line INTEGER,
		kind TEXT,
		symbols TEXT
	);`); err != nil {
		return err
	}
	// vec0 virtual table holds embeddings; dimension is fixed per table.
	_, err := db.Exec(fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS vec_embeddings USING vec0(
		embedding float32[%d]
	);`, dim))
	return err
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Dimension() int { return s.dimension }

// WriteSnapshot replaces the stored vectors. Chunks without an embedding are
// skipped.
func (s *Store) WriteSnapshot(chunks []*models.CodeChunk) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM vec_embeddings`); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM vec_chunks`); err != nil {
		_ = tx.Rollback()
		return err
	}
	vecStmt, err := tx.Prepare(`INSERT INTO vec_embeddings(rowid, embedding) VALUES(?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = vecStmt.Close() }()
	chunkStmt, err := tx.Prepare(`INSERT INTO vec_chunks(rid,id,file,start_line,end_line,kind,symbols)
		VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = chunkStmt.Close() }()

	var rid int64
	for _, ch := range chunks {
		if len(ch.Embedding) == 0 {
			continue
		}
		if len(ch.Embedding) != s.dimension {
			_ = tx.Rollback()
			return fmt.Errorf("chunk %s: embedding dimension %d, want %d",
				ch.ID, len(ch.Embedding), s.dimension)
		}
		v, err := sqlite_vec.SerializeFloat32(ch.Embedding)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		rid++
		if _, err := vecStmt.Exec(rid, v); err != nil {
			_ = tx.Rollback()
			return err
		}
		md := ch.Metadata
		if _, err := chunkStmt.Exec(
			rid, ch.ID, md.FilePath, md.StartLine, md.EndLine, string(ch.Kind),
			strings.Join(md.Symbols, " "),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Nearest returns the topK stored chunks closest to embedding.
func (s *Store) Nearest(embedding []float32, topK int) ([]Neighbor, error) {
	if topK <= 0 {
		topK = 5
	}
	v, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return nil, err
	}
	// KNN via MATCH ... ORDER BY distance using sqlite-vec
	rows, err := s.db.Query(`
		WITH knn AS (
			SELECT rowid, distance
			FROM vec_embeddings
			WHERE embedding MATCH ?
			ORDER BY distance
			LIMIT ?
		)
		SELECT c.id, c.file, c.start_line, c.end_line, c.kind, c.symbols, k.distance
		FROM knn k
		JOIN vec_chunks c ON c.rid = k.rowid
		ORDER BY k.distance ASC
	`, v, topK)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var hits []Neighbor
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(
			&n.ID, &n.FilePath, &n.StartLine, &n.EndLine, &n.Kind, &n.Symbols, &n.Distance,
		); err != nil {
			return nil, err
		}
		hits = append(hits, n)
	}
	return hits, rows.Err()
}

var _ storage.SnapshotWriter = (*Store)(nil)
