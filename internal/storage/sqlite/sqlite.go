package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/0x5457/codesearch/internal/models"
	"github.com/0x5457/codesearch/internal/storage"
	_ "modernc.org/sqlite"
)

// SnapshotStore keeps an inspection copy of the chunks of the last exported
// run. It is written after indexing and never feeds the live index.
type SnapshotStore struct {
	db *sql.DB
}

func New(path string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SnapshotStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		file TEXT NOT NULL,
		file_name TEXT NOT NULL,
		language TEXT,
		kind TEXT NOT NULL,
		start_line INTEGER NOT NULL,
		end_line INTEGER NOT NULL,
		content TEXT,
		imports TEXT,
		exports TEXT,
		last_modified INTEGER
	);
	CREATE TABLE IF NOT EXISTS symbols (
		chunk_id TEXT NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_file ON chunks(file);
	CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
	CREATE INDEX IF NOT EXISTS idx_symbols_chunk ON symbols(chunk_id);`)
	return err
}

func (s *SnapshotStore) Close() error { return s.db.Close() }

// WriteSnapshot replaces the stored snapshot with chunks.
func (s *SnapshotStore) WriteSnapshot(chunks []*models.CodeChunk) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM symbols; DELETE FROM chunks;`); err != nil {
		_ = tx.Rollback()
		return err
	}
	chunkStmt, err := tx.Prepare(`INSERT INTO chunks(
		id,file,file_name,language,kind,start_line,end_line,content,imports,exports,last_modified
	) VALUES(?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = chunkStmt.Close() }()
	symStmt, err := tx.Prepare(`INSERT INTO symbols(chunk_id,name,position) VALUES(?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = symStmt.Close() }()

	for _, ch := range chunks {
		md := ch.Metadata
		imports, err := json.Marshal(md.Imports)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		exports, err := json.Marshal(md.Exports)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := chunkStmt.Exec(
			ch.ID, md.FilePath, md.FileName, md.Language, string(ch.Kind),
			md.StartLine, md.EndLine, ch.Content, string(imports), string(exports),
			md.LastModified.UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert chunk %s: %w", ch.ID, err)
		}
		for i, name := range md.Symbols {
			if _, err := symStmt.Exec(ch.ID, name, i); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
	}
	return tx.Commit()
}

// FindBySymbol returns the chunks declaring name, in file and line order.
func (s *SnapshotStore) FindBySymbol(name string) ([]models.CodeChunk, error) {
	rows, err := s.db.Query(`SELECT DISTINCT c.id,c.file,c.file_name,c.language,c.kind,c.start_line,c.end_line,
		c.content,c.imports,c.exports
		FROM symbols s JOIN chunks c ON c.id = s.chunk_id
		WHERE s.name = ?
		ORDER BY c.file, c.start_line`, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []models.CodeChunk
	for rows.Next() {
		var ch models.CodeChunk
		var kind, imports, exports string
		if err := rows.Scan(
			&ch.ID, &ch.Metadata.FilePath, &ch.Metadata.FileName, &ch.Metadata.Language, &kind,
			&ch.Metadata.StartLine, &ch.Metadata.EndLine, &ch.Content, &imports, &exports,
		); err != nil {
			return nil, err
		}
		ch.Kind = models.StringToChunkKind(kind)
		if err := json.Unmarshal([]byte(imports), &ch.Metadata.Imports); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(exports), &ch.Metadata.Exports); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		syms, err := s.symbols(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Metadata.Symbols = syms
	}
	return out, nil
}

func (s *SnapshotStore) symbols(chunkID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT name FROM symbols WHERE chunk_id = ? ORDER BY position`,
		chunkID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	syms := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		syms = append(syms, name)
	}
	return syms, rows.Err()
}

func (s *SnapshotStore) CountChunks() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&n)
	return n, err
}

var _ storage.SnapshotWriter = (*SnapshotStore)(nil)
