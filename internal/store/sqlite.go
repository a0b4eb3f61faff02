package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/dshills/plantdx/internal/kb"
	"github.com/dshills/plantdx/internal/logging"
	"github.com/dshills/plantdx/internal/schema"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS kb_meta (
	id        INTEGER PRIMARY KEY CHECK (id = 1),
	saved_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS symptoms (
	id                 TEXT PRIMARY KEY,
	position           INTEGER NOT NULL,
	name               TEXT NOT NULL,
	category           TEXT NOT NULL,
	applicable_plants  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS diseases (
	id              TEXT PRIMARY KEY,
	position        INTEGER NOT NULL,
	name            TEXT NOT NULL,
	plant_category  TEXT NOT NULL,
	description     TEXT NOT NULL,
	treatment       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
	disease_id  TEXT NOT NULL,
	position    INTEGER NOT NULL,
	id          TEXT NOT NULL,
	conditions  TEXT NOT NULL,
	conclusion  TEXT NOT NULL,
	weight      INTEGER NOT NULL,
	PRIMARY KEY (disease_id, position),
	FOREIGN KEY (disease_id) REFERENCES diseases(id) ON DELETE CASCADE
);
`

// SQLStore keeps a knowledge base in a SQLite database. Row order is kept
// in position columns so a load returns symptoms, diseases and rules in the
// order they were saved.
type SQLStore struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

// NewSQLStore opens the database at path and creates the tables.
func NewSQLStore(path string, log *zap.Logger) (*SQLStore, error) {
	log = logging.OrNop(log)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db %s: %w", path, err)
	}
	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", sqlSchema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: migrate %s: %w", path, err)
		}
	}
	return &SQLStore{db: db, path: path, log: log}, nil
}

// Load reads the saved knowledge base, or returns the default when the
// database has never been saved to.
func (s *SQLStore) Load(ctx context.Context) (schema.KnowledgeBase, error) {
	var savedAt string
	err := s.db.QueryRowContext(ctx, `SELECT saved_at FROM kb_meta WHERE id = 1`).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Debug("knowledge base database empty, using default", zap.String("path", s.path))
		return kb.Default(), nil
	}
	if err != nil {
		return schema.KnowledgeBase{}, fmt.Errorf("store: read meta: %w", err)
	}

	out := schema.KnowledgeBase{Symptoms: []schema.Symptom{}, Diseases: []schema.Disease{}}
	if err := s.loadSymptoms(ctx, &out); err != nil {
		return schema.KnowledgeBase{}, err
	}
	if err := s.loadDiseases(ctx, &out); err != nil {
		return schema.KnowledgeBase{}, err
	}
	s.log.Debug("knowledge base loaded",
		zap.String("path", s.path),
		zap.String("saved_at", savedAt),
		zap.Int("symptoms", len(out.Symptoms)),
		zap.Int("diseases", len(out.Diseases)))
	return out, nil
}

func (s *SQLStore) loadSymptoms(ctx context.Context, out *schema.KnowledgeBase) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, applicable_plants FROM symptoms ORDER BY position`)
	if err != nil {
		return fmt.Errorf("store: query symptoms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sym schema.Symptom
		var plantsJSON string
		if err := rows.Scan(&sym.ID, &sym.Name, &sym.Category, &plantsJSON); err != nil {
			return fmt.Errorf("store: scan symptom: %w", err)
		}
		if err := json.Unmarshal([]byte(plantsJSON), &sym.ApplicablePlants); err != nil {
			return fmt.Errorf("store: symptom %s plants: %w", sym.ID, err)
		}
		out.Symptoms = append(out.Symptoms, sym)
	}
	return rows.Err()
}

func (s *SQLStore) loadDiseases(ctx context.Context, out *schema.KnowledgeBase) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, plant_category, description, treatment FROM diseases ORDER BY position`)
	if err != nil {
		return fmt.Errorf("store: query diseases: %w", err)
	}
	pos := make(map[string]int)
	for rows.Next() {
		d := schema.Disease{Rules: []schema.ProductionRule{}}
		if err := rows.Scan(&d.ID, &d.Name, &d.PlantCategory, &d.Description, &d.Treatment); err != nil {
			rows.Close()
			return fmt.Errorf("store: scan disease: %w", err)
		}
		pos[d.ID] = len(out.Diseases)
		out.Diseases = append(out.Diseases, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: query diseases: %w", err)
	}

	rrows, err := s.db.QueryContext(ctx,
		`SELECT disease_id, id, conditions, conclusion, weight FROM rules ORDER BY disease_id, position`)
	if err != nil {
		return fmt.Errorf("store: query rules: %w", err)
	}
	defer rrows.Close()
	for rrows.Next() {
		var diseaseID, condJSON string
		var r schema.ProductionRule
		if err := rrows.Scan(&diseaseID, &r.ID, &condJSON, &r.Conclusion, &r.Weight); err != nil {
			return fmt.Errorf("store: scan rule: %w", err)
		}
		if err := json.Unmarshal([]byte(condJSON), &r.Conditions); err != nil {
			return fmt.Errorf("store: rule %s conditions: %w", r.ID, err)
		}
		i, ok := pos[diseaseID]
		if !ok {
			continue
		}
		out.Diseases[i].Rules = append(out.Diseases[i].Rules, r)
	}
	return rrows.Err()
}

// Save validates kb and replaces the stored content in one transaction.
func (s *SQLStore) Save(ctx context.Context, base schema.KnowledgeBase) error {
	if err := base.Validate(); err != nil {
		return fmt.Errorf("store: refusing to save invalid knowledge base: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}
	for i, sym := range base.Symptoms {
		plants, err := json.Marshal(nonNil(sym.ApplicablePlants))
		if err != nil {
			return fmt.Errorf("store: encode symptom %s: %w", sym.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO symptoms (id, position, name, category, applicable_plants) VALUES (?, ?, ?, ?, ?)`,
			sym.ID, i, sym.Name, string(sym.Category), string(plants))
		if err != nil {
			return fmt.Errorf("store: insert symptom %s: %w", sym.ID, err)
		}
	}
	for i, d := range base.Diseases {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO diseases (id, position, name, plant_category, description, treatment) VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, i, d.Name, string(d.PlantCategory), d.Description, d.Treatment)
		if err != nil {
			return fmt.Errorf("store: insert disease %s: %w", d.ID, err)
		}
		for j, r := range d.Rules {
			conds, err := json.Marshal(nonNil(r.Conditions))
			if err != nil {
				return fmt.Errorf("store: encode rule %s: %w", r.ID, err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO rules (disease_id, position, id, conditions, conclusion, weight) VALUES (?, ?, ?, ?, ?, ?)`,
				d.ID, j, r.ID, string(conds), r.Conclusion, r.Weight)
			if err != nil {
				return fmt.Errorf("store: insert rule %s: %w", r.ID, err)
			}
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO kb_meta (id, saved_at) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store: write meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	s.log.Info("knowledge base saved", zap.String("path", s.path), zap.Int("diseases", len(base.Diseases)))
	return nil
}

// Reset deletes every row so the next Load returns the default.
func (s *SQLStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kb_meta`); err != nil {
		return fmt.Errorf("store: clear meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	s.log.Info("knowledge base reset", zap.String("path", s.path))
	return nil
}

func (s *SQLStore) Describe() string { return DriverSQLite + ":" + s.path }

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func clearTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"rules", "diseases", "symptoms"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("store: clear %s: %w", table, err)
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
