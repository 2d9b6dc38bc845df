package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/bazaar-it/bazaar-sub004/internal/logging"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	background     TEXT NOT NULL DEFAULT '',
	is_placeholder INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS scenes (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	ord        INTEGER NOT NULL,
	name       TEXT NOT NULL,
	code       TEXT NOT NULL,
	layout     TEXT,
	duration   INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	UNIQUE(project_id, ord)
);

CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scenes_project ON scenes(project_id, ord);
CREATE INDEX IF NOT EXISTS idx_messages_project ON messages(project_id, created_at);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// bootstraps the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	logging.Store().Info("sqlite store ready", zap.String("path", path))
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// CreateProject persists a project seeded with the welcome scene.
func (s *SQLiteStore) CreateProject(ctx context.Context, title string, welcome types.Scene) (*types.Project, error) {
	now := time.Now().UTC()
	p := &types.Project{
		ID:        uuid.NewString(),
		Title:     title,
		Duration:  welcome.Duration,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO projects (id, title, background, is_placeholder, created_at, updated_at) VALUES (?, ?, '', 1, ?, ?)`,
		p.ID, p.Title, now, now); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	welcome.ID = uuid.NewString()
	welcome.ProjectID = p.ID
	welcome.Order = 0
	if err := insertScene(ctx, tx, welcome, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

// GetProject loads a project and its aggregate duration.
func (s *SQLiteStore) GetProject(ctx context.Context, projectID string) (*types.Project, error) {
	var p types.Project
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, background, created_at, updated_at FROM projects WHERE id = ?`, projectID,
	).Scan(&p.ID, &p.Title, &p.Background, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query project: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration), 0) FROM scenes WHERE project_id = ?`, projectID,
	).Scan(&p.Duration); err != nil {
		return nil, fmt.Errorf("sum durations: %w", err)
	}
	return &p, nil
}

// GetProjectFlags reports per-project orchestration flags.
func (s *SQLiteStore) GetProjectFlags(ctx context.Context, projectID string) (types.ProjectFlags, error) {
	var placeholder bool
	err := s.db.QueryRowContext(ctx,
		`SELECT is_placeholder FROM projects WHERE id = ?`, projectID,
	).Scan(&placeholder)
	if err == sql.ErrNoRows {
		return types.ProjectFlags{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return types.ProjectFlags{}, fmt.Errorf("query flags: %w", err)
	}
	return types.ProjectFlags{IsPlaceholderState: placeholder}, nil
}

// CreateScene appends a scene at the next dense order index.
func (s *SQLiteStore) CreateScene(ctx context.Context, projectID string, scene types.Scene) (*types.Scene, error) {
	now := time.Now().UTC()
	scene.ID = uuid.NewString()
	scene.ProjectID = projectID
	scene.CreatedAt = now
	scene.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scenes WHERE project_id = ?`, projectID,
	).Scan(&scene.Order); err != nil {
		return nil, fmt.Errorf("count scenes: %w", err)
	}
	if err := insertScene(ctx, tx, scene, now); err != nil {
		return nil, err
	}
	if err := touchProject(ctx, tx, projectID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &scene, nil
}

// ReplacePlaceholder swaps the bootstrap scene for the first real scene.
func (s *SQLiteStore) ReplacePlaceholder(ctx context.Context, projectID string, scene types.Scene) (*types.Scene, error) {
	now := time.Now().UTC()
	scene.ID = uuid.NewString()
	scene.ProjectID = projectID
	scene.Order = 0
	scene.CreatedAt = now
	scene.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var placeholder bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_placeholder FROM projects WHERE id = ?`, projectID,
	).Scan(&placeholder)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query flags: %w", err)
	}
	if !placeholder {
		return nil, ErrNotPlaceholder
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scenes WHERE project_id = ?`, projectID); err != nil {
		return nil, fmt.Errorf("delete placeholder: %w", err)
	}
	if err := insertScene(ctx, tx, scene, now); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET is_placeholder = 0, updated_at = ? WHERE id = ?`, now, projectID); err != nil {
		return nil, fmt.Errorf("clear placeholder flag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &scene, nil
}

// UpdateScene applies a partial update and returns the new row.
func (s *SQLiteStore) UpdateScene(ctx context.Context, sceneID string, patch ScenePatch) (*types.Scene, error) {
	now := time.Now().UTC()

	scene, err := s.getScene(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		scene.Name = *patch.Name
	}
	if patch.Code != nil {
		scene.Code = *patch.Code
	}
	if patch.Duration != nil {
		scene.Duration = *patch.Duration
	}
	if patch.Layout != nil {
		scene.Layout = patch.Layout
	}
	scene.UpdatedAt = now

	layoutJSON, err := marshalLayout(scene.Layout)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE scenes SET name = ?, code = ?, layout = ?, duration = ?, updated_at = ? WHERE id = ?`,
		scene.Name, scene.Code, layoutJSON, scene.Duration, now, sceneID); err != nil {
		return nil, fmt.Errorf("update scene: %w", err)
	}
	return scene, nil
}

// DeleteScene removes a scene and resequences the remaining indices.
func (s *SQLiteStore) DeleteScene(ctx context.Context, sceneID string) error {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var projectID string
	var ord int
	err = tx.QueryRowContext(ctx,
		`SELECT project_id, ord FROM scenes WHERE id = ?`, sceneID,
	).Scan(&projectID, &ord)
	if err == sql.ErrNoRows {
		return fmt.Errorf("scene %s: %w", sceneID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("query scene: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scenes WHERE id = ?`, sceneID); err != nil {
		return fmt.Errorf("delete scene: %w", err)
	}
	// Close the gap so order indices stay dense and relative order is
	// preserved.
	if _, err := tx.ExecContext(ctx,
		`UPDATE scenes SET ord = ord - 1 WHERE project_id = ? AND ord > ?`, projectID, ord); err != nil {
		return fmt.Errorf("resequence: %w", err)
	}
	if err := touchProject(ctx, tx, projectID, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListScenes returns a project's scenes in order.
func (s *SQLiteStore) ListScenes(ctx context.Context, projectID string) ([]types.Scene, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, ord, name, code, layout, duration, created_at, updated_at
		 FROM scenes WHERE project_id = ? ORDER BY ord`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query scenes: %w", err)
	}
	defer rows.Close()

	var scenes []types.Scene
	for rows.Next() {
		sc, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, sc)
	}
	return scenes, rows.Err()
}

// AppendMessage persists one conversation turn verbatim.
func (s *SQLiteStore) AppendMessage(ctx context.Context, projectID string, role types.Role, content string) (*types.Message, error) {
	m := &types.Message{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, project_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ProjectID, m.Role, m.Content, m.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// ListMessages returns the newest messages oldest-first.
func (s *SQLiteStore) ListMessages(ctx context.Context, projectID string, limit int) ([]types.Message, error) {
	q := `SELECT id, project_id, role, content, created_at FROM messages
	      WHERE project_id = ? ORDER BY created_at DESC`
	args := []any{projectID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []types.Message
	for rows.Next() {
		var m types.Message
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to oldest-first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *SQLiteStore) getScene(ctx context.Context, sceneID string) (*types.Scene, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, ord, name, code, layout, duration, created_at, updated_at
		 FROM scenes WHERE id = ?`, sceneID)
	sc, err := scanScene(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scene %s: %w", sceneID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScene(row rowScanner) (types.Scene, error) {
	var sc types.Scene
	var layoutJSON sql.NullString
	if err := row.Scan(&sc.ID, &sc.ProjectID, &sc.Order, &sc.Name, &sc.Code,
		&layoutJSON, &sc.Duration, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
		return sc, err
	}
	if layoutJSON.Valid && layoutJSON.String != "" {
		var layout types.LayoutSpec
		if err := json.Unmarshal([]byte(layoutJSON.String), &layout); err == nil {
			sc.Layout = &layout
		}
		// A corrupt layout blob is dropped rather than failing the read:
		// the scene code is authoritative.
	}
	return sc, nil
}

func insertScene(ctx context.Context, tx *sql.Tx, scene types.Scene, now time.Time) error {
	layoutJSON, err := marshalLayout(scene.Layout)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scenes (id, project_id, ord, name, code, layout, duration, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scene.ID, scene.ProjectID, scene.Order, scene.Name, scene.Code,
		layoutJSON, scene.Duration, now, now); err != nil {
		return fmt.Errorf("insert scene: %w", err)
	}
	return nil
}

func touchProject(ctx context.Context, tx *sql.Tx, projectID string, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET updated_at = ? WHERE id = ?`, now, projectID); err != nil {
		return fmt.Errorf("touch project: %w", err)
	}
	return nil
}

func marshalLayout(layout *types.LayoutSpec) (sql.NullString, error) {
	if layout == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(layout)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal layout: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
