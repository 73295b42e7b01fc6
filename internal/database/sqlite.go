package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"catalog-go/internal/catalog"
	"catalog-go/internal/database/migrations"
)

// metaTreeSaved marks that the tree has been written at least once.
const metaTreeSaved = "tree_saved"

// SQLiteStore keeps the content tree and the analytics counters in SQLite.
// Topics, lessons and parts are normalised into their own tables; a save
// replaces all three inside one transaction.
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ catalog.ContentStore = (*SQLiteStore)(nil)
	_ catalog.StatsStore   = (*SQLiteStore)(nil)
)

// Open opens the database at path, or ":memory:", and applies migrations.
func Open(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// OpenConnection opens a SQLite connection with foreign keys enforced and a
// busy timeout. The pool is limited to one connection: SQLite has a single
// writer, and an in-memory database only exists on the connection that
// created it.
func OpenConnection(path string) (*sql.DB, error) {
	dsn := path
	if path == ":memory:" {
		dsn = "file::memory:"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_foreign_keys=on&_busy_timeout=5000"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// DB exposes the underlying handle for migration checks.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Close() error { return s.db.Close() }

// iconColumns flattens an optional icon into three nullable columns.
func iconColumns(i *catalog.Icon) (kind, name, dataURL sql.NullString) {
	if i == nil {
		return
	}
	kind = sql.NullString{String: string(i.Kind), Valid: true}
	name = sql.NullString{String: i.Name, Valid: i.Name != ""}
	dataURL = sql.NullString{String: i.DataURL, Valid: i.DataURL != ""}
	return
}

func iconFromColumns(kind, name, dataURL sql.NullString) *catalog.Icon {
	if !kind.Valid {
		return nil
	}
	return &catalog.Icon{Kind: catalog.IconKind(kind.String), Name: name.String, DataURL: dataURL.String}
}

// LoadTree reads the whole tree. It returns catalog.ErrNoContent until the
// first SaveTree.
func (s *SQLiteStore) LoadTree(ctx context.Context) (catalog.Tree, error) {
	var saved string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM catalog_meta WHERE key = ?`, metaTreeSaved).Scan(&saved)
	if err == sql.ErrNoRows {
		return nil, catalog.ErrNoContent
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog meta: %w", err)
	}

	tree := catalog.Tree{}
	topicIdx := map[string]int{}
	lessonIdx := map[[2]string]int{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, icon_kind, icon_name, icon_data_url, is_enabled, date_available, sort_order
		FROM topics ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	for rows.Next() {
		var (
			t                   catalog.Topic
			kind, name, dataURL sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &kind, &name, &dataURL, &t.IsEnabled, &t.DateAvailable, &t.Order); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		t.Icon = iconFromColumns(kind, name, dataURL)
		t.Lessons = []catalog.Lesson{}
		topicIdx[t.ID] = len(tree)
		tree = append(tree, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topics: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT topic_id, id, title, icon_kind, icon_name, icon_data_url, learning_goals, start_url, info_url,
		       is_enabled, date_available, sort_order
		FROM lessons ORDER BY topic_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying lessons: %w", err)
	}
	for rows.Next() {
		var (
			topicID             string
			l                   catalog.Lesson
			kind, name, dataURL sql.NullString
		)
		if err := rows.Scan(&topicID, &l.ID, &l.Title, &kind, &name, &dataURL, &l.LearningGoals, &l.StartURL, &l.InfoURL,
			&l.IsEnabled, &l.DateAvailable, &l.Order); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning lesson: %w", err)
		}
		l.Icon = iconFromColumns(kind, name, dataURL)
		l.Parts = []catalog.Part{}
		ti := topicIdx[topicID]
		lessonIdx[[2]string{topicID, l.ID}] = len(tree[ti].Lessons)
		tree[ti].Lessons = append(tree[ti].Lessons, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lessons: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT topic_id, lesson_id, id, title, description, learning_goals, start_url, info_url,
		       icon_kind, icon_name, icon_data_url, is_enabled, date_available, sort_order
		FROM parts ORDER BY topic_id, lesson_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying parts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			topicID, lessonID   string
			p                   catalog.Part
			kind, name, dataURL sql.NullString
		)
		if err := rows.Scan(&topicID, &lessonID, &p.ID, &p.Title, &p.Description, &p.LearningGoals, &p.StartURL, &p.InfoURL,
			&kind, &name, &dataURL, &p.IsEnabled, &p.DateAvailable, &p.Order); err != nil {
			return nil, fmt.Errorf("scanning part: %w", err)
		}
		p.Icon = iconFromColumns(kind, name, dataURL)
		ti := topicIdx[topicID]
		li := lessonIdx[[2]string{topicID, lessonID}]
		tree[ti].Lessons[li].Parts = append(tree[ti].Lessons[li].Parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating parts: %w", err)
	}
	return tree, nil
}

// SaveTree replaces the stored tree atomically.
func (s *SQLiteStore) SaveTree(ctx context.Context, t catalog.Tree) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"parts", "lessons", "topics"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for ti, topic := range t {
		kind, name, dataURL := iconColumns(topic.Icon)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO topics (id, position, title, icon_kind, icon_name, icon_data_url, is_enabled, date_available, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			topic.ID, ti, topic.Title, kind, name, dataURL, topic.IsEnabled, topic.DateAvailable, topic.Order); err != nil {
			return fmt.Errorf("inserting topic %s: %w", topic.ID, err)
		}
		for li, lesson := range topic.Lessons {
			kind, name, dataURL := iconColumns(lesson.Icon)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO lessons (topic_id, id, position, title, icon_kind, icon_name, icon_data_url,
				                     learning_goals, start_url, info_url, is_enabled, date_available, sort_order)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				topic.ID, lesson.ID, li, lesson.Title, kind, name, dataURL,
				lesson.LearningGoals, lesson.StartURL, lesson.InfoURL, lesson.IsEnabled, lesson.DateAvailable, lesson.Order); err != nil {
				return fmt.Errorf("inserting lesson %s: %w", lesson.ID, err)
			}
			for pi, part := range lesson.Parts {
				kind, name, dataURL := iconColumns(part.Icon)
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO parts (topic_id, lesson_id, id, position, title, description, learning_goals, start_url, info_url,
					                   icon_kind, icon_name, icon_data_url, is_enabled, date_available, sort_order)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					topic.ID, lesson.ID, part.ID, pi, part.Title, part.Description, part.LearningGoals, part.StartURL, part.InfoURL,
					kind, name, dataURL, part.IsEnabled, part.DateAvailable, part.Order); err != nil {
					return fmt.Errorf("inserting part %s: %w", part.ID, err)
				}
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_meta (key, value) VALUES (?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, metaTreeSaved); err != nil {
		return fmt.Errorf("marking tree saved: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tree: %w", err)
	}
	return nil
}

// LoadStats reads all counters.
func (s *SQLiteStore) LoadStats(ctx context.Context) (catalog.Stats, error) {
	st := catalog.NewStats()
	if err := s.db.QueryRowContext(ctx, `SELECT total, unique_visitors FROM visits WHERE id = 1`).
		Scan(&st.TotalVisits, &st.UniqueVisitors); err != nil {
		return catalog.Stats{}, fmt.Errorf("reading visits: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT class, item_id, count FROM clicks`)
	if err != nil {
		return catalog.Stats{}, fmt.Errorf("querying clicks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			class string
			id    string
			n     int64
		)
		if err := rows.Scan(&class, &id, &n); err != nil {
			return catalog.Stats{}, fmt.Errorf("scanning click: %w", err)
		}
		c := catalog.ItemClass(class)
		if st.Clicks[c] == nil {
			st.Clicks[c] = map[string]int64{}
		}
		st.Clicks[c][id] = n
	}
	if err := rows.Err(); err != nil {
		return catalog.Stats{}, fmt.Errorf("iterating clicks: %w", err)
	}
	return st, nil
}

// AddVisit increments the total, and the unique count when unique is set.
func (s *SQLiteStore) AddVisit(ctx context.Context, unique bool) error {
	var inc int
	if unique {
		inc = 1
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE visits SET total = total + 1, unique_visitors = unique_visitors + ? WHERE id = 1`, inc); err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// AddClick increments the counter for one item.
func (s *SQLiteStore) AddClick(ctx context.Context, class catalog.ItemClass, id string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO clicks (class, item_id, count) VALUES (?, ?, 1)
		ON CONFLICT(class, item_id) DO UPDATE SET count = count + 1`, string(class), id); err != nil {
		return fmt.Errorf("recording click: %w", err)
	}
	return nil
}
