package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var topicColumns = []string{"id", "user_id", "name", "is_favourite", "questions", "created_at"}

// topicRepo implements TopicRepo on SQLite.
type topicRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *topicRepo) Save(ctx context.Context, userID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if userID == "" || name == "" {
		return "", persistErr("save topic", errors.New("user id and name are required"))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", persistErr("save topic", err)
	}
	defer tx.Rollback()

	existing, err := r.byName(ctx, tx, userID, name)
	if err != nil {
		return "", persistErr("save topic", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	id := uuid.NewString()
	ins := sqlite.Insert(tableTopics).
		Columns(topicColumns...).
		Values(id, userID, name, false, "[]", r.now())
	if _, err := execQ(ctx, tx, ins); err != nil {
		return "", persistErr("save topic", err)
	}
	if err := tx.Commit(); err != nil {
		return "", persistErr("save topic", err)
	}
	return id, nil
}

func (r *topicRepo) ByName(ctx context.Context, userID, name string) (*Topic, error) {
	t, err := r.byName(ctx, r.db, userID, strings.TrimSpace(name))
	if err != nil {
		return nil, persistErr("get topic by name", err)
	}
	return t, nil
}

func (r *topicRepo) byName(ctx context.Context, db dbtx, userID, name string) (*Topic, error) {
	q := sqlite.Select(topicColumns...).
		From(sqlite.Table(tableTopics)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("name", name))).
		Limit(1)
	return scanTopic(queryRowQ(ctx, db, q))
}

func (r *topicRepo) AddQuestions(ctx context.Context, userID, topicID string, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("add questions", err)
	}
	defer tx.Rollback()

	sel := sqlite.Select("questions").
		From(sqlite.Table(tableTopics)).
		Where(entsql.And(entsql.EQ("id", topicID), entsql.EQ("user_id", userID)))

	var raw string
	if err := queryRowQ(ctx, tx, sel).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistErr("add questions", ErrNotFound)
		}
		return persistErr("add questions", err)
	}

	var current []string
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		return persistErr("add questions", fmt.Errorf("decode history: %w", err))
	}

	merged, changed := union(current, texts)
	if !changed {
		return nil
	}

	b, err := json.Marshal(merged)
	if err != nil {
		return persistErr("add questions", err)
	}
	upd := sqlite.Update(tableTopics).
		Set("questions", string(b)).
		Where(entsql.And(entsql.EQ("id", topicID), entsql.EQ("user_id", userID)))
	if _, err := execQ(ctx, tx, upd); err != nil {
		return persistErr("add questions", err)
	}
	return persistErr("add questions", tx.Commit())
}

func (r *topicRepo) ForUser(ctx context.Context, userID string) ([]Topic, error) {
	q := sqlite.Select(topicColumns...).
		From(sqlite.Table(tableTopics)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at")).
		Limit(MaxTopicsPerUser)

	rows, err := queryQ(ctx, r.db, q)
	if err != nil {
		return nil, persistErr("list topics", err)
	}
	defer rows.Close()

	var out []Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, persistErr("list topics", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list topics", err)
	}
	return out, nil
}

func (r *topicRepo) SetFavourite(ctx context.Context, userID, topicID string, favourite bool) error {
	upd := sqlite.Update(tableTopics).
		Set("is_favourite", favourite).
		Where(entsql.And(entsql.EQ("id", topicID), entsql.EQ("user_id", userID)))
	res, err := execQ(ctx, r.db, upd)
	if err != nil {
		return persistErr("set favourite", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistErr("set favourite", err)
	}
	if n == 0 {
		return persistErr("set favourite", ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTopic reads one topic row. A missing row yields (nil, nil).
func scanTopic(row rowScanner) (*Topic, error) {
	var (
		t   Topic
		raw string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.IsFavourite, &raw, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &t.Questions); err != nil {
		return nil, fmt.Errorf("decode questions for topic %s: %w", t.ID, err)
	}
	if t.Questions == nil {
		t.Questions = []string{}
	}
	return &t, nil
}

// union appends each text of add not already present in base, preserving
// first-seen order. Empty texts are skipped.
func union(base, add []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, s := range base {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	changed := len(out) != len(base)
	for _, s := range add {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		changed = true
	}
	return out, changed
}
