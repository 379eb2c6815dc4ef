package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var resultColumns = []string{"id", "user_id", "topic_name", "score", "total_questions", "created_at"}

// resultRepo implements ResultRepo on SQLite.
type resultRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *resultRepo) Save(ctx context.Context, res QuizResult) (*QuizResult, error) {
	switch {
	case res.UserID == "":
		return nil, persistErr("save result", fmt.Errorf("user id is required"))
	case res.TotalQuestions <= 0:
		return nil, persistErr("save result", fmt.Errorf("total questions must be positive, got %d", res.TotalQuestions))
	case res.Score < 0 || res.Score > res.TotalQuestions:
		return nil, persistErr("save result", fmt.Errorf("score %d out of range [0, %d]", res.Score, res.TotalQuestions))
	}

	res.ID = uuid.NewString()
	res.CreatedAt = r.now()

	ins := sqlite.Insert(tableResults).
		Columns(resultColumns...).
		Values(res.ID, res.UserID, res.TopicName, res.Score, res.TotalQuestions, res.CreatedAt)
	if _, err := execQ(ctx, r.db, ins); err != nil {
		return nil, persistErr("save result", err)
	}
	return &res, nil
}

func (r *resultRepo) ForUser(ctx context.Context, userID string) ([]QuizResult, error) {
	q := sqlite.Select(resultColumns...).
		From(sqlite.Table(tableResults)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at")).
		Limit(MaxResultsPerUser)

	rows, err := queryQ(ctx, r.db, q)
	if err != nil {
		return nil, persistErr("list results", err)
	}
	defer rows.Close()

	var out []QuizResult
	for rows.Next() {
		var res QuizResult
		if err := rows.Scan(&res.ID, &res.UserID, &res.TopicName, &res.Score, &res.TotalQuestions, &res.CreatedAt); err != nil {
			return nil, persistErr("list results", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list results", err)
	}
	return out, nil
}
