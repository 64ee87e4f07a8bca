package repositories

import (
	"context"
	"database/sql"

	"taskboard/internal/models"
)

type SubtaskRepository interface {
	Store(ctx context.Context, st *models.Subtask) error
	FindByID(ctx context.Context, id int64) (*models.Subtask, error)
	ListByTask(ctx context.Context, taskID int64) ([]models.Subtask, error)
	Update(ctx context.Context, st *models.Subtask) error
	Delete(ctx context.Context, id int64) error
}

type subtaskRepository struct {
	db *sql.DB
}

func NewSubtaskRepository(db *sql.DB) SubtaskRepository {
	return &subtaskRepository{db: db}
}

// Store appends at the end of the parent's checklist.
func (r *subtaskRepository) Store(ctx context.Context, st *models.Subtask) error {
	query := `
		INSERT INTO subtasks (task_id, text, completed, position, created_at, updated_at)
		VALUES ($1,$2,$3,
			(SELECT COALESCE(MAX(position)+1, 0) FROM subtasks WHERE task_id = $1),
			NOW(), NOW())
		RETURNING id, position, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, st.TaskID, st.Text, st.Completed).
		Scan(&st.ID, &st.Position, &st.CreatedAt, &st.UpdatedAt)
}

func (r *subtaskRepository) FindByID(ctx context.Context, id int64) (*models.Subtask, error) {
	st := &models.Subtask{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, task_id, text, completed, position, created_at, updated_at
		FROM subtasks WHERE id = $1`, id).
		Scan(&st.ID, &st.TaskID, &st.Text, &st.Completed, &st.Position, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return st, nil
}

func (r *subtaskRepository) ListByTask(ctx context.Context, taskID int64) ([]models.Subtask, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, text, completed, position, created_at, updated_at
		FROM subtasks WHERE task_id = $1
		ORDER BY position, id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Subtask
	for rows.Next() {
		var st models.Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Text, &st.Completed, &st.Position, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *subtaskRepository) Update(ctx context.Context, st *models.Subtask) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subtasks SET text=$1, completed=$2, position=$3, updated_at=NOW()
		WHERE id=$4`, st.Text, st.Completed, st.Position, st.ID)
	return err
}

func (r *subtaskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = $1`, id)
	return err
}
