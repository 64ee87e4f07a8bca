package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, userID int64, opts models.TaskListOptions) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	ClearCompleted(ctx context.Context, userID int64) (int64, error)
	Reorder(ctx context.Context, userID int64, order []int64) error
	UpdateAssignee(ctx context.Context, taskID int64, assigneeID *int64) error
	DueSoon(ctx context.Context, userID int64, until time.Time) ([]models.Task, error)
	Summary(ctx context.Context, userID int64) (*models.AnalyticsSummary, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `t.id, t.user_id, t.assigned_to, au.username, t.text, t.description, t.category,
       t.priority, t.due_date, t.remind, t.completed, t.position, t.created_at, t.updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	t := &models.Task{}
	var (
		assignedTo       sql.NullInt64
		assignedUsername sql.NullString
		description      sql.NullString
		category         sql.NullString
		dueDate          sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.UserID, &assignedTo, &assignedUsername, &t.Text, &description, &category,
		&t.Priority, &dueDate, &t.Remind, &t.Completed, &t.Position, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignedTo.Valid {
		v := assignedTo.Int64
		t.AssignedTo = &v
	}
	if assignedUsername.Valid {
		s := assignedUsername.String
		t.AssignedUsername = &s
	}
	if description.Valid {
		t.Description = description.String
	}
	if category.Valid {
		t.Category = category.String
	}
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}
	return t, nil
}

// Store inserts the task at the end of the owner's list: position becomes
// max(position)+1 within the owner's set, 0 for an empty list.
func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (user_id, assigned_to, text, description, category, priority,
			due_date, remind, completed, position, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,
			(SELECT COALESCE(MAX(position)+1, 0) FROM tasks WHERE user_id = $1),
			NOW(), NOW())
		RETURNING id, position, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.UserID, task.AssignedTo, task.Text, task.Description, task.Category,
		task.Priority, task.DueDate, task.Remind, task.Completed,
	).Scan(&task.ID, &task.Position, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks t LEFT JOIN users au ON au.id = t.assigned_to WHERE t.id = $1`, taskColumns)
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// List is the query composer: visibility scope, then filter, then search,
// then a presentation-only sort. Stored positions are never touched here.
func (r *taskRepository) List(ctx context.Context, userID int64, opts models.TaskListOptions) ([]models.Task, error) {
	b := sq.Select(taskColumns).
		From("tasks t").
		LeftJoin("users au ON au.id = t.assigned_to").
		Where(sq.Or{sq.Eq{"t.user_id": userID}, sq.Eq{"t.assigned_to": userID}}).
		PlaceholderFormat(sq.Dollar)

	switch opts.Filter {
	case models.FilterActive:
		b = b.Where(sq.Eq{"t.completed": false})
	case models.FilterCompleted:
		b = b.Where(sq.Eq{"t.completed": true})
	}

	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"t.text": like},
			sq.ILike{"t.description": like},
			sq.ILike{"t.category": like},
		})
	}

	switch opts.Sort {
	case models.SortDue:
		b = b.OrderBy("t.due_date ASC NULLS LAST", "t.id")
	case models.SortCreated:
		b = b.OrderBy("t.created_at ASC", "t.id")
	default:
		b = b.OrderBy("t.position ASC", "t.id")
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			text=$1, description=$2, category=$3, priority=$4, due_date=$5,
			remind=$6, completed=$7, position=$8, updated_at=NOW()
		WHERE id=$9`
	_, err := r.db.ExecContext(ctx, query,
		task.Text, task.Description, task.Category, task.Priority, task.DueDate,
		task.Remind, task.Completed, task.Position, task.ID,
	)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

// ClearCompleted removes the owner's completed tasks and reports how many
// went. A second call right after finds nothing and reports 0.
func (r *taskRepository) ClearCompleted(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_id=$1 AND completed=TRUE`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Reorder commits a complete new ordering for one owner in a single
// transaction. The submitted ids must be exactly the owner's current task
// set; anything else leaves stored positions untouched.
func (r *taskRepository) Reorder(ctx context.Context, userID int64, order []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM tasks WHERE user_id=$1 ORDER BY id FOR UPDATE`, userID)
	if err != nil {
		return err
	}
	owned := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		owned[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	seen := map[int64]bool{}
	var foreign []int64
	for _, id := range order {
		if seen[id] {
			return apperrors.Validation("invalid_order", "duplicate task id in order")
		}
		seen[id] = true
		if !owned[id] {
			foreign = append(foreign, id)
		}
	}
	if len(foreign) > 0 {
		// an id that exists under another owner is an authorization
		// failure, not a malformed request
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM tasks WHERE id = ANY($1)`, pq.Array(foreign),
		).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return apperrors.Forbidden("order contains tasks owned by another user")
		}
		return apperrors.Validation("invalid_order", "order contains unknown task ids")
	}
	if len(order) != len(owned) {
		return apperrors.Validation("invalid_order", "order must include every task exactly once")
	}

	for pos, id := range order {
		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks SET position=$1, updated_at=NOW() WHERE id=$2 AND user_id=$3`,
			pos, id, userID,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *taskRepository) UpdateAssignee(ctx context.Context, taskID int64, assigneeID *int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET assigned_to=$1, updated_at=NOW() WHERE id=$2`, assigneeID, taskID)
	return err
}

// DueSoon returns the owner's reminder candidates: remind flag on, not
// completed, due on or before the given bound.
func (r *taskRepository) DueSoon(ctx context.Context, userID int64, until time.Time) ([]models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tasks t LEFT JOIN users au ON au.id = t.assigned_to
		WHERE t.user_id=$1 AND t.remind=TRUE AND t.completed=FALSE
		  AND t.due_date IS NOT NULL AND t.due_date <= $2
		ORDER BY t.due_date ASC, t.id`, taskColumns)
	rows, err := r.db.QueryContext(ctx, query, userID, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *taskRepository) Summary(ctx context.Context, userID int64) (*models.AnalyticsSummary, error) {
	const q = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('week', NOW())),
			COUNT(*) FILTER (WHERE completed AND updated_at >= date_trunc('week', NOW())),
			COUNT(*) FILTER (WHERE completed AND updated_at >= date_trunc('day', NOW()))
		FROM tasks WHERE user_id = $1`
	s := &models.AnalyticsSummary{}
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&s.Total, &s.AddedWeek, &s.CompletedWeek, &s.CompletedToday,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
