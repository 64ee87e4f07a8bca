package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	ClearRefresh(ctx context.Context, userID int64) error
	FindByRefreshToken(ctx context.Context, token string) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, display_name, avatar_url, role, blocked,
       telegram_chat_id, refresh_token, refresh_expires_at, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	u := &models.User{}
	var (
		email       sql.NullString
		displayName sql.NullString
		avatarURL   sql.NullString
		tgChatID    sql.NullInt64
		rt          sql.NullString
		rte         sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Username, &email, &u.PasswordHash, &displayName, &avatarURL, &u.Role, &u.Blocked,
		&tgChatID, &rt, &rte, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		u.Email = email.String
	}
	if displayName.Valid {
		u.DisplayName = displayName.String
	}
	if avatarURL.Valid {
		u.AvatarURL = avatarURL.String
	}
	if tgChatID.Valid {
		u.TelegramChatID = tgChatID.Int64
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		u.RefreshExpiresAt = &t
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (username, email, password_hash, display_name, avatar_url, role, blocked, created_at)
		VALUES ($1, NULLIF($2,''), $3, NULLIF($4,''), NULLIF($5,''), $6, FALSE, NOW())
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, q,
		user.Username, user.Email, user.PasswordHash, user.DisplayName, user.AvatarURL, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperrors.Conflict("user_exists", "username or email already taken")
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// FindByLogin resolves either the username or the email, for login forms
// that accept both.
func (r *userRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, login))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	b := sq.Select(userColumns).
		From("users").
		OrderBy("created_at DESC", "id").
		PlaceholderFormat(sq.Dollar)

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		b = b.Where(sq.Or{sq.ILike{"username": like}, sq.ILike{"email": like}})
	}
	if filter.Role != "" {
		b = b.Where(sq.Eq{"role": filter.Role})
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

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	const q = `
		UPDATE users SET
			email=NULLIF($1,''), display_name=NULLIF($2,''), avatar_url=NULLIF($3,''),
			role=$4, blocked=$5, telegram_chat_id=NULLIF($6,0)
		WHERE id=$7`
	_, err := r.db.ExecContext(ctx, q,
		user.Email, user.DisplayName, user.AvatarURL, user.Role, user.Blocked,
		user.TelegramChatID, user.ID,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperrors.Conflict("user_exists", "email already taken")
	}
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	return err
}

func (r *userRepository) UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET refresh_token=$1, refresh_expires_at=$2 WHERE id=$3`,
		token, expiresAt, userID)
	return err
}

func (r *userRepository) ClearRefresh(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET refresh_token=NULL, refresh_expires_at=NULL WHERE id=$1`, userID)
	return err
}

func (r *userRepository) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE refresh_token = $1`, token))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}
