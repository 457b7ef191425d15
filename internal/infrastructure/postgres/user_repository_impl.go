package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/internal/domain/repository"
	"github.com/oksasatya/identity-service/internal/domain/valueobject"
	"github.com/oksasatya/identity-service/pkg/apperror"
)

const uniqueViolation = "23505"

// UserRepository is the pgx adapter for the user persistence port.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, username, password_hash, full_name, is_active, is_verified, created_at, updated_at, last_login_at`

type userRow struct {
	ID          int64
	Email       string
	Username    string
	Password    string
	FullName    string
	IsActive    bool
	IsVerified  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

func (r userRow) toEntity() *entity.User {
	email, _ := valueobject.NewEmail(r.Email)
	return &entity.User{
		ID:          r.ID,
		Email:       email,
		Username:    r.Username,
		Password:    valueobject.NewHashedPassword(r.Password),
		FullName:    r.FullName,
		IsActive:    r.IsActive,
		IsVerified:  r.IsVerified,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		LastLoginAt: r.LastLoginAt,
	}
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	var row userRow
	err := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+where+`
	`, arg).Scan(&row.ID, &row.Email, &row.Username, &row.Password, &row.FullName,
		&row.IsActive, &row.IsVerified, &row.CreatedAt, &row.UpdatedAt, &row.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Internal("user lookup failed", err)
	}
	return row.toEntity(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

// Save inserts a new user and lets the database assign the identifier. The
// unique constraints on email and username are the authoritative uniqueness
// guard; a violation comes back as the same conflict the use-case pre-check
// produces.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	if u.Persisted() {
		return apperror.Internal("save called on an already-persisted user", nil)
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, full_name, is_active, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email.Value(), u.Username, u.Password.Value(), u.FullName, u.IsActive, u.IsVerified).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if conflict := conflictFrom(err); conflict != nil {
			return conflict
		}
		return apperror.Internal("failed to save user", err)
	}
	return nil
}

// Update writes back the mutable fields of a persisted user.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, full_name = $2, is_active = $3, is_verified = $4,
		    updated_at = $5, last_login_at = $6
		WHERE id = $7
	`, u.Password.Value(), u.FullName, u.IsActive, u.IsVerified, u.UpdatedAt, u.LastLoginAt, u.ID)
	if err != nil {
		return apperror.Internal("failed to update user", err)
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func conflictFrom(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return apperror.Conflict("email already registered")
	case "users_username_key":
		return apperror.Conflict("username already taken")
	default:
		return apperror.Conflict("user already exists")
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
