package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const uniqueViolation = "23505"

// userRepository stores bcrypt hashes instead of plaintext passwords, so
// listed users never carry a password.
type userRepository struct {
	db         DBTX
	bcryptCost int
}

// NewUserRepository returns a Postgres-backed UserRepository.
func NewUserRepository(db DBTX, bcryptCost int) UserRepository {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userRepository{db: db, bcryptCost: bcryptCost}
}

func (r *userRepository) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	const query = `
        SELECT id, username, name, role, COALESCE(division, ''), password_hash
        FROM users WHERE LOWER(username)=LOWER($1)`

	var (
		user domain.User
		role string
		hash string
	)
	err := r.db.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.Name, &role, &user.Division, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if auth.ComparePassword(hash, password) != nil {
		return nil, nil
	}
	user.Role = domain.ParseRole(role)
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT id, username, name, role, COALESCE(division, '')
        FROM users ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var (
			user domain.User
			role string
		)
		if err := rows.Scan(&user.ID, &user.Username, &user.Name, &role, &user.Division); err != nil {
			return nil, err
		}
		user.Role = domain.ParseRole(role)
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) Create(ctx context.Context, input NewUser) (*domain.User, error) {
	hash, err := auth.HashPassword(input.Password, r.bcryptCost)
	if err != nil {
		return nil, err
	}

	id := input.ID
	if id <= 0 {
		if err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM users`).Scan(&id); err != nil {
			return nil, err
		}
	}
	role := input.Role
	if role == "" {
		role = domain.RoleRegularUser
	}

	const query = `
        INSERT INTO users (id, username, name, role, division, password_hash)
        VALUES ($1,$2,$3,$4,NULLIF($5, ''),$6)`
	if _, err := r.db.Exec(ctx, query, id, input.Username, input.Name, string(role), input.Division, hash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.NewConflict("username already exists", map[string]any{"username": input.Username})
		}
		return nil, err
	}

	return &domain.User{
		ID:       id,
		Username: input.Username,
		Name:     input.Name,
		Role:     role,
		Division: input.Division,
	}, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return nil
}
