package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"career-counselling/internal/models"

	"github.com/lib/pq"
)

const (
	insertUserSQL = `INSERT INTO users (id, name, email, class_status, phone, verified, created_at, profile)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	upsertUserSQL = `INSERT INTO users (id, name, email, class_status, phone, verified, created_at, profile)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    email = EXCLUDED.email,
    class_status = EXCLUDED.class_status,
    phone = EXCLUDED.phone,
    verified = EXCLUDED.verified,
    profile = EXCLUDED.profile`

	selectUserSQL = `SELECT id, name, email, class_status, phone, verified, created_at, profile
FROM users WHERE id = $1`

	upsertResponseSQL = `INSERT INTO test_responses (user_id, answers, submitted_at, career_suggestion)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET
    answers = EXCLUDED.answers,
    submitted_at = EXCLUDED.submitted_at,
    career_suggestion = EXCLUDED.career_suggestion`

	selectResponseSQL = `SELECT user_id, answers, submitted_at, career_suggestion
FROM test_responses WHERE user_id = $1`
)

// uniqueViolation is the SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// Postgres stores users and responses in two tables with JSONB columns for
// the nested documents.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	args, err := userArgs(user)
	if err != nil {
		return err
	}
	if _, err := p.db.ExecContext(ctx, insertUserSQL, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (p *Postgres) GetUser(ctx context.Context, id string) (*models.User, error) {
	var (
		u       models.User
		profile []byte
	)
	err := p.db.QueryRowContext(ctx, selectUserSQL, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.ClassStatus, &u.Phone, &u.Verified, &u.CreatedAt, &profile,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}

	if len(profile) > 0 && string(profile) != "null" {
		u.Profile = &models.Profile{}
		if err := json.Unmarshal(profile, u.Profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}
	return &u, nil
}

func (p *Postgres) UpdateUser(ctx context.Context, user *models.User) error {
	args, err := userArgs(user)
	if err != nil {
		return err
	}
	if _, err := p.db.ExecContext(ctx, upsertUserSQL, args...); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (p *Postgres) SaveResponse(ctx context.Context, resp *models.TestResponse) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	suggestion, err := json.Marshal(resp.CareerSuggestion)
	if err != nil {
		return fmt.Errorf("encode suggestion: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, upsertResponseSQL, resp.UserID, answers, resp.SubmittedAt, suggestion); err != nil {
		return fmt.Errorf("upsert response: %w", err)
	}
	return nil
}

func (p *Postgres) GetResponse(ctx context.Context, userID string) (*models.TestResponse, error) {
	var (
		r          models.TestResponse
		answers    []byte
		suggestion []byte
	)
	err := p.db.QueryRowContext(ctx, selectResponseSQL, userID).Scan(&r.UserID, &answers, &r.SubmittedAt, &suggestion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select response: %w", err)
	}

	if err := json.Unmarshal(answers, &r.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal(suggestion, &r.CareerSuggestion); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	return &r, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Mode() string { return ModeDB }

func userArgs(u *models.User) ([]interface{}, error) {
	var profile interface{}
	if u.Profile != nil {
		encoded, err := json.Marshal(u.Profile)
		if err != nil {
			return nil, fmt.Errorf("encode profile: %w", err)
		}
		profile = encoded
	}
	return []interface{}{u.ID, u.Name, u.Email, u.ClassStatus, u.Phone, u.Verified, u.CreatedAt, profile}, nil
}
