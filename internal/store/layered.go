package store

import (
	"context"
	"errors"

	"career-counselling/internal/common/logger"
	"career-counselling/internal/models"
)

// Layered serves from memory and writes through to a database on a best
// effort basis. Database failures are logged and never returned; a memory
// miss falls back to the database and caches the hit.
type Layered struct {
	mem *Memory
	db  Store
	log logger.Logger
}

func NewLayered(mem *Memory, db Store, log logger.Logger) *Layered {
	return &Layered{
		mem: mem,
		db:  db,
		log: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

func (l *Layered) CreateUser(ctx context.Context, user *models.User) error {
	if err := l.mem.CreateUser(ctx, user); err != nil {
		return err
	}
	if err := l.db.CreateUser(ctx, user); err != nil {
		l.warn("create user", user.ID, err)
	}
	return nil
}

func (l *Layered) GetUser(ctx context.Context, id string) (*models.User, error) {
	if u, err := l.mem.GetUser(ctx, id); err == nil {
		return u, nil
	}
	u, err := l.db.GetUser(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			l.warn("get user", id, err)
		}
		return nil, ErrNotFound
	}
	_ = l.mem.UpdateUser(ctx, u)
	return u, nil
}

func (l *Layered) UpdateUser(ctx context.Context, user *models.User) error {
	if err := l.mem.UpdateUser(ctx, user); err != nil {
		return err
	}
	if err := l.db.UpdateUser(ctx, user); err != nil {
		l.warn("update user", user.ID, err)
	}
	return nil
}

func (l *Layered) SaveResponse(ctx context.Context, resp *models.TestResponse) error {
	if err := l.mem.SaveResponse(ctx, resp); err != nil {
		return err
	}
	if err := l.db.SaveResponse(ctx, resp); err != nil {
		l.warn("save response", resp.UserID, err)
	}
	return nil
}

func (l *Layered) GetResponse(ctx context.Context, userID string) (*models.TestResponse, error) {
	if r, err := l.mem.GetResponse(ctx, userID); err == nil {
		return r, nil
	}
	r, err := l.db.GetResponse(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			l.warn("get response", userID, err)
		}
		return nil, ErrNotFound
	}
	_ = l.mem.SaveResponse(ctx, r)
	return r, nil
}

// Ping reports database health; memory is always available.
func (l *Layered) Ping(ctx context.Context) error {
	return l.db.Ping(ctx)
}

func (l *Layered) Mode() string { return ModeDB }

func (l *Layered) warn(op, id string, err error) {
	l.log.Warn("database operation failed", map[string]interface{}{
		"operation": op,
		"userId":    id,
		"error":     err.Error(),
	})
}
