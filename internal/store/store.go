// Package store persists users and their latest test responses.
package store

import (
	"context"
	"errors"
	"maps"
	"slices"

	"career-counselling/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Storage modes reported by Mode.
const (
	ModeMemory = "memory"
	ModeDB     = "db"
)

// Store is the persistence boundary used by the API and workers. Returned
// values are copies; callers may modify them freely.
type Store interface {
	// CreateUser inserts a new user, failing with ErrAlreadyExists on an id clash.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	// UpdateUser writes user, inserting it if absent.
	UpdateUser(ctx context.Context, user *models.User) error
	// SaveResponse replaces the stored response for resp.UserID.
	SaveResponse(ctx context.Context, resp *models.TestResponse) error
	GetResponse(ctx context.Context, userID string) (*models.TestResponse, error)
	Ping(ctx context.Context) error
	Mode() string
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Profile != nil {
		out.Profile = u.Profile.Merge(nil)
	}
	return &out
}

func cloneResponse(r *models.TestResponse) *models.TestResponse {
	if r == nil {
		return nil
	}
	out := *r
	out.Answers = slices.Clone(r.Answers)
	out.CareerSuggestion.Roles = slices.Clone(r.CareerSuggestion.Roles)
	out.CareerSuggestion.Courses = slices.Clone(r.CareerSuggestion.Courses)
	out.CareerSuggestion.Aggregates = maps.Clone(r.CareerSuggestion.Aggregates)
	return &out
}
