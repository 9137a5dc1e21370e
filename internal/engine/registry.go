package engine

import (
	"sort"

	"github.com/noah-isme/campus-funding-api/internal/models"
	appErrors "github.com/noah-isme/campus-funding-api/pkg/errors"
)

// UserRegistry is a uniqueness-checked mapping from user id to user record.
// Users are never mutated or deleted once registered.
type UserRegistry struct {
	users map[string]*models.User
}

// NewUserRegistry returns an empty registry.
func NewUserRegistry() *UserRegistry {
	return &UserRegistry{users: make(map[string]*models.User)}
}

// Register inserts a new user. A violating attempt is rejected and the
// original record is left untouched.
func (r *UserRegistry) Register(id, name string, role models.UserRole) (*models.User, error) {
	if id == "" || name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id and name are required")
	}
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "role must be student, admin, or donor")
	}
	if _, exists := r.users[id]; exists {
		return nil, appErrors.ErrDuplicateUser
	}

	user := &models.User{ID: id, Name: name, Role: role}
	r.users[id] = user
	return user, nil
}

// Lookup returns the user for the id.
func (r *UserRegistry) Lookup(id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return user, nil
}

// HasRole reports whether the id resolves to a user holding the role.
func (r *UserRegistry) HasRole(id string, role models.UserRole) bool {
	user, ok := r.users[id]
	return ok && user.Role == role
}

// All returns every registered user, ordered by id for stable output.
func (r *UserRegistry) All() []models.User {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WithRole returns users holding the role, ordered by id.
func (r *UserRegistry) WithRole(role models.UserRole) []models.User {
	out := make([]models.User, 0)
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered users.
func (r *UserRegistry) Len() int {
	return len(r.users)
}
