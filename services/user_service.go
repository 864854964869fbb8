package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/abdur28/boarding-sky-sub000/access"
	"github.com/abdur28/boarding-sky-sub000/models"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// ResolveActor looks the caller up by email. Unknown emails are plain users;
// the role column is the only thing this service owns about them.
func (s *UserService) ResolveActor(ctx context.Context, email string) (access.Actor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	actor := access.Actor{Email: email, Role: access.RoleUser}
	if email == "" {
		return actor, nil
	}

	var u models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return actor, nil
	case err != nil:
		return actor, fmt.Errorf("failed to resolve user %s: %w", email, err)
	}
	actor.Role = access.NormalizeRole(u.Role)
	return actor, nil
}

// SetRole changes one user's role. An unknown role string is rejected rather
// than silently downgraded.
func (s *UserService) SetRole(ctx context.Context, id, role string) (models.User, error) {
	var u models.User
	r := access.Role(strings.ToLower(strings.TrimSpace(role)))
	if access.NormalizeRole(string(r)) != r {
		return u, fmt.Errorf("%w: unknown role %q", ErrInvalid, role)
	}

	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", string(r))
	if res.Error != nil {
		return u, fmt.Errorf("failed to update user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return u, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return u, fmt.Errorf("failed to retrieve user %s: %w", id, err)
	}
	return u, nil
}
