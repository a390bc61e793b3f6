package dataservice

import (
	"context"
	"strings"

	"restaurant/fault"
	"restaurant/models"
	"restaurant/store"
	"restaurant/utils"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

type StaffInput struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func staffUsername(c models.StaffCredential) string { return c.Username }

// ListStaff returns the credentials without password hashes.
func (s *Service) ListStaff(ctx context.Context) ([]models.StaffCredential, error) {
	staff, err := list[models.StaffCredential](ctx, s, store.Staff)
	if err != nil {
		return nil, err
	}
	for i := range staff {
		staff[i] = staff[i].Redacted()
	}
	return staff, nil
}

// AddStaff stores a new credential with a bcrypt hashed password.
func (s *Service) AddStaff(ctx context.Context, in StaffInput) (models.StaffCredential, WriteResult, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		return models.StaffCredential{}, WriteResult{}, fault.Invalid("username is required")
	}
	if len(in.Password) < 6 {
		return models.StaffCredential{}, WriteResult{}, fault.Invalid("password must be at least 6 characters")
	}
	role := in.Role
	if role == "" {
		role = RoleStaff
	}
	switch role {
	case RoleAdmin, RoleManager, RoleStaff:
	default:
		return models.StaffCredential{}, WriteResult{}, fault.Invalid("unknown role %q", role)
	}
	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.StaffCredential{}, WriteResult{}, fault.Wrap(fault.Validation, err, "password cannot be hashed")
	}

	cred, res, err := insert(ctx, s, store.Staff, func(all []models.StaffCredential) (models.StaffCredential, error) {
		if nameTaken(all, username, "", staffUsername) {
			return models.StaffCredential{}, fault.Duplicate(store.Staff, username)
		}
		return models.StaffCredential{
			ID:        s.newID(),
			Username:  username,
			FullName:  strings.TrimSpace(in.FullName),
			Role:      role,
			Password:  hashed,
			CreatedAt: s.now(),
		}, nil
	})
	return cred.Redacted(), res, err
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords fail the same way.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.StaffCredential, error) {
	staff, err := list[models.StaffCredential](ctx, s, store.Staff)
	if err != nil {
		return models.StaffCredential{}, err
	}
	username = strings.ToLower(strings.TrimSpace(username))
	for _, c := range staff {
		if c.Username != username {
			continue
		}
		if utils.VerifyPassword(c.Password, password) != nil {
			break
		}
		return c.Redacted(), nil
	}
	return models.StaffCredential{}, fault.Invalid("invalid username or password")
}

func (s *Service) DeleteStaff(ctx context.Context, id string) (WriteResult, error) {
	return remove[models.StaffCredential](ctx, s, store.Staff, id)
}
