package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/validation"
	"golang.org/x/crypto/bcrypt"
)

const (
	nameMaxLength     = 100
	emailMaxLength    = 255
	passwordMinLength = 6
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	passwordMaxBytes = 72
)

type Service struct {
	repo     Repository
	hashCost int
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, hashCost: bcrypt.DefaultCost}
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// List returns every user for admins and only field workers for everyone else.
func (s *Service) List(ctx context.Context, actor access.Actor) ([]User, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return s.repo.List(ctx, "")
	}
	return s.repo.List(ctx, access.RoleUser)
}

// ListAssignable returns the users that can own schedules, ordered by name.
func (s *Service) ListAssignable(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx, access.RoleUser)
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Create(ctx context.Context, actor access.Actor, input Input) (*User, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	input.Role = access.AssignableRole(actor, strings.TrimSpace(input.Role))
	if !actor.IsAdmin() {
		input.Permissions = nil
	}
	if err := s.validate(ctx, &input, 0, true); err != nil {
		return nil, err
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Permissions:  input.Permissions,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, translateDuplicate(err)
	}
	return &user, nil
}

// Update leaves the password unchanged when input.Password is empty.
func (s *Service) Update(ctx context.Context, actor access.Actor, id int64, input Input) (*User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanManageUser(actor, user.Subject()); err != nil {
		return nil, err
	}

	input.Role = access.AssignableRole(actor, strings.TrimSpace(input.Role))
	if !actor.IsAdmin() {
		input.Permissions = user.Permissions
	}
	if err := s.validate(ctx, &input, id, input.Password != ""); err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Email = input.Email
	user.Role = input.Role
	user.Permissions = input.Permissions
	if input.Password != "" {
		hash, err := s.hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, translateDuplicate(err)
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.CanDelete(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return ErrCannotDeleteSelf
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		user, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := access.CanManageUser(actor, user.Subject()); err != nil {
			return err
		}

		owned, err := tx.CountOwnedSchedules(ctx, id)
		if err != nil {
			return err
		}
		if owned > 0 {
			return ErrUserHasSchedules
		}
		return tx.Delete(ctx, id)
	})
}

// EnsureUser creates or refreshes a user by email without an acting user. Used by the seeder.
func (s *Service) EnsureUser(ctx context.Context, input Input) (*User, error) {
	if err := s.validate(ctx, &input, -1, true); err != nil {
		return nil, err
	}
	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Permissions:  input.Permissions,
	}
	if err := s.repo.UpsertByEmail(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// validate checks input in place. exceptID < 0 skips the email uniqueness check.
func (s *Service) validate(ctx context.Context, input *Input, exceptID int64, checkPassword bool) error {
	errs := validation.Errors{}
	errs.RequiredMax("name", &input.Name, nameMaxLength)

	input.Email = normalizeEmail(input.Email)
	if errs.Required("email", input.Email) && errs.MaxLength("email", input.Email, emailMaxLength) {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errs.Add("email", "must be a valid email address")
		}
	}

	if checkPassword {
		switch {
		case len(input.Password) < passwordMinLength:
			errs.Add("password", fmt.Sprintf("must be at least %d characters", passwordMinLength))
		case len(input.Password) > passwordMaxBytes:
			errs.Add("password", fmt.Sprintf("must be at most %d bytes", passwordMaxBytes))
		}
	}
	if !access.ValidRole(input.Role) {
		errs.Add("role", "is not a valid role")
	}

	permissions := make([]string, 0, len(input.Permissions))
	for _, permission := range input.Permissions {
		if !access.ValidPermission(permission) {
			errs.Add("permissions", fmt.Sprintf("%q is not a valid permission", permission))
			continue
		}
		permissions = append(permissions, permission)
	}
	input.Permissions = permissions

	if exceptID >= 0 && !errs.Has("email") {
		taken, err := s.repo.EmailTaken(ctx, input.Email, exceptID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("email", "has already been taken")
		}
	}
	return errs.Err()
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func translateDuplicate(err error) error {
	if errors.Is(err, ErrDuplicateEmail) {
		return validation.Field("email", "has already been taken")
	}
	return err
}
