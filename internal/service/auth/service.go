// Package auth handles signup, login and the active session identity.
package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"invoicedesk/internal/domain"
)

type store interface {
	Users(ctx context.Context) ([]domain.Credential, error)
	SaveUsers(ctx context.Context, users []domain.Credential) error
	AuthUser(ctx context.Context) (*domain.AuthUser, error)
	SaveAuthUser(ctx context.Context, u *domain.AuthUser) error
}

// Service handles account signup and login flows.
type Service struct {
	store store
	cost  int
}

// New creates a Service hashing with bcrypt.DefaultCost.
func New(store store) *Service {
	return &Service{store: store, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in SignupInput) validate() error {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "Name is required.")
	}
	if normalizeEmail(in.Email) == "" {
		problems = append(problems, "Email is required.")
	}
	if in.Password == "" {
		problems = append(problems, "Password is required.")
	}
	if len(problems) > 0 {
		return &domain.ValidationError{Problems: problems}
	}
	return nil
}

// Signup stores a new credential and makes it the active session.
func (s *Service) Signup(ctx context.Context, in SignupInput) (domain.AuthUser, error) {
	if err := in.validate(); err != nil {
		return domain.AuthUser{}, err
	}
	email := normalizeEmail(in.Email)
	users, err := s.store.Users(ctx)
	if err != nil {
		return domain.AuthUser{}, err
	}
	for _, u := range users {
		if normalizeEmail(u.Email) == email {
			return domain.AuthUser{}, domain.ErrDuplicateAccount
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return domain.AuthUser{}, err
	}
	cred := domain.Credential{Name: strings.TrimSpace(in.Name), Email: email, Password: string(hashed)}
	if err := s.store.SaveUsers(ctx, append(users, cred)); err != nil {
		return domain.AuthUser{}, err
	}

	user := cred.Public()
	if err := s.store.SaveAuthUser(ctx, &user); err != nil {
		return domain.AuthUser{}, err
	}
	return user, nil
}

// Login checks an email and password pair. Unknown emails and wrong
// passwords fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (domain.AuthUser, error) {
	email = normalizeEmail(email)
	users, err := s.store.Users(ctx)
	if err != nil {
		return domain.AuthUser{}, err
	}
	var match *domain.Credential
	for i := range users {
		if normalizeEmail(users[i].Email) == email {
			match = &users[i]
			break
		}
	}
	if match == nil {
		return domain.AuthUser{}, domain.ErrAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(match.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrHashTooShort) {
			return domain.AuthUser{}, domain.ErrAuthenticationFailed
		}
		return domain.AuthUser{}, err
	}

	user := match.Public()
	if err := s.store.SaveAuthUser(ctx, &user); err != nil {
		return domain.AuthUser{}, err
	}
	return user, nil
}

// Logout clears the active session. Accounts are untouched.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.SaveAuthUser(ctx, nil)
}

// Current returns the active session identity, or nil.
func (s *Service) Current(ctx context.Context) (*domain.AuthUser, error) {
	return s.store.AuthUser(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
