package service

import (
	"context"
	"fmt"

	"wareflow/internal/audit"
	"wareflow/internal/bus"
	"wareflow/internal/command"
	"wareflow/internal/event"
	"wareflow/internal/model"
	"wareflow/internal/store"
)

// AuthService registers and authenticates users.
type AuthService struct {
	bus   bus.Publisher
	store store.Store
	audit *audit.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(b bus.Publisher, st store.Store, log *audit.Logger) *AuthService {
	return &AuthService{bus: b, store: st, audit: log}
}

// Handle dispatches commands understood by the auth service.
func (s *AuthService) Handle(ctx context.Context, msg bus.Message) error {
	switch m := msg.(type) {
	case command.Register:
		return s.Register(ctx, m)
	case command.Login:
		_, err := s.Login(ctx, m)
		return err
	}
	return nil
}

// Register creates a new user account and publishes user_registered.
// Duplicate usernames are rejected without mutation.
func (s *AuthService) Register(ctx context.Context, cmd command.Register) error {
	users := make(map[string]model.User)
	if err := s.store.Load(ctx, store.Users, &users); err != nil {
		return err
	}

	if _, exists := users[cmd.Username]; exists {
		s.audit.Log("REGISTRATION FAILED", "", fmt.Sprintf("user '%s' already exists", cmd.Username))
		return ErrUserExists
	}

	role := cmd.Role
	if role == "" {
		role = model.RoleUser
	}
	email := cmd.Email
	if email == "" {
		email = cmd.Username + "@example.com"
	}

	users[cmd.Username] = model.User{
		Password:       cmd.Password,
		Role:           role,
		Email:          email,
		ProfileCreated: false,
	}

	if err := s.store.Save(ctx, store.Users, users); err != nil {
		return err
	}
	s.audit.Log("REGISTRATION", cmd.Username, "role: "+role)

	s.bus.Publish(ctx, event.UserRegistered{
		Username: cmd.Username,
		Email:    email,
		Role:     role,
	})
	return nil
}

// Login authenticates a user against the persisted record and publishes
// user_logged_in. A failed login mutates nothing. The returned user is a
// direct-caller convenience for session creation.
func (s *AuthService) Login(ctx context.Context, cmd command.Login) (model.User, error) {
	users := make(map[string]model.User)
	if err := s.store.Load(ctx, store.Users, &users); err != nil {
		return model.User{}, err
	}

	user, exists := users[cmd.Username]
	if !exists {
		s.audit.Log("LOGIN FAILED", "", fmt.Sprintf("user '%s' not found", cmd.Username))
		return model.User{}, ErrUserNotFound
	}

	if cmd.Password != user.Password {
		s.audit.Log("LOGIN FAILED", cmd.Username, "wrong password")
		return model.User{}, ErrWrongPassword
	}

	s.audit.Log("LOGIN", cmd.Username, "role: "+user.Role)

	s.bus.Publish(ctx, event.UserLoggedIn{
		Username: cmd.Username,
		Role:     user.Role,
	})
	return user, nil
}
