package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wareflow/internal/audit"
	"wareflow/internal/bus"
	"wareflow/internal/command"
	"wareflow/internal/event"
	"wareflow/internal/model"
	"wareflow/internal/store"
)

// ProfileService creates and updates user profiles.
type ProfileService struct {
	bus   bus.Publisher
	store store.Store
	audit *audit.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(b bus.Publisher, st store.Store, log *audit.Logger) *ProfileService {
	return &ProfileService{bus: b, store: st, audit: log}
}

// Handle dispatches profile commands and the email_verified event.
func (s *ProfileService) Handle(ctx context.Context, msg bus.Message) error {
	switch m := msg.(type) {
	case command.CreateProfile:
		return s.createProfile(ctx, m.Username)
	case event.EmailVerified:
		return s.createProfile(ctx, m.Username)
	case command.UpdateProfile:
		return s.updateProfile(ctx, m)
	}
	return nil
}

// createProfile marks the user's profile as created exactly once. Delivering
// email_verified again for an already-created profile is a no-op: no second
// profile_created event, no change to created_at.
func (s *ProfileService) createProfile(ctx context.Context, username string) error {
	users := make(map[string]model.User)
	if err := s.store.Load(ctx, store.Users, &users); err != nil {
		return err
	}

	user, exists := users[username]
	if !exists || user.ProfileCreated {
		return nil
	}

	now := time.Now()
	user.ProfileCreated = true
	user.CreatedAt = &now
	users[username] = user

	if err := s.store.Save(ctx, store.Users, users); err != nil {
		return err
	}
	s.audit.Log("PROFILE CREATED", username, "")

	s.bus.Publish(ctx, event.ProfileCreated{
		Username: username,
		Message:  fmt.Sprintf("profile for user %s created", username),
	})
	return nil
}

// updateProfile merges arbitrary field updates into the persisted record.
// Unknown fields are dropped by the JSON round trip.
func (s *ProfileService) updateProfile(ctx context.Context, cmd command.UpdateProfile) error {
	users := make(map[string]model.User)
	if err := s.store.Load(ctx, store.Users, &users); err != nil {
		return err
	}

	user, exists := users[cmd.Username]
	if !exists {
		s.audit.Log("PROFILE UPDATE FAILED", "", fmt.Sprintf("user '%s' not found", cmd.Username))
		return ErrUserNotFound
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for key, value := range cmd.Updates {
		fields[key] = value
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(merged, &user); err != nil {
		return err
	}

	users[cmd.Username] = user
	if err := s.store.Save(ctx, store.Users, users); err != nil {
		return err
	}

	s.audit.Log("PROFILE UPDATED", cmd.Username, fmt.Sprintf("%v", cmd.Updates))
	return nil
}
