package service

import (
	"context"

	"wareflow/internal/audit"
	"wareflow/internal/bus"
	"wareflow/internal/command"
	"wareflow/internal/event"
)

// VerificationService simulates email verification. No real check is
// performed: every verification succeeds and publishes email_verified.
type VerificationService struct {
	bus   bus.Publisher
	audit *audit.Logger
}

// NewVerificationService creates a new verification service.
func NewVerificationService(b bus.Publisher, log *audit.Logger) *VerificationService {
	return &VerificationService{bus: b, audit: log}
}

// Handle dispatches the verify_email command and the user_registered event.
func (s *VerificationService) Handle(ctx context.Context, msg bus.Message) error {
	switch m := msg.(type) {
	case command.VerifyEmail:
		s.verifyEmail(ctx, m.Username, m.Email, m.Role)
	case event.UserRegistered:
		s.verifyEmail(ctx, m.Username, m.Email, m.Role)
	}
	return nil
}

func (s *VerificationService) verifyEmail(ctx context.Context, username, email, role string) {
	s.audit.Log("EMAIL VERIFICATION", username, "email: "+email)

	s.bus.Publish(ctx, event.EmailVerified{
		Username: username,
		Email:    email,
		Role:     role,
	})
}
