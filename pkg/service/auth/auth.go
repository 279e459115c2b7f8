// Package auth extracts the current actor from the verified JWT the session
// layer puts on the request. Authentication itself (login, token issuance)
// is an external collaborator; this engine only consumes the actor id.
package auth

import (
	"errors"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hbenmansour/cashops/pkg/domain"
)

// Service resolves the current actor from a verified token.
type Service struct {
	logger *slog.Logger
}

// NewService creates the actor-resolution service.
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger.With("component", "auth.service")}
}

// CurrentActorID returns the actor id carried in the token's user_id claim.
func (s *Service) CurrentActorID(token *jwt.Token) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.Join(domain.ErrUnauthorized, errors.New("unexpected claims type"))
	}
	raw, ok := claims["user_id"].(string)
	if !ok || raw == "" {
		return uuid.Nil, errors.Join(domain.ErrUnauthorized, errors.New("missing user_id claim"))
	}
	actorID, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Error("invalid user_id claim", "error", err)
		return uuid.Nil, errors.Join(domain.ErrUnauthorized, err)
	}
	return actorID, nil
}
