package service

import (
	"context"
	"strings"
	"time"

	"minimarket/internal/apierror"
	"minimarket/internal/catalog"
	"minimarket/internal/config"
	"minimarket/internal/dto"
	"minimarket/internal/model"
	"minimarket/internal/state"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnknownUser is returned by Login for missing or inactive accounts.
var ErrUnknownUser = &apierror.Error{Kind: apierror.KindValidation, Code: "unknown_user", Msg: "Usuario no encontrado o inactivo"}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, actor Actor) error
	Me(ctx context.Context, actor Actor) (*model.User, error)
	ListUsers(ctx context.Context, actor Actor, filter dto.UserFilter) ([]model.User, error)
}

type authService struct {
	state *state.Container
	audit AuditService
	cfg   *config.Config
	now   clock
}

func NewAuthService(c *state.Container, audit AuditService, cfg *config.Config) AuthService {
	return &authService{state: c, audit: audit, cfg: cfg, now: time.Now}
}

// Login accepts any active seed account by username. There is no password.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	var user model.User
	found := false
	for _, u := range s.state.Snapshot().Users {
		if u.Username == username && u.IsActive {
			user, found = u, true
			break
		}
	}
	if !found {
		return nil, ErrUnknownUser
	}

	if _, err := s.state.Dispatch(ctx, state.Login{User: user}); err != nil {
		return nil, err
	}

	token, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, ActorFromUser(user), Change{
		Action: model.AuditLogin, Entity: model.EntityUser, EntityID: user.ID,
		Details: "Inicio de sesión",
	})

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        user,
	}, nil
}

// Logout force-closes the caller's active cash session, if any.
func (s *authService) Logout(ctx context.Context, actor Actor) error {
	before := s.state.Snapshot().CurrentCashSession
	after, err := s.state.Dispatch(ctx, state.Logout{UserID: actor.UserID, At: s.now()})
	if err != nil {
		return err
	}
	if before != nil && after.CurrentCashSession == nil {
		s.audit.Record(ctx, actor, Change{
			Action: model.AuditClose, Entity: model.EntityCash, EntityID: before.ID,
			Details: "Caja cerrada automáticamente al cerrar sesión",
		})
	}
	s.audit.Record(ctx, actor, Change{
		Action: model.AuditLogout, Entity: model.EntityUser, EntityID: actor.UserID,
		Details: "Cierre de sesión",
	})
	return nil
}

func (s *authService) Me(_ context.Context, actor Actor) (*model.User, error) {
	u, ok := s.state.Snapshot().User(actor.UserID)
	if !ok {
		return nil, apierror.NotFound("Usuario no encontrado")
	}
	return &u, nil
}

func (s *authService) ListUsers(_ context.Context, actor Actor, filter dto.UserFilter) ([]model.User, error) {
	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	q := catalog.Fold(strings.TrimSpace(filter.Search))
	out := []model.User{}
	for _, u := range s.state.Snapshot().Users {
		if q == "" || strings.Contains(catalog.Fold(u.Username), q) || strings.Contains(catalog.Fold(u.Email), q) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *authService) generateToken(user model.User, duration time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      now.Add(duration).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
