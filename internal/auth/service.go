package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minPasswordLen = 8

	msgBadCredentials = "Email ou mot de passe incorrect"
)

type Options struct {
	Secret []byte
	TTL    time.Duration
	// Les comptes créés avec ces emails reçoivent le rôle admin.
	AdminEmails []string
	Logger      *zap.Logger
}

type Service struct {
	users  UserRepository
	secret []byte
	ttl    time.Duration
	admins map[string]bool
	log    *zap.Logger
}

func NewService(users UserRepository, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	admins := make(map[string]bool, len(opts.AdminEmails))
	for _, e := range opts.AdminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = true
		}
	}
	return &Service{users: users, secret: opts.Secret, ttl: opts.TTL, admins: admins, log: opts.Logger}
}

// Session est renvoyée après inscription ou connexion.
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (s *Service) Register(ctx context.Context, name, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return Session{}, apperr.BadRequest("Email invalide")
	}
	if len(password) < minPasswordLen {
		return Session{}, apperr.BadRequest("Le mot de passe doit contenir au moins 8 caractères")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return Session{}, apperr.Internal("hash mot de passe", err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  hash,
		Role:      models.RoleCustomer,
		CreatedAt: time.Now().UTC(),
	}
	if s.admins[email] {
		user.Role = models.RoleAdmin
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return Session{}, apperr.Conflict("Un compte avec cet email existe déjà")
		}
		return Session{}, apperr.Internal("création utilisateur", err)
	}

	s.log.Info("👤 Nouvel utilisateur", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return s.session(user)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperr.ErrRecordNotFound) {
		return Session{}, apperr.Unauthenticated(msgBadCredentials)
	}
	if err != nil {
		return Session{}, apperr.Internal("lecture utilisateur", err)
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil {
		s.log.Warn("⚠️ Vérification mot de passe impossible", zap.String("user_id", user.ID), zap.Error(err))
	}
	if !ok {
		return Session{}, apperr.Unauthenticated(msgBadCredentials)
	}
	return s.session(user)
}

// Me relit l'utilisateur courant.
func (s *Service) Me(ctx context.Context, caller models.Caller) (models.User, error) {
	if !caller.Authenticated() {
		return models.User{}, apperr.Unauthenticated("Non authentifié")
	}
	user, err := s.users.GetUserByID(ctx, caller.UserID)
	if errors.Is(err, apperr.ErrRecordNotFound) {
		return models.User{}, apperr.NotFound("Utilisateur introuvable")
	}
	if err != nil {
		return models.User{}, apperr.Internal("lecture utilisateur", err)
	}
	return user, nil
}

func (s *Service) session(user models.User) (Session, error) {
	token, err := utils.GenerateJWT(user, s.secret, s.ttl)
	if err != nil {
		return Session{}, apperr.Internal("génération token", err)
	}
	return Session{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
