package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUsername    = errors.New("username must be 3-24 characters: letters, digits, underscores")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_]{3,24}$`)

// Service issues and verifies HS256 session tokens backed by local
// bcrypt-hashed credentials.
type Service struct {
	db     *pgxpool.Pool
	secret []byte
	expiry time.Duration
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

func NewService(db *pgxpool.Pool, secret string, expiry time.Duration) *Service {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Service{db: db, secret: []byte(secret), expiry: expiry}
}

func (s *Service) SignUp(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if !usernameRE.MatchString(username) {
		return Session{}, ErrInvalidUsername
	}
	if len(password) < 8 {
		return Session{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(ctx,
		`INSERT INTO users.profiles (id, username, password_hash) VALUES ($1, $2, $3)`,
		id, username, string(hash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Session{}, ErrUsernameTaken
		}
		return Session{}, fmt.Errorf("create profile: %w", err)
	}

	return s.issue(User{ID: id, Username: username})
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)

	var id, hash string
	err := s.db.QueryRow(ctx,
		`SELECT id, password_hash FROM users.profiles WHERE username = $1`, username).
		Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("load profile: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(User{ID: id, Username: username})
}

func (s *Service) issue(u User) (Session, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.expiry).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.expiry.Seconds()),
		User:        u,
	}, nil
}

// VerifyAccessToken parses and validates a session token and returns its
// user.
func (s *Service) VerifyAccessToken(ctx context.Context, accessToken string) (User, error) {
	token, err := jwt.Parse(accessToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return User{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	if sub == "" {
		return User{}, ErrInvalidToken
	}
	return User{ID: sub, Username: username}, nil
}
