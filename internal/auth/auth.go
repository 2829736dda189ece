// Package auth handles email/password sign-in and bearer-token sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

// ErrInvalidCredentials is returned for a wrong email or password; the
// two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrUnauthenticated is returned for a missing, unknown or expired token.
var ErrUnauthenticated = errors.New("not signed in")

// userKey is the gin context key the middleware stores the user under.
const userKey = "auth.user"

type session struct {
	userID    int64
	expiresAt time.Time
}

// Manager validates credentials against the user table and keeps active
// sessions in memory. Sessions do not survive a restart.
type Manager struct {
	store  *sqlite.Store
	logger *slog.Logger
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]session
}

// NewManager builds a session manager with the given session lifetime.
func NewManager(store *sqlite.Store, logger *slog.Logger, ttl time.Duration) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		store:    store,
		logger:   logger,
		ttl:      ttl,
		sessions: make(map[string]session),
	}
}

// SignIn checks the credentials and returns a fresh session token plus
// the signed-in user.
func (m *Manager) SignIn(ctx context.Context, email, password string) (string, models.User, error) {
	user, hash, err := m.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = session{userID: user.ID, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()

	m.logger.Info("user signed in", slog.String("email", user.Email), slog.String("role", string(user.Role)))
	return token, user, nil
}

// SignOut revokes a session token. Unknown tokens are ignored.
func (m *Manager) SignOut(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Resolve maps a session token to its user, dropping expired sessions.
func (m *Manager) Resolve(ctx context.Context, token string) (models.User, error) {
	m.mu.Lock()
	sess, ok := m.sessions[token]
	if ok && time.Now().After(sess.expiresAt) {
		delete(m.sessions, token)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return models.User{}, ErrUnauthenticated
	}
	return m.store.GetUser(ctx, sess.userID)
}

// HashPassword produces the stored form of a password.
func HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", fmt.Errorf("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Middleware resolves the bearer token and injects the user into the
// request context. Requests without a valid session get a 401.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": ErrUnauthenticated.Error()})
			return
		}
		user, err := m.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": ErrUnauthenticated.Error()})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user the middleware attached to the request.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
