package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"evcharge-dashboard-go/internal/models"
	"evcharge-dashboard-go/internal/persistence"
	"evcharge-dashboard-go/internal/security"
	"evcharge-dashboard-go/internal/snapshot"
	"evcharge-dashboard-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	minNameLength = 2
	maxNameLength = 64
)

// Users is the part of the store the session manager reads and writes.
type Users interface {
	GetUserById(ctx context.Context, userId int64) (*models.User, error)
	GetUserByName(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, params store.CreateUserParams) (*models.User, error)
}

// Mutator persists a successful mutation.
type Mutator interface {
	Mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error
}

// Manager derives the cached session from a credential check and keeps it in
// the blob store under its own key.
type Manager struct {
	users           Users
	mutator         Mutator
	blobs           snapshot.BlobStore
	key             string
	hasher          security.Hasher
	startingBalance decimal.Decimal

	dummyOnce sync.Once
	dummyHash string
}

func NewManager(users Users, mutator Mutator, blobs snapshot.BlobStore, key string, hasher security.Hasher, startingBalance decimal.Decimal) *Manager {
	return &Manager{
		users:           users,
		mutator:         mutator,
		blobs:           blobs,
		key:             key,
		hasher:          hasher,
		startingBalance: startingBalance,
	}
}

// Login checks the credentials and stores a fresh session. A wrong password
// and an unknown name produce the same error.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, &ValidationError{Err: ErrInvalidCredentials}
	}

	user, err := m.users.GetUserByName(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("unable to look up user: %w", err)
		}
		// Burn the same hashing time as a real comparison
		_ = m.hasher.Compare(m.dummy(), password)
		zap.L().Info("Login failed", zap.String("username", username))
		return nil, &ValidationError{Err: ErrInvalidCredentials}
	}

	if err := m.hasher.Compare(user.PasswordHash, password); err != nil {
		zap.L().Info("Login failed", zap.String("username", username))
		return nil, &ValidationError{Err: ErrInvalidCredentials}
	}

	session := &models.Session{
		Id:         uuid.NewString(),
		UserId:     user.Id,
		Username:   user.Username,
		Role:       user.Role,
		Wallet:     user.Wallet,
		LoggedInAt: time.Now().UTC(),
	}
	if err := m.save(ctx, session); err != nil {
		return nil, err
	}

	zap.L().Info("User logged in",
		zap.String("session_id", session.Id),
		zap.Int64("user_id", user.Id),
		zap.String("role", string(user.Role)))
	return session, nil
}

// Register creates the user and logs them in. When the new row could not be
// persisted the session is still returned together with the
// *persistence.Error.
func (m *Manager) Register(ctx context.Context, username, password string, role models.Role) (*models.Session, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minNameLength || n > maxNameLength {
		return nil, &ValidationError{
			Field: "username",
			Err:   fmt.Errorf("must be between %d and %d characters", minNameLength, maxNameLength),
		}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Err: errors.New("cannot be empty")}
	}
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Err: fmt.Errorf("unknown role %q", role)}
	}

	hash, err := m.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("unable to hash password: %w", err)
	}

	wallet := decimal.Zero
	if role == models.RoleCustomer {
		wallet = m.startingBalance
	}

	err = m.mutator.Mutate(ctx, "register", func(ctx context.Context) error {
		_, err := m.users.CreateUser(ctx, store.CreateUserParams{
			Username:     username,
			PasswordHash: hash,
			Role:         role,
			Wallet:       wallet,
		})
		return err
	})

	var persistErr *persistence.Error
	switch {
	case errors.Is(err, store.ErrDuplicateUser):
		zap.L().Info("Registration rejected, name taken", zap.String("username", username))
		return nil, &ValidationError{Field: "username", Err: ErrNameTaken}
	case errors.As(err, &persistErr):
		zap.L().Warn("Registered user not persisted", zap.String("username", username), zap.Error(err))
	case err != nil:
		return nil, fmt.Errorf("unable to register user: %w", err)
	}

	session, loginErr := m.Login(ctx, username, password)
	if loginErr != nil {
		return nil, loginErr
	}
	if persistErr != nil {
		return session, persistErr
	}
	return session, nil
}

// Current returns the cached session without touching the users table, or
// nil when nobody is logged in.
func (m *Manager) Current(ctx context.Context) (*models.Session, error) {
	data, err := m.blobs.Get(ctx, m.key)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		zap.L().Warn("Discarding unreadable session", zap.Error(err))
		return nil, nil
	}
	return &session, nil
}

// RefreshSession re-reads the user row and rewrites the cached session. It
// returns nil when there is no session or the user no longer exists.
func (m *Manager) RefreshSession(ctx context.Context) (*models.Session, error) {
	session, err := m.Current(ctx)
	if err != nil || session == nil {
		return nil, err
	}

	user, err := m.users.GetUserById(ctx, session.UserId)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			zap.L().Warn("Session user no longer exists", zap.Int64("user_id", session.UserId))
			return nil, m.Logout(ctx)
		}
		return nil, fmt.Errorf("unable to refresh session: %w", err)
	}

	session.Username = user.Username
	session.Role = user.Role
	session.Wallet = user.Wallet
	if err := m.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RequireRole returns the session only if it has role. Otherwise the error is
// a *RedirectError naming where the caller should go instead.
func (m *Manager) RequireRole(ctx context.Context, role models.Role) (*models.Session, error) {
	session, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &RedirectError{Target: TargetLanding}
	}
	if session.Role != role {
		return nil, &RedirectError{Target: targetFor(session.Role)}
	}
	return session, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	if err := m.blobs.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("unable to clear session: %w", err)
	}
	zap.L().Info("Session cleared")
	return nil
}

func (m *Manager) save(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("unable to encode session: %w", err)
	}
	if err := m.blobs.Put(ctx, m.key, data); err != nil {
		return &persistence.Error{Op: "save session", Err: err}
	}
	return nil
}

func (m *Manager) dummy() string {
	m.dummyOnce.Do(func() {
		hash, err := m.hasher.Hash(uuid.NewString())
		if err != nil {
			zap.L().Warn("Failed to build dummy hash", zap.Error(err))
		}
		m.dummyHash = hash
	})
	return m.dummyHash
}
