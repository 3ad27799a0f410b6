// Package services contains application services for the CareKeeper client.
// This file defines the session manager: login/logout/register, the
// persisted current-user slot, session expiry and role-based access checks.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/carekeeper/internal/client/events"
	"github.com/dmitrijs2005/carekeeper/internal/client/models"
	"github.com/dmitrijs2005/carekeeper/internal/client/notify"
	"github.com/dmitrijs2005/carekeeper/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/carekeeper/internal/common"
	"github.com/dmitrijs2005/carekeeper/internal/cryptox"
	"github.com/dmitrijs2005/carekeeper/internal/logging"
)

const DefaultSessionMaxAge = 24 * time.Hour

const (
	notePasswordChanged = "Password changed successfully"
	noteResetSent       = "Password reset instructions sent to %s"
	noteSessionExpired  = "Your session has expired. Please log in again."
)

// SessionManager defines session operations for the CLI.
//
// Contract:
//   - At most one user is current. IsAuthenticated is true iff one is.
//   - Every state change is persisted through Storage before the matching
//     signal is emitted on the bus.
//   - Not safe for concurrent use; handlers may call back into the manager.
type SessionManager interface {
	Init(ctx context.Context) error
	Close()

	Login(ctx context.Context, user models.User, role models.Role) (models.User, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, in models.RegisterInput, role models.Role) (models.User, error)

	IsAuthenticated() bool
	CurrentUser() (models.User, bool)
	GetUserRole() models.Role
	HasRole(role models.Role) bool

	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	ResetPassword(ctx context.Context, email string) error

	ExtendSession(ctx context.Context) error
	IsSessionExpired() bool
	CheckSessionExpiry(ctx context.Context) bool

	CanAccessRoute(route string) bool
	GetUserPermissions() []string
	HasPermission(permission string) bool

	CreateDemoUsers(ctx context.Context) error
	LoginDemo(ctx context.Context, role models.Role) (models.User, error)
	Profile(ctx context.Context, id string) (models.User, error)
	Profiles(ctx context.Context) ([]models.User, error)
}

// ProfileDirectory is the id -> profile mapping the manager registers into.
type ProfileDirectory interface {
	Upsert(ctx context.Context, rec profiles.Record) error
	Get(ctx context.Context, id string) (*profiles.Record, error)
	List(ctx context.Context) ([]profiles.Record, error)
}

// Deps are the collaborators of a session manager. Storage, Directory and
// Notifier are required; the rest default to production values.
type Deps struct {
	Storage   Storage
	Directory ProfileDirectory
	Notifier  notify.Notifier
	Bus       *events.Bus
	Logger    logging.Logger

	Now    func() time.Time
	NewID  func() string
	MaxAge time.Duration
}

// session is the explicit current-user slot.
type session struct {
	user     *models.User
	loggedIn bool
}

type sessionManager struct {
	storage   Storage
	directory ProfileDirectory
	notifier  notify.Notifier
	bus       *events.Bus
	log       logging.Logger
	now       func() time.Time
	newID     func() string
	maxAge    time.Duration

	state  session
	unsubs []func()
}

// NewSessionManager constructs a SessionManager in the logged-out state.
// Call Init to restore a persisted session and subscribe to the bus.
func NewSessionManager(d Deps) SessionManager {
	m := &sessionManager{
		storage:   d.Storage,
		directory: d.Directory,
		notifier:  d.Notifier,
		bus:       d.Bus,
		log:       d.Logger,
		now:       d.Now,
		newID:     d.NewID,
		maxAge:    d.MaxAge,
	}
	if m.bus == nil {
		m.bus = events.NewBus()
	}
	if m.log == nil {
		m.log = logging.Discard()
	}
	m.log = m.log.With("component", "session")
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	if m.maxAge <= 0 {
		m.maxAge = DefaultSessionMaxAge
	}
	return m
}

// Init restores the persisted user, if any, and subscribes to inbound
// login/logout requests. Calling Init again re-reads storage but does not
// subscribe twice.
func (m *sessionManager) Init(ctx context.Context) error {
	if m.unsubs == nil {
		m.unsubs = append(m.unsubs,
			m.bus.OnLoginRequested(func(ctx context.Context, e events.LoginRequested) error {
				_, err := m.Login(ctx, e.User, e.Role)
				return err
			}),
			m.bus.OnLogoutRequested(func(ctx context.Context, _ events.LogoutRequested) error {
				return m.Logout(ctx)
			}),
		)
	}

	stored, err := m.storage.GetUser(ctx)
	if err != nil {
		m.log.Error(ctx, "failed to restore session", "error", err)
		return fmt.Errorf("restore session: %w", err)
	}
	if stored == nil {
		m.state = session{}
		return nil
	}

	m.state = session{user: stored, loggedIn: true}
	m.log.Info(ctx, "session restored", "user_id", stored.ID, "role", stored.Role)
	return nil
}

// Close drops the bus subscriptions made by Init.
func (m *sessionManager) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
}

func (m *sessionManager) persist(ctx context.Context, op string) error {
	if err := m.storage.SetUser(ctx, *m.state.user); err != nil {
		m.log.Error(ctx, "failed to persist session", "op", op, "error", err)
		return fmt.Errorf("%s: persist session: %w", op, err)
	}
	return nil
}

// Login makes user current under role with a fresh login time and session
// id. Any earlier activity stamp is dropped so expiry counts from now.
func (m *sessionManager) Login(ctx context.Context, user models.User, role models.Role) (models.User, error) {
	u := user.Clone()
	u.Role = role
	u.LoginTime = m.now()
	u.LastActivity = time.Time{}
	u.SessionID = m.newID()

	m.state = session{user: &u, loggedIn: true}
	if err := m.persist(ctx, "login"); err != nil {
		return u.Clone(), err
	}
	m.log.Info(ctx, "user logged in", "user_id", u.ID, "role", role, "session_id", u.SessionID)

	if err := m.bus.EmitUserLoggedIn(ctx, events.UserLoggedIn{User: u.Clone(), Role: role}); err != nil {
		m.log.Warn(ctx, "userLoggedIn handler failed", "error", err)
	}
	return u.Clone(), nil
}

// Logout clears the session. When already logged out only the persisted
// record is cleared again and no signal is emitted.
func (m *sessionManager) Logout(ctx context.Context) error {
	wasLoggedIn := m.state.loggedIn
	var userID string
	if m.state.user != nil {
		userID = m.state.user.ID
	}

	m.state = session{}
	if err := m.storage.ClearUser(ctx); err != nil {
		m.log.Error(ctx, "failed to clear session", "error", err)
		return fmt.Errorf("logout: clear session: %w", err)
	}
	if !wasLoggedIn {
		return nil
	}
	m.log.Info(ctx, "user logged out", "user_id", userID)

	if err := m.bus.EmitUserLoggedOut(ctx, events.UserLoggedOut{}); err != nil {
		m.log.Warn(ctx, "userLoggedOut handler failed", "error", err)
	}
	return nil
}

// Register validates in, stores the new profile in the directory and logs
// the user in. On a validation error nothing is stored.
func (m *sessionManager) Register(ctx context.Context, in models.RegisterInput, role models.Role) (models.User, error) {
	if err := validateRegistration(in); err != nil {
		return models.User{}, err
	}

	u := models.User{
		ID:               m.newID(),
		Name:             strings.TrimSpace(in.Name),
		Email:            in.Email,
		Role:             role,
		Phone:            in.Phone,
		Specialization:   in.Specialization,
		RegistrationDate: m.now(),
		IsActive:         true,
	}

	salt, verifier := cryptox.NewPasswordVerifier([]byte(in.Password))
	if err := m.directory.Upsert(ctx, profiles.Record{User: u, Salt: salt, Verifier: verifier}); err != nil {
		m.log.Error(ctx, "failed to store profile", "user_id", u.ID, "error", err)
		return models.User{}, fmt.Errorf("register: %w", err)
	}
	m.log.Info(ctx, "user registered", "user_id", u.ID, "role", role)

	return m.Login(ctx, u, role)
}

func (m *sessionManager) IsAuthenticated() bool {
	return m.state.loggedIn && m.state.user != nil
}

func (m *sessionManager) CurrentUser() (models.User, bool) {
	if !m.IsAuthenticated() {
		return models.User{}, false
	}
	return m.state.user.Clone(), true
}

func (m *sessionManager) GetUserRole() models.Role {
	if m.state.user == nil {
		return ""
	}
	return m.state.user.Role
}

func (m *sessionManager) HasRole(role models.Role) bool {
	return m.state.user != nil && m.state.user.Role == role
}

// UpdateProfile overwrites the set fields of upd on the current user.
func (m *sessionManager) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	if !m.IsAuthenticated() {
		return models.User{}, common.ErrNotAuthenticated
	}

	upd.ApplyTo(m.state.user)
	if err := m.persist(ctx, "update profile"); err != nil {
		return models.User{}, err
	}
	u := m.state.user.Clone()
	m.log.Info(ctx, "profile updated", "user_id", u.ID)

	if err := m.bus.EmitUserProfileUpdated(ctx, events.UserProfileUpdated{User: u.Clone()}); err != nil {
		m.log.Warn(ctx, "userProfileUpdated handler failed", "error", err)
	}
	return u, nil
}

// ChangePassword stamps a new password on the current user.
//
// currentPassword is not checked against anything: any value is accepted.
// When the user has a directory record its verifier is re-derived from
// newPassword.
func (m *sessionManager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if !m.IsAuthenticated() {
		return common.ErrNotAuthenticated
	}
	if !validPassword(newPassword) {
		return common.NewValidationError([]string{msgPasswordShort})
	}

	now := m.now()
	// the directory goes first so a failure leaves the session untouched
	if err := m.rekeyProfile(ctx, m.state.user.ID, newPassword, now); err != nil {
		return err
	}

	m.state.user.PasswordLastChanged = &now
	if err := m.persist(ctx, "change password"); err != nil {
		return err
	}

	m.log.Info(ctx, "password changed", "user_id", m.state.user.ID)
	m.notifier.Success(ctx, notePasswordChanged)
	return nil
}

func (m *sessionManager) rekeyProfile(ctx context.Context, id, password string, changed time.Time) error {
	rec, err := m.directory.Get(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	rec.Salt, rec.Verifier = cryptox.NewPasswordVerifier([]byte(password))
	rec.User.PasswordLastChanged = &changed
	if err := m.directory.Upsert(ctx, *rec); err != nil {
		m.log.Error(ctx, "failed to update profile verifier", "user_id", id, "error", err)
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// ResetPassword only announces that instructions were sent.
func (m *sessionManager) ResetPassword(ctx context.Context, email string) error {
	if !validEmail(email) {
		return common.NewValidationError([]string{msgEmailInvalid})
	}
	m.notifier.Info(ctx, fmt.Sprintf(noteResetSent, email))
	return nil
}

func (m *sessionManager) ExtendSession(ctx context.Context) error {
	if !m.IsAuthenticated() {
		return nil
	}
	m.state.user.LastActivity = m.now()
	return m.persist(ctx, "extend session")
}

func (m *sessionManager) IsSessionExpired() bool {
	if !m.IsAuthenticated() {
		return true
	}
	return m.now().Sub(m.state.user.ActivityReference()) > m.maxAge
}

// CheckSessionExpiry logs the user out and warns when the session is no
// longer valid. It reports whether the session may be used.
func (m *sessionManager) CheckSessionExpiry(ctx context.Context) bool {
	if !m.IsSessionExpired() {
		return true
	}

	if m.IsAuthenticated() {
		m.log.Warn(ctx, "session expired", "user_id", m.state.user.ID)
	}
	if err := m.Logout(ctx); err != nil {
		m.log.Error(ctx, "logout after expiry failed", "error", err)
	}
	m.notifier.Warning(ctx, noteSessionExpired)
	return false
}

// CanAccessRoute reports whether the current user may open route.
// Anonymous users may open only the login route; signed-in users may open
// only routes listed for their role, which excludes login.
func (m *sessionManager) CanAccessRoute(route string) bool {
	if !m.IsAuthenticated() {
		return route == LoginRoute
	}
	return slices.Contains(roleRoutes[m.state.user.Role], route)
}

func (m *sessionManager) GetUserPermissions() []string {
	if m.state.user == nil {
		return []string{}
	}
	return PermissionsFor(m.state.user.Role)
}

func (m *sessionManager) HasPermission(permission string) bool {
	return slices.Contains(m.GetUserPermissions(), permission)
}

// DemoUsers returns the fixed demo profiles.
func DemoUsers(now time.Time) []models.User {
	return []models.User{
		{
			ID:               "demo-patient",
			Name:             "Demo Patient",
			Email:            "patient@demo.com",
			Role:             models.RolePatient,
			RegistrationDate: now,
			IsActive:         true,
			IsDemo:           true,
		},
		{
			ID:               "demo-doctor",
			Name:             "Dr. Demo Doctor",
			Email:            "doctor@demo.com",
			Role:             models.RoleDoctor,
			Specialization:   "General Practice",
			RegistrationDate: now,
			IsActive:         true,
			IsDemo:           true,
		},
	}
}

// batchUpserter is implemented by directories that can store several
// records atomically.
type batchUpserter interface {
	UpsertAll(ctx context.Context, recs []profiles.Record) error
}

// CreateDemoUsers seeds the demo profiles, overwriting earlier copies.
func (m *sessionManager) CreateDemoUsers(ctx context.Context) error {
	users := DemoUsers(m.now())
	recs := make([]profiles.Record, 0, len(users))
	for _, u := range users {
		recs = append(recs, profiles.Record{User: u})
	}

	if b, ok := m.directory.(batchUpserter); ok {
		if err := b.UpsertAll(ctx, recs); err != nil {
			return fmt.Errorf("seed demo users: %w", err)
		}
	} else {
		for _, rec := range recs {
			if err := m.directory.Upsert(ctx, rec); err != nil {
				return fmt.Errorf("seed demo user %s: %w", rec.User.ID, err)
			}
		}
	}

	m.log.Debug(ctx, "demo users seeded", "count", len(recs))
	return nil
}

// LoginDemo logs in as the demo profile for role. It returns
// common.ErrorNotFound when no such profile has been seeded.
func (m *sessionManager) LoginDemo(ctx context.Context, role models.Role) (models.User, error) {
	recs, err := m.directory.List(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("demo login: %w", err)
	}

	for _, rec := range recs {
		if rec.User.IsDemo && rec.User.Role == role {
			return m.Login(ctx, rec.User, role)
		}
	}
	return models.User{}, fmt.Errorf("demo user for role %q: %w", role, common.ErrorNotFound)
}

func (m *sessionManager) Profile(ctx context.Context, id string) (models.User, error) {
	rec, err := m.directory.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return rec.User, nil
}

func (m *sessionManager) Profiles(ctx context.Context) ([]models.User, error) {
	recs, err := m.directory.List(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.User)
	}
	return users, nil
}
