// Package events is a synchronous, typed signal bus between the session
// manager and the rest of the client.
//
// Handlers run on the emitter's goroutine in registration order. A handler
// added or removed while a signal is being emitted takes effect from the
// next emission.
package events

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/carekeeper/internal/client/models"
)

// Outbound signals, emitted by the session manager after its state changed.
type (
	UserLoggedIn struct {
		User models.User
		Role models.Role
	}
	UserLoggedOut      struct{}
	UserProfileUpdated struct {
		User models.User
	}
)

// Inbound signals, consumed by the session manager.
type (
	LoginRequested struct {
		User models.User
		Role models.Role
	}
	LogoutRequested struct{}
)

type Handler[T any] func(ctx context.Context, e T) error

type subscription[T any] struct {
	id uint64
	fn Handler[T]
}

type signal[T any] struct {
	next uint64
	subs []subscription[T]
}

func (s *signal[T]) on(fn Handler[T]) func() {
	s.next++
	id := s.next
	s.subs = append(s.subs, subscription[T]{id: id, fn: fn})

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *signal[T]) emit(ctx context.Context, e T) error {
	subs := s.subs
	var errs []error
	for _, sub := range subs {
		if err := sub.fn(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *signal[T]) len() int {
	return len(s.subs)
}

// Bus holds one registry per signal. The zero value is ready to use; a Bus
// is not safe for concurrent use.
type Bus struct {
	loggedIn       signal[UserLoggedIn]
	loggedOut      signal[UserLoggedOut]
	profileUpdated signal[UserProfileUpdated]
	loginRequest   signal[LoginRequested]
	logoutRequest  signal[LogoutRequested]
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) OnUserLoggedIn(h Handler[UserLoggedIn]) func() {
	return b.loggedIn.on(h)
}

func (b *Bus) OnUserLoggedOut(h Handler[UserLoggedOut]) func() {
	return b.loggedOut.on(h)
}

func (b *Bus) OnUserProfileUpdated(h Handler[UserProfileUpdated]) func() {
	return b.profileUpdated.on(h)
}

func (b *Bus) OnLoginRequested(h Handler[LoginRequested]) func() {
	return b.loginRequest.on(h)
}

func (b *Bus) OnLogoutRequested(h Handler[LogoutRequested]) func() {
	return b.logoutRequest.on(h)
}

func (b *Bus) EmitUserLoggedIn(ctx context.Context, e UserLoggedIn) error {
	return b.loggedIn.emit(ctx, e)
}

func (b *Bus) EmitUserLoggedOut(ctx context.Context, e UserLoggedOut) error {
	return b.loggedOut.emit(ctx, e)
}

func (b *Bus) EmitUserProfileUpdated(ctx context.Context, e UserProfileUpdated) error {
	return b.profileUpdated.emit(ctx, e)
}

// EmitLoginRequested asks subscribers (normally the session manager) to log
// the user in.
func (b *Bus) EmitLoginRequested(ctx context.Context, e LoginRequested) error {
	return b.loginRequest.emit(ctx, e)
}

func (b *Bus) EmitLogoutRequested(ctx context.Context, e LogoutRequested) error {
	return b.logoutRequest.emit(ctx, e)
}
