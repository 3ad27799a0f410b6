package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/carekeeper/internal/client/events"
	"github.com/dmitrijs2005/carekeeper/internal/client/models"
	"github.com/dmitrijs2005/carekeeper/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/carekeeper/internal/common"
)

// ---- fake storage ----

type memStorage struct {
	user *models.User

	GetErr   error
	SetErr   error
	ClearErr error

	Sets   int
	Clears int
}

func (s *memStorage) GetUser(context.Context) (*models.User, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	if s.user == nil {
		return nil, nil
	}
	u := s.user.Clone()
	return &u, nil
}

func (s *memStorage) SetUser(_ context.Context, u models.User) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.Sets++
	c := u.Clone()
	s.user = &c
	return nil
}

func (s *memStorage) ClearUser(context.Context) error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.Clears++
	s.user = nil
	return nil
}

// ---- fake directory ----

type memDirectory struct {
	recs map[string]profiles.Record

	UpsertErr error
	GetErr    error
	ListErr   error
}

func newMemDirectory() *memDirectory {
	return &memDirectory{recs: map[string]profiles.Record{}}
}

func (d *memDirectory) Upsert(_ context.Context, rec profiles.Record) error {
	if d.UpsertErr != nil {
		return d.UpsertErr
	}
	d.recs[rec.User.ID] = rec
	return nil
}

func (d *memDirectory) Get(_ context.Context, id string) (*profiles.Record, error) {
	if d.GetErr != nil {
		return nil, d.GetErr
	}
	rec, ok := d.recs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rec, nil
}

func (d *memDirectory) List(context.Context) ([]profiles.Record, error) {
	if d.ListErr != nil {
		return nil, d.ListErr
	}
	out := make([]profiles.Record, 0, len(d.recs))
	for _, r := range d.recs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.ID < out[j].User.ID })
	return out, nil
}

// ---- fake notifier ----

type note struct {
	Level string
	Text  string
}

type recNotifier struct {
	notes []note
}

func (n *recNotifier) Success(_ context.Context, text string) {
	n.notes = append(n.notes, note{"success", text})
}

func (n *recNotifier) Info(_ context.Context, text string) {
	n.notes = append(n.notes, note{"info", text})
}

func (n *recNotifier) Warning(_ context.Context, text string) {
	n.notes = append(n.notes, note{"warning", text})
}

// ---- harness ----

var t0 = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	mgr      SessionManager
	storage  *memStorage
	dir      *memDirectory
	notifier *recNotifier
	bus      *events.Bus
	clock    *fakeClock
}

func newHarness() *harness {
	h := &harness{
		storage:  &memStorage{},
		dir:      newMemDirectory(),
		notifier: &recNotifier{},
		bus:      events.NewBus(),
		clock:    &fakeClock{now: t0},
	}
	h.mgr = h.build()
	return h
}

// build returns a second manager over the same collaborators, as a restarted
// process would see them.
func (h *harness) build() SessionManager {
	n := 0
	return NewSessionManager(Deps{
		Storage:   h.storage,
		Directory: h.dir,
		Notifier:  h.notifier,
		Bus:       h.bus,
		Now:       h.clock.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
}

// batchDirectory adds atomic batch writes to memDirectory.
type batchDirectory struct {
	*memDirectory

	Batches  int
	BatchErr error
}

func (d *batchDirectory) UpsertAll(ctx context.Context, recs []profiles.Record) error {
	d.Batches++
	if d.BatchErr != nil {
		return d.BatchErr
	}
	for _, rec := range recs {
		if err := d.Upsert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
