package game

import (
	"context"
	"errors"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jim-kask/project-xeri/internal/randutil"
)

var (
	// ErrRoomFull is returned when every seat at the table is taken.
	ErrRoomFull = errors.New("room is full")
	// ErrWrongPassword is returned when a locked table is joined without
	// the right password.
	ErrWrongPassword = errors.New("wrong table password")
	// ErrUnknownGame is returned for a kind no rule set exists for.
	ErrUnknownGame = errors.New("unknown game kind")
)

const defaultReapInterval = 5 * time.Minute

// Registry is the single source of truth mapping room ids to tables. The
// registry lock guards only creation and lookup; gameplay mutation happens
// under each table's own lock.
type Registry struct {
	logger zerolog.Logger
	clock  quartz.Clock

	mu     sync.RWMutex
	tables map[string]*Table

	rngMu sync.Mutex
	rng   *rand.Rand

	reapInterval time.Duration
}

// RegistryOption customises registry construction.
type RegistryOption func(*Registry)

// WithClock injects the clock used by the idle reaper. Tests drive it with
// a quartz mock.
func WithClock(clock quartz.Clock) RegistryOption {
	return func(r *Registry) { r.clock = clock }
}

// WithReapInterval overrides how often empty tables are swept.
func WithReapInterval(d time.Duration) RegistryOption {
	return func(r *Registry) { r.reapInterval = d }
}

// NewRegistry constructs a registry. It is created once at process start
// and never implicitly reset.
func NewRegistry(logger zerolog.Logger, rng *rand.Rand, opts ...RegistryOption) *Registry {
	r := &Registry{
		logger:       logger.With().Str("component", "registry").Logger(),
		clock:        quartz.NewReal(),
		tables:       make(map[string]*Table),
		rng:          rng,
		reapInterval: defaultReapInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// key namespaces room ids by game kind: a Xeri room and a Stress room may
// share a name without colliding.
func key(kind Kind, room string) string {
	return string(kind) + "/" + room
}

// shortID generates the compact lowercase ids used for tables and is
// guarded by the registry RNG lock.
func (r *Registry) shortID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	b := make([]byte, 8)
	for i := range b {
		b[i] = alphabet[r.rng.IntN(len(alphabet))]
	}
	return string(b)
}

// deriveRNG hands out an independent generator for one deal.
func (r *Registry) deriveRNG() *rand.Rand {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return randutil.Derive(r.rng)
}

// GetOrCreate returns the table for a room, creating an empty unstarted one
// on first use. Idempotent; never errors for a valid kind.
func (r *Registry) GetOrCreate(kind Kind, room string) *Table {
	r.mu.RLock()
	t, ok := r.tables[key(kind, room)]
	r.mu.RUnlock()
	if ok {
		return t
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tables[key(kind, room)]; ok {
		return t
	}
	t = &Table{ID: room, Name: room, Game: kind}
	r.tables[key(kind, room)] = t
	r.logger.Debug().Str("game", string(kind)).Str("room", room).Msg("Table created")
	return t
}

// Create declares a new table with a generated room id and an optional
// password gate.
func (r *Registry) Create(kind Kind, name, password string) (*Table, error) {
	if !kind.Valid() {
		return nil, ErrUnknownGame
	}
	room := r.shortID()
	t := r.GetOrCreate(kind, room)
	t.mu.Lock()
	if name != "" {
		t.Name = name
	}
	t.Password = password
	t.mu.Unlock()
	return t, nil
}

// Declare registers a preconfigured table under a fixed room id, used for
// tables declared in the server config file.
func (r *Registry) Declare(kind Kind, room, name, password string) (*Table, error) {
	if !kind.Valid() {
		return nil, ErrUnknownGame
	}
	t := r.GetOrCreate(kind, room)
	t.mu.Lock()
	if name != "" {
		t.Name = name
	}
	t.Password = password
	t.mu.Unlock()
	return t, nil
}

// Join seats a player at a room's table, creating the table on first join.
// Rejoining with a display name that already holds a seat reuses that seat
// instead of adding a duplicate.
func (r *Registry) Join(kind Kind, room, name, password string) (uuid.UUID, error) {
	if !kind.Valid() {
		return uuid.Nil, ErrUnknownGame
	}
	t := r.GetOrCreate(kind, room)
	rules := RulesFor(kind)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Password != "" && password != t.Password {
		return uuid.Nil, ErrWrongPassword
	}
	if p := t.seatByName(name); p != nil {
		return p.ID, nil
	}
	if len(t.Players) >= rules.MaxPlayers() {
		return uuid.Nil, ErrRoomFull
	}

	p := &Player{ID: uuid.New(), Name: name}
	t.Players = append(t.Players, p)
	r.logger.Info().
		Str("game", string(kind)).
		Str("room", room).
		Str("player", name).
		Int("seats", len(t.Players)).
		Msg("Player joined")
	return p.ID, nil
}

// MarkReady flags a seat ready and evaluates the start precondition: at
// least two seats, every one of them ready. Returns true when this call
// started the game. A no-op once the table has started.
func (r *Registry) MarkReady(kind Kind, room string, id uuid.UUID) bool {
	t, ok := r.lookup(kind, room)
	if !ok {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Started {
		return false
	}
	p := t.seat(id)
	if p == nil {
		return false
	}
	p.Ready = true
	return r.tryStartLocked(t)
}

// ClearReady unflags a seat; meaningless once the game has started.
func (r *Registry) ClearReady(kind Kind, room string, id uuid.UUID) {
	t, ok := r.lookup(kind, room)
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Started {
		return
	}
	if p := t.seat(id); p != nil {
		p.Ready = false
	}
}

// tryStartLocked deals iff the seat count has reached the game minimum and
// every seated player is ready. Caller holds t.mu.
func (r *Registry) tryStartLocked(t *Table) bool {
	rules := RulesFor(t.Game)
	if len(t.Players) < rules.MinPlayers() {
		return false
	}
	for _, p := range t.Players {
		if !p.Ready {
			return false
		}
	}
	rules.Deal(t, r.deriveRNG())
	r.logger.Info().
		Str("game", string(t.Game)).
		Str("room", t.ID).
		Int("seats", len(t.Players)).
		Msg("Game started")
	return true
}

// Remove vacates a seat. Any departure during an active game forcibly
// resets the table to a fresh unstarted state; there is no pause or resume.
// Returns true when a reset happened.
func (r *Registry) Remove(kind Kind, room string, id uuid.UUID) bool {
	t, ok := r.lookup(kind, room)
	if !ok {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	idx := -1
	for i, p := range t.Players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	t.Players = append(t.Players[:idx], t.Players[idx+1:]...)
	if t.TurnIdx >= len(t.Players) {
		t.TurnIdx = 0
	}

	wasStarted := t.Started
	if wasStarted {
		t.reset()
		r.logger.Info().
			Str("game", string(kind)).
			Str("room", room).
			Msg("Player left mid-game, table reset")
	}
	return wasStarted
}

// Apply routes a move through the table's rule set under the room lock.
// The second return is false when the room or seat does not exist.
func (r *Registry) Apply(kind Kind, room string, id uuid.UUID, mv Move) (Outcome, bool) {
	t, ok := r.lookup(kind, room)
	if !ok {
		return Outcome{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.seat(id)
	if p == nil {
		return Outcome{}, false
	}
	return RulesFor(kind).Apply(t, p, mv), true
}

func (r *Registry) lookup(kind Kind, room string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[key(kind, room)]
	return t, ok
}

// Run sweeps empty tables until ctx is cancelled. Tables with no seats are
// cheap to recreate on the next join, so they are reaped on an interval
// instead of living forever.
func (r *Registry) Run(ctx context.Context) {
	ticker := r.clock.TickerFunc(ctx, r.reapInterval, func() error {
		r.reap()
		return nil
	}, "reaper")
	_ = ticker.Wait()
}

func (r *Registry) reap() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tables {
		t.mu.Lock()
		empty := len(t.Players) == 0
		t.mu.Unlock()
		if empty {
			delete(r.tables, k)
			r.logger.Debug().Str("key", k).Msg("Reaped empty table")
		}
	}
}

// TableCount reports how many tables are live, for the stats endpoint.
func (r *Registry) TableCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}
