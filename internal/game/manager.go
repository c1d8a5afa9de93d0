package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const maxNameLen = 24

// RoomManager owns every live room. Operations on one room are serialised
// by that room's mutex; the table itself is guarded by mu. Locks are always
// taken manager first, then room.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*entry
	intn  IntN
	log   zerolog.Logger
}

type entry struct {
	mu     sync.Mutex
	room   *Room
	closed bool
}

type Option func(*RoomManager)

// WithRand replaces the source used to shuffle roles and mint room codes.
// Rooms draw from it concurrently, so calls are serialised.
func WithRand(intn IntN) Option {
	var mu sync.Mutex
	return func(rm *RoomManager) {
		rm.intn = func(n int) int {
			mu.Lock()
			defer mu.Unlock()
			return intn(n)
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(rm *RoomManager) { rm.log = l }
}

func NewRoomManager(opts ...Option) *RoomManager {
	rm := &RoomManager{
		rooms: make(map[string]*entry),
		intn:  rand.IntN,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(rm)
	}
	return rm
}

// Join seats connID in roomID, creating the room on first use. The join
// that fills the room starts the first round.
func (rm *RoomManager) Join(roomID, playerName, connID string) ([]Event, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil, ErrInvalidRoom
	}
	name, err := cleanName(playerName)
	if err != nil {
		return nil, err
	}

	rm.mu.Lock()
	e := rm.rooms[roomID]
	if e == nil {
		e = &entry{room: newRoom(roomID)}
		rm.rooms[roomID] = e
		rm.log.Info().Str("room", roomID).Msg("room created")
	}
	e.mu.Lock()
	rm.mu.Unlock()
	defer e.mu.Unlock()

	r := e.room

	if r.player(connID) != nil {
		return nil, ErrAlreadyJoined
	}
	if len(r.Players) >= MaxPlayers {
		return nil, ErrRoomFull
	}
	r.Players = append(r.Players, &Player{ID: connID, Name: name})
	r.Version++
	events := []Event{roomEvent(EvtRoomUpdate, r)}

	if len(r.Players) == MaxPlayers {
		started, err := r.StartRound(rm.intn)
		if err != nil {
			return events, fmt.Errorf("auto start: %w", err)
		}
		events = append(events, started...)
	}
	return events, nil
}

// Leave removes connID from every room it sits in. Rooms left empty are
// deleted.
func (rm *RoomManager) Leave(connID string) []Event {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	var events []Event
	for id, e := range rm.rooms {
		e.mu.Lock()
		evs, ok := e.room.removePlayer(connID)
		if ok && len(e.room.Players) == 0 {
			e.closed = true
			delete(rm.rooms, id)
			rm.log.Info().Str("room", id).Msg("room deleted")
			evs = nil
		}
		e.mu.Unlock()
		events = append(events, evs...)
	}
	return events
}

// StartManual starts a round on request of a room member once enough
// players are seated and no round is running.
func (rm *RoomManager) StartManual(roomID, requesterID string) ([]Event, error) {
	return rm.withRoom(roomID, func(r *Room) ([]Event, error) {
		if r.player(requesterID) == nil {
			return nil, ErrUnknownPlayer
		}
		if r.Status == StatusPlaying {
			return nil, ErrInvalidTurn
		}
		if len(r.Players) < MinPlayers {
			return nil, ErrNotEnoughPlayers
		}
		return r.StartRound(rm.intn)
	})
}

func (rm *RoomManager) Guess(roomID, guesserID, targetID string) ([]Event, error) {
	return rm.withRoom(roomID, func(r *Room) ([]Event, error) {
		return r.MakeGuess(guesserID, targetID)
	})
}

func (rm *RoomManager) NextRound(roomID string) ([]Event, error) {
	return rm.withRoom(roomID, func(r *Room) ([]Event, error) {
		if len(r.Players) < MinPlayers {
			return nil, ErrNotEnoughPlayers
		}
		return r.NextRound(rm.intn)
	})
}

// Room returns a snapshot of roomID.
func (rm *RoomManager) Room(roomID string) (Room, error) {
	var snap Room
	_, err := rm.withRoom(roomID, func(r *Room) ([]Event, error) {
		snap = r.Snapshot()
		return nil, nil
	})
	return snap, err
}

func (rm *RoomManager) Leaderboard(roomID string) ([]Standing, error) {
	var out []Standing
	_, err := rm.withRoom(roomID, func(r *Room) ([]Event, error) {
		out = r.Leaderboard()
		return nil, nil
	})
	return out, err
}

// Rooms lists every live room ordered by id.
func (rm *RoomManager) Rooms() []Summary {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	out := make([]Summary, 0, len(rm.rooms))
	for _, e := range rm.rooms {
		e.mu.Lock()
		out = append(out, e.room.summary())
		e.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// FreeCode returns a room code not currently in use. The room itself is
// only created by the first join.
func (rm *RoomManager) FreeCode() string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	code := randomCode(5, rm.intn)
	for rm.rooms[code] != nil {
		code = randomCode(5, rm.intn)
	}
	return code
}

func (rm *RoomManager) withRoom(roomID string, fn func(*Room) ([]Event, error)) ([]Event, error) {
	roomID = strings.TrimSpace(roomID)
	rm.mu.RLock()
	e := rm.rooms[roomID]
	if e == nil {
		rm.mu.RUnlock()
		return nil, ErrUnknownRoom
	}
	e.mu.Lock()
	rm.mu.RUnlock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrUnknownRoom
	}
	return fn(e.room)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	return name, nil
}

func randomCode(n int, intn IntN) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[intn(len(letters))]
	}
	return string(b)
}

// IsUserError reports whether err should be shown to the player who caused
// it rather than silently dropped.
func IsUserError(err error) bool {
	return errors.Is(err, ErrRoomFull) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidRoom) ||
		errors.Is(err, ErrAlreadyJoined)
}
