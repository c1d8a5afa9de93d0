package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *RoomManager {
	return NewRoomManager(WithRand(inOrder))
}

func joinN(t *testing.T, rm *RoomManager, roomID string, n int) []Event {
	t.Helper()
	var last []Event
	for i := 1; i <= n; i++ {
		events, err := rm.Join(roomID, fmt.Sprintf("P%d", i), fmt.Sprintf("p%d", i))
		require.NoError(t, err)
		last = events
	}
	return last
}

func TestNewRoomManager(t *testing.T) {
	rm := NewRoomManager()
	require.NotNil(t, rm.rooms)
	assert.Empty(t, rm.Rooms())
}

func TestJoin_CreatesRoomOnFirstJoin(t *testing.T) {
	rm := newTestManager()

	events, err := rm.Join("ABCDE", "  Alice ", "c1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EvtRoomUpdate, events[0].Name)
	assert.Equal(t, "ABCDE", events[0].RoomID)

	room, err := rm.Room("ABCDE")
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, room.Status)
	assert.Equal(t, StageWaiting, room.GameState.Stage)
	assert.Equal(t, MaxPlayers, room.MaxPlayers)
	assert.Equal(t, MinPlayers, room.MinPlayers)
	require.Len(t, room.Players, 1)
	assert.Equal(t, Player{ID: "c1", Name: "Alice"}, *room.Players[0])
}

func TestJoin_Validation(t *testing.T) {
	rm := newTestManager()

	_, err := rm.Join("  ", "Alice", "c1")
	assert.ErrorIs(t, err, ErrInvalidRoom)
	_, err = rm.Join("ROOM", "   ", "c1")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Empty(t, rm.Rooms(), "rejected joins must not create rooms")

	_, err = rm.Join("ROOM", "Alice", "c1")
	require.NoError(t, err)
	_, err = rm.Join("ROOM", "Alice again", "c1")
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	_, err = rm.Join("ROOM", "Bartholomew-Maximilian-the-Third", "c2")
	require.NoError(t, err)
	room, _ := rm.Room("ROOM")
	assert.Len(t, []rune(room.Players[1].Name), maxNameLen)
}

func TestJoin_ScenarioD_AutoStartAtCapacity(t *testing.T) {
	rm := newTestManager()

	events := joinN(t, rm, "FULL", 5)
	assert.False(t, Contains(events, EvtStartRound))
	room, _ := rm.Room("FULL")
	assert.Equal(t, StatusWaiting, room.Status)

	events, err := rm.Join("FULL", "P6", "p6")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EvtRoomUpdate, events[0].Name)
	assert.Equal(t, EvtStartRound, events[1].Name)

	room, _ = rm.Room("FULL")
	assert.Equal(t, StatusPlaying, room.Status)
	assert.Equal(t, 6, room.GameState.PlayerCount)

	_, err = rm.Join("FULL", "P7", "p7")
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.True(t, IsUserError(err))
	room, _ = rm.Room("FULL")
	assert.Len(t, room.Players, 6)
}

func TestStartManual(t *testing.T) {
	rm := newTestManager()
	joinN(t, rm, "R", 3)

	_, err := rm.StartManual("R", "p1")
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = rm.Join("R", "P4", "p4")
	require.NoError(t, err)

	_, err = rm.StartManual("R", "stranger")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	events, err := rm.StartManual("R", "p2")
	require.NoError(t, err)
	assert.True(t, Contains(events, EvtStartRound))

	_, err = rm.StartManual("R", "p2")
	assert.ErrorIs(t, err, ErrInvalidTurn, "no restart while playing")

	_, err = rm.StartManual("NOPE", "p1")
	assert.ErrorIs(t, err, ErrUnknownRoom)
	assert.False(t, IsUserError(err))
}

func TestGuessAndNextRound_ThroughManager(t *testing.T) {
	rm := newTestManager()
	joinN(t, rm, "R", 4)
	_, err := rm.StartManual("R", "p1")
	require.NoError(t, err)

	_, err = rm.Guess("R", "p2", "p3")
	assert.ErrorIs(t, err, ErrInvalidTurn)

	for _, step := range [][2]string{{"p1", "p2"}, {"p2", "p3"}, {"p3", "p4"}} {
		_, err := rm.Guess("R", step[0], step[1])
		require.NoError(t, err)
	}
	room, _ := rm.Room("R")
	assert.Equal(t, StatusRoundEnded, room.Status)

	board, err := rm.Leaderboard("R")
	require.NoError(t, err)
	assert.Equal(t, "p1", board[0].PlayerID)

	events, err := rm.NextRound("R")
	require.NoError(t, err)
	assert.True(t, Contains(events, EvtStartRound))
	room, _ = rm.Room("R")
	assert.Equal(t, 2, room.GameState.Round)
	assert.Equal(t, 1000, room.Players[0].TotalScore)

	_, err = rm.NextRound("missing")
	assert.ErrorIs(t, err, ErrUnknownRoom)
	_, err = rm.Guess("missing", "p1", "p2")
	assert.ErrorIs(t, err, ErrUnknownRoom)
}

func TestLeave_DeletesEmptyRooms(t *testing.T) {
	rm := newTestManager()
	_, err := rm.Join("A", "Alice", "c1")
	require.NoError(t, err)
	_, err = rm.Join("B", "Alice", "c1")
	require.NoError(t, err)
	_, err = rm.Join("B", "Bob", "c2")
	require.NoError(t, err)

	events := rm.Leave("c1")
	require.Len(t, events, 1)
	assert.Equal(t, EvtRoomUpdate, events[0].Name)
	assert.Equal(t, "B", events[0].RoomID)

	_, err = rm.Room("A")
	assert.ErrorIs(t, err, ErrUnknownRoom)
	summaries := rm.Rooms()
	require.Len(t, summaries, 1)
	assert.Equal(t, Summary{ID: "B", Players: 1, Status: StatusWaiting}, summaries[0])

	assert.Empty(t, rm.Leave("c1"))
	assert.Empty(t, rm.Leave("c2"))
	assert.Empty(t, rm.Rooms())
}

func TestLeave_GuesserDisconnectKeepsRoomConsistent(t *testing.T) {
	rm := newTestManager()
	joinN(t, rm, "R", 6)

	events := rm.Leave("p1")
	require.Len(t, events, 1)

	room, err := rm.Room("R")
	require.NoError(t, err)
	assert.Equal(t, StatusPlaying, room.Status)
	assert.Equal(t, "p2", room.GameState.CurrentGuesser)

	_, err = rm.Guess("R", "p2", "p3")
	require.NoError(t, err)
}

func TestConcurrentRooms(t *testing.T) {
	rm := NewRoomManager()
	var wg sync.WaitGroup
	for room := 0; room < 8; room++ {
		for seat := 0; seat < MaxPlayers; seat++ {
			wg.Add(1)
			go func(room, seat int) {
				defer wg.Done()
				_, err := rm.Join(fmt.Sprintf("R%d", room), "P", fmt.Sprintf("c%d-%d", room, seat))
				assert.NoError(t, err)
			}(room, seat)
		}
	}
	wg.Wait()

	summaries := rm.Rooms()
	require.Len(t, summaries, 8)
	for _, s := range summaries {
		assert.Equal(t, MaxPlayers, s.Players)
		assert.Equal(t, StatusPlaying, s.Status)
	}
}

func TestConcurrentRooms_SharedSeededSource(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	rm := NewRoomManager(WithRand(rng.IntN))

	var wg sync.WaitGroup
	for room := 0; room < 8; room++ {
		wg.Add(1)
		go func(room int) {
			defer wg.Done()
			id := fmt.Sprintf("R%d", room)
			for seat := 0; seat < MaxPlayers; seat++ {
				_, err := rm.Join(id, "P", fmt.Sprintf("c%d-%d", room, seat))
				assert.NoError(t, err)
			}
			_ = rm.FreeCode()
		}(room)
	}
	wg.Wait()

	for _, s := range rm.Rooms() {
		room, err := rm.Room(s.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPlaying, room.Status)
		seen := map[Role]bool{}
		for _, p := range room.Players {
			seen[p.Role] = true
		}
		assert.Len(t, seen, MaxPlayers)
	}
}

func TestConcurrentGuessesResolveOnce(t *testing.T) {
	rm := newTestManager()
	joinN(t, rm, "R", 4)
	_, err := rm.StartManual("R", "p1")
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		hits int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			events, err := rm.Guess("R", "p1", "p2")
			if err == nil && Contains(events, EvtGuessSuccess) {
				mu.Lock()
				hits++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, hits)
	room, _ := rm.Room("R")
	assert.Equal(t, 1000, room.Players[0].TotalScore)
	assert.Equal(t, "p2", room.GameState.CurrentGuesser)
}

func TestFreeCode(t *testing.T) {
	rm := NewRoomManager()
	code := rm.FreeCode()
	assert.Len(t, code, 5)
	_, err := rm.Room(code)
	assert.ErrorIs(t, err, ErrUnknownRoom)
}
