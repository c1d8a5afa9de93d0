package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// inOrder never swaps, so roles land on players in catalog order.
func inOrder(n int) int { return n - 1 }

func seatedRoom(t *testing.T, n int) *Room {
	t.Helper()
	r := newRoom("ROOM1")
	for i := 1; i <= n; i++ {
		r.Players = append(r.Players, &Player{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("P%d", i)})
	}
	return r
}

func playingRoom(t *testing.T, n int) *Room {
	t.Helper()
	r := seatedRoom(t, n)
	_, err := r.StartRound(inOrder)
	require.NoError(t, err)
	return r
}

func roleOf(r *Room, id string) Role {
	return r.player(id).Role
}

// requireOnePerRole checks every dealt role is held by exactly one player.
func requireOnePerRole(t *testing.T, r *Room) {
	t.Helper()
	seen := map[Role]int{}
	for _, p := range r.Players {
		seen[p.Role]++
	}
	for _, role := range RolesFor(len(r.Players)) {
		require.Equalf(t, 1, seen[role], "role %s held by %d players", role, seen[role])
	}
	require.Len(t, seen, len(r.Players))
}

func revealedMap(r *Room) map[string]Role {
	out := map[string]Role{}
	for _, rv := range r.GameState.RevealedRoles {
		out[rv.PlayerID] = rv.Role
	}
	return out
}
