package game

import (
	"fmt"

	"github.com/google/uuid"
)

// IntN returns a uniform int in [0, n).
type IntN func(n int) int

// shuffle permutes roles in place with Fisher-Yates.
func shuffle(roles []Role, intn IntN) {
	for i := len(roles) - 1; i > 0; i-- {
		j := intn(i + 1)
		roles[i], roles[j] = roles[j], roles[i]
	}
}

// StartRound deals a fresh set of roles and opens the first stage.
func (r *Room) StartRound(intn IntN) ([]Event, error) {
	n := len(r.Players)
	roles := RolesFor(n)
	if roles == nil {
		return nil, fmt.Errorf("start round with %d players: %w", n, ErrNotEnoughPlayers)
	}
	shuffle(roles, intn)

	for i, p := range r.Players {
		p.Role = roles[i]
		p.IsFinished = false
	}
	r.Status = StatusPlaying

	top := r.holder(TopRole)
	r.GameState = RoundState{
		Stage:          StagesFor(n)[0],
		CurrentGuesser: top.ID,
		RevealedRoles:  []Reveal{{PlayerID: top.ID, Role: TopRole}},
		WrongGuesses:   []string{},
		Round:          r.GameState.Round + 1,
		RoundID:        uuid.NewString(),
		PlayerCount:    n,
	}
	r.Version++
	return []Event{roomEvent(EvtStartRound, r)}, nil
}

// NextRound starts another round; scores carry over.
func (r *Room) NextRound(intn IntN) ([]Event, error) {
	return r.StartRound(intn)
}

// targetRole resolves the role the current seeker must find. Roles whose
// holder has left are skipped in favour of the next lower one still held.
func (r *Room) targetRole() (Role, bool) {
	n := r.GameState.PlayerCount
	want, ok := TargetRoleFor(r.GameState.Stage, n)
	if !ok {
		return "", false
	}
	roles := rolesBySize[n]
	for i := rankIn(roles, want); i >= 0 && i < len(roles); i++ {
		if r.hasRole(roles[i]) {
			return roles[i], true
		}
	}
	return "", false
}

// stageOf returns the stage in which the holder of role seeks, or StageEnd
// when role never seeks in this round.
func (r *Room) stageOf(role Role) Stage {
	for _, s := range stagesBySize[r.GameState.PlayerCount] {
		if stageSeeker[s] == role {
			return s
		}
	}
	return StageEnd
}

func rankIn(roles []Role, role Role) int {
	for i, rl := range roles {
		if rl == role {
			return i
		}
	}
	return -1
}
