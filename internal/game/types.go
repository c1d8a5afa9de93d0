package game

import "slices"

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusPlaying    Status = "playing"
	StatusRoundEnded Status = "round_ended"
)

const (
	MaxPlayers = 6
	MinPlayers = 4
)

type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       Role   `json:"role,omitempty"`
	TotalScore int    `json:"totalScore"`
	IsFinished bool   `json:"isFinished"`
}

// Reveal is a (player, role) pair disclosed to the whole room.
type Reveal struct {
	PlayerID string `json:"playerId"`
	Role     Role   `json:"role"`
}

type RoundState struct {
	Stage          Stage    `json:"stage"`
	CurrentGuesser string   `json:"currentGuesser"`
	RevealedRoles  []Reveal `json:"revealedRoles"`
	WrongGuesses   []string `json:"wrongGuesses"`
	Round          int      `json:"round"`
	RoundID        string   `json:"roundId,omitempty"`
	PlayerCount    int      `json:"playerCount"`
}

type Room struct {
	ID         string     `json:"id"`
	Players    []*Player  `json:"players"`
	Status     Status     `json:"status"`
	GameState  RoundState `json:"gameState"`
	MaxPlayers int        `json:"maxPlayers"`
	MinPlayers int        `json:"minPlayers"`
	Version    int        `json:"version"`
}

// Summary is the lobby listing view of a room.
type Summary struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	Status  Status `json:"status"`
	Round   int    `json:"round"`
}

func newRoom(id string) *Room {
	return &Room{
		ID:         id,
		Players:    make([]*Player, 0, MaxPlayers),
		Status:     StatusWaiting,
		GameState:  waitingState(0),
		MaxPlayers: MaxPlayers,
		MinPlayers: MinPlayers,
	}
}

func waitingState(round int) RoundState {
	return RoundState{
		Stage:         StageWaiting,
		RevealedRoles: []Reveal{},
		WrongGuesses:  []string{},
		Round:         round,
	}
}

func (r *Room) player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) holder(role Role) *Player {
	for _, p := range r.Players {
		if p.Role == role {
			return p
		}
	}
	return nil
}

func (r *Room) hasRole(role Role) bool {
	return r.holder(role) != nil
}

// reveal records (playerID, role), replacing any entry for the same role or
// the same player.
func (r *Room) reveal(playerID string, role Role) {
	r.GameState.RevealedRoles = slices.DeleteFunc(r.GameState.RevealedRoles, func(rv Reveal) bool {
		return rv.Role == role || rv.PlayerID == playerID
	})
	r.GameState.RevealedRoles = append(r.GameState.RevealedRoles, Reveal{PlayerID: playerID, Role: role})
}

// Snapshot returns a deep copy safe to hand to other goroutines.
func (r *Room) Snapshot() Room {
	out := Room{
		ID:         r.ID,
		Players:    make([]*Player, 0, len(r.Players)),
		Status:     r.Status,
		GameState:  r.GameState,
		MaxPlayers: r.MaxPlayers,
		MinPlayers: r.MinPlayers,
		Version:    r.Version,
	}
	for _, p := range r.Players {
		cp := *p
		out.Players = append(out.Players, &cp)
	}
	out.GameState.RevealedRoles = slices.Clone(r.GameState.RevealedRoles)
	out.GameState.WrongGuesses = slices.Clone(r.GameState.WrongGuesses)
	if out.GameState.RevealedRoles == nil {
		out.GameState.RevealedRoles = []Reveal{}
	}
	if out.GameState.WrongGuesses == nil {
		out.GameState.WrongGuesses = []string{}
	}
	return out
}

func (r *Room) summary() Summary {
	return Summary{ID: r.ID, Players: len(r.Players), Status: r.Status, Round: r.GameState.Round}
}
