package game

import "slices"

// removePlayer drops id from the room and keeps a running round playable.
// The returned events are empty when id was not in the room.
func (r *Room) removePlayer(id string) ([]Event, bool) {
	idx := slices.IndexFunc(r.Players, func(p *Player) bool { return p.ID == id })
	if idx < 0 {
		return nil, false
	}
	gone := r.Players[idx]
	r.Players = slices.Delete(r.Players, idx, idx+1)
	r.Version++

	if len(r.Players) == 0 || r.Status != StatusPlaying {
		if r.Status == StatusRoundEnded {
			r.dropReveals(id)
		}
		return []Event{roomEvent(EvtRoomUpdate, r)}, true
	}

	r.dropReveals(id)
	r.GameState.WrongGuesses = slices.DeleteFunc(r.GameState.WrongGuesses, func(pid string) bool { return pid == id })

	if len(r.Players) < MinPlayers {
		r.abandonRound()
		return []Event{roomEvent(EvtRoomUpdate, r)}, true
	}

	if r.GameState.CurrentGuesser == gone.ID {
		return r.passTurn(), true
	}
	if _, ok := r.targetRole(); !ok {
		return r.EndRound(), true
	}
	return []Event{roomEvent(EvtRoomUpdate, r)}, true
}

// passTurn hands the seeker's turn to whoever holds the role they were
// looking for, as if it had been found. No points change hands.
func (r *Room) passTurn() []Event {
	want, ok := r.targetRole()
	if !ok {
		return r.EndRound()
	}
	next := r.holder(want)
	r.reveal(next.ID, want)
	r.GameState.Stage = r.stageOf(want)
	if r.GameState.Stage == StageEnd {
		return r.EndRound()
	}
	r.GameState.CurrentGuesser = next.ID
	return []Event{roomEvent(EvtRoomUpdate, r)}
}

func (r *Room) abandonRound() {
	for _, p := range r.Players {
		p.Role = ""
		p.IsFinished = false
	}
	r.Status = StatusWaiting
	r.GameState = waitingState(r.GameState.Round)
}

func (r *Room) dropReveals(id string) {
	r.GameState.RevealedRoles = slices.DeleteFunc(r.GameState.RevealedRoles, func(rv Reveal) bool {
		return rv.PlayerID == id
	})
}
