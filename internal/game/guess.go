package game

import "fmt"

// MakeGuess resolves guesserID naming targetID as the holder of the current
// stage's target role. Guesses out of turn return ErrInvalidTurn and leave
// the room untouched. Players seated after the deal hold no role and cannot
// be named.
func (r *Room) MakeGuess(guesserID, targetID string) ([]Event, error) {
	if r.Status != StatusPlaying || guesserID != r.GameState.CurrentGuesser {
		return nil, ErrInvalidTurn
	}
	guesser := r.player(guesserID)
	target := r.player(targetID)
	if guesser == nil || target == nil || guesser == target || target.Role == "" {
		return nil, ErrUnknownPlayer
	}
	want, ok := r.targetRole()
	if !ok {
		return nil, ErrInvalidTurn
	}

	r.Version++
	if target.Role == want {
		return r.hit(guesser, target), nil
	}
	return r.miss(guesser, target, want), nil
}

func (r *Room) hit(guesser, target *Player) []Event {
	r.reveal(target.ID, target.Role)
	guesser.IsFinished = true
	guesser.TotalScore += guesser.Role.Points()

	r.GameState.Stage = r.stageOf(target.Role)
	if r.GameState.Stage == StageEnd {
		return r.EndRound()
	}
	r.GameState.CurrentGuesser = target.ID
	return []Event{roomEvent(EvtGuessSuccess, r)}
}

func (r *Room) miss(guesser, target *Player, want Role) []Event {
	was, had := target.Role, guesser.Role
	guesser.Role, target.Role = target.Role, guesser.Role
	r.rebuildReveals()

	r.GameState.CurrentGuesser = target.ID
	r.GameState.WrongGuesses = append(r.GameState.WrongGuesses, guesser.ID)

	msg := fmt.Sprintf("Oops! %s was %s. Now roles are swapped! %s is now %s and must find %s!",
		target.Name, was, target.Name, had, want)
	return []Event{{
		Name:    EvtGuessWrong,
		RoomID:  r.ID,
		Payload: GuessWrong{Room: r.Snapshot(), Message: msg},
	}}
}

// rebuildReveals re-points every revealed role at its current holder.
func (r *Room) rebuildReveals() {
	roles := make([]Role, 0, len(r.GameState.RevealedRoles))
	for _, rv := range r.GameState.RevealedRoles {
		roles = append(roles, rv.Role)
	}
	r.GameState.RevealedRoles = r.GameState.RevealedRoles[:0]
	for _, role := range roles {
		if p := r.holder(role); p != nil {
			r.GameState.RevealedRoles = append(r.GameState.RevealedRoles, Reveal{PlayerID: p.ID, Role: role})
		}
	}
}
