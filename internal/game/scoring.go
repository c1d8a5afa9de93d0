package game

// EndRound closes the round: every player who never had to seek and does
// not hold the bottom role collects their role's points, then all roles are
// revealed.
func (r *Room) EndRound() []Event {
	r.Status = StatusRoundEnded
	r.GameState.Stage = StageEnd
	r.GameState.CurrentGuesser = ""

	for _, p := range r.Players {
		if !p.IsFinished && p.Role != BottomRole {
			p.TotalScore += p.Role.Points()
		}
	}

	r.GameState.RevealedRoles = make([]Reveal, 0, len(r.Players))
	for _, p := range r.Players {
		r.GameState.RevealedRoles = append(r.GameState.RevealedRoles, Reveal{PlayerID: p.ID, Role: p.Role})
	}
	return []Event{roomEvent(EvtRoundEnded, r)}
}
