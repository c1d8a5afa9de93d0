package game

import "sort"

// Standing is one row of a room's cumulative leaderboard.
type Standing struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// Leaderboard orders players by total score, highest first. Ties keep join
// order and share a rank.
func (r *Room) Leaderboard() []Standing {
	out := make([]Standing, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, Standing{PlayerID: p.ID, Name: p.Name, Score: p.TotalScore})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}
