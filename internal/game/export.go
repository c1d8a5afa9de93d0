package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportRound appends the result of a finished round to filename. It works
// on a snapshot so callers never hold a room lock while writing.
func ExportRound(r Room, filename string, now time.Time) error {
	if r.Status != StatusRoundEnded {
		return fmt.Errorf("export room %s: round not ended", r.ID)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(FormatRound(r, now)); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

// FormatRound renders the text block written by ExportRound.
func FormatRound(r Room, now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Room %s - Round %d (%s)\n", r.ID, r.GameState.Round, r.GameState.RoundID)
	fmt.Fprintf(&sb, "Ended: %s\n", now.Format("2006-01-02 15:04:05"))
	sb.WriteString(strings.Repeat("-", 40) + "\n")

	names := make(map[string]string, len(r.Players))
	for _, p := range r.Players {
		names[p.ID] = p.Name
	}

	sb.WriteString("Roles:\n")
	for _, rv := range r.GameState.RevealedRoles {
		fmt.Fprintf(&sb, "- %s: %s\n", names[rv.PlayerID], rv.Role)
	}

	if n := len(r.GameState.WrongGuesses); n > 0 {
		fmt.Fprintf(&sb, "\nWrong guesses: %d\n", n)
	}

	sb.WriteString("\nStandings:\n")
	for _, s := range r.Leaderboard() {
		fmt.Fprintf(&sb, "%d. %s: %d points\n", s.Rank, s.Name, s.Score)
	}
	sb.WriteString("\n")
	return sb.String()
}
