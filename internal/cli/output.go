package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Message:
		_, _ = fmt.Fprintln(o.w, v.Message)
	case Profile:
		o.printProfile(v)
	case ScoreRecorded:
		o.printScoreRecorded(v)
	case []LeaderboardRow:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Message response type
type Message struct {
	Message string `json:"message"`
}

// Profile response type (matches API)
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Birthday  string `json:"birthday"`
	Pizza     string `json:"pizza"`
	Soda      string `json:"soda"`
}

// ScoreRecorded response type
type ScoreRecorded struct {
	Message    string    `json:"message"`
	ID         string    `json:"id"`
	Difficulty string    `json:"difficulty"`
	PlayedAt   time.Time `json:"playedAt"`
}

// LeaderboardRow response type
type LeaderboardRow struct {
	Username   string `json:"username"`
	Score      int64  `json:"score"`
	Difficulty string `json:"difficulty"`
	DatePlayed string `json:"datePlayed"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (o *Output) printProfile(p Profile) {
	_, _ = fmt.Fprintf(o.w, "User: %s\n", p.Username)
	_, _ = fmt.Fprintf(o.w, "Name: %s %s\n", p.FirstName, p.LastName)
	_, _ = fmt.Fprintf(o.w, "Email: %s\n", p.Email)
	_, _ = fmt.Fprintf(o.w, "Birthday: %s\n", p.Birthday)
	_, _ = fmt.Fprintf(o.w, "Pineapple on pizza: %s\n", p.Pizza)
	_, _ = fmt.Fprintf(o.w, "Soda: %s\n", p.Soda)
}

func (o *Output) printScoreRecorded(s ScoreRecorded) {
	_, _ = fmt.Fprintf(o.w, "%s: %s (%s) at %s\n", s.Message, s.ID, s.Difficulty, s.PlayedAt.Format(time.RFC3339))
}

func (o *Output) printLeaderboard(rows []LeaderboardRow) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(o.w, "No scores recorded")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tUSER\tSCORE\tDIFFICULTY\tDATE")
	for i, r := range rows {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", i+1, r.Username, r.Score, r.Difficulty, r.DatePlayed)
	}
	_ = tw.Flush()
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	_, _ = fmt.Fprintf(o.w, "Storage: %s\n", h.Storage)
}
