// Package arena holds the debate domain: scenarios, transcripts, the
// content producer, the lifecycle controller, and vote aggregation.
package arena

import (
	"strings"
	"time"
)

// Speaker is the closed set of debate personas.
type Speaker string

const (
	Dealer  Speaker = "dealer"
	GTO     Speaker = "gto"
	Exploit Speaker = "exploit"
	Noob    Speaker = "noob"
)

// ParseSpeaker maps free-text model output onto the closed enum by
// case-insensitive prefix. Anything unrecognized becomes the dealer.
// This is the only normalization routine; do not duplicate per call site.
func ParseSpeaker(s string) Speaker {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(v, "gto"):
		return GTO
	case strings.HasPrefix(v, "exploit"):
		return Exploit
	case strings.HasPrefix(v, "noob"), strings.HasPrefix(v, "railbird"):
		return Noob
	default:
		return Dealer
	}
}

// Competing reports whether the speaker is one of the two voting sides.
func (s Speaker) Competing() bool { return s == GTO || s == Exploit }

type GameType string

const (
	Cash GameType = "Cash"
	MTT  GameType = "MTT"
)

type DurationMode string

const (
	Short  DurationMode = "Short"
	Medium DurationMode = "Medium"
	Long   DurationMode = "Long"
)

// Scenario is a randomized poker situation. Immutable once generated;
// embedded in the debate row. JSON tags match the stored blobs.
type Scenario struct {
	GameType     GameType     `json:"gameType"`
	Players      int          `json:"players,omitempty"`
	StackDepth   int          `json:"stackDepth"`
	PotSize      int          `json:"potSize,omitempty"`
	PotType      string       `json:"potType,omitempty"`
	HeroHand     string       `json:"heroHand,omitempty"`
	Context      string       `json:"context,omitempty"`
	DurationMode DurationMode `json:"durationMode,omitempty"`
}

// Mode returns the duration tier, defaulting legacy rows to Medium.
func (s Scenario) Mode() DurationMode {
	switch s.DurationMode {
	case Short, Medium, Long:
		return s.DurationMode
	default:
		return Medium
	}
}

// Turn is one line of a debate transcript.
type Turn struct {
	Speaker   Speaker `json:"speaker"`
	Content   string  `json:"content"`
	Timestamp string  `json:"timestamp,omitempty"` // RFC3339
}

// Debate is a persisted arena row. The transcript is append-only while
// len(Transcript) < MaxTurns; after that the row is frozen and a new one
// gets created instead.
type Debate struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Scenario     Scenario  `json:"scenario"`
	Transcript   []Turn    `json:"transcript"`
	MaxTurns     int       `json:"maxTurns"`
	VotesGTO     int       `json:"votes_gto"`
	VotesExploit int       `json:"votes_exploit"`
	CreatedAt    time.Time `json:"created_at"`
}

// Exhausted reports whether the debate has used up its turn budget.
func (d *Debate) Exhausted() bool { return len(d.Transcript) >= d.MaxTurns }

// GeneratedDebate is the producer's fresh-generation output.
type GeneratedDebate struct {
	Title      string   `json:"title"`
	Scenario   Scenario `json:"scenario"`
	Transcript []Turn   `json:"transcript"`
	Winner     Speaker  `json:"winner"`
}
