package arena

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Store is the slice of persistence the controller needs.
type Store interface {
	// CurrentDebate returns the active debate, or (nil, nil) when the
	// arena is empty.
	CurrentDebate(ctx context.Context) (*Debate, error)
	InsertDebate(ctx context.Context, d *Debate) error
	UpdateTranscript(ctx context.Context, d *Debate) error
	AllVotePairs(ctx context.Context) ([][2]int, error)
}

// ContentProducer is the debate-generation collaborator.
type ContentProducer interface {
	CreateDebate(ctx context.Context, sc Scenario, bias FactionShares) GeneratedDebate
	ContinueDebate(ctx context.Context, transcript []Turn, sc Scenario) []Turn
}

// Result reports what a single lifecycle step did.
type Result struct {
	Mode         string       `json:"mode"` // created | continued | noop
	ID           string       `json:"id,omitempty"`
	Title        string       `json:"title,omitempty"`
	Winner       Speaker      `json:"winner,omitempty"`
	Turns        int          `json:"turns"`
	MaxTurns     int          `json:"maxTurns"`
	DurationMode DurationMode `json:"durationMode"`
}

// Controller runs one step of the debate lifecycle per invocation:
// continue the active debate while it has budget left, otherwise retire
// it and open a new one.
type Controller struct {
	Store    Store
	Producer ContentProducer
	NewID    func() string // defaults to uuid.NewString
}

// maxTurnsForMode draws the turn budget for a freshly created debate.
// Drawn once at creation and stored immutably with the row.
func maxTurnsForMode(mode DurationMode) int {
	switch mode {
	case Short:
		return randomInt(8, 15)
	case Long:
		return randomInt(80, 120)
	default:
		return randomInt(30, 50)
	}
}

// maxTurnsFallback is the deterministic budget for legacy rows stored
// before budgets were drawn at creation.
func maxTurnsFallback(mode DurationMode) int {
	switch mode {
	case Short:
		return 15
	case Long:
		return 120
	default:
		return 50
	}
}

func (c *Controller) newID() string {
	if c.NewID != nil {
		return c.NewID()
	}
	return uuid.NewString()
}

// Run executes one lifecycle step. Storage errors abort the step and
// propagate; generation failures degrade per the producer contract and
// never fail the step.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	cur, err := c.Store.CurrentDebate(ctx)
	if err != nil {
		return Result{}, err
	}

	if cur != nil {
		mode := cur.Scenario.Mode()
		if cur.MaxTurns <= 0 {
			// Legacy row: fix a deterministic budget and persist it so
			// every later invocation reads the same value.
			cur.MaxTurns = maxTurnsFallback(mode)
			if err := c.Store.UpdateTranscript(ctx, cur); err != nil {
				return Result{}, err
			}
		}

		if !cur.Exhausted() {
			newTurns := c.Producer.ContinueDebate(ctx, cur.Transcript, cur.Scenario)
			if len(newTurns) == 0 {
				// Producer came back empty: leave the row untouched.
				return Result{
					Mode: "noop", ID: cur.ID, Turns: len(cur.Transcript),
					MaxTurns: cur.MaxTurns, DurationMode: mode,
				}, nil
			}
			if room := cur.MaxTurns - len(cur.Transcript); len(newTurns) > room {
				newTurns = newTurns[:room]
			}
			cur.Transcript = append(cur.Transcript, newTurns...)
			if err := c.Store.UpdateTranscript(ctx, cur); err != nil {
				return Result{}, err
			}
			return Result{
				Mode: "continued", ID: cur.ID, Turns: len(cur.Transcript),
				MaxTurns: cur.MaxTurns, DurationMode: mode,
			}, nil
		}
		// Exhausted rows are frozen; fall through to create a new one.
	}

	pairs, err := c.Store.AllVotePairs(ctx)
	if err != nil {
		return Result{}, err
	}
	bias := ComputeShares(pairs)

	sc := RandomScenario()
	gen := c.Producer.CreateDebate(ctx, sc, bias)
	mode := sc.Mode()

	d := &Debate{
		ID:         c.newID(),
		Title:      gen.Title,
		Scenario:   sc,
		Transcript: gen.Transcript,
		MaxTurns:   maxTurnsForMode(mode),
		CreatedAt:  time.Now().UTC(),
	}
	switch gen.Winner {
	case GTO:
		d.VotesGTO = 1
	case Exploit:
		d.VotesExploit = 1
	}

	if err := c.Store.InsertDebate(ctx, d); err != nil {
		return Result{}, err
	}
	return Result{
		Mode: "created", ID: d.ID, Title: d.Title, Winner: gen.Winner,
		Turns: len(d.Transcript), MaxTurns: d.MaxTurns, DurationMode: mode,
	}, nil
}

// RollPost applies the probabilistic posting gate used by the automatic
// trigger: a 1-100 roll against the configured threshold.
func RollPost(probability int) bool {
	if probability >= 100 {
		return true
	}
	if probability <= 0 {
		return false
	}
	return rand.Intn(100)+1 <= probability
}
