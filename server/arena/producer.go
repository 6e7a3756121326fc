package arena

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// CompleteFunc is the external text-generation call: system + user prompt
// in, raw model text out.
type CompleteFunc func(ctx context.Context, system, user string) (string, error)

// Producer wraps the text-generation backend with prompt construction and
// output normalization. It never returns an error: fresh generation falls
// back to a fixed error debate and continuation degrades to zero turns.
type Producer struct {
	Complete    CompleteFunc
	FourPersona bool // include the railbird noob persona
	// HandEquity, when set, supplies a preflop equity estimate for the
	// hero combo that gets embedded in the prompt.
	HandEquity func(combo string) (float64, bool)
	Now        func() time.Time
}

const producerSystem = `You are the operator of the poker forum "AI Colosseum".
You stage written strategy debates between fixed personas and you output
nothing but a single JSON object. No prose, no markdown, no code fences.`

const continueWindow = 6

func (p *Producer) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// CreateDebate generates a complete fresh debate for the scenario. Any
// backend or parse failure yields the fixed fallback debate.
func (p *Producer) CreateDebate(ctx context.Context, sc Scenario, bias FactionShares) GeneratedDebate {
	user := p.buildCreatePrompt(sc, bias)

	text, err := p.Complete(ctx, producerSystem, user)
	if err != nil {
		return p.fallbackDebate()
	}

	var out struct {
		Title      string `json:"title"`
		Transcript []struct {
			Speaker string `json:"speaker"`
			Content string `json:"content"`
		} `json:"transcript"`
		Winner string `json:"winner"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &out); err != nil {
		return p.fallbackDebate()
	}
	if len(out.Transcript) == 0 {
		return p.fallbackDebate()
	}

	ts := p.now().UTC().Format(time.RFC3339)
	turns := make([]Turn, 0, len(out.Transcript))
	for _, t := range out.Transcript {
		turns = append(turns, Turn{Speaker: ParseSpeaker(t.Speaker), Content: t.Content, Timestamp: ts})
	}

	winner := ParseSpeaker(out.Winner)
	if !winner.Competing() {
		winner = GTO
		if rand.Intn(2) == 1 {
			winner = Exploit
		}
	}

	title := strings.TrimSpace(out.Title)
	if title == "" {
		title = "Untitled Debate"
	}

	return GeneratedDebate{Title: title, Scenario: sc, Transcript: turns, Winner: winner}
}

// ContinueDebate asks for 3-5 more turns given the tail of an existing
// transcript. Failures and unusable output yield an empty slice, which
// callers must treat as "leave the stored debate alone".
func (p *Producer) ContinueDebate(ctx context.Context, transcript []Turn, sc Scenario) []Turn {
	if p.Complete == nil {
		return nil
	}
	tail := transcript
	if len(tail) > continueWindow {
		tail = tail[len(tail)-continueWindow:]
	}

	user := p.buildContinuePrompt(tail, sc)
	text, err := p.Complete(ctx, producerSystem, user)
	if err != nil {
		return nil
	}

	raw := cleanJSON(text)
	var out struct {
		Transcript []struct {
			Speaker string `json:"speaker"`
			Content string `json:"content"`
		} `json:"transcript"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || len(out.Transcript) == 0 {
		// Some models answer with a bare array instead of the wrapper.
		if err2 := json.Unmarshal([]byte(raw), &out.Transcript); err2 != nil {
			return nil
		}
	}

	ts := p.now().UTC().Format(time.RFC3339)
	turns := make([]Turn, 0, len(out.Transcript))
	for _, t := range out.Transcript {
		sp := ParseSpeaker(t.Speaker)
		// The dealer only opens debates; it never joins a continuation.
		if sp == Dealer {
			continue
		}
		if sp == Noob && !p.FourPersona {
			continue
		}
		turns = append(turns, Turn{Speaker: sp, Content: t.Content, Timestamp: ts})
	}
	return turns
}

func (p *Producer) fallbackDebate() GeneratedDebate {
	ts := p.now().UTC().Format(time.RFC3339)
	return GeneratedDebate{
		Title:    "System Error",
		Scenario: Scenario{},
		Transcript: []Turn{
			{Speaker: Dealer, Content: "AI connection error.", Timestamp: ts},
		},
		Winner: GTO,
	}
}

func (p *Producer) buildCreatePrompt(sc Scenario, bias FactionShares) string {
	spr := "Unknown"
	if sc.StackDepth > 0 && sc.PotSize > 0 {
		spr = fmt.Sprintf("%.2f", float64(sc.StackDepth)/float64(sc.PotSize))
	}

	hand := sc.HeroHand
	if hand == "" {
		hand = "Random"
	}
	scContext := sc.Context
	if scContext == "" {
		scContext = "Standard"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a heated poker strategy debate between the personas below.\n\n")
	fmt.Fprintf(&b, "Current state of the world:\n- GTO camp share: %d%%\n- Exploit camp share: %d%%\n\n", bias.GTOPct, bias.ExploitPct)

	b.WriteString("Personas:\n")
	b.WriteString("- Dealer (stage-setter & referee): opens the debate by presenting the hero hand, the board and the detailed situation. ")
	fmt.Fprintf(&b, "The very first line of the dealer's opening message MUST be **[Hero Hand]: %s**.\n", hand)
	b.WriteString("- GTO_Bot (theory camp): Nash-equilibrium absolutist. Assertive, clinical tone; states conclusions as fact.\n")
	b.WriteString("- Exploit_Bot (read-based camp): maximum-EV absolutist, attacks the opponent pool's leaks. Aggressive tone; ends every message with a fresh parting shot, never a canned one.\n")
	if p.FourPersona {
		b.WriteString("- Railbird_Noob (peanut gallery): chimes in occasionally with naive questions that accidentally sharpen the argument.\n")
	}

	b.WriteString("\nThe situation:\n")
	fmt.Fprintf(&b, "- Game Type: %s\n", sc.GameType)
	fmt.Fprintf(&b, "- Situation: %s\n", sc.PotType)
	fmt.Fprintf(&b, "- Effective Stack: %d BB\n", sc.StackDepth)
	fmt.Fprintf(&b, "- Pot Size (Flop): %d BB\n", sc.PotSize)
	fmt.Fprintf(&b, "- SPR (Stack to Pot Ratio): %s\n", spr)
	fmt.Fprintf(&b, "- Context: %s\n", scContext)
	fmt.Fprintf(&b, "- Hand: %s\n", hand)
	if p.HandEquity != nil && sc.HeroHand != "" {
		if eq, ok := p.HandEquity(sc.HeroHand); ok {
			fmt.Fprintf(&b, "- Estimated preflop equity vs a random hand: %.0f%%\n", eq*100)
		}
	}

	b.WriteString("\nStrategic framing:\n")
	fmt.Fprintf(&b, "- Argue with SPR = %s in mind.\n", spr)
	b.WriteString("  - SPR of 13 or more calls for deep-stack strategy.\n")
	b.WriteString("  - SPR of 2 or less calls for commitment strategy.\n")

	fmt.Fprintf(&b, "\nDebate length (%s):\n%s\n", sc.Mode(), durationInstruction(sc.Mode()))

	b.WriteString(`
Output format (JSON):
The debate opens with the dealer's stage-setting, then GTO and Exploit trade short, punchy blows.

JSON structure:
{
  "title": "debate title",
  "transcript": [
    { "speaker": "dealer", "content": "**[Hero Hand]: ...**\n\nsituation..." },
    { "speaker": "gto", "content": "..." },
    { "speaker": "exploit", "content": "..." }
  ],
  "winner": "gto"
}
`)
	return b.String()
}

func (p *Producer) buildContinuePrompt(tail []Turn, sc Scenario) string {
	var b strings.Builder
	b.WriteString("An ongoing poker strategy debate needs more posts. Here are the most recent turns:\n\n")
	for _, t := range tail {
		fmt.Fprintf(&b, "[%s] %s\n", t.Speaker, t.Content)
	}

	b.WriteString("\nThe situation under debate:\n")
	fmt.Fprintf(&b, "- Game Type: %s\n", sc.GameType)
	fmt.Fprintf(&b, "- Situation: %s\n", sc.PotType)
	fmt.Fprintf(&b, "- Effective Stack: %d BB\n", sc.StackDepth)
	fmt.Fprintf(&b, "- Hand: %s\n", sc.HeroHand)
	fmt.Fprintf(&b, "- Context: %s\n", sc.Context)

	b.WriteString("\nWrite the next 3 to 5 turns. Keep each turn short and combative, stay consistent with what was already said, and escalate the specific disagreement instead of restarting the debate.\n")
	if p.FourPersona {
		b.WriteString("Speakers must alternate between gto and exploit; the noob may interject at most once. The dealer must NOT appear.\n")
	} else {
		b.WriteString("Speakers must alternate between gto and exploit only. The dealer must NOT appear.\n")
	}
	b.WriteString(`
Output format (JSON):
{
  "transcript": [
    { "speaker": "gto", "content": "..." },
    { "speaker": "exploit", "content": "..." }
  ]
}
`)
	return b.String()
}

func durationInstruction(mode DurationMode) string {
	switch mode {
	case Short:
		return "Sudden-death mode: each side states its case once, then a verdict is reached and the thread is cut off."
	case Long:
		return "War-of-attrition mode: neither side concedes an inch; keep dragging out precise numbers and table-feel arguments, rebuttal after rebuttal."
	default:
		return "Standard mode: let the argument flow naturally and stop once both sides have exhausted their points."
	}
}

// cleanJSON strips markdown code fences and isolates the first top-level
// JSON value in the model output.
func cleanJSON(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')
	start := objStart
	end := strings.LastIndexByte(s, '}')
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start = arrStart
		end = strings.LastIndexByte(s, ']')
	}
	if start < 0 || end <= start {
		return s
	}
	return strings.TrimSpace(s[start : end+1])
}
