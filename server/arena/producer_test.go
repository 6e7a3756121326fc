package arena

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }

func TestParseSpeaker(t *testing.T) {
	cases := []struct {
		in   string
		want Speaker
	}{
		{"gto", GTO},
		{"GTO_Bot", GTO},
		{"  Gto ", GTO},
		{"exploit", Exploit},
		{"Exploit_Bot", Exploit},
		{"EXPLOIT-BOT", Exploit},
		{"noob", Noob},
		{"Railbird_Noob", Noob},
		{"dealer", Dealer},
		{"Dealer", Dealer},
		{"", Dealer},
		{"moderator", Dealer},
		{"some garbage", Dealer},
	}
	for _, tc := range cases {
		if got := ParseSpeaker(tc.in); got != tc.want {
			t.Errorf("ParseSpeaker(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCreateDebateParsesModelOutput(t *testing.T) {
	reply := "```json\n" + `{
        "title": "SPR Wars",
        "transcript": [
            {"speaker": "Dealer", "content": "**[Hero Hand]: AKs**"},
            {"speaker": "GTO_Bot", "content": "Range bet small."},
            {"speaker": "Exploit_Bot", "content": "Overbet, he folds too much."}
        ],
        "winner": "Exploit_Bot"
    }` + "\n```"

	p := &Producer{
		Complete: func(ctx context.Context, system, user string) (string, error) {
			return reply, nil
		},
		Now: fixedNow,
	}

	sc := Scenario{GameType: Cash, StackDepth: 100, PotSize: 6, HeroHand: "AKs"}
	got := p.CreateDebate(context.Background(), sc, FactionShares{GTOPct: 50, ExploitPct: 50})

	if got.Title != "SPR Wars" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Winner != Exploit {
		t.Fatalf("winner = %q", got.Winner)
	}
	if got.Scenario != sc {
		t.Fatalf("scenario not passed through: %+v", got.Scenario)
	}
	if len(got.Transcript) != 3 {
		t.Fatalf("turns = %d", len(got.Transcript))
	}
	wantSpeakers := []Speaker{Dealer, GTO, Exploit}
	ts := fixedNow().Format(time.RFC3339)
	for i, turn := range got.Transcript {
		if turn.Speaker != wantSpeakers[i] {
			t.Errorf("turn %d speaker = %q, want %q", i, turn.Speaker, wantSpeakers[i])
		}
		if turn.Timestamp != ts {
			t.Errorf("turn %d timestamp = %q, want %q", i, turn.Timestamp, ts)
		}
	}
}

func TestCreateDebateFallsBackOnError(t *testing.T) {
	p := &Producer{
		Complete: func(ctx context.Context, system, user string) (string, error) {
			return "", errors.New("backend down")
		},
		Now: fixedNow,
	}
	got := p.CreateDebate(context.Background(), Scenario{}, FactionShares{})

	if got.Title != "System Error" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Winner != GTO {
		t.Fatalf("winner = %q", got.Winner)
	}
	if len(got.Transcript) != 1 || got.Transcript[0].Speaker != Dealer {
		t.Fatalf("transcript = %+v", got.Transcript)
	}
	if got.Transcript[0].Content != "AI connection error." {
		t.Fatalf("content = %q", got.Transcript[0].Content)
	}
}

func TestCreateDebateFallsBackOnGarbage(t *testing.T) {
	p := &Producer{
		Complete: func(ctx context.Context, system, user string) (string, error) {
			return "sorry, I can't help with that", nil
		},
		Now: fixedNow,
	}
	got := p.CreateDebate(context.Background(), Scenario{}, FactionShares{})
	if got.Title != "System Error" {
		t.Fatalf("title = %q", got.Title)
	}
}

func TestCreateDebateDefaults(t *testing.T) {
	p := &Producer{
		Complete: func(ctx context.Context, system, user string) (string, error) {
			return `{"title":"  ","transcript":[{"speaker":"gto","content":"x"}],"winner":"moderator"}`, nil
		},
		Now: fixedNow,
	}
	got := p.CreateDebate(context.Background(), Scenario{}, FactionShares{})
	if got.Title != "Untitled Debate" {
		t.Fatalf("title = %q", got.Title)
	}
	if !got.Winner.Competing() {
		t.Fatalf("winner %q not a competing side", got.Winner)
	}
}

func TestContinueDebateReturnsNilOnFailure(t *testing.T) {
	p := &Producer{
		Complete: func(ctx context.Context, system, user string) (string, error) {
			return "", errors.New("timeout")
		},
	}
	if got := p.ContinueDebate(context.Background(), nil, Scenario{}); got != nil {
		t.Fatalf("got %+v, want nil", got)
	}

	p.Complete = func(ctx context.Context, system, user string) (string, error) {
		return "not json at all", nil
	}
	if got := p.ContinueDebate(context.Background(), nil, Scenario{}); got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestContinueDebateAcceptsWrapperAndBareArray(t *testing.T) {
	wrapper := `{"transcript":[{"speaker":"gto","content":"a"},{"speaker":"exploit","content":"b"}]}`
	bare := `[{"speaker":"gto","content":"a"},{"speaker":"exploit","content":"b"}]`

	for _, reply := range []string{wrapper, bare} {
		p := &Producer{
			Complete: func(ctx context.Context, system, user string) (string, error) {
				return reply, nil
			},
			Now: fixedNow,
		}
		got := p.ContinueDebate(context.Background(), nil, Scenario{})
		if len(got) != 2 {
			t.Fatalf("reply %q: turns = %d", reply, len(got))
		}
		if got[0].Speaker != GTO || got[1].Speaker != Exploit {
			t.Fatalf("reply %q: speakers = %q, %q", reply, got[0].Speaker, got[1].Speaker)
		}
	}
}

func TestContinueDebateFiltersSpeakers(t *testing.T) {
	reply := `{"transcript":[
        {"speaker":"dealer","content":"new hand!"},
        {"speaker":"gto","content":"a"},
        {"speaker":"Railbird_Noob","content":"what's a blocker?"},
        {"speaker":"exploit","content":"b"}
    ]}`
	complete := func(ctx context.Context, system, user string) (string, error) {
		return reply, nil
	}

	p := &Producer{Complete: complete, Now: fixedNow}
	got := p.ContinueDebate(context.Background(), nil, Scenario{})
	if len(got) != 2 {
		t.Fatalf("three-persona turns = %d, want 2", len(got))
	}
	for _, turn := range got {
		if !turn.Speaker.Competing() {
			t.Fatalf("unexpected speaker %q", turn.Speaker)
		}
	}

	p = &Producer{Complete: complete, FourPersona: true, Now: fixedNow}
	got = p.ContinueDebate(context.Background(), nil, Scenario{})
	if len(got) != 3 {
		t.Fatalf("four-persona turns = %d, want 3", len(got))
	}
	for _, turn := range got {
		if turn.Speaker == Dealer {
			t.Fatal("dealer leaked into continuation")
		}
	}
}

func TestContinuePromptUsesRecentTail(t *testing.T) {
	var prompt string
	p := &Producer{
		Complete: func(ctx context.Context, system, user string) (string, error) {
			prompt = user
			return "", errors.New("stop here")
		},
	}

	transcript := make([]Turn, 10)
	for i := range transcript {
		transcript[i] = Turn{Speaker: GTO, Content: "turn-" + string(rune('a'+i))}
	}
	p.ContinueDebate(context.Background(), transcript, Scenario{})

	for i := 0; i < 4; i++ {
		if strings.Contains(prompt, "turn-"+string(rune('a'+i))) {
			t.Fatalf("prompt includes old turn %d", i)
		}
	}
	for i := 4; i < 10; i++ {
		if !strings.Contains(prompt, "turn-"+string(rune('a'+i))) {
			t.Fatalf("prompt missing recent turn %d", i)
		}
	}
}

func TestCleanJSON(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Here you go: {\"a\":1} hope it helps", `{"a":1}`},
		{"[1,2,3]", `[1,2,3]`},
		{"noise [1,2] noise", `[1,2]`},
		{`{"a":1}`, `{"a":1}`},
		{"no json here", "no json here"},
	}
	for _, tc := range cases {
		if got := cleanJSON(tc.in); got != tc.want {
			t.Errorf("cleanJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
