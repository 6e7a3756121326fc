package arena

import (
	"strings"
	"testing"
)

func validHandNotation(h string) bool {
	ranks := "AKQJT98765432"
	switch len(h) {
	case 2:
		return strings.ContainsRune(ranks, rune(h[0])) && h[0] == h[1]
	case 3:
		return strings.ContainsRune(ranks, rune(h[0])) &&
			strings.ContainsRune(ranks, rune(h[1])) &&
			h[0] != h[1] &&
			(h[2] == 's' || h[2] == 'o')
	}
	return false
}

func TestRandomScenarioInvariants(t *testing.T) {
	for i := 0; i < 1000; i++ {
		sc := RandomScenario()

		if sc.GameType != Cash && sc.GameType != MTT {
			t.Fatalf("game type %q", sc.GameType)
		}
		if sc.Players != 6 {
			t.Fatalf("players = %d", sc.Players)
		}
		if sc.StackDepth < 5 || sc.StackDepth > 300 {
			t.Fatalf("stack depth %d out of range", sc.StackDepth)
		}
		if sc.PotSize < 1 {
			t.Fatalf("pot size %d", sc.PotSize)
		}
		// Clamp property: never a pot the stack cannot half-cover.
		if sc.StackDepth*2 < sc.PotSize {
			t.Fatalf("stack %d vs pot %d not clamped", sc.StackDepth, sc.PotSize)
		}
		if sc.PotType == allInPotType && sc.PotSize != sc.StackDepth {
			t.Fatalf("all-in pot %d != stack %d", sc.PotSize, sc.StackDepth)
		}
		switch sc.DurationMode {
		case Short, Medium, Long:
		default:
			t.Fatalf("duration mode %q", sc.DurationMode)
		}
		if !validHandNotation(sc.HeroHand) {
			t.Fatalf("hero hand %q", sc.HeroHand)
		}
		if sc.Context == "" {
			t.Fatal("empty context")
		}
		if sc.GameType == Cash {
			for _, mc := range mttContexts {
				if sc.Context == mc {
					t.Fatalf("cash scenario got MTT context %q", mc)
				}
			}
		}
	}
}

func TestScenarioModeDefaultsToMedium(t *testing.T) {
	if got := (Scenario{}).Mode(); got != Medium {
		t.Fatalf("Mode() = %q, want Medium", got)
	}
	if got := (Scenario{DurationMode: "weird"}).Mode(); got != Medium {
		t.Fatalf("Mode() = %q, want Medium", got)
	}
	if got := (Scenario{DurationMode: Long}).Mode(); got != Long {
		t.Fatalf("Mode() = %q, want Long", got)
	}
}
