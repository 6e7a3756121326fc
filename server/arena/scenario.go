package arena

import (
	"math/rand"
)

// Hand tiers used by the weighted hero-hand draw. The trash tier is a
// fully random two-card combo generated on the fly.
var (
	premiumHands = []string{"AA", "KK", "QQ", "JJ", "TT", "AKs", "AQs", "AJs", "KQs", "AKo", "AQo"}
	playableHands = []string{
		"99", "88", "77", "66", "55", "44", "33", "22",
		"ATs", "KJs", "KTs", "QJs", "QTs", "JTs",
		"AJo", "KQo", "KJo", "QJo",
	}
	speculativeHands = []string{
		"T9s", "98s", "87s", "76s", "65s", "54s",
		"A9s", "A8s", "A7s", "A5s", "A4s", "A3s", "A2s",
		"K9s", "Q9s", "J9s",
	}
)

var handRanks = []string{"A", "K", "Q", "J", "T", "9", "8", "7", "6", "5", "4", "3", "2"}

var baseContexts = []string{
	"Opponent is a Calling Station",
	"Opponent is a Maniac (Aggro)",
	"Villain is a Nit (Tight)",
	"Hero has a tight image",
	"Dynamic Board Texture",
	"Villain just lost a huge pot (Tilt?)",
	"Standard Reg vs Reg",
}

var mttContexts = []string{
	"Bubble Period (ICM pressure extreme)",
	"Final Table (Huge Payjump)",
	"Bounty Tournament (KO incentive)",
}

const allInPotType = "Limped Pot / All-in situation"

func randomInt(min, max int) int { return rand.Intn(max-min+1) + min }

// realisticHand draws a hero combo across four weighted tiers:
// 30% premium, 40% playable, 20% speculative, 10% fully random.
func realisticHand() string {
	r := rand.Float64()
	switch {
	case r < 0.30:
		return premiumHands[rand.Intn(len(premiumHands))]
	case r < 0.70:
		return playableHands[rand.Intn(len(playableHands))]
	case r < 0.90:
		return speculativeHands[rand.Intn(len(speculativeHands))]
	}
	r1 := handRanks[rand.Intn(len(handRanks))]
	r2 := handRanks[rand.Intn(len(handRanks))]
	if r1 == r2 {
		return r1 + r1
	}
	suited := "o"
	if rand.Intn(2) == 0 {
		suited = "s"
	}
	return r1 + r2 + suited
}

// RandomScenario draws a fresh poker situation. Stack and pot tiers skew
// toward realistic clusters rather than uniform noise; when the drawn
// stack cannot cover half the pot the situation downgrades to an
// all-in/limped pot with the pot clamped to the stack.
func RandomScenario() Scenario {
	gameType := Cash
	if rand.Float64() > 0.5 {
		gameType = MTT
	}

	stackDepth := 100
	if gameType == Cash {
		switch r := rand.Float64(); {
		case r < 0.6:
			stackDepth = 100
		case r < 0.8:
			stackDepth = randomInt(150, 300)
		default:
			stackDepth = randomInt(40, 90)
		}
	} else {
		switch r := rand.Float64(); {
		case r < 0.3:
			stackDepth = randomInt(5, 15)
		case r < 0.7:
			stackDepth = randomInt(20, 40)
		default:
			stackDepth = randomInt(41, 80)
		}
	}

	potType := "Single Raised Pot (SRP)"
	potSize := 0
	switch r := rand.Float64(); {
	case r < 0.65:
		potSize = randomInt(5, 8)
	case r < 0.9:
		potType = "3-Bet Pot"
		potSize = randomInt(18, 25)
	default:
		potType = "4-Bet Pot"
		potSize = randomInt(40, 55)
	}

	// Keep stack and pot mutually possible: SPR below 0.5 means the
	// money already went in.
	if stackDepth*2 < potSize {
		potType = allInPotType
		potSize = stackDepth
	}

	contexts := baseContexts
	if gameType == MTT {
		contexts = append(append([]string{}, baseContexts...), mttContexts...)
	}

	durationMode := Medium
	switch r := rand.Float64(); {
	case r < 0.2:
		durationMode = Short
	case r > 0.8:
		durationMode = Long
	}

	return Scenario{
		GameType:     gameType,
		Players:      6,
		StackDepth:   stackDepth,
		PotSize:      potSize,
		PotType:      potType,
		HeroHand:     realisticHand(),
		Context:      contexts[rand.Intn(len(contexts))],
		DurationMode: durationMode,
	}
}
