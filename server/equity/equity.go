// Package equity estimates preflop all-in equity for hero combos given in
// range notation ("AKs", "QQ", "T9o"). The estimate seasons the debate
// prompt; it is not a solver.
package equity

import (
	"math/rand"
	"strings"

	poker "github.com/paulhankin/poker"
)

type card struct {
	rank int  // 2..14, Ace high
	suit byte // c d h s
}

// Our ranks: 2..14 (Ace=14). Library: 1..13 (Ace=1).
func toPH(c card) poker.Card {
	var s poker.Suit
	switch c.suit {
	case 'c':
		s = poker.Club
	case 'd':
		s = poker.Diamond
	case 'h':
		s = poker.Heart
	default:
		s = poker.Spade
	}
	var r poker.Rank
	if c.rank == 14 {
		r = poker.Rank(1)
	} else {
		r = poker.Rank(c.rank)
	}
	pc, _ := poker.MakeCard(s, r)
	return pc
}

func parseRank(ch byte) int {
	switch ch {
	case 'A', 'a':
		return 14
	case 'K', 'k':
		return 13
	case 'Q', 'q':
		return 12
	case 'J', 'j':
		return 11
	case 'T', 't':
		return 10
	default:
		if ch >= '2' && ch <= '9' {
			return int(ch - '0')
		}
		return 0
	}
}

// expandCombo picks concrete cards for a combo. Equity against a random
// hand is suit-symmetric, so fixed suits are fine.
func expandCombo(combo string) ([2]card, bool) {
	s := strings.TrimSpace(combo)
	if len(s) < 2 || len(s) > 3 {
		return [2]card{}, false
	}
	r1 := parseRank(s[0])
	r2 := parseRank(s[1])
	if r1 == 0 || r2 == 0 {
		return [2]card{}, false
	}
	if r1 == r2 {
		if len(s) != 2 {
			return [2]card{}, false
		}
		return [2]card{{r1, 's'}, {r2, 'h'}}, true
	}
	if len(s) != 3 {
		return [2]card{}, false
	}
	switch s[2] {
	case 's', 'S':
		return [2]card{{r1, 's'}, {r2, 's'}}, true
	case 'o', 'O':
		return [2]card{{r1, 's'}, {r2, 'h'}}, true
	}
	return [2]card{}, false
}

const defaultIters = 2000

// PreflopVsRandom Monte-Carlos the combo's equity against one random
// hand over a full runout. Ties count half. Returns false when the combo
// cannot be parsed.
func PreflopVsRandom(combo string, iters int) (float64, bool) {
	hole, ok := expandCombo(combo)
	if !ok {
		return 0, false
	}
	if iters <= 0 {
		iters = defaultIters
	}

	deck := make([]card, 0, 50)
	for _, su := range []byte{'c', 'd', 'h', 's'} {
		for r := 2; r <= 14; r++ {
			c := card{r, su}
			if c == hole[0] || c == hole[1] {
				continue
			}
			deck = append(deck, c)
		}
	}

	heroHole := []poker.Card{toPH(hole[0]), toPH(hole[1])}

	var win, tie int
	for n := 0; n < iters; n++ {
		// Partial Fisher-Yates: villain hole + board is 7 cards.
		for i := 0; i < 7; i++ {
			j := i + rand.Intn(len(deck)-i)
			deck[i], deck[j] = deck[j], deck[i]
		}

		var hero7, vill7 [7]poker.Card
		copy(hero7[:2], heroHole)
		vill7[0] = toPH(deck[0])
		vill7[1] = toPH(deck[1])
		for i := 2; i < 7; i++ {
			b := toPH(deck[i])
			hero7[i] = b
			vill7[i] = b
		}

		// Larger Eval7 score = stronger hand.
		hs := poker.Eval7(&hero7)
		vs := poker.Eval7(&vill7)
		if hs > vs {
			win++
		} else if hs == vs {
			tie++
		}
	}
	return (float64(win) + 0.5*float64(tie)) / float64(iters), true
}
