package arena

import "testing"

func TestComputeShares(t *testing.T) {
	cases := []struct {
		name       string
		pairs      [][2]int
		tg, te     int
		gPct, ePct int
	}{
		{"mixed", [][2]int{{3, 1}, {0, 0}, {2, 2}}, 5, 3, 63, 37},
		{"empty", nil, 0, 0, 50, 50},
		{"all zero rows", [][2]int{{0, 0}, {0, 0}}, 0, 0, 50, 50},
		{"one sided", [][2]int{{10, 0}}, 10, 0, 100, 0},
		{"thirds", [][2]int{{1, 2}}, 1, 2, 33, 67},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ComputeShares(tc.pairs)
			if s.TotalGTO != tc.tg || s.TotalExploit != tc.te {
				t.Fatalf("totals = (%d,%d), want (%d,%d)", s.TotalGTO, s.TotalExploit, tc.tg, tc.te)
			}
			if s.GTOPct != tc.gPct || s.ExploitPct != tc.ePct {
				t.Fatalf("pct = (%d,%d), want (%d,%d)", s.GTOPct, s.ExploitPct, tc.gPct, tc.ePct)
			}
		})
	}
}

func TestComputeSharesAlwaysSumsTo100(t *testing.T) {
	for g := 0; g <= 40; g++ {
		for e := 0; e <= 40; e++ {
			s := ComputeShares([][2]int{{g, e}})
			if s.GTOPct+s.ExploitPct != 100 {
				t.Fatalf("(%d,%d): pct sum = %d", g, e, s.GTOPct+s.ExploitPct)
			}
		}
	}
}
