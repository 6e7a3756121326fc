package arena

import "math"

// FactionShares is the global vote split between the two camps.
// Percentages are integers that always sum to exactly 100.
type FactionShares struct {
	TotalGTO     int `json:"total_gto"`
	TotalExploit int `json:"total_exploit"`
	GTOPct       int `json:"gto_percentage"`
	ExploitPct   int `json:"exploit_percentage"`
}

// ComputeShares sums (gto, exploit) vote pairs across the whole corpus.
// The GTO share is rounded and the exploit share is its complement, so a
// rounding artifact can never make the two drift off 100. Zero votes is
// defined as an even 50/50 split.
func ComputeShares(pairs [][2]int) FactionShares {
	s := FactionShares{}
	for _, p := range pairs {
		s.TotalGTO += p[0]
		s.TotalExploit += p[1]
	}
	total := s.TotalGTO + s.TotalExploit
	if total == 0 {
		s.GTOPct, s.ExploitPct = 50, 50
		return s
	}
	s.GTOPct = int(math.Round(float64(s.TotalGTO) / float64(total) * 100))
	s.ExploitPct = 100 - s.GTOPct
	return s
}
