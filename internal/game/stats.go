package game

// Summary is a player's cumulative record.
type Summary struct {
	GamesPlayed   int
	Wins          int
	CurrentStreak int
	MaxStreak     int
	WinPercentage float64
}

// Summarize folds game outcomes, oldest first, into a Summary.
func Summarize(outcomes []bool) Summary {
	var s Summary
	run := 0
	for _, won := range outcomes {
		s.GamesPlayed++
		if !won {
			run = 0
			continue
		}
		s.Wins++
		run++
		if run > s.MaxStreak {
			s.MaxStreak = run
		}
	}
	s.CurrentStreak = run
	if s.GamesPlayed > 0 {
		s.WinPercentage = float64(s.Wins) / float64(s.GamesPlayed) * 100
	}
	return s
}
