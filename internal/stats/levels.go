package stats

// Level is one rung of the trader progression ladder, unlocked purely by
// trade count.
type Level struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	MinTrades int    `json:"min_trades"`
}

var levels = []Level{
	{ID: 1, Name: "Rookie", MinTrades: 0},
	{ID: 2, Name: "Trader", MinTrades: 10},
	{ID: 3, Name: "Pro", MinTrades: 50},
	{ID: 4, Name: "Expert", MinTrades: 100},
	{ID: 5, Name: "Master", MinTrades: 200},
	{ID: 6, Name: "Legend", MinTrades: 500},
}

// LevelProgress is a trader's current level plus progress toward the next.
// Next is nil at the top level, where Progress is pinned to 100.
type LevelProgress struct {
	Level        Level   `json:"level"`
	Next         *Level  `json:"next,omitempty"`
	TradesToNext int     `json:"trades_to_next"`
	Progress     float64 `json:"progress"`
}

// LevelFor maps a total trade count onto the progression ladder.
func LevelFor(totalTrades int) LevelProgress {
	current := levels[0]
	var next *Level
	for i := len(levels) - 1; i >= 0; i-- {
		if totalTrades >= levels[i].MinTrades {
			current = levels[i]
			if i < len(levels)-1 {
				n := levels[i+1]
				next = &n
			}
			break
		}
	}

	p := LevelProgress{Level: current, Next: next, Progress: 100}
	if next != nil {
		p.TradesToNext = next.MinTrades - totalTrades
		span := next.MinTrades - current.MinTrades
		p.Progress = float64(totalTrades-current.MinTrades) / float64(span) * 100
	}
	return p
}
