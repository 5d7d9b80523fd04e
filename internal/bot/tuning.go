package bot

// Tuning sets how well each level remembers cards it has seen.
type Tuning struct {
	// Recall is the chance a revealed card is remembered, 0..1.
	Recall float64
}

// DefaultTuning maps each level to its recall.
var DefaultTuning = map[BotLevel]Tuning{
	BotLevelGood:  {Recall: 0},
	BotLevelSmart: {Recall: 0.7},
	BotLevelGod:   {Recall: 1},
}
