package domain

import "time"

type Activity struct {
	ID           uint      `json:"id"`
	ProgramID    uint      `json:"program_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Rulebook     string    `json:"rulebook"`
	DurationMins int       `json:"duration_mins"`
	RewardGems   int64     `json:"reward_gems"`
	IsCompulsory bool      `json:"is_compulsory"`
	CreatedAt    time.Time `json:"created_at"`
}

// CanReward reports whether the activity is a valid credit source.
func (a Activity) CanReward() bool {
	return a.RewardGems >= 1
}
