package risk

import (
	"github.com/davidleathers/grc-risk-engine/internal/domain/errors"
)

const (
	MinRating = 1
	MaxRating = 5
	MinScore  = MinRating * MinRating
	MaxScore  = MaxRating * MaxRating
)

// band is a closed score interval mapped to a level.
type band struct {
	min, max int
	level    Level
}

// bands must stay contiguous, ascending and cover [MinScore, MaxScore].
var bands = [...]band{
	{min: 1, max: 3, level: LevelVeryLow},
	{min: 4, max: 6, level: LevelLow},
	{min: 7, max: 12, level: LevelMedium},
	{min: 13, max: 20, level: LevelHigh},
	{min: 21, max: 25, level: LevelCritical},
}

// Classification is the score and level derived from one (impact, likelihood) pair.
type Classification struct {
	Impact     int   `json:"impact"`
	Likelihood int   `json:"likelihood"`
	Score      int   `json:"score"`
	Level      Level `json:"level"`
}

// Score multiplies impact by likelihood after checking both are in [1,5].
func Score(impact, likelihood int) (int, error) {
	if err := validateRating("impact_score", impact); err != nil {
		return 0, err
	}
	if err := validateRating("likelihood_score", likelihood); err != nil {
		return 0, err
	}
	return impact * likelihood, nil
}

// LevelForScore maps a score in [1,25] onto its severity band.
func LevelForScore(score int) (Level, error) {
	for _, b := range bands {
		if score >= b.min && score <= b.max {
			return b.level, nil
		}
	}
	return 0, errors.NewInvalidScoreInput("risk_score", score, MinScore, MaxScore)
}

// Classify scores and levels an (impact, likelihood) pair in one step.
func Classify(impact, likelihood int) (Classification, error) {
	score, err := Score(impact, likelihood)
	if err != nil {
		return Classification{}, err
	}
	level, err := LevelForScore(score)
	if err != nil {
		return Classification{}, err
	}
	return Classification{
		Impact:     impact,
		Likelihood: likelihood,
		Score:      score,
		Level:      level,
	}, nil
}

// ScoreRange returns the closed score interval covered by level.
func ScoreRange(level Level) (min, max int, ok bool) {
	for _, b := range bands {
		if b.level == level {
			return b.min, b.max, true
		}
	}
	return 0, 0, false
}

func validateRating(field string, v int) error {
	if v < MinRating || v > MaxRating {
		return errors.NewInvalidScoreInput(field, v, MinRating, MaxRating)
	}
	return nil
}
