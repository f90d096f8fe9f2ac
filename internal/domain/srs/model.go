package srs

import (
	"math"

	"github.com/hanziflow/hanziflow-api/internal/domain"
)

// Stability and difficulty clamps.
const (
	minStability  = 0.001
	minDifficulty = 1.0
	maxDifficulty = 10.0
)

// model holds the weight vector plus constants precomputed from it.
type model struct {
	w      [21]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1
}

func newModel(w [21]float64) model {
	decay := -w[20]
	return model{
		w:      w,
		decay:  decay,
		factor: math.Pow(0.9, 1.0/decay) - 1.0,
	}
}

// retrievability computes R(t, S) = (1 + FACTOR * t / S) ^ DECAY.
func (m *model) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+m.factor*elapsedDays/stability, m.decay)
}

// initStability returns the initial stability S₀(G) for the first grading.
func (m *model) initStability(r domain.Rating) float64 {
	return clampStability(m.w[r-1])
}

// initDifficulty returns the initial difficulty D₀(G) = w[4] - e^(w[5]*(G-1)) + 1.
// When clamp is false the raw value is returned; the mean-reversion target
// in nextDifficulty uses the unclamped D₀(Easy).
func (m *model) initDifficulty(r domain.Rating, clamp bool) float64 {
	d := m.w[4] - math.Exp(m.w[5]*float64(r-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextInterval computes the next review interval in days:
// I(r, S) = round((S / FACTOR) * (r^(1/DECAY) - 1)), clamped to [1, maxDays].
func (m *model) nextInterval(stability, desiredRetention float64, maxDays int) int {
	ivl := stability / m.factor * (math.Pow(desiredRetention, 1.0/m.decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > maxDays {
		days = maxDays
	}
	return days
}

// shortTermStability computes the same-day review stability update:
// S' = S * e^(w[17] * (G - 3 + w[18])) * S^(-w[19]), with the multiplier
// floored at 1 for Good and Easy.
func (m *model) shortTermStability(stability float64, r domain.Rating) float64 {
	inc := math.Exp(m.w[17]*(float64(r)-3+m.w[18])) * math.Pow(stability, -m.w[19])
	if r == domain.RatingGood || r == domain.RatingEasy {
		inc = math.Max(inc, 1.0)
	}
	return clampStability(stability * inc)
}

// nextDifficulty applies linear damping and mean reversion toward D₀(Easy):
// ΔD = -w[6] * (G - 3); D' = D + (10 - D) * ΔD / 9;
// D'' = w[7]*D₀(Easy) + (1-w[7])*D', clamped to [1, 10].
func (m *model) nextDifficulty(difficulty float64, r domain.Rating) float64 {
	deltaD := -m.w[6] * (float64(r) - 3)
	damped := difficulty + (10-difficulty)*deltaD/9
	target := m.initDifficulty(domain.RatingEasy, false)
	return clampDifficulty(m.w[7]*target + (1-m.w[7])*damped)
}

// nextStability dispatches on whether the recall succeeded.
func (m *model) nextStability(d, s, r float64, rating domain.Rating) float64 {
	if rating == domain.RatingAgain {
		return m.forgetStability(d, s, r)
	}
	return m.recallStability(d, s, r, rating)
}

// recallStability computes stability after a successful cross-day recall:
// S' = S * (1 + e^w[8] * (11-D) * S^(-w[9]) * (e^((1-R)*w[10]) - 1) * hardPenalty * easyBonus).
// Hard grows least, Easy most, for the same elapsed interval.
func (m *model) recallStability(d, s, r float64, rating domain.Rating) float64 {
	hardPenalty := 1.0
	if rating == domain.RatingHard {
		hardPenalty = m.w[15]
	}
	easyBonus := 1.0
	if rating == domain.RatingEasy {
		easyBonus = m.w[16]
	}
	return clampStability(s * (1 + math.Exp(m.w[8])*
		(11-d)*
		math.Pow(s, -m.w[9])*
		(math.Exp((1-r)*m.w[10])-1)*
		hardPenalty*easyBonus))
}

// forgetStability computes stability after a lapse, the minimum of the
// long-term forget curve and the short-term bound S / e^(w[17]*w[18]).
func (m *model) forgetStability(d, s, r float64) float64 {
	long := m.w[11] *
		math.Pow(d, -m.w[12]) *
		(math.Pow(s+1, m.w[13]) - 1) *
		math.Exp((1-r)*m.w[14])
	short := s / math.Exp(m.w[17]*m.w[18])
	return clampStability(math.Min(long, short))
}

func clampStability(s float64) float64 {
	return math.Max(s, minStability)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, minDifficulty), maxDifficulty)
}
