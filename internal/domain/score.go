package domain

import (
	"fmt"
	"math"
)

// percentageTolerance is the maximum drift allowed between a stored
// percentage and the one derived from points/maxPoints.
const percentageTolerance = 0.01

// Score is an immutable points/max-points pair with a derived percentage.
// An optional breakdown carries per-category sub-scores, and metadata holds
// auxiliary values (e.g. the pre-penalty score kept for auditing).
type Score struct {
	points     float64
	maxPoints  float64
	percentage float64
	breakdown  map[string]Score
	metadata   map[string]any
}

// NewScore derives the percentage from points and maxPoints.
func NewScore(points, maxPoints float64) (Score, error) {
	if points < 0 {
		return Score{}, fmt.Errorf("%w: points %.2f must be >= 0", ErrInvalidScore, points)
	}
	if maxPoints <= 0 {
		return Score{}, fmt.Errorf("%w: max points %.2f must be > 0", ErrInvalidScore, maxPoints)
	}
	return Score{
		points:     points,
		maxPoints:  maxPoints,
		percentage: roundPercent(points / maxPoints * 100),
	}, nil
}

// ReconstructScore rebuilds a Score from stored fields, rejecting any stored
// percentage that disagrees with the derived one beyond tolerance.
func ReconstructScore(points, maxPoints, percentage float64) (Score, error) {
	score, err := NewScore(points, maxPoints)
	if err != nil {
		return Score{}, err
	}
	if math.Abs(score.percentage-percentage) > percentageTolerance {
		return Score{}, fmt.Errorf("%w: percentage %.2f does not match %.2f/%.2f",
			ErrInvalidScore, percentage, points, maxPoints)
	}
	return score, nil
}

// ZeroScore is a 0-of-maxPoints score.
func ZeroScore(maxPoints float64) (Score, error) {
	return NewScore(0, maxPoints)
}

// PerfectScore awards every available point.
func PerfectScore(maxPoints float64) (Score, error) {
	return NewScore(maxPoints, maxPoints)
}

func (s Score) Points() float64     { return s.points }
func (s Score) MaxPoints() float64  { return s.maxPoints }
func (s Score) Percentage() float64 { return s.percentage }

// IsPerfect reports whether every point was awarded.
func (s Score) IsPerfect() bool {
	return math.Abs(s.percentage-100) <= percentageTolerance
}

// Combine sums points and max points with other and recomputes the
// percentage. Breakdowns are merged category-wise; metadata from the
// receiver wins on key collision.
func (s Score) Combine(other Score) Score {
	combined := Score{
		points:     s.points + other.points,
		maxPoints:  s.maxPoints + other.maxPoints,
		percentage: roundPercent((s.points + other.points) / (s.maxPoints + other.maxPoints) * 100),
	}
	if len(s.breakdown) > 0 || len(other.breakdown) > 0 {
		combined.breakdown = make(map[string]Score, len(s.breakdown)+len(other.breakdown))
		for cat, sub := range other.breakdown {
			combined.breakdown[cat] = sub
		}
		for cat, sub := range s.breakdown {
			if existing, ok := combined.breakdown[cat]; ok {
				combined.breakdown[cat] = sub.Combine(existing)
			} else {
				combined.breakdown[cat] = sub
			}
		}
	}
	if len(s.metadata) > 0 || len(other.metadata) > 0 {
		combined.metadata = make(map[string]any, len(s.metadata)+len(other.metadata))
		for k, v := range other.metadata {
			combined.metadata[k] = v
		}
		for k, v := range s.metadata {
			combined.metadata[k] = v
		}
	}
	return combined
}

// WithBreakdown returns a copy with the given per-category sub-scores.
func (s Score) WithBreakdown(breakdown map[string]Score) Score {
	copied := make(map[string]Score, len(breakdown))
	for cat, sub := range breakdown {
		copied[cat] = sub
	}
	s.breakdown = copied
	return s
}

// WithMetadata returns a copy with key set in the metadata map.
func (s Score) WithMetadata(key string, value any) Score {
	meta := make(map[string]any, len(s.metadata)+1)
	for k, v := range s.metadata {
		meta[k] = v
	}
	meta[key] = value
	s.metadata = meta
	return s
}

// Breakdown returns a copy of the per-category sub-scores.
func (s Score) Breakdown() map[string]Score {
	if len(s.breakdown) == 0 {
		return nil
	}
	out := make(map[string]Score, len(s.breakdown))
	for cat, sub := range s.breakdown {
		out[cat] = sub
	}
	return out
}

// Metadata returns the value stored under key, if any.
func (s Score) Metadata(key string) (any, bool) {
	v, ok := s.metadata[key]
	return v, ok
}

func (s Score) String() string {
	return fmt.Sprintf("%.2f/%.2f (%.2f%%)", s.points, s.maxPoints, s.percentage)
}

func roundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}
