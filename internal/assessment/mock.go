package assessment

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// costRange is the inclusive repair cost band for a severity, in dollars.
type costRange struct {
	min, max float64
}

var costRanges = map[Severity]costRange{
	Minor:     {500, 2000},
	Moderate:  {2000, 8000},
	Severe:    {8000, 20000},
	TotalLoss: {20000, 50000},
}

// Theft cannot be recognized from a photo, so the mock never reports it.
var detectableTypes = []DamageType{Collision, Hail, Flood, Fire, Vandalism}

const (
	minConfidence = 0.85
	maxConfidence = 0.99
)

// CostRange returns the repair cost band for s.
func CostRange(s Severity) (lo, hi decimal.Decimal) {
	r := costRanges[s]
	return decimal.NewFromFloat(r.min), decimal.NewFromFloat(r.max)
}

// Mock stands in for a vision model. It ignores image content and draws a
// damage type, severity, cost, and confidence from fixed ranges.
type Mock struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *slog.Logger
}

// NewMock creates a Mock. A zero seed draws from the clock; any other seed
// makes the sequence of assessments reproducible.
func NewMock(seed int64, logger *slog.Logger) *Mock {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Mock{
		rng:    rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)),
		logger: logger.With("system", "estimator"),
	}
}

func (m *Mock) Assess(ctx context.Context, image []byte) (Assessment, error) {
	if len(image) == 0 {
		return Assessment{}, ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}

	m.mu.Lock()
	damage := detectableTypes[m.rng.IntN(len(detectableTypes))]
	severity := Severities[m.rng.IntN(len(Severities))]
	r := costRanges[severity]
	cost := r.min + m.rng.Float64()*(r.max-r.min)
	confidence := minConfidence + m.rng.Float64()*(maxConfidence-minConfidence)
	m.mu.Unlock()

	a := Assessment{
		DamageType:    damage,
		Severity:      severity,
		EstimatedCost: decimal.NewFromFloat(cost).Round(2),
		Confidence:    math.Round(confidence*100) / 100,
	}

	m.logger.DebugContext(
		ctx, "image assessed",
		"image_bytes", len(image),
		"damage_type", a.DamageType,
		"severity", a.Severity,
		"estimated_cost", a.EstimatedCost.StringFixed(2),
		"confidence", a.Confidence,
	)

	return a, nil
}
