package recurring

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
)

// Detect runs one detection pass over txns as of now.
//
// cfg is used as given; callers that accept configs from outside should
// validate them first (NewDetector does). txns is never modified.
func Detect(txns []model.Transaction, cfg Config, now time.Time) Result {
	cfg = cfg.Normalized()

	windowed := selectWindow(txns, now, cfg.WindowWeeks)
	clusters := filterByOccurrences(clusterByAmount(windowed, cfg.AmountTolerancePct), cfg.MinOccurrences)

	candidates := make([]Candidate, 0, len(clusters))
	for _, c := range clusters {
		candidates = append(candidates, buildCandidate(c, cfg.MemoHints))
	}
	rankCandidates(candidates)

	slog.Debug("Recurring detection finished",
		"input", len(txns),
		"windowed", len(windowed),
		"candidates", len(candidates))

	return Result{
		Candidates: candidates,
		Total:      len(candidates),
	}
}

// Option configures a Detector.
type Option func(*Detector)

// WithClock overrides the time source used as "now".
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

// Detector binds a validated config and a clock.
type Detector struct {
	now    func() time.Time
	config Config
}

// NewDetector validates cfg and returns a detector using it.
func NewDetector(cfg Config, opts ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Detector{
		config: cfg.Normalized(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.now == nil {
		return nil, fmt.Errorf("%w: nil clock", ErrInvalidConfig)
	}
	return d, nil
}

// Config returns a copy of the detector's normalized config.
func (d *Detector) Config() Config {
	cfg := d.config
	cfg.MemoHints = append([]string(nil), d.config.MemoHints...)
	return cfg
}

// Since returns the first calendar day inside the detection window.
// Stores can use it to limit what they load.
func (d *Detector) Since() time.Time {
	return windowStart(d.now(), d.config.WindowWeeks)
}

// Detect runs detection as of the detector's clock.
func (d *Detector) Detect(txns []model.Transaction) Result {
	return Detect(txns, d.config, d.now())
}
