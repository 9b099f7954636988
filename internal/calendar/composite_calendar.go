package calendar

import (
	"fmt"

	"go.uber.org/zap"
)

// CompositeCalendar merges several holiday sources.
// A failing source is logged and skipped; the others still contribute.
type CompositeCalendar struct {
	sources []Source
	logger  *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(logger *zap.Logger, sources ...Source) *CompositeCalendar {
	return &CompositeCalendar{
		sources: sources,
		logger:  logger,
	}
}

// Load builds the holiday set from every source, in order.
// It fails only when no source could be read at all.
func (cc *CompositeCalendar) Load() (*Set, error) {
	var all []Holiday
	var lastErr error
	loaded := 0

	for _, src := range cc.sources {
		holidays, err := src.Holidays()
		if err != nil {
			cc.logger.Warn("Holiday source failed, skipping",
				zap.String("source", src.Name()),
				zap.Error(err))
			lastErr = err
			if len(holidays) == 0 {
				continue
			}
		}

		all = append(all, holidays...)
		loaded++
	}

	if loaded == 0 && lastErr != nil {
		return nil, fmt.Errorf("no holiday source available: %w", lastErr)
	}

	set := NewSet(all...)
	cc.logger.Info("Holiday calendar loaded",
		zap.Int("sources", loaded),
		zap.Int("holidays", set.Len()),
		zap.Ints("years", set.Years()))

	return set, nil
}
