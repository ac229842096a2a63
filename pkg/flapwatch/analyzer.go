// Package flapwatch analyzes cat-flap activity datasets: circadian-rhythm
// metrics, timestamp-confidence classification with cross-midnight session
// merging, and day-of-week truncation bias.
package flapwatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/flapwatch/flapwatch/pkg/circadian"
	"github.com/flapwatch/flapwatch/pkg/confidence"
	"github.com/flapwatch/flapwatch/pkg/dataset"
	"github.com/flapwatch/flapwatch/pkg/flapcache"
	"github.com/flapwatch/flapwatch/pkg/midnight"
	"github.com/flapwatch/flapwatch/pkg/narrative"
	"github.com/flapwatch/flapwatch/pkg/session"
	"github.com/flapwatch/flapwatch/pkg/weekday"
)

// DefaultTargetWeekday is the report-cycle boundary day: weekly exports
// close out on Mondays, so Monday sessions are the ones cut short.
const DefaultTargetWeekday = time.Monday

// Analyzer runs the full analysis pipeline. The computation itself is
// pure; the Analyzer adds loading, caching, logging, and the optional
// narrative around it.
type Analyzer struct {
	logger        *slog.Logger
	cache         *flapcache.Cache
	loader        *dataset.Loader
	narrator      *narrative.Generator
	targetWeekday time.Weekday
}

// New creates an Analyzer with the default logger.
func New(opts ...Option) *Analyzer {
	return NewWithLogger(slog.Default(), opts...)
}

// NewWithLogger creates an Analyzer with a custom logger.
func NewWithLogger(logger *slog.Logger, opts ...Option) *Analyzer {
	holder := &OptionHolder{targetWeekday: DefaultTargetWeekday}
	for _, opt := range opts {
		opt(holder)
	}

	var cache *flapcache.Cache
	switch {
	case holder.noCache:
		logger.Debug("caching disabled")
	case holder.memoryCache:
		cache = flapcache.NewMemory(12*time.Hour, logger)
	default:
		cacheDir := holder.cacheDir
		if cacheDir == "" {
			if userCacheDir, err := os.UserCacheDir(); err == nil {
				cacheDir = filepath.Join(userCacheDir, "flapwatch")
			} else {
				logger.Debug("could not determine user cache directory", "error", err)
			}
		}
		if cacheDir != "" {
			var err error
			cache, err = flapcache.New(cacheDir, 24*time.Hour, logger)
			if err != nil {
				// Cache is optional, continue without it.
				logger.Warn("cache initialization failed", "error", err, "dir", cacheDir)
				cache = nil
			}
		}
	}

	a := &Analyzer{
		logger:        logger,
		cache:         cache,
		targetWeekday: holder.targetWeekday,
	}
	a.loader = dataset.NewLoader(cache, logger)
	if holder.geminiAPIKey != "" || holder.gcpProject != "" {
		var narrCache narrative.Cache
		if cache != nil {
			narrCache = cache
		}
		a.narrator = narrative.New(holder.geminiAPIKey, holder.geminiModel,
			holder.gcpProject, holder.reportURL, narrCache, logger)
	}
	return a
}

// Close flushes the cache.
func (a *Analyzer) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

// AnalyzeSource loads a dataset from a file path or URL and analyzes it.
func (a *Analyzer) AnalyzeSource(ctx context.Context, source string) (*Report, error) {
	records, err := a.loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, records), nil
}

// Analyze runs every analyzer over the raw records and assembles the
// report. Data-quality problems never produce an error; the report's
// NoData indicators carry them instead.
func (a *Analyzer) Analyze(ctx context.Context, records []session.Record) *Report {
	events := session.Normalize(records)
	dataset.WarnOnGaps(events, a.logger)

	pairing := midnight.Pair(events)
	report := &Report{
		GeneratedAt:  time.Now(),
		TotalRecords: len(events),
		Circadian:    circadian.Analyze(events),
		Confidence:   confidence.Classify(events, pairing),
		WeekdayBias:  weekday.Analyze(events, a.targetWeekday),
	}

	a.logger.Info("analysis complete",
		"records", len(events),
		"cross_midnight_pairs", pairing.Pairs,
		"quality_score", report.Confidence.QualityScore,
		"no_data", report.Circadian.NoData)

	if a.narrator != nil && !report.Circadian.NoData {
		text, err := a.narrator.Generate(ctx, narrative.PromptData{
			Circadian:   report.Circadian,
			Confidence:  report.Confidence,
			WeekdayBias: report.WeekdayBias,
		})
		if err != nil {
			// The narrative is decoration; the report stands without it.
			a.logger.Warn("narrative generation failed", "error", err)
		} else {
			report.Narrative = text
		}
	}
	return report
}
