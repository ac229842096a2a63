package flapwatch

import (
	"time"

	"github.com/flapwatch/flapwatch/pkg/circadian"
	"github.com/flapwatch/flapwatch/pkg/confidence"
	"github.com/flapwatch/flapwatch/pkg/weekday"
)

// Option configures an Analyzer.
type Option func(*OptionHolder)

// OptionHolder holds configuration options.
type OptionHolder struct {
	geminiAPIKey  string
	geminiModel   string
	gcpProject    string
	cacheDir      string
	reportURL     string
	targetWeekday time.Weekday
	noCache       bool
	memoryCache   bool
}

// WithGeminiAPIKey enables the optional Gemini-backed narrative.
func WithGeminiAPIKey(key string) Option {
	return func(o *OptionHolder) { o.geminiAPIKey = key }
}

// WithGeminiModel overrides the narrative model.
func WithGeminiModel(model string) Option {
	return func(o *OptionHolder) { o.geminiModel = model }
}

// WithGCPProject sets the Vertex AI project used when no API key is given.
func WithGCPProject(projectID string) Option {
	return func(o *OptionHolder) { o.gcpProject = projectID }
}

// WithCacheDir sets a custom disk cache directory.
func WithCacheDir(dir string) Option {
	return func(o *OptionHolder) { o.cacheDir = dir }
}

// WithNoCache disables all caching.
func WithNoCache() Option {
	return func(o *OptionHolder) { o.noCache = true }
}

// WithMemoryCache keeps the cache in memory only (for the web server).
func WithMemoryCache() Option {
	return func(o *OptionHolder) { o.memoryCache = true }
}

// WithTargetWeekday sets the weekday the report cycle truncates.
func WithTargetWeekday(day time.Weekday) Option {
	return func(o *OptionHolder) { o.targetWeekday = day }
}

// WithReportURL points at the upstream vendor report page used as extra
// context for the narrative.
func WithReportURL(url string) Option {
	return func(o *OptionHolder) { o.reportURL = url }
}

// Report is the complete analysis handed to the presentation layer.
type Report struct {
	GeneratedAt  time.Time         `json:"generatedAt"`
	TotalRecords int               `json:"totalRecords"`
	Circadian    circadian.Result  `json:"circadian"`
	Confidence   confidence.Report `json:"confidence"`
	WeekdayBias  weekday.Report    `json:"weekdayBias"`
	Narrative    string            `json:"narrative,omitempty"`
}
