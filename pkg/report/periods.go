// Package report assembles per-period statistics from a message batch and
// renders them as a self-contained HTML page.
package report

import (
	"strconv"
	"time"

	"github.com/otherjamesbrown/wrapped-cli/pkg/stats"
)

// List-size policy. The all-time view is busier, so it gets a higher
// conversation cap and a volume floor that keeps one-off threads out.
const (
	allTimeTopConversations = 15
	allTimeMinTotal         = 100
	yearTopConversations    = 10
	defaultTopEmojis        = 20
	defaultTopWords         = 20
)

// Config adjusts the period policy. Zero values keep the defaults above.
type Config struct {
	// FirstYear drops yearly periods before this year. Zero keeps every
	// year present in the data.
	FirstYear int

	// TopConversations, TopEmojis, TopWords and MinConversationTotal
	// override the all-time list sizes when positive.
	TopConversations     int
	TopEmojis            int
	TopWords             int
	MinConversationTotal int
}

// Period is one selectable view in the report.
type Period struct {
	// Key identifies the period: "all" or a four-digit year.
	Key string `json:"key" yaml:"key"`

	// Label is the human-readable name shown in the period picker.
	Label string `json:"label" yaml:"label"`

	Stats *stats.PeriodStats `json:"stats" yaml:"stats"`
}

// Report is the full set of periods plus presentation metadata.
type Report struct {
	// Periods holds the all-time view first, then years newest-first.
	Periods []Period `json:"periods" yaml:"periods"`

	// DefaultKey is the period shown on load: the newest year when any
	// yearly period exists, otherwise "all".
	DefaultKey string `json:"default_key" yaml:"default_key"`

	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// Period returns the period with the given key, or nil.
func (r *Report) Period(key string) *Period {
	for i := range r.Periods {
		if r.Periods[i].Key == key {
			return &r.Periods[i]
		}
	}
	return nil
}

// Build computes the all-time period plus one period per calendar year in
// the data at or after cfg.FirstYear, newest year first.
func Build(messages []stats.MessageRecord, cfg Config) *Report {
	rep := &Report{
		DefaultKey:  "all",
		GeneratedAt: time.Now(),
	}

	rep.Periods = append(rep.Periods, Period{
		Key:   "all",
		Label: "All Time",
		Stats: stats.Compute(messages, allTimeOptions(cfg)),
	})

	byYear := make(map[int][]stats.MessageRecord)
	minYear, maxYear := 0, 0
	for _, m := range messages {
		y := m.Timestamp.Year()
		if cfg.FirstYear > 0 && y < cfg.FirstYear {
			continue
		}
		byYear[y] = append(byYear[y], m)
		if minYear == 0 || y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}

	for y := maxYear; y >= minYear && y > 0; y-- {
		batch, ok := byYear[y]
		if !ok {
			continue
		}
		rep.Periods = append(rep.Periods, Period{
			Key:   strconv.Itoa(y),
			Label: strconv.Itoa(y),
			Stats: stats.Compute(batch, yearOptions(cfg)),
		})
	}

	if maxYear > 0 {
		rep.DefaultKey = strconv.Itoa(maxYear)
	}
	return rep
}

func allTimeOptions(cfg Config) stats.Options {
	opts := stats.Options{
		TopConversations:     allTimeTopConversations,
		TopEmojis:            defaultTopEmojis,
		TopWords:             defaultTopWords,
		MinConversationTotal: allTimeMinTotal,
	}
	if cfg.TopConversations > 0 {
		opts.TopConversations = cfg.TopConversations
	}
	if cfg.TopEmojis > 0 {
		opts.TopEmojis = cfg.TopEmojis
	}
	if cfg.TopWords > 0 {
		opts.TopWords = cfg.TopWords
	}
	if cfg.MinConversationTotal > 0 {
		opts.MinConversationTotal = cfg.MinConversationTotal
	}
	return opts
}

func yearOptions(cfg Config) stats.Options {
	opts := stats.Options{
		TopConversations: yearTopConversations,
		TopEmojis:        defaultTopEmojis,
		TopWords:         defaultTopWords,
	}
	if cfg.TopEmojis > 0 {
		opts.TopEmojis = cfg.TopEmojis
	}
	if cfg.TopWords > 0 {
		opts.TopWords = cfg.TopWords
	}
	return opts
}
