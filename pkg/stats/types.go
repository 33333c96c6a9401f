// Package stats computes descriptive messaging statistics from a batch of
// normalized message records: per-conversation volume, response latency,
// daily streaks, and period-wide emoji/word frequency tables.
//
// The engine is a pure function of its inputs. It performs no I/O, keeps no
// state between invocations, and is safe to call concurrently as long as
// each call owns its input slice.
package stats

import (
	"fmt"
	"time"
)

// Date is a calendar date in the reporting timezone. It is comparable and
// usable as a map key, unlike time.Time.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight of the date in UTC. Used only for date arithmetic,
// not for display.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return DateOf(d.Time().AddDate(0, 0, 1))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// MarshalYAML encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// MessageRecord is one normalized message as supplied by the message source.
// The source guarantees Timestamp and ConversationKey are always populated;
// records it cannot timestamp are dropped before they reach the engine.
type MessageRecord struct {
	// IsFromMe is true for outgoing messages.
	IsFromMe bool `json:"is_from_me"`

	// Timestamp is the absolute send/receive time, already normalized to
	// the reporting timezone.
	Timestamp time.Time `json:"timestamp"`

	// ConversationKey is the stable bucket identifier (chat or handle).
	ConversationKey string `json:"conversation_key"`

	// ConversationName is the display label. The first name seen for a key
	// wins if it varies across records.
	ConversationName string `json:"conversation_name"`

	// Text is the best-effort extracted message text, possibly empty.
	Text string `json:"text"`
}

// Streak is a run of consecutive calendar days with at least one message.
// A zero Length means no streak (Start and End are meaningless).
type Streak struct {
	Length int  `json:"length" yaml:"length"`
	Start  Date `json:"start" yaml:"start"`
	End    Date `json:"end" yaml:"end"`
}

// ContactStreak is the period-wide winning streak with its conversation.
type ContactStreak struct {
	Key    string `json:"key" yaml:"key"`
	Name   string `json:"name" yaml:"name"`
	Streak Streak `json:"streak" yaml:"streak"`
}

// ConversationStats aggregates one conversation's activity within a period.
type ConversationStats struct {
	// Key is the conversation bucket identifier.
	Key string `json:"key" yaml:"key"`

	// Name is the display label (first seen for this key).
	Name string `json:"name" yaml:"name"`

	Sent     int `json:"sent" yaml:"sent"`
	Received int `json:"received" yaml:"received"`
	Total    int `json:"total" yaml:"total"`

	// TextMessageCount counts messages whose stripped text is non-empty.
	TextMessageCount int `json:"text_message_count" yaml:"text_message_count"`

	// TotalTextWords sums whitespace-delimited tokens of emoji-stripped
	// text across all text messages.
	TotalTextWords int `json:"total_text_words" yaml:"total_text_words"`

	// AvgWordCount is TotalTextWords / TextMessageCount, 0 when there are
	// no text messages.
	AvgWordCount float64 `json:"avg_word_count" yaml:"avg_word_count"`

	// YourResponseTimes holds the hours you took to first reply to an
	// unanswered incoming message, when within the response window.
	YourResponseTimes []float64 `json:"your_response_times,omitempty" yaml:"your_response_times,omitempty"`

	// TheirResponseTimes is the symmetric list for the other side.
	TheirResponseTimes []float64 `json:"their_response_times,omitempty" yaml:"their_response_times,omitempty"`

	// YourAvgResponseHours is the arithmetic mean of YourResponseTimes,
	// nil when no qualifying responses exist.
	YourAvgResponseHours *float64 `json:"your_avg_response_hours,omitempty" yaml:"your_avg_response_hours,omitempty"`

	// TheirAvgResponseHours is the mean of TheirResponseTimes, nil when
	// no qualifying responses exist.
	TheirAvgResponseHours *float64 `json:"their_avg_response_hours,omitempty" yaml:"their_avg_response_hours,omitempty"`

	// ActiveDays lists every date with at least one message, ascending.
	ActiveDays []Date `json:"active_days,omitempty" yaml:"active_days,omitempty"`

	// ActiveDayCount is len(ActiveDays).
	ActiveDayCount int `json:"active_day_count" yaml:"active_day_count"`

	// LongestStreak is the longest run of consecutive active days.
	LongestStreak Streak `json:"longest_streak" yaml:"longest_streak"`

	// Accumulator state, populated during the pass and consumed at
	// finalize time.
	activeDays      map[Date]struct{}
	pendingReceived time.Time
	pendingSent     time.Time
}

// DayCount is a calendar date with its message count.
type DayCount struct {
	Date  Date `json:"date" yaml:"date"`
	Count int  `json:"count" yaml:"count"`
}

// EmojiCount is one emoji with its period-wide frequency.
type EmojiCount struct {
	Emoji string `json:"emoji" yaml:"emoji"`
	Count int    `json:"count" yaml:"count"`
}

// WordCount is one word with its period-wide frequency.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// PeriodStats is the aggregate for one reporting period (all time or a
// single calendar year). It is built fresh on every Compute call and never
// mutated afterwards.
type PeriodStats struct {
	TotalMessages int `json:"total_messages" yaml:"total_messages"`
	SentCount     int `json:"sent_count" yaml:"sent_count"`
	ReceivedCount int `json:"received_count" yaml:"received_count"`

	// PeriodStart and PeriodEnd are the earliest and latest message dates
	// in the period, nil when the period is empty.
	PeriodStart *Date `json:"period_start,omitempty" yaml:"period_start,omitempty"`
	PeriodEnd   *Date `json:"period_end,omitempty" yaml:"period_end,omitempty"`

	// BusiestDay is the date with the most messages, nil when empty.
	// Ties resolve to the first date that reached the maximal count in
	// day-bucket insertion order.
	BusiestDay *DayCount `json:"busiest_day,omitempty" yaml:"busiest_day,omitempty"`

	// TopConversations holds conversations meeting the configured minimum
	// total, sorted by Total descending; ties keep first-seen order.
	TopConversations []*ConversationStats `json:"top_conversations" yaml:"top_conversations"`

	// LongestContactStreak is the longest conversation streak in the
	// period, nil when no conversation has an active day. First-seen
	// conversation wins ties.
	LongestContactStreak *ContactStreak `json:"longest_contact_streak,omitempty" yaml:"longest_contact_streak,omitempty"`

	TopEmojis []EmojiCount `json:"top_emojis" yaml:"top_emojis"`
	TopWords  []WordCount  `json:"top_words" yaml:"top_words"`
}

// Options controls list sizes and admission thresholds for Compute.
// Zero values mean "unlimited" (or "no floor" for MinConversationTotal).
type Options struct {
	// TopConversations truncates the conversation list after sorting.
	TopConversations int

	// TopEmojis truncates the emoji frequency table.
	TopEmojis int

	// TopWords truncates the word frequency table.
	TopWords int

	// MinConversationTotal excludes conversations with fewer total
	// messages from TopConversations. It does not affect the streak
	// search, which always considers every conversation.
	MinConversationTotal int
}
