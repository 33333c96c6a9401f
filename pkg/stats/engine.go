package stats

import (
	"sort"
	"strings"
	"time"
)

// responseWindowHours bounds how late a reply may arrive and still count as
// a response. A reply beyond the window is treated as a new, unprompted
// message rather than a response to the pending one.
const responseWindowHours = 48.0

// Compute builds a PeriodStats aggregate from one period's message batch.
//
// The batch is stably sorted by timestamp (equal timestamps keep input
// order) and traversed once. Per conversation it tracks volume, active
// days, word totals, and a two-register response-time state machine: only
// the first reply after an unanswered message counts as the response, and
// the pending register clears whether or not the reply fell inside the
// response window.
//
// An empty batch returns the canonical empty aggregate; Compute never
// fails for well-formed input.
func Compute(messages []MessageRecord, opts Options) *PeriodStats {
	period := &PeriodStats{
		TopConversations: []*ConversationStats{},
		TopEmojis:        []EmojiCount{},
		TopWords:         []WordCount{},
	}
	if len(messages) == 0 {
		return period
	}

	sorted := make([]MessageRecord, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	// Conversation buckets in first-seen order; the order doubles as the
	// tie-break for the top list and the streak winner.
	convs := make(map[string]*ConversationStats)
	var convOrder []*ConversationStats

	days := newDayCounter()
	emojis := newCounter()
	words := newCounter()

	for i := range sorted {
		msg := &sorted[i]
		day := DateOf(msg.Timestamp)
		days.add(day)

		conv := convs[msg.ConversationKey]
		if conv == nil {
			conv = &ConversationStats{
				Key:        msg.ConversationKey,
				Name:       msg.ConversationName,
				activeDays: make(map[Date]struct{}),
			}
			convs[msg.ConversationKey] = conv
			convOrder = append(convOrder, conv)
		}

		if msg.IsFromMe {
			conv.Sent++
			period.SentCount++
			if !conv.pendingReceived.IsZero() {
				hours := msg.Timestamp.Sub(conv.pendingReceived).Hours()
				if hours <= responseWindowHours {
					conv.YourResponseTimes = append(conv.YourResponseTimes, hours)
				}
				conv.pendingReceived = time.Time{}
			}
			conv.pendingSent = msg.Timestamp
		} else {
			conv.Received++
			period.ReceivedCount++
			if !conv.pendingSent.IsZero() {
				hours := msg.Timestamp.Sub(conv.pendingSent).Hours()
				if hours <= responseWindowHours {
					conv.TheirResponseTimes = append(conv.TheirResponseTimes, hours)
				}
				conv.pendingSent = time.Time{}
			}
			conv.pendingReceived = msg.Timestamp
		}

		conv.Total++
		period.TotalMessages++
		conv.activeDays[day] = struct{}{}

		if text := strings.TrimSpace(msg.Text); text != "" {
			conv.TextMessageCount++
			for _, e := range ExtractEmoji(text) {
				emojis.add(e)
			}
			tokens := strings.Fields(StripEmoji(text))
			conv.TotalTextWords += len(tokens)
			for _, tok := range tokens {
				if w, ok := NormalizeWord(tok); ok {
					words.add(w)
				}
			}
		}
	}

	start := DateOf(sorted[0].Timestamp)
	end := DateOf(sorted[len(sorted)-1].Timestamp)
	period.PeriodStart = &start
	period.PeriodEnd = &end
	period.BusiestDay = days.busiest()

	for _, conv := range convOrder {
		finalizeConversation(conv)
		if conv.LongestStreak.Length == 0 {
			continue
		}
		if period.LongestContactStreak == nil ||
			conv.LongestStreak.Length > period.LongestContactStreak.Streak.Length {
			period.LongestContactStreak = &ContactStreak{
				Key:    conv.Key,
				Name:   conv.Name,
				Streak: conv.LongestStreak,
			}
		}
	}

	period.TopConversations = topConversations(convOrder, opts)

	for _, e := range emojis.top(opts.TopEmojis) {
		period.TopEmojis = append(period.TopEmojis, EmojiCount{Emoji: e.Key, Count: e.Count})
	}
	for _, w := range words.top(opts.TopWords) {
		period.TopWords = append(period.TopWords, WordCount{Word: w.Key, Count: w.Count})
	}

	return period
}

// finalizeConversation derives the averages, day list, and streak once the
// accumulation pass is complete.
func finalizeConversation(conv *ConversationStats) {
	if conv.TextMessageCount > 0 {
		conv.AvgWordCount = float64(conv.TotalTextWords) / float64(conv.TextMessageCount)
	}
	conv.YourAvgResponseHours = mean(conv.YourResponseTimes)
	conv.TheirAvgResponseHours = mean(conv.TheirResponseTimes)

	conv.ActiveDays = make([]Date, 0, len(conv.activeDays))
	for d := range conv.activeDays {
		conv.ActiveDays = append(conv.ActiveDays, d)
	}
	sort.Slice(conv.ActiveDays, func(i, j int) bool {
		return conv.ActiveDays[i].Before(conv.ActiveDays[j])
	})
	conv.ActiveDayCount = len(conv.ActiveDays)
	conv.LongestStreak = LongestRun(conv.activeDays)
}

// topConversations filters by the minimum-total floor and sorts descending
// by total. The sort is stable over first-seen order, so equal totals keep
// their insertion ranking.
func topConversations(convOrder []*ConversationStats, opts Options) []*ConversationStats {
	top := make([]*ConversationStats, 0, len(convOrder))
	for _, conv := range convOrder {
		if conv.Total >= opts.MinConversationTotal {
			top = append(top, conv)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Total > top[j].Total })
	if opts.TopConversations > 0 && len(top) > opts.TopConversations {
		top = top[:opts.TopConversations]
	}
	return top
}

// mean returns the arithmetic mean, or nil for an empty list.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}
