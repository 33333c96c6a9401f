package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/otherjamesbrown/wrapped-cli/pkg/stats"
)

func msg(ts time.Time, fromMe bool, text string) stats.MessageRecord {
	return stats.MessageRecord{
		IsFromMe:         fromMe,
		Timestamp:        ts,
		ConversationKey:  "handle:1",
		ConversationName: "Alex",
		Text:             text,
	}
}

func TestBuildPeriods(t *testing.T) {
	messages := []stats.MessageRecord{
		msg(time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC), false, "hello"),
		msg(time.Date(2023, 3, 1, 11, 0, 0, 0, time.UTC), true, "hi back"),
		msg(time.Date(2024, 7, 4, 9, 0, 0, 0, time.UTC), true, "fireworks tonight"),
	}

	rep := Build(messages, Config{})

	var keys []string
	for _, p := range rep.Periods {
		keys = append(keys, p.Key)
	}
	want := []string{"all", "2024", "2023"}
	if len(keys) != len(want) {
		t.Fatalf("period keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("period keys = %v, want %v", keys, want)
		}
	}

	if rep.DefaultKey != "2024" {
		t.Errorf("DefaultKey = %q, want newest year", rep.DefaultKey)
	}
	if got := rep.Period("all").Stats.TotalMessages; got != 3 {
		t.Errorf("all-time TotalMessages = %d, want 3", got)
	}
	if got := rep.Period("2023").Stats.TotalMessages; got != 2 {
		t.Errorf("2023 TotalMessages = %d, want 2", got)
	}
	if rep.Period("1999") != nil {
		t.Error("lookup of an absent period returned non-nil")
	}
}

func TestBuildFirstYearFilter(t *testing.T) {
	messages := []stats.MessageRecord{
		msg(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), false, "old"),
		msg(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true, "new"),
	}

	rep := Build(messages, Config{FirstYear: 2024})

	if rep.Period("2019") != nil {
		t.Error("pre-FirstYear period was built")
	}
	// The all-time view is unaffected by FirstYear.
	if got := rep.Period("all").Stats.TotalMessages; got != 2 {
		t.Errorf("all-time TotalMessages = %d, want 2", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	rep := Build(nil, Config{})

	if len(rep.Periods) != 1 || rep.Periods[0].Key != "all" {
		t.Fatalf("empty build periods = %+v, want only all-time", rep.Periods)
	}
	if rep.DefaultKey != "all" {
		t.Errorf("DefaultKey = %q, want all", rep.DefaultKey)
	}
}

func TestRender(t *testing.T) {
	messages := []stats.MessageRecord{
		msg(time.Date(2024, 7, 4, 9, 0, 0, 0, time.UTC), false, "morning \U0001F31E"),
		msg(time.Date(2024, 7, 4, 10, 0, 0, 0, time.UTC), true, "morning indeed"),
	}
	rep := Build(messages, Config{})

	var buf bytes.Buffer
	if err := Render(&buf, rep); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Messages Wrapped",
		`<option value="2024" selected>`,
		`id="period-all"`,
		"Alex",
		"\U0001F31E",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderEmptyPeriod(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Build(nil, Config{})); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "No messages in this period.") {
		t.Error("empty period placeholder missing")
	}
}

func TestComma(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := comma(tt.n); got != tt.want {
			t.Errorf("comma(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := formatHours(nil); got != "–" {
		t.Errorf("formatHours(nil) = %q", got)
	}
	half := 0.5
	if got := formatHours(&half); got != "30m" {
		t.Errorf("formatHours(0.5) = %q, want 30m", got)
	}
	day := 25.25
	if got := formatHours(&day); got != "25.2h" {
		t.Errorf("formatHours(25.25) = %q, want 25.2h", got)
	}
}
