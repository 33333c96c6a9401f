package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/otherjamesbrown/wrapped-cli/config"
)

func TestResolveOutputFormat(t *testing.T) {
	cfg := mockConfig()
	cfg.OutputFormat = config.OutputFormatYAML

	tests := []struct {
		name    string
		flag    string
		cfg     *config.CLIConfig
		want    config.OutputFormat
		wantErr bool
	}{
		{name: "flag wins", flag: "json", cfg: cfg, want: config.OutputFormatJSON},
		{name: "config default", flag: "", cfg: cfg, want: config.OutputFormatYAML},
		{name: "text fallback", flag: "", cfg: nil, want: config.OutputFormatText},
		{name: "invalid flag", flag: "csv", cfg: cfg, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveOutputFormat(tt.flag, tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveOutputFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveOutputFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := outputJSON(&buf, map[string]int{"sent": 7}); err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"sent": 7`) {
		t.Errorf("outputJSON() = %q", buf.String())
	}
}

func TestOutputYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := outputYAML(&buf, map[string]int{"sent": 7}); err != nil {
		t.Fatalf("outputYAML() error = %v", err)
	}
	if !strings.Contains(buf.String(), "sent: 7") {
		t.Errorf("outputYAML() = %q", buf.String())
	}
}

func TestReportConfigMapping(t *testing.T) {
	cfg := mockConfig()
	cfg.FirstYear = 2019
	cfg.TopEmojis = 25

	rc := reportConfig(cfg)
	if rc.FirstYear != 2019 {
		t.Errorf("FirstYear = %v, want 2019", rc.FirstYear)
	}
	if rc.TopEmojis != 25 {
		t.Errorf("TopEmojis = %v, want 25", rc.TopEmojis)
	}
	if rc.TopConversations != 0 {
		t.Errorf("TopConversations = %v, want 0 (policy default)", rc.TopConversations)
	}
}
