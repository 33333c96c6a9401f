package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
)

//go:embed template.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("template.html").Funcs(template.FuncMap{
		"comma": comma,
		"hours": formatHours,
	}).ParseFS(templateFS, "template.html"))

// Render writes the report as a single self-contained HTML page.
func Render(w io.Writer, rep *Report) error {
	if err := pageTemplate.Execute(w, rep); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// comma formats n with thousands separators.
func comma(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// formatHours renders an average response time, switching to minutes below
// one hour. A nil average means no qualifying responses.
func formatHours(h *float64) string {
	if h == nil {
		return "–"
	}
	if *h < 1 {
		return fmt.Sprintf("%.0fm", *h*60)
	}
	return fmt.Sprintf("%.1fh", *h)
}
