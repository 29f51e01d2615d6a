package notifier

import (
	"fmt"
	"html"
	"strings"

	"SheetSentinel/internal/model"
)

var kindEmoji = map[model.SignalKind]string{
	model.SignalBuy:  "🟢",
	model.SignalSell: "🔴",
	model.SignalHold: "⚪",
}

// FormatReport formats a report into a Telegram HTML message.
func FormatReport(r *model.Report) string {
	var b strings.Builder
	last := r.Series.Latest()

	b.WriteString(fmt.Sprintf("📊 <b>SheetSentinel</b> | %s\n\n", last.Time.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Close: %.2f\n", last.Close))
	if ret, ok := latest(r, model.ReturnsName); ok {
		b.WriteString(fmt.Sprintf("Change: %+.2f%%\n", ret*100))
	}
	b.WriteString("\n📈 <b>Indicators:</b>\n")
	for _, name := range r.Indicators.Names() {
		if name == model.ReturnsName {
			continue
		}
		if v, ok := latest(r, name); ok {
			b.WriteString(fmt.Sprintf("  %s: %.2f\n", name, v))
		} else {
			b.WriteString(fmt.Sprintf("  %s: n/a\n", name))
		}
	}

	sig := r.Signal
	b.WriteString(fmt.Sprintf("\n%s <b>Signal: %s</b> (strength %.0f%%)\n", kindEmoji[sig.Kind], sig.Kind, sig.Strength*100))
	b.WriteString(fmt.Sprintf("Rationale: %s\n", html.EscapeString(sig.Rationale)))
	return b.String()
}

// FormatText is FormatReport without HTML markup, for terminals.
func FormatText(r *model.Report) string {
	s := FormatReport(r)
	for _, tag := range []string{"<b>", "</b>"} {
		s = strings.ReplaceAll(s, tag, "")
	}
	return html.UnescapeString(s)
}

// FormatError formats a failed run.
func FormatError(err error) string {
	return fmt.Sprintf("❌ analysis failed: %s", html.EscapeString(err.Error()))
}

func latest(r *model.Report, name string) (float64, bool) {
	line, ok := r.Indicators.Get(name)
	if !ok {
		return 0, false
	}
	return line.Last().Get()
}
