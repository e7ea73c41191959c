// Package format turns the loose markdown a vision model answers with into
// HTML. It understands exactly three constructs: **bold** spans, "*" or "-"
// bullet lines and blank-line paragraph breaks. Anything else passes through
// as escaped text.
package format

import (
	"html"
	"html/template"
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	bulletPattern = regexp.MustCompile(`(?m)^[ \t]*[\*\-][ \t]+(.*)`)
	listRun       = regexp.MustCompile(`(?s)<li>.*?</li>(?:\s*<li>.*?</li>)*`)
	listItem      = regexp.MustCompile(`(?s)<li>.*?</li>`)
)

// HTML converts raw model output to an HTML fragment wrapped in a
// <div class='analysis-result'>. The steps run in a fixed order: bold spans,
// bullet lines, list grouping, then line breaks. It never fails; malformed
// markdown yields odd but well-defined markup.
func HTML(raw string) template.HTML {
	text := html.EscapeString(strings.ReplaceAll(raw, "\r\n", "\n"))

	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	text = bulletPattern.ReplaceAllString(text, "<li>$1</li>")
	text = listRun.ReplaceAllStringFunc(text, func(run string) string {
		return "<ul>" + strings.Join(listItem.FindAllString(run, -1), "") + "</ul>"
	})
	text = strings.ReplaceAll(text, "\n\n", "</p><p>")
	text = strings.ReplaceAll(text, "\n", "<br>")

	return template.HTML("<div class='analysis-result'>" + text + "</div>")
}
