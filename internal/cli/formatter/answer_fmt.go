package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/alexanderramin/taskhelper/internal/knowledge"
)

// FormatAnswer renders a FinalAnswer for terminal output. With trace set,
// the stages that failed before the answer are listed under it.
func FormatAnswer(a answer.FinalAnswer, trace bool) string {
	var b strings.Builder

	b.WriteString(indentWrapped(a.Text, 2, textWrapWidth))
	b.WriteString("\n\n  ")
	b.WriteString(SourceIndicator(a.Source))
	b.WriteString("\n")

	if trace && len(a.Attempts) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Skipped stages"))
		b.WriteString("\n")
		for _, at := range a.Attempts {
			line := fmt.Sprintf("%-16s %-18s", at.Stage, at.Kind)
			if at.Duration > 0 {
				line += fmt.Sprintf(" %dms", at.Duration.Milliseconds())
			}
			b.WriteString("  " + Dim(line) + "\n")
		}
	}

	return RenderBox("Answer", b.String())
}

// FormatChatWelcome renders the banner for the interactive console.
func FormatChatWelcome() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(StylePurple.Render("  taskhelper") + StyleDim.Render(" console"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  ─────────────────────────────") + "\n\n")
	b.WriteString(StyleDim.Render("  Ask anything about the server rules.") + "\n")
	b.WriteString(StyleDim.Render("  Each question is answered on its own. Type /quit to exit.") + "\n\n")
	return b.String()
}

// FormatRules renders the knowledge document outline and the keyword table.
func FormatRules(doc *knowledge.Document, rules []answer.KeywordRule) string {
	var b strings.Builder

	b.WriteString(Dim("source: "+doc.Source()) + "\n\n")
	for _, h := range doc.Headings() {
		b.WriteString("  " + StyleBlue.Render(h) + "\n")
	}

	c := doc.Contacts()
	b.WriteString("\n")
	b.WriteString(Header("Contacts"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("support:   "), c.SupportChannel))
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("moderators:"), c.ModeratorList()))

	b.WriteString("\n")
	b.WriteString(Header("Keyword rules"))
	b.WriteString("\n")
	for i, r := range rules {
		b.WriteString(fmt.Sprintf("  %d. %s  %s\n", i+1, StyleGreen.Render(r.Category), Dim(strings.Join(r.Keywords, ", "))))
	}

	return RenderBox("Knowledge", b.String())
}
