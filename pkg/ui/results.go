package ui

import (
	"fmt"
	"os"
	"strings"
)

// PrintProbeLine prints one live probe result in nuclei/httpx bracket style:
//
//	[body] 5,242,880 bytes [400] [blocked] [38ms]
func PrintProbeLine(dimension string, size, statusCode int, classification string, latencyMs int64) {
	if IsSilent() {
		return
	}

	var out strings.Builder

	out.WriteString(BracketStyle.Render("["))
	out.WriteString(DimensionStyle.Render(dimension))
	out.WriteString(BracketStyle.Render("] "))

	out.WriteString(StatValueStyle.Render(GroupDigits(size)))
	out.WriteString(StatLabelStyle.Render(" bytes "))

	out.WriteString(BracketStyle.Render("["))
	if statusCode > 0 {
		out.WriteString(StatusCodeStyle(statusCode).Render(fmt.Sprintf("%d", statusCode)))
	} else {
		out.WriteString(StatLabelStyle.Render("---"))
	}
	out.WriteString(BracketStyle.Render("] "))

	out.WriteString(BracketStyle.Render("["))
	out.WriteString(ClassificationStyle(classification).Render(classification))
	out.WriteString(BracketStyle.Render("] "))

	out.WriteString(BracketStyle.Render("["))
	out.WriteString(StatLabelStyle.Render(fmt.Sprintf("%dms", latencyMs)))
	out.WriteString(BracketStyle.Render("]"))

	fmt.Fprintln(os.Stderr, out.String())
}

// PrintPhase announces a search phase for one dimension.
func PrintPhase(dimension, phase string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s: %s\n",
		BracketStyle.Render("*"),
		DimensionStyle.Render(dimension),
		ConfigValueStyle.Render(phase))
}

// GroupDigits renders n with thousands separators: 1048576 -> "1,048,576".
func GroupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
