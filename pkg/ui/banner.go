package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Version information - can be overridden at build time via ldflags:
// go build -ldflags "-X github.com/waftester/wafsizer/pkg/ui.Version=1.0.0"
var (
	Version   = "1.2.0"
	BuildDate = "dev"
	Commit    = "dev"
)

// UserAgent returns the standard User-Agent string for wafsizer requests.
func UserAgent() string {
	return fmt.Sprintf("wafsizer/%s", Version)
}

// UserAgentWithContext returns a User-Agent with context
// (e.g., "wafsizer/X.Y.Z (reachability)").
func UserAgentWithContext(context string) string {
	return fmt.Sprintf("wafsizer/%s (%s)", Version, context)
}

// Global UI state
var (
	silentMode  bool
	noColorMode bool
	uiMu        sync.RWMutex
)

// SetSilent enables or disables silent mode (suppresses most output).
func SetSilent(silent bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	silentMode = silent
}

// IsSilent returns whether silent mode is enabled.
func IsSilent() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return silentMode
}

// SetNoColor disables colored output.
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsNoColor returns whether color is disabled.
func IsNoColor() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return noColorMode
}

const miniBanner = `┌──────────────────────────┐
│  wafsizer  v%-11s  │
└──────────────────────────┘`

// Separator line
const bannerSeparator = "________________________________________________"

// PrintMiniBanner prints the minimal banner (ffuf-style box).
func PrintMiniBanner() {
	fmt.Fprintf(os.Stderr, "%s\n", BannerStyle.Render(Sanitizef(miniBanner, Version)))
	fmt.Fprintln(os.Stderr)
}

// printOption prints a configuration option in ffuf/nuclei style
// Format:  :: Option              : Value
func printOption(name, value string) {
	fmt.Fprintf(os.Stderr, " :: %-20s : %s\n", ConfigLabelStyle.Render(name), ConfigValueStyle.Render(value))
}

// PrintConfigBanner prints the configuration banner like ffuf/nuclei,
// showing all current settings before probing starts.
func PrintConfigBanner(options map[string]string) {
	order := []string{
		"Target", "Dimensions", "Header Range", "Body Range",
		"Ceiling", "Timeout", "Retries", "Rate Limit",
		"Parallel", "Output", "Format", "Proxy",
	}

	printed := make(map[string]bool)
	for _, name := range order {
		if value, ok := options[name]; ok && value != "" {
			printOption(name, value)
			printed[name] = true
		}
	}
	for name, value := range options {
		if !printed[name] && value != "" {
			printOption(name, value)
		}
	}

	fmt.Fprintf(os.Stderr, "%s\n\n", DividerStyle.Render(bannerSeparator))
}

// PrintDivider prints a stylized divider (to stderr).
func PrintDivider() {
	divider := strings.Repeat("-", 75)
	fmt.Fprintln(os.Stderr, DividerStyle.Render(divider))
}

// PrintSection prints a section header (to stderr).
func PrintSection(title string) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, SectionStyle.Render("> "+title))
	PrintDivider()
}

// PrintHelp prints contextual help (to stderr like ffuf/nuclei).
func PrintHelp(text string) {
	fmt.Fprintln(os.Stderr, HelpStyle.Render("  [i] "+text))
}

// PrintSuccess prints a success message (to stderr).
func PrintSuccess(message string) {
	fmt.Fprintln(os.Stderr, PassStyle.Render("  [+] "+SanitizeString(message)))
}

// PrintError prints an error message (to stderr).
func PrintError(message string) {
	fmt.Fprintln(os.Stderr, FailStyle.Render("  [X] "+SanitizeString(message)))
}

// PrintWarning prints a warning message (to stderr).
func PrintWarning(message string) {
	fmt.Fprintln(os.Stderr, WarnStyle.Render("  [!] "+SanitizeString(message)))
}

// PrintInfo prints an info message (to stderr).
func PrintInfo(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n", BracketStyle.Render("*"), SanitizeString(message))
}
