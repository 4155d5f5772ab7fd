// Package intent extracts user intent (flags, attribute selectors,
// injectable free text) from raw chat message bodies. All functions are
// pure; the Flags value they produce is carried unchanged through the
// rest of a request's lifetime.
package intent

import (
	"regexp"
	"strings"
)

// Recognized flag tokens.
const (
	FlagVerbose    = "verbose"
	FlagHelp       = "help"
	FlagInject     = "inject"
	FlagAttributes = "attributes"
)

var (
	flagPattern      = regexp.MustCompile(`--(\w+)`)
	bracePattern     = regexp.MustCompile(`\{(.*?)\}`)
	mentionPattern   = regexp.MustCompile(`<[^>]+>`)
	flagTokenPattern = regexp.MustCompile(`\s--\S+`)
)

// Flags is the set of recognized switches found in a message. Produced
// once per event; never mutated afterwards.
type Flags struct {
	Verbose    bool
	Help       bool
	Inject     bool
	Attributes bool
}

// FindFlags returns the set of distinct --token occurrences in text,
// case-sensitive. Unrecognized tokens are retained; they simply have no
// effect when applied.
func FindFlags(text string) map[string]struct{} {
	found := make(map[string]struct{})
	for _, m := range flagPattern.FindAllStringSubmatch(text, -1) {
		found[m[1]] = struct{}{}
	}
	return found
}

// ParseFlags extracts the recognized switches from text.
func ParseFlags(text string) Flags {
	found := FindFlags(text)
	has := func(name string) bool {
		_, ok := found[name]
		return ok
	}
	return Flags{
		Verbose:    has(FlagVerbose),
		Help:       has(FlagHelp),
		Inject:     has(FlagInject),
		Attributes: has(FlagAttributes),
	}
}

// ExtractAttributes locates the first brace-delimited group in text and
// returns its comma-separated pieces, trimmed and lowercased, at most
// two. Returns nil when no brace group is present; the caller treats
// that as "no attributes requested".
func ExtractAttributes(text string) []string {
	m := bracePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	parts := strings.Split(m[1], ",")
	attrs := make([]string, 0, 2)
	for _, p := range parts {
		attrs = append(attrs, strings.ToLower(strings.TrimSpace(p)))
		if len(attrs) == 2 {
			break
		}
	}
	return attrs
}

// CleanText strips platform mention spans (<...>) and whitespace-prefixed
// --flag tokens from text, then trims. Used to produce the free text
// appended to the generation prompt when the inject flag is set.
func CleanText(text string) string {
	text = mentionPattern.ReplaceAllString(text, "")
	text = flagTokenPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
