// Package text finds embeddable video links in pasted text.
package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"videoembed/pkg/embed"
)

// trailingPunctuation is stripped from the end of each token before matching.
const trailingPunctuation = ".,!?;:\"')]>"

// Detector reports which providers accept a link.
type Detector interface {
	Detect(rawURL string) []embed.Provider
}

// Match is a link found in pasted text together with the providers that accept it.
type Match struct {
	URL       string           `json:"url"`
	Providers []embed.Provider `json:"providers"`
}

// Scanner splits pasted text into candidate links and keeps those a provider can embed.
type Scanner struct {
	detector Detector
}

// NewScanner creates a scanner backed by the given detector.
func NewScanner(detector Detector) *Scanner {
	return &Scanner{detector: detector}
}

// Scan returns every distinct embeddable link in text, in order of first appearance.
func (s *Scanner) Scan(text string) []Match {
	return s.match(s.Tokens(text))
}

func (s *Scanner) match(candidates []string) []Match {
	var matches []Match
	seen := make(map[string]bool)

	for _, candidate := range candidates {
		if seen[candidate] {
			continue
		}
		seen[candidate] = true

		providers := s.detector.Detect(candidate)
		if len(providers) == 0 {
			continue
		}
		matches = append(matches, Match{URL: candidate, Providers: providers})
	}

	return matches
}

// Tokens normalizes text and returns the whitespace separated candidates with
// trailing punctuation removed.
func (s *Scanner) Tokens(text string) []string {
	fields := strings.Fields(normalizeText(text))

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if token := cleanToken(field); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func normalizeText(text string) string {
	return norm.NFKC.String(strings.TrimSpace(text))
}

func cleanToken(token string) string {
	token = strings.TrimRight(token, trailingPunctuation)
	token = strings.TrimLeft(token, "\"'(<[")
	return token
}
