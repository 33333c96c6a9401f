package stats

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// emojiRE matches the emoji ranges the report cares about. It is a rough
// matcher (symbols and pictographs, dingbats, misc symbols), not a full
// Unicode emoji property test.
var emojiRE = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2700}-\x{27BF}\x{2600}-\x{26FF}]`)

// wordPunct is the set of surrounding punctuation trimmed from word tokens
// before filtering.
const wordPunct = ".,!?;:'\"()[]{}<>-*~/\\" + "…–—“”‘’"

// Word-length bounds for the frequency table. Tokens must be strictly
// longer than wordMinLen and strictly shorter than wordMaxLen, in runes.
const (
	wordMinLen = 2
	wordMaxLen = 20
)

// stopWords is a fixed closed set of pronouns, auxiliary verbs, and common
// contractions excluded from the word frequency table. Loaded once at init,
// never mutated.
var stopWords = makeStopWords(
	// Pronouns and determiners.
	"you", "your", "yours", "she", "her", "hers", "him", "his", "its",
	"they", "them", "their", "theirs", "this", "that", "these", "those",
	"the", "and", "but", "for", "not", "with", "what", "when", "who",
	"how", "why", "all", "any", "some",
	// Auxiliary and linking verbs.
	"are", "was", "were", "been", "being", "have", "has", "had", "does",
	"did", "will", "would", "can", "could", "should", "shall", "may",
	"might", "must", "get", "got", "just", "like", "yeah", "okay",
	// Contractions. Tokens with an interior apostrophe fail the alphabetic
	// check anyway, but the set stays authoritative on its own.
	"don't", "can't", "won't", "didn't", "doesn't", "isn't", "wasn't",
	"aren't", "i'm", "i'll", "i've", "it's", "that's", "you're", "you'll",
	"we're", "we'll", "they're", "there's", "what's", "gonna", "gotta",
)

func makeStopWords(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// ExtractEmoji returns every emoji occurrence in s, in order, one entry per
// occurrence (repeats included).
func ExtractEmoji(s string) []string {
	return emojiRE.FindAllString(s, -1)
}

// StripEmoji removes all matched emoji characters from s.
func StripEmoji(s string) string {
	return emojiRE.ReplaceAllString(s, "")
}

// NormalizeWord lowercases and trims a whitespace-delimited token and
// reports whether it is admissible to the word frequency table. Rejected
// tokens still count toward per-conversation word totals; this filter only
// guards the period-wide table against noise and serialization artifacts
// leaking from imperfectly decoded message payloads (hence the "ns" prefix
// and double-underscore rejections).
func NormalizeWord(token string) (string, bool) {
	w := strings.ToLower(strings.Trim(token, wordPunct))
	if w == "" {
		return "", false
	}
	if n := utf8.RuneCountInString(w); n <= wordMinLen || n >= wordMaxLen {
		return "", false
	}
	if _, ok := stopWords[w]; ok {
		return "", false
	}
	if strings.Contains(w, "__") || strings.HasPrefix(w, "ns") {
		return "", false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	return w, true
}
