package game

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"wordchain/internal/models"
)

// Oracle answers whether a word is a valid word of a language.
// Implemented by dictionary.Service.
type Oracle interface {
	IsValid(ctx context.Context, word, language string) bool
}

// Rules holds the validator's length thresholds
type Rules struct {
	MinWordLengthEN       int
	LongWordThreshold     int
	AdvancedWordThreshold int
}

// Validator is the pure rule engine for word submissions. Checks run in
// order and short-circuit on the first failure: format, chain
// continuation, repetition, semantic validity.
type Validator struct {
	oracle Oracle
	rules  Rules
}

// NewValidator creates a validator backed by the given dictionary oracle
func NewValidator(oracle Oracle, rules Rules) *Validator {
	return &Validator{oracle: oracle, rules: rules}
}

// Validate checks a candidate word against the session's chain state
func (v *Validator) Validate(ctx context.Context, session *models.GameSession, candidate string) models.Outcome {
	word := normalizeWord(candidate)

	if word == "" {
		return models.Outcome{
			Kind:   models.OutcomeRejectedFormat,
			Reason: "word cannot be empty",
		}
	}

	if session.Language == "en" && utf8.RuneCountInString(word) < v.rules.MinWordLengthEN {
		return models.Outcome{
			Kind:   models.OutcomeRejectedFormat,
			Reason: fmt.Sprintf("English words need at least %d letters", v.rules.MinWordLengthEN),
		}
	}

	required := lastRune(session.CurrentWord)
	if firstRune(word) != required {
		return models.Outcome{
			Kind:   models.OutcomeRejectedChain,
			Reason: fmt.Sprintf("word must start with %q to continue %q", required, session.CurrentWord),
		}
	}

	if session.HasUsedWord(word) {
		return models.Outcome{
			Kind:   models.OutcomeRejectedDuplicate,
			Reason: fmt.Sprintf("%q has already been played this game", word),
		}
	}

	if !v.oracle.IsValid(ctx, word, session.Language) {
		return models.Outcome{
			Kind:   models.OutcomeRejectedUnknownWord,
			Reason: fmt.Sprintf("%q is not in the %s dictionary", word, session.Language),
		}
	}

	outcome := models.Outcome{
		Kind:   models.OutcomeAccepted,
		Reason: fmt.Sprintf("%q accepted", word),
	}
	length := utf8.RuneCountInString(word)
	outcome.LongWord = length >= v.rules.LongWordThreshold
	outcome.AdvancedWord = length >= v.rules.AdvancedWordThreshold
	return outcome
}

// normalizeWord lowercases and trims a candidate the same way used_words
// and the word lists are stored
func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// firstRune returns the first rune of a normalized word
func firstRune(word string) rune {
	r, _ := utf8.DecodeRuneInString(word)
	return r
}

// lastRune returns the trailing rune of the whole phrase. Multi-token
// phrases chain on the final character of the final token.
func lastRune(word string) rune {
	r, _ := utf8.DecodeLastRuneInString(normalizeWord(word))
	return r
}
