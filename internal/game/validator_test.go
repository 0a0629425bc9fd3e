package game

import (
	"context"
	"testing"

	"wordchain/internal/models"
)

// stubOracle validates against a fixed word set
type stubOracle struct {
	words map[string]bool
}

func (o *stubOracle) IsValid(_ context.Context, word, _ string) bool {
	return o.words[word]
}

func newTestValidator(words ...string) *Validator {
	known := make(map[string]bool, len(words))
	for _, word := range words {
		known[word] = true
	}
	return NewValidator(&stubOracle{words: known}, Rules{
		MinWordLengthEN:       3,
		LongWordThreshold:     7,
		AdvancedWordThreshold: 10,
	})
}

func TestValidateChainRules(t *testing.T) {
	validator := newTestValidator("tiger", "table", "rabbit", "tremendously")

	session := &models.GameSession{
		Language:    "en",
		CurrentWord: "cat",
		UsedWords:   []string{"cat"},
	}

	tests := []struct {
		name string
		word string
		want models.OutcomeKind
	}{
		{"accepted continuation", "TIGER", models.OutcomeAccepted},
		{"empty word", "   ", models.OutcomeRejectedFormat},
		{"too short for english", "to", models.OutcomeRejectedFormat},
		{"wrong starting letter", "rabbit", models.OutcomeRejectedChain},
		{"already used", "CAT", models.OutcomeRejectedChain},
		{"unknown word", "toe", models.OutcomeRejectedUnknownWord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := validator.Validate(context.Background(), session, tt.word)
			if outcome.Kind != tt.want {
				t.Errorf("Validate(%q) = %v, want %v (%s)", tt.word, outcome.Kind, tt.want, outcome.Reason)
			}
			if outcome.Reason == "" {
				t.Error("outcome should carry a reason")
			}
		})
	}
}

func TestValidateDuplicateBeatsDictionary(t *testing.T) {
	validator := newTestValidator("tiger")

	session := &models.GameSession{
		Language:    "en",
		CurrentWord: "tiger",
		UsedWords:   []string{"cat", "tiger"},
	}

	// duplicates are caught before the dictionary is consulted
	outcome := validator.Validate(context.Background(), session, "Tiger")
	if outcome.Kind != models.OutcomeRejectedChain {
		t.Fatalf("expected chain rejection for %q, got %v", "Tiger", outcome.Kind)
	}

	session.CurrentWord = "cat"
	outcome = validator.Validate(context.Background(), session, "TIGER")
	if outcome.Kind != models.OutcomeRejectedDuplicate {
		t.Fatalf("expected duplicate rejection, got %v", outcome.Kind)
	}
}

func TestValidateBonusFlags(t *testing.T) {
	validator := newTestValidator("tiger", "trumpet", "tremendously")

	session := &models.GameSession{
		Language:    "en",
		CurrentWord: "cat",
		UsedWords:   []string{"cat"},
	}

	tests := []struct {
		word         string
		longWord     bool
		advancedWord bool
	}{
		{"tiger", false, false},
		{"trumpet", true, false},
		{"tremendously", true, true},
	}

	for _, tt := range tests {
		outcome := validator.Validate(context.Background(), session, tt.word)
		if !outcome.Accepted() {
			t.Fatalf("%q should be accepted: %s", tt.word, outcome.Reason)
		}
		if outcome.LongWord != tt.longWord || outcome.AdvancedWord != tt.advancedWord {
			t.Errorf("%q bonus flags = (%v, %v), want (%v, %v)",
				tt.word, outcome.LongWord, outcome.AdvancedWord, tt.longWord, tt.advancedWord)
		}
	}
}

func TestValidateMultiTokenPhrase(t *testing.T) {
	validator := NewValidator(&stubOracle{words: map[string]bool{"gia đình": true}}, Rules{
		MinWordLengthEN:       3,
		LongWordThreshold:     7,
		AdvancedWordThreshold: 10,
	})

	// the chain continues from the final rune of the whole phrase
	session := &models.GameSession{
		Language:    "vi",
		CurrentWord: "im lặng",
		UsedWords:   []string{"im lặng"},
	}

	outcome := validator.Validate(context.Background(), session, "Gia đình")
	if !outcome.Accepted() {
		t.Fatalf("phrase should chain on trailing rune: %s", outcome.Reason)
	}
}
