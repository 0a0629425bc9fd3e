package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// FallbackSet holds the per-language static word lists used when the
// remote lookup is disabled or unavailable. Loaded once at process start,
// immutable afterwards.
type FallbackSet struct {
	sets  map[string]map[string]struct{}
	lists map[string][]string
}

// NewFallbackSet builds a fallback set from in-memory word lists
func NewFallbackSet(words map[string][]string) *FallbackSet {
	fs := &FallbackSet{
		sets:  make(map[string]map[string]struct{}),
		lists: make(map[string][]string),
	}
	for language, list := range words {
		set := make(map[string]struct{}, len(list))
		kept := make([]string, 0, len(list))
		for _, word := range list {
			normalized := Normalize(word)
			if normalized == "" {
				continue
			}
			if _, dup := set[normalized]; dup {
				continue
			}
			set[normalized] = struct{}{}
			kept = append(kept, normalized)
		}
		fs.sets[language] = set
		fs.lists[language] = kept
	}
	return fs
}

// LoadFallbackSets reads one word-list file per language. Each file has
// one word or phrase per line; blank lines and #-comments are skipped.
func LoadFallbackSets(paths map[string]string) (*FallbackSet, error) {
	words := make(map[string][]string, len(paths))
	for language, path := range paths {
		list, err := readWordFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s word list: %w", language, err)
		}
		words[language] = list
	}
	return NewFallbackSet(words), nil
}

func readWordFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

// Contains reports whether the word is a known-valid word of the language
func (fs *FallbackSet) Contains(word, language string) bool {
	set, ok := fs.sets[language]
	if !ok {
		return false
	}
	_, found := set[Normalize(word)]
	return found
}

// Words returns the language's word list in load order
func (fs *FallbackSet) Words(language string) []string {
	return fs.lists[language]
}

// Languages returns the supported language codes, sorted
func (fs *FallbackSet) Languages() []string {
	languages := make([]string, 0, len(fs.sets))
	for language := range fs.sets {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

// Normalize lowercases and trims a word the same way the word lists are
// stored; diacritics are preserved
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
