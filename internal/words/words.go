// internal/words/words.go
//
// Dictionaries for the grid game.
//
// Responsibilities:
//   - Parse newline-delimited word lists (comment lines and blanks dropped, lowercased).
//   - Hold one immutable Dictionary per supported language.
//   - Answer membership and prefix lookups for validation and the word finder.
//
// A Dictionary is never mutated after New returns, so a single value is shared
// by reference between every session playing the same language.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Language identifies a supported grid/dictionary language.
type Language string

const (
	English Language = "english"
	German  Language = "german"
)

// ErrUnknownLanguage is returned by ParseLanguage for unsupported tags.
var ErrUnknownLanguage = errors.New("unknown language")

// Languages lists every supported language in display order.
func Languages() []Language {
	return []Language{English, German}
}

// ParseLanguage normalizes a user-supplied language tag.
// Empty input selects English, matching the game's default.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "english", "en":
		return English, nil
	case "german", "de", "deutsch":
		return German, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// Title returns the capitalized display name ("English", "German").
func (l Language) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// Dictionary is an immutable set of lowercase words for one language.
type Dictionary struct {
	lang     Language
	words    map[string]struct{} // full words
	prefixes map[string]struct{} // every proper prefix of every word
}

// New builds a Dictionary from list. Entries are trimmed and lowercased;
// empty entries are skipped. The list itself is not retained.
func New(lang Language, list []string) *Dictionary {
	d := &Dictionary{
		lang:     lang,
		words:    make(map[string]struct{}, len(list)),
		prefixes: make(map[string]struct{}, len(list)*2),
	}
	for _, w := range list {
		w = normalize(w)
		if w == "" {
			continue
		}
		d.words[w] = struct{}{}
		runes := []rune(w)
		for i := 1; i < len(runes); i++ {
			d.prefixes[string(runes[:i])] = struct{}{}
		}
	}
	return d
}

// Language reports which language the dictionary belongs to.
func (d *Dictionary) Language() Language { return d.lang }

// Len returns the number of distinct words.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

// Contains reports whether w (case-insensitive) is a dictionary word.
func (d *Dictionary) Contains(w string) bool {
	if d == nil {
		return false
	}
	_, ok := d.words[normalize(w)]
	return ok
}

// HasPrefix reports whether some dictionary word is strictly longer than p
// and starts with p (case-insensitive).
func (d *Dictionary) HasPrefix(p string) bool {
	if d == nil {
		return false
	}
	_, ok := d.prefixes[normalize(p)]
	return ok
}

// ReadList reads one word per line from r.
// Lines starting with '#' and blank lines are dropped; words are lowercased.
func ReadList(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// ReadFile loads a word list from disk via ReadList.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	list, err := ReadList(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return list, nil
}

func normalize(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
