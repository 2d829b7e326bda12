package words

import (
	"errors"
	"fmt"

	"github.com/austinraben/wordhunt/assets"
)

// ErrEmptyDictionary is returned when a configured word list has no words.
var ErrEmptyDictionary = errors.New("dictionary is empty")

// Library holds the loaded dictionary of every supported language.
type Library struct {
	dicts map[Language]*Dictionary
}

// NewLibrary assembles a Library from already-built dictionaries.
func NewLibrary(dicts ...*Dictionary) *Library {
	l := &Library{dicts: make(map[Language]*Dictionary, len(dicts))}
	for _, d := range dicts {
		l.dicts[d.Language()] = d
	}
	return l
}

// LoadLibrary loads one dictionary per supported language.
//
// For each language, paths[lang] names a word list file; when it is empty the
// list embedded in the assets package is used instead. A list that ends up
// empty is an error.
func LoadLibrary(paths map[Language]string) (*Library, error) {
	l := &Library{dicts: make(map[Language]*Dictionary)}
	for _, lang := range Languages() {
		var (
			list []string
			err  error
		)
		if p := paths[lang]; p != "" {
			list, err = ReadFile(p)
		} else {
			list, err = embedded(lang)
		}
		if err != nil {
			return nil, fmt.Errorf("load %s dictionary: %w", lang, err)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("load %s dictionary: %w", lang, ErrEmptyDictionary)
		}
		l.dicts[lang] = New(lang, list)
	}
	return l, nil
}

// Get returns the dictionary for lang.
func (l *Library) Get(lang Language) (*Dictionary, error) {
	d, ok := l.dicts[lang]
	if !ok {
		return nil, fmt.Errorf("%w: no dictionary for %q", ErrUnknownLanguage, lang)
	}
	return d, nil
}

// Stats returns the word count per loaded language.
func (l *Library) Stats() map[Language]int {
	out := make(map[Language]int, len(l.dicts))
	for lang, d := range l.dicts {
		out[lang] = d.Len()
	}
	return out
}

func embedded(lang Language) ([]string, error) {
	f, err := assets.WordList(string(lang))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadList(f)
}
