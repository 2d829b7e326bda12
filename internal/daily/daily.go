// internal/daily/daily.go
//
// Daily grid keys.
// Responsibilities:
//   - Format and parse the UTC date key (YYYY-MM-DD) shared by grids and leaderboards.
//   - Pair a date with a language; one grid exists per Key.

package daily

import (
	"fmt"
	"strings"
	"time"

	"github.com/austinraben/wordhunt/internal/game"
	"github.com/austinraben/wordhunt/internal/words"
)

const dateLayout = "2006-01-02"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ParseDate validates a YYYY-MM-DD key. Empty input means the date of now.
func ParseDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateKey(now), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return DateKey(t), nil
}

// Key identifies one daily grid.
type Key struct {
	Date     string
	Language words.Language
}

// KeyFor is the key of lang's grid on the UTC day of t.
func KeyFor(t time.Time, lang words.Language) Key {
	return Key{Date: DateKey(t), Language: lang}
}

// Day is the day of the month. Zero if Date is malformed.
func (k Key) Day() int {
	t, err := time.Parse(dateLayout, k.Date)
	if err != nil {
		return 0
	}
	return t.Day()
}

func (k Key) String() string { return k.Date + "/" + string(k.Language) }

// Grid is a stored daily grid.
type Grid struct {
	ID       string         `json:"gridId"`
	Date     string         `json:"date"`
	Language words.Language `json:"language"`
	Letters  game.Grid      `json:"grid"`
}

// Key returns the grid's date and language.
func (g Grid) Key() Key { return Key{Date: g.Date, Language: g.Language} }
