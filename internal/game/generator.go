package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/austinraben/wordhunt/internal/words"
)

// Letter pools. Duplicated letters (the two E's) are weighted accordingly.
const (
	vowelPool       = "EEAIOU"
	germanVowelPool = "EEAIOUÄÖÜ"
	commonPool      = "RDNSTL"
	lessCommonPool  = "BCFGHMPWY"
	rarePool        = "KJXQZV"
	juicePool       = "RDS"
)

// Cumulative tier thresholds for one uniform roll in [0,1).
const (
	vowelCut      = 0.35
	commonCut     = 0.70
	lessCommonCut = 0.95

	juiceChance = 0.10
)

// Pools holds the weighted letter pools for one language.
type Pools struct {
	Vowels     string
	Common     string
	LessCommon string
	Rare       string
}

// PoolsFor returns the pools used for lang. German adds umlaut vowels.
func PoolsFor(lang words.Language) Pools {
	p := Pools{
		Vowels:     vowelPool,
		Common:     commonPool,
		LessCommon: lessCommonPool,
		Rare:       rarePool,
	}
	if lang == words.German {
		p.Vowels = germanVowelPool
	}
	return p
}

// Alphabet returns every letter a grid for lang may contain, each once.
func Alphabet(lang words.Language) string {
	p := PoolsFor(lang)
	seen := make(map[rune]bool)
	var sb strings.Builder
	for _, r := range p.Vowels + p.Common + p.LessCommon + p.Rare + juicePool {
		if !seen[r] {
			seen[r] = true
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Options configures grid generation.
type Options struct {
	Seed int64 // Seed for reproducible grids (0 = random)
}

// Generator produces biased random grids. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a grid generator. A nil options or zero seed seeds from the clock.
func NewGenerator(opts *Options) *Generator {
	var seed int64
	if opts != nil {
		seed = opts.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate draws a new 4x4 grid for lang.
//
// Each cell takes one roll split into four exclusive tiers (35% vowel,
// 35% common, 25% less common, 5% rare consonant). Afterwards every E, in
// row-major order, gives each of its neighbors a 10% chance to become R, D
// or S. That pass works on the grid as it is being mutated.
func (g *Generator) Generate(lang words.Language) Grid {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := PoolsFor(lang)
	vowels, common := []rune(p.Vowels), []rune(p.Common)
	lessCommon, rare := []rune(p.LessCommon), []rune(p.Rare)

	var grid Grid
	for r := range Size {
		for c := range Size {
			roll := g.rng.Float64()
			switch {
			case roll < vowelCut:
				grid[r][c] = g.pick(vowels)
			case roll < commonCut:
				grid[r][c] = g.pick(common)
			case roll < lessCommonCut:
				grid[r][c] = g.pick(lessCommon)
			default:
				grid[r][c] = g.pick(rare)
			}
		}
	}

	g.juice(&grid)
	return grid
}

// juice biases the grid toward common endings by seeding R/D/S around each E.
func (g *Generator) juice(grid *Grid) {
	juice := []rune(juicePool)
	for r := range Size {
		for c := range Size {
			if grid[r][c] != "E" {
				continue
			}
			for _, d := range offsets {
				n := Cell{Row: r + d[0], Col: c + d[1]}
				if n.InBounds() && g.rng.Float64() < juiceChance {
					grid[n.Row][n.Col] = g.pick(juice)
				}
			}
		}
	}
}

func (g *Generator) pick(pool []rune) string {
	return string(pool[g.rng.Intn(len(pool))])
}
