// Package generate produces synthetic per-source customer records with the
// kinds of formatting noise real feeds carry.
package generate

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/mdf/internal/catalog"
	"github.com/sells-group/mdf/internal/model"
)

var (
	firstNames = []string{"Jane", "Marcus", "Priya", "Alejandro", "Mei-Lin", "Darius", "Sofia", "Tomasz", "Aisha", "Liam"}
	lastNames  = []string{"Doe", "Rivera", "Sharma", "Chen", "Williams", "Novak", "Okafor", "Kim", "Petrov", "Garcia"}
	domains    = []string{"gmail.com", "outlook.com", "yahoo.com", "hotmail.com", "icloud.com"}
	cities     = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "San Diego", "Dallas", "Austin", "Denver", "Seattle"}
	states     = []string{"NY", "CA", "IL", "TX", "AZ", "CA", "TX", "TX", "CO", "WA"}
)

type product struct {
	name  string
	price int
}

var products = []product{
	{`4K OLED TV 65"`, 1299},
	{"Wireless Noise-Cancelling Headphones", 349},
	{"Smart Home Hub Pro", 199},
	{"Running Shoes Ultra Boost", 189},
	{"Espresso Machine Deluxe", 599},
	{"Organic Skincare Bundle", 89},
	{"Fitness Tracker Band", 129},
	{"Bluetooth Speaker Waterproof", 79},
	{"Laptop Stand Ergonomic", 59},
	{"Meal Prep Container Set", 34},
}

const day = 24 * time.Hour

// Generator produces raw records for catalog sources. A Generator is not safe
// for concurrent use; the same seed yields the same records.
type Generator struct {
	catalog *catalog.Catalog
	src     *rand.ChaCha8
	rng     *rand.Rand
	now     func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator over cat seeded with seed.
func New(cat *catalog.Catalog, seed uint64, opts ...Option) *Generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	src := rand.NewChaCha8(key)

	g := &Generator{
		catalog: cat,
		src:     src,
		rng:     rand.New(src),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Rand exposes the generator's random stream so downstream demo fallbacks can
// share one seed.
func (g *Generator) Rand() *rand.Rand {
	return g.rng
}

// Generate returns count records for sourceID. Unknown sources, or sources
// with no template, yield an empty slice.
func (g *Generator) Generate(sourceID string, count int) []model.RawRecord {
	src, ok := g.catalog.Lookup(sourceID)
	if !ok {
		return []model.RawRecord{}
	}
	tmpl, ok := templates[sourceID]
	if !ok || count <= 0 {
		return []model.RawRecord{}
	}

	prov := src.Provenance()
	out := make([]model.RawRecord, count)
	for i := range out {
		rec := tmpl(g, i, count)
		rec.Provenance = prov
		out[i] = rec
	}
	return out
}

// GenerateAll concatenates count records for each source, in selection order.
func (g *Generator) GenerateAll(sourceIDs []string, count int) []model.RawRecord {
	var out []model.RawRecord
	for _, id := range sourceIDs {
		out = append(out, g.Generate(id, count)...)
	}
	return out
}

// --- random helpers ---

func pick[T any](g *Generator, items []T) T {
	return items[g.rng.IntN(len(items))]
}

// intn returns a uniform int in [lo, hi].
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) chance(p float64) bool {
	return g.rng.Float64() < p
}

// decimal returns a uniform float in [lo, lo+width) rounded to places.
func (g *Generator) decimal(lo, width float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round((g.rng.Float64()*width+lo)*scale) / scale
}

func (g *Generator) newID() string {
	return uuid.Must(uuid.NewRandomFromReader(g.src)).String()
}

// age returns a random millisecond-granular duration in [0, maxAge].
func (g *Generator) age(maxAge time.Duration) time.Duration {
	return time.Duration(g.rng.Int64N(int64(maxAge/time.Millisecond)+1)) * time.Millisecond
}

// timestamp returns an ISO-8601 instant up to maxAge in the past.
func (g *Generator) timestamp(maxAge time.Duration) string {
	return g.now().Add(-g.age(maxAge)).UTC().Format("2006-01-02T15:04:05.000Z")
}

// --- messy field variants ---

func (g *Generator) messyPhone() string {
	area, mid, last := g.intn(200, 999), g.intn(100, 999), g.intn(1000, 9999)
	variants := []string{
		fmt.Sprintf("(%d) %d-%d", area, mid, last),
		fmt.Sprintf("%d.%d.%d", area, mid, last),
		fmt.Sprintf("%d%d%d", area, mid, last),
		fmt.Sprintf("+1 %d-%d-%d", area, mid, last),
		fmt.Sprintf("  %d %d %d  ", area, mid, last),
	}
	return pick(g, variants)
}

func (g *Generator) messyEmail(first, last string, i int) string {
	domain := domains[i%len(domains)]
	lf, ll := strings.ToLower(first), strings.ToLower(last)
	variants := []string{
		first + "." + last + "@" + domain,
		lf + strings.ToUpper(last) + "@" + domain,
		" " + lf + "." + ll + "@" + domain + " ",
		"  " + first + "." + last + "@" + domain,
	}
	return pick(g, variants)
}

func (g *Generator) messyName(name string) string {
	variants := []string{
		strings.ToUpper(name),
		strings.ToLower(name),
		name[:1] + strings.ToLower(name[1:]),
		"  " + name + "  ",
		name,
	}
	return pick(g, variants)
}

// person returns the round-robin first and last name for record index i.
func person(i int) (string, string) {
	return firstNames[i%len(firstNames)], lastNames[i%len(lastNames)]
}

// loggedIn reports whether record i of count falls in the leading fraction
// that carries an email.
func loggedIn(i, count int, fraction float64) bool {
	return i < int(math.Ceil(float64(count)*fraction))
}

// RandomPlace picks a city and its state from the generator's location table.
func RandomPlace(r *rand.Rand) (city, state string) {
	i := r.IntN(len(cities))
	return cities[i], states[i]
}
