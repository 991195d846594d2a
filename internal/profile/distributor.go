package profile

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

// Distributor samples synthetic users from weighted profiles for the
// duration of one test run.
//
// Weights are normalized at construction into cumulative fractions over
// [0,1) in declared order; a uniform draw r selects the first profile whose
// cumulative weight is >= r (the boundary rule: a draw landing exactly on a
// cumulative edge belongs to the earlier profile).
//
// The round-robin row cursors, sequence counters, draw statistics, RNG, and
// faker are shared across all virtual users; every mutation is serialized
// behind one mutex. The streams handed out (UserContext) are fresh copies.
type Distributor struct {
	mu sync.Mutex

	profiles   []Profile
	cumulative []float64
	baseDir    string

	// compiled generators, parallel to profiles
	generators []map[string]generatorFunc

	rows    [][]map[string]interface{}
	cursors []int
	loaded  bool

	// sequence counters keyed by profileName + "\x00" + generatorName
	sequences map[string]int64

	draws      []int64
	totalDraws int64

	rng   *rand.Rand
	faker *gofakeit.Faker
}

// Option configures a Distributor at construction.
type Option func(*options)

type options struct {
	seed    *uint64
	baseDir string
}

// WithSeed makes draws and generated randomness deterministic.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = &seed }
}

// WithBaseDir resolves relative dataSource paths against dir.
func WithBaseDir(dir string) Option {
	return func(o *options) { o.baseDir = dir }
}

// NewDistributor validates the configuration and compiles its generators.
// Construction fails on zero total weight, non-positive per-profile weights,
// unknown generator types, unresolvable faker methods, and invalid generator
// options.
func NewDistributor(cfg *Config, opts ...Option) (*Distributor, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(cfg.Profiles) == 0 {
		return nil, fmt.Errorf("profile config has no profiles")
	}

	total := 0.0
	for i := range cfg.Profiles {
		if err := cfg.Profiles[i].validate(); err != nil {
			return nil, err
		}
		total += cfg.Profiles[i].Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("total profile weight must be positive")
	}

	d := &Distributor{
		profiles:   cfg.Profiles,
		cumulative: make([]float64, len(cfg.Profiles)),
		baseDir:    o.baseDir,
		generators: make([]map[string]generatorFunc, len(cfg.Profiles)),
		cursors:    make([]int, len(cfg.Profiles)),
		sequences:  make(map[string]int64),
		draws:      make([]int64, len(cfg.Profiles)),
		rng:        newRNG(o.seed),
	}

	if o.seed != nil {
		d.faker = gofakeit.New(*o.seed)
	} else {
		d.faker = gofakeit.New(0)
	}

	running := 0.0
	for i := range cfg.Profiles {
		running += cfg.Profiles[i].Weight / total
		d.cumulative[i] = running
	}
	// Guard against floating point drift on the last edge.
	d.cumulative[len(d.cumulative)-1] = 1.0

	for i := range cfg.Profiles {
		p := &cfg.Profiles[i]
		compiled := make(map[string]generatorFunc, len(p.Generators))
		for name, gen := range p.Generators {
			fn, err := compileGenerator(p.Name, name, gen)
			if err != nil {
				return nil, err
			}
			compiled[name] = fn
			if gen.Type == GenSequence {
				d.sequences[sequenceKey(p.Name, name)] = sequenceStart(gen)
			}
		}
		d.generators[i] = compiled
	}

	return d, nil
}

// LoadData resolves every profile's row source into memory. It is a
// one-shot upfront step that must complete before any virtual user begins;
// NextUser fails until it has run.
func (d *Distributor) LoadData() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loaded {
		return nil
	}

	d.rows = make([][]map[string]interface{}, len(d.profiles))
	for i := range d.profiles {
		rows, err := loadRows(&d.profiles[i], d.baseDir)
		if err != nil {
			return err
		}
		d.rows[i] = rows
	}
	d.loaded = true
	return nil
}

// NextUser draws one synthetic user: select a profile by weight, fetch its
// next data row round-robin (the cursor wraps modulo the row count, so rows
// are reused uniformly when draws outnumber them), evaluate every generator
// fresh, and merge with the profile's static variables.
func (d *Distributor) NextUser() (*UserContext, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.loaded {
		return nil, fmt.Errorf("distributor data not loaded; call LoadData first")
	}

	idx := d.selectProfileLocked(d.rng.Float64())
	p := &d.profiles[idx]
	d.draws[idx]++
	d.totalDraws++

	rows := d.rows[idx]
	row := rows[d.cursors[idx]]
	d.cursors[idx] = (d.cursors[idx] + 1) % len(rows)

	generated := make(map[string]interface{}, len(d.generators[idx]))
	for name, fn := range d.generators[idx] {
		value, err := fn(d, sequenceKey(p.Name, name))
		if err != nil {
			return nil, fmt.Errorf("profile %q generator %q: %w", p.Name, name, err)
		}
		generated[name] = value
	}

	return &UserContext{
		ProfileName: p.Name,
		UserData:    copyRow(row),
		Variables:   copyStrings(p.Variables),
		Generated:   generated,
	}, nil
}

// selectProfileLocked returns the index of the first profile, in declared
// order, whose cumulative weight is >= r.
func (d *Distributor) selectProfileLocked(r float64) int {
	for i, edge := range d.cumulative {
		if edge >= r {
			return i
		}
	}
	return len(d.cumulative) - 1
}

func sequenceKey(profileName, genName string) string {
	return profileName + "\x00" + genName
}

func copyRow(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func copyStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
