// Package profile samples weighted synthetic-user cohorts, cycles their data
// rows, and evaluates per-draw value generators. One Distributor serves a
// whole test run; its internal counters are shared across every virtual user
// and guarded by a single mutex.
package profile

import "fmt"

// Config is the root profile configuration: a weighted list of cohorts.
type Config struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// Profile is a named, weighted cohort of simulated users with its own data
// rows and value generators.
type Profile struct {
	// Name identifies the cohort
	Name string `json:"name" yaml:"name"`

	// Weight is the cohort's positive sampling weight; weights are
	// normalized across the config, they need not sum to anything
	Weight float64 `json:"weight" yaml:"weight"`

	// DataSource is a CSV or JSON file of per-user rows (optional)
	DataSource string `json:"dataSource,omitempty" yaml:"dataSource,omitempty"`

	// Data is an inline list of per-user rows (optional alternative)
	Data []map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`

	// Variables are static values fixed once at load time, never regenerated
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Generators produce a fresh value per draw, keyed by variable name
	Generators map[string]Generator `json:"generators,omitempty" yaml:"generators,omitempty"`
}

// GeneratorType identifies a generator kind. The set is closed and checked
// at construction time.
type GeneratorType string

const (
	// GenUUID yields a new random v4 UUID per draw.
	GenUUID GeneratorType = "uuid"
	// GenTimestamp yields the current epoch milliseconds.
	GenTimestamp GeneratorType = "timestamp"
	// GenRandom yields a random string (charset+length) or integer (min..max).
	GenRandom GeneratorType = "random"
	// GenSequence yields a monotonic counter per (profile, generator) key.
	GenSequence GeneratorType = "sequence"
	// GenFaker resolves a dotted method path against the fake-data provider.
	GenFaker GeneratorType = "faker"
)

// Valid reports whether t names a known generator kind.
func (t GeneratorType) Valid() bool {
	switch t {
	case GenUUID, GenTimestamp, GenRandom, GenSequence, GenFaker:
		return true
	}
	return false
}

// Generator is a rule producing a fresh value per user draw.
type Generator struct {
	// Type selects the generator kind
	Type GeneratorType `json:"type" yaml:"type"`

	// Charset and Length configure random string generation
	Charset string `json:"charset,omitempty" yaml:"charset,omitempty"`
	Length  int    `json:"length,omitempty" yaml:"length,omitempty"`

	// Min and Max bound random integer generation (inclusive)
	Min *int64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *int64 `json:"max,omitempty" yaml:"max,omitempty"`

	// Start and Step configure sequence counters (defaults 1 and 1)
	Start *int64 `json:"start,omitempty" yaml:"start,omitempty"`
	Step  *int64 `json:"step,omitempty" yaml:"step,omitempty"`

	// Method is the dotted faker path, e.g. "person.firstName"
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Args are passed to the faker method
	Args []interface{} `json:"args,omitempty" yaml:"args,omitempty"`
}

// UserContext is one sampled synthetic user, returned per virtual-user
// lifecycle. All maps are fresh copies; callers never alias Distributor
// internals.
type UserContext struct {
	// ProfileName is the cohort this user was drawn from
	ProfileName string

	// UserData is the sampled data row
	UserData map[string]interface{}

	// Variables are the profile's static variables
	Variables map[string]string

	// Generated holds this draw's freshly generated values
	Generated map[string]interface{}
}

func (p *Profile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if p.Weight <= 0 {
		return fmt.Errorf("profile %q: weight must be positive", p.Name)
	}
	return nil
}
