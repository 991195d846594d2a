package profile

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// generatorFunc produces one value for one draw. Implementations run with
// the Distributor's mutex held, so they may touch shared counters freely.
type generatorFunc func(d *Distributor, key string) (interface{}, error)

// compileGenerator validates a generator's options and resolves it into a
// closure. Unknown kinds, invalid options, and unresolvable faker methods
// are construction-time errors; nothing is deferred to draw time.
func compileGenerator(profileName, genName string, g Generator) (generatorFunc, error) {
	where := fmt.Sprintf("profile %q generator %q", profileName, genName)

	switch g.Type {
	case GenUUID:
		return func(*Distributor, string) (interface{}, error) {
			return uuid.NewString(), nil
		}, nil

	case GenTimestamp:
		return func(*Distributor, string) (interface{}, error) {
			return time.Now().UnixMilli(), nil
		}, nil

	case GenRandom:
		return compileRandom(where, g)

	case GenSequence:
		step := int64(1)
		if g.Step != nil {
			step = *g.Step
		}
		if step == 0 {
			return nil, fmt.Errorf("%s: sequence step cannot be 0", where)
		}
		return func(d *Distributor, key string) (interface{}, error) {
			v := d.sequences[key]
			d.sequences[key] = v + step
			return v, nil
		}, nil

	case GenFaker:
		method, ok := fakerMethods[g.Method]
		if !ok {
			return nil, fmt.Errorf("%s: unresolvable faker method %q", where, g.Method)
		}
		args := g.Args
		return func(d *Distributor, _ string) (interface{}, error) {
			return method(d.faker, args)
		}, nil
	}

	return nil, fmt.Errorf("%s: unknown generator type %q", where, g.Type)
}

// compileRandom handles both shapes of the random kind: charset+length
// produces a string, otherwise min/max (inclusive) produce an integer.
func compileRandom(where string, g Generator) (generatorFunc, error) {
	if g.Charset != "" || g.Length > 0 {
		if g.Charset == "" {
			return nil, fmt.Errorf("%s: random length given without a charset", where)
		}
		if g.Length <= 0 {
			return nil, fmt.Errorf("%s: random charset given without a positive length", where)
		}
		charset := []rune(g.Charset)
		length := g.Length
		return func(d *Distributor, _ string) (interface{}, error) {
			out := make([]rune, length)
			for i := range out {
				out[i] = charset[d.rng.IntN(len(charset))]
			}
			return string(out), nil
		}, nil
	}

	min := int64(0)
	max := int64(1<<31 - 1)
	if g.Min != nil {
		min = *g.Min
	}
	if g.Max != nil {
		max = *g.Max
	}
	if min > max {
		return nil, fmt.Errorf("%s: random min %d exceeds max %d", where, min, max)
	}
	return func(d *Distributor, _ string) (interface{}, error) {
		return min + d.rng.Int64N(max-min+1), nil
	}, nil
}

// sequenceStart returns the counter's initial value (default 1).
func sequenceStart(g Generator) int64 {
	if g.Start != nil {
		return *g.Start
	}
	return 1
}

// fakerMethods maps dotted method paths onto the fake-data provider. The
// table is the construction-time resolution target: a path missing here is
// an "unresolvable faker method" error.
var fakerMethods = map[string]func(f *gofakeit.Faker, args []interface{}) (interface{}, error){
	"person.firstName": noArgs(func(f *gofakeit.Faker) interface{} { return f.FirstName() }),
	"person.lastName":  noArgs(func(f *gofakeit.Faker) interface{} { return f.LastName() }),
	"person.fullName":  noArgs(func(f *gofakeit.Faker) interface{} { return f.Name() }),
	"person.email":     noArgs(func(f *gofakeit.Faker) interface{} { return f.Email() }),
	"person.phone":     noArgs(func(f *gofakeit.Faker) interface{} { return f.Phone() }),
	"internet.email":    noArgs(func(f *gofakeit.Faker) interface{} { return f.Email() }),
	"internet.userName": noArgs(func(f *gofakeit.Faker) interface{} { return f.Username() }),
	"internet.url":      noArgs(func(f *gofakeit.Faker) interface{} { return f.URL() }),
	"internet.ipv4":     noArgs(func(f *gofakeit.Faker) interface{} { return f.IPv4Address() }),
	"address.city":    noArgs(func(f *gofakeit.Faker) interface{} { return f.City() }),
	"address.street":  noArgs(func(f *gofakeit.Faker) interface{} { return f.Street() }),
	"address.country": noArgs(func(f *gofakeit.Faker) interface{} { return f.Country() }),
	"address.zipCode": noArgs(func(f *gofakeit.Faker) interface{} { return f.Zip() }),
	"company.name":     noArgs(func(f *gofakeit.Faker) interface{} { return f.Company() }),
	"company.jobTitle": noArgs(func(f *gofakeit.Faker) interface{} { return f.JobTitle() }),
	"lorem.word": noArgs(func(f *gofakeit.Faker) interface{} { return f.Word() }),
	"lorem.sentence": func(f *gofakeit.Faker, args []interface{}) (interface{}, error) {
		words := 6
		if len(args) > 0 {
			n, ok := argInt(args[0])
			if !ok {
				return nil, fmt.Errorf("lorem.sentence: word count must be a number")
			}
			words = n
		}
		return f.Sentence(words), nil
	},
	"number.int": func(f *gofakeit.Faker, args []interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("number.int: expected [min, max] args")
		}
		min, ok1 := argInt(args[0])
		max, ok2 := argInt(args[1])
		if !ok1 || !ok2 || min > max {
			return nil, fmt.Errorf("number.int: invalid [min, max] args")
		}
		return f.Number(min, max), nil
	},
	"string.uuid": noArgs(func(f *gofakeit.Faker) interface{} { return f.UUID() }),
}

func noArgs(fn func(f *gofakeit.Faker) interface{}) func(*gofakeit.Faker, []interface{}) (interface{}, error) {
	return func(f *gofakeit.Faker, args []interface{}) (interface{}, error) {
		if len(args) > 0 {
			return nil, fmt.Errorf("method takes no arguments")
		}
		return fn(f), nil
	}
}

// argInt coerces JSON/YAML decoded arg values to int.
func argInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

// newRNG builds the distributor's random source. Seeded construction gives
// deterministic draw sequences for tests.
func newRNG(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
