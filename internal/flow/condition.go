package flow

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/trekload/trek/internal/journey"
	"github.com/trekload/trek/pkg/jsonpath"
)

// EvaluateCondition evaluates one branch condition against a response.
//
// The value source is resolved by precedence: field (JSONPath against the
// body, with an unparseable body counting as "value absent"), then status
// (an exact numeric match that short-circuits every operator), then header
// (case-insensitive). A condition naming none of the three is unevaluable
// and returns false.
//
// Type mismatches never error: numeric comparators against non-numeric
// values, contains against non-strings, and invalid regex patterns all make
// the condition false. That is the "condition doesn't apply" semantic.
func EvaluateCondition(cond *journey.Condition, resp *journey.StepResponse) bool {
	var value interface{}
	var present bool

	switch {
	case cond.Field != "":
		value, present = jsonpath.Lookup(resp.BodyString(), cond.Field)
	case cond.Status != nil:
		return resp.StatusCode == *cond.Status
	case cond.Header != "":
		var v string
		v, present = resp.HeaderValue(cond.Header)
		if present {
			value = v
		}
	default:
		return false
	}

	return applyOperator(cond, value, present)
}

// applyOperator applies the first operator key present on the condition, in
// the fixed order eq, ne, gt, gte, lt, lte, contains, matches, exists, in.
// Any further operator keys on the same condition are ignored.
func applyOperator(cond *journey.Condition, value interface{}, present bool) bool {
	switch {
	case cond.Eq != nil:
		return present && looseEqual(value, cond.Eq)
	case cond.Ne != nil:
		return present && !looseEqual(value, cond.Ne)
	case cond.Gt != nil:
		n, ok := toNumber(value)
		return present && ok && n > *cond.Gt
	case cond.Gte != nil:
		n, ok := toNumber(value)
		return present && ok && n >= *cond.Gte
	case cond.Lt != nil:
		n, ok := toNumber(value)
		return present && ok && n < *cond.Lt
	case cond.Lte != nil:
		n, ok := toNumber(value)
		return present && ok && n <= *cond.Lte
	case cond.Contains != nil:
		s, ok := value.(string)
		return present && ok && strings.Contains(s, *cond.Contains)
	case cond.Matches != nil:
		s, ok := value.(string)
		if !present || !ok {
			return false
		}
		re, err := regexp.Compile(*cond.Matches)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	case cond.Exists != nil:
		has := present && value != nil
		return has == *cond.Exists
	case len(cond.In) > 0:
		if !present {
			return false
		}
		for _, candidate := range cond.In {
			if strictEqual(value, candidate) {
				return true
			}
		}
		return false
	}
	return false
}

// looseEqual compares numbers numerically regardless of int/float
// representation and falls back to deep equality for everything else.
func looseEqual(a, b interface{}) bool {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if aok && bok {
		return an == bn
	}
	return reflect.DeepEqual(a, b)
}

// strictEqual requires identical dynamic types. Journey documents decode
// through the JSON codec regardless of input syntax and gjson produces the
// same types from bodies, so numbers are float64 on both sides and this is
// the strict-equality membership test documented for the in operator.
func strictEqual(a, b interface{}) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// toNumber coerces JSON scalar types to float64. Numeric strings count:
// extracted header values and regex captures arrive as strings.
func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
