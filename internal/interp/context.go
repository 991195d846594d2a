// Package interp builds the single variable namespace the host uses to fill
// request templates. Only the merge contract lives here; templating syntax
// is the host's business.
package interp

import (
	"github.com/trekload/trek/internal/journey"
	"github.com/trekload/trek/internal/profile"
)

// Build merges the layers of a virtual user's variables into one namespace.
// Later layers override earlier ones:
//
//	built-ins < journey statics < profile statics < sampled data row
//	          < generated values < extracted variables
//
// Built-ins are journeyId, journeyName, and profileName. The returned map is
// fresh on every call; callers may mutate it freely.
func Build(j *journey.Journey, user *profile.UserContext, extracted map[string]interface{}) map[string]interface{} {
	vars := make(map[string]interface{})

	if j != nil {
		vars["journeyId"] = j.ID
		vars["journeyName"] = j.Name
		for k, v := range j.Variables {
			vars[k] = v
		}
	}

	if user != nil {
		vars["profileName"] = user.ProfileName
		for k, v := range user.Variables {
			vars[k] = v
		}
		for k, v := range user.UserData {
			vars[k] = v
		}
		for k, v := range user.Generated {
			vars[k] = v
		}
	}

	for k, v := range extracted {
		vars[k] = v
	}

	return vars
}
