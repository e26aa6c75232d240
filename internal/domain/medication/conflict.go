package medication

import (
	"fmt"
	"strings"
)

// CheckConflicts returns advisory warnings for candidate against the patient's current
// medications. Inactive entries are ignored. The result is never nil.
func CheckConflicts(existing []*Medication, candidate *Medication) []string {
	warnings := make([]string, 0)
	if candidate == nil {
		return warnings
	}

	wanted := make(map[TimeOfDay]struct{}, len(candidate.ScheduleTimes))
	for _, t := range candidate.ScheduleTimes {
		wanted[t] = struct{}{}
	}

	for _, e := range existing {
		if e == nil || !e.IsActive {
			continue
		}

		if strings.EqualFold(e.Name, candidate.Name) {
			warnings = append(warnings,
				"Patient is already taking medication with the same name: "+e.Name)
		}

		if overlap := overlappingTimes(e.ScheduleTimes, wanted); len(overlap) > 0 {
			warnings = append(warnings,
				fmt.Sprintf("Schedule overlaps with %s at times: %s", e.Name, strings.Join(overlap, ", ")))
		}
	}

	return warnings
}

// overlappingTimes keeps the order of times and reports each shared time once.
func overlappingTimes(times []TimeOfDay, wanted map[TimeOfDay]struct{}) []string {
	var out []string
	seen := make(map[TimeOfDay]struct{})
	for _, t := range times {
		if _, ok := wanted[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t.String())
	}
	return out
}
