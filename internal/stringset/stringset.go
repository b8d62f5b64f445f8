package stringset

// FromSlice returns the set of values in strings.
func FromSlice(strings []string) map[string]interface{} {
	set := map[string]interface{}{}
	for _, s := range strings {
		set[s] = nil
	}
	return set
}

// Dedupe returns strings with repeated values removed, keeping the first occurrence of each.
// The result is never nil.
func Dedupe(strings []string) []string {
	seen := map[string]interface{}{}
	result := []string{}
	for _, s := range strings {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = nil
		result = append(result, s)
	}
	return result
}

// Contains reports whether value is one of strings.
func Contains(strings []string, value string) bool {
	for _, s := range strings {
		if s == value {
			return true
		}
	}
	return false
}

// Retain returns the values of strings, in their order, that are also members of set.
// The result is never nil.
func Retain(strings []string, set map[string]interface{}) []string {
	result := []string{}
	for _, s := range strings {
		if _, ok := set[s]; ok {
			result = append(result, s)
		}
	}
	return result
}
