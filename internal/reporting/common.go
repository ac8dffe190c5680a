package reporting

import (
	"ens-name-tracker/internal/candidates"
)

// DefaultCommonNamesPath is the common-names list looked up by default.
const DefaultCommonNamesPath = "commonNames.json"

// LoadCommonNames reads a JSON array of names and returns them lower-cased.
func LoadCommonNames(path string) (candidates.Set[string], error) {
	words, err := candidates.LoadWordListFile(path)
	if err != nil {
		return nil, err
	}
	return candidates.LowerSet(words), nil
}
