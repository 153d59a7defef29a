package match

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// Aliases lists extra labels per vocabulary key. New document vintages that
// spell a label differently are handled by adding an alias here rather than
// loosening the confusion classes.
//
// Example file:
//
//	prefectures:
//	  ATTICA: ["ΑΤΤΙΚΗ"]
//	labels:
//	  GAS: ["Υγραέριο (LPG)"]
//	headers:
//	  DIESEL: ["Diesel Κίνησης"]
type Aliases struct {
	Prefectures map[string][]string `yaml:"prefectures"`
	Labels      map[string][]string `yaml:"labels"`
	Headers     map[string][]string `yaml:"headers"`
}

// LoadAliases reads an alias file. An empty path yields no aliases.
func LoadAliases(path string) (Aliases, error) {
	if path == "" {
		return Aliases{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Aliases{}, eris.Wrapf(err, "match: read aliases %s", path)
	}
	var a Aliases
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Aliases{}, eris.Wrapf(err, "match: parse aliases %s", path)
	}
	if err := a.validate(); err != nil {
		return Aliases{}, err
	}
	return a, nil
}

func (a Aliases) validate() error {
	for k := range a.Prefectures {
		if _, err := model.ParsePrefecture(k); err != nil {
			return eris.Wrap(err, "match: aliases")
		}
	}
	for _, m := range []map[string][]string{a.Labels, a.Headers} {
		for k := range m {
			if _, err := model.ParseFuelType(k); err != nil {
				return eris.Wrap(err, "match: aliases")
			}
		}
	}
	return nil
}
