package boltzgen

import (
	"os"

	"gopkg.in/yaml.v3"
)

// WriteConfig serializes the job as a BoltzGen YAML configuration file at
// the given path.
func (j Job) WriteConfig(path string) error {
	out, err := yaml.Marshal(j.document())
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0666)
}
