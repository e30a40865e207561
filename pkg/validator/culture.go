package validator

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed cultures.yaml
var culturesYAML []byte

var (
	culturesOnce sync.Once
	cultures     []string
)

// Cultures returns the culture names accepted by the service, sorted.
// The returned slice must not be modified.
func Cultures() []string {
	culturesOnce.Do(func() {
		var doc struct {
			Cultures []string `yaml:"cultures"`
		}
		if err := yaml.Unmarshal(culturesYAML, &doc); err != nil {
			panic(fmt.Sprintf("validator: parse embedded cultures.yaml: %v", err))
		}
		cultures = doc.Cultures
	})
	return cultures
}

// Culture accepts culture names from Cultures, compared case-sensitively.
type Culture struct{}

func (Culture) Check(v any) error {
	c := InArray{Haystack: Cultures(), CaseSensitive: true}
	if err := c.Check(v); err != nil {
		if vio, ok := err.(*Violation); ok && vio.Code == CodeNotInSet {
			vio.Message = fmt.Sprintf("%s is not a supported culture", ValueToString(v))
		}
		return err
	}
	return nil
}
