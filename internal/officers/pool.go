// Package officers matches loan officers to a borrower's requirements.
package officers

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed pool.yaml
var poolYAML []byte

// Officer is one candidate in the matching pool.
type Officer struct {
	Name            string   `yaml:"name"`
	Title           string   `yaml:"title"`
	Specialties     []string `yaml:"specialties"`
	Location        string   `yaml:"location"`
	MinCredit       int      `yaml:"min_credit"`
	MaxLoan         float64  `yaml:"max_loan"`
	Rating          float64  `yaml:"rating"`
	YearsExperience int      `yaml:"years_experience"`
	Contact         string   `yaml:"contact"`
	Phone           string   `yaml:"phone"`
	Bio             string   `yaml:"bio"`
}

// Pool is the candidate pool plus the single region its candidates serve.
type Pool struct {
	Region     string    `yaml:"region"`
	RegionAbbr string    `yaml:"region_abbr"`
	Officers   []Officer `yaml:"officers"`
}

// LoadPool parses the embedded candidate pool.
func LoadPool() (*Pool, error) {
	var p Pool
	if err := yaml.Unmarshal(poolYAML, &p); err != nil {
		return nil, eris.Wrap(err, "officers: parse pool")
	}
	if len(p.Officers) == 0 {
		return nil, eris.New("officers: empty pool")
	}
	return &p, nil
}
