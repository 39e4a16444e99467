package challenge

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	appfs "github.com/dannygardner26/GVCS-Main-Page-sub000/fs"
)

const defaultPoolsFile = "assets/pools.yaml"

type Difficulty string

const (
	Easy     Difficulty = "Easy"
	Medium   Difficulty = "Medium"
	Hard     Difficulty = "Hard"
	Bronze   Difficulty = "Bronze"
	Silver   Difficulty = "Silver"
	Gold     Difficulty = "Gold"
	Platinum Difficulty = "Platinum"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard, Bronze, Silver, Gold, Platinum:
		return true
	}
	return false
}

type Problem struct {
	Title      string     `json:"title" yaml:"title"`
	URL        string     `json:"url" yaml:"url"`
	Difficulty Difficulty `json:"difficulty,omitempty" yaml:"difficulty"`
}

// Contest is a USACO contest: always three problems.
type Contest struct {
	Name     string     `json:"name"`
	Problems [3]Problem `json:"problems"`
}

// Pools hold the problem lists assignments rotate through. Loaded once, read-only afterwards.
type Pools struct {
	Daily      []Problem
	Weekly     []Contest
	Codeforces []Problem
}

type rawPools struct {
	Daily  []Problem `yaml:"daily"`
	Weekly []struct {
		Contest  string    `yaml:"contest"`
		Problems []Problem `yaml:"problems"`
	} `yaml:"weekly"`
	Codeforces []Problem `yaml:"codeforces"`
}

func invalidPools(format string, args ...interface{}) error {
	return errors.Wrapf(core.ErrInvalidConfiguration, "problem pools: "+format, args...)
}

func checkProblem(pool string, i int, p Problem) error {
	if p.Title == "" {
		return invalidPools("%s[%d]: missing title", pool, i)
	}
	if p.URL == "" {
		return invalidPools("%s[%d] %q: missing url", pool, i, p.Title)
	}
	if p.Difficulty != "" && !p.Difficulty.Valid() {
		return invalidPools("%s[%d] %q: unknown difficulty %q", pool, i, p.Title, p.Difficulty)
	}
	return nil
}

// LoadPools decodes YAML problem pools. Empty pools, contests without exactly 3 problems and
// problems without a title or url are rejected with core.ErrInvalidConfiguration.
func LoadPools(r io.Reader) (Pools, error) {
	var raw rawPools
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return Pools{}, invalidPools("decoding: %v", err)
	}

	switch {
	case len(raw.Daily) == 0:
		return Pools{}, invalidPools("daily pool is empty")
	case len(raw.Weekly) == 0:
		return Pools{}, invalidPools("weekly pool is empty")
	case len(raw.Codeforces) == 0:
		return Pools{}, invalidPools("codeforces pool is empty")
	}

	pools := Pools{
		Daily:      raw.Daily,
		Weekly:     make([]Contest, 0, len(raw.Weekly)),
		Codeforces: raw.Codeforces,
	}
	for i, p := range pools.Daily {
		if err := checkProblem("daily", i, p); err != nil {
			return Pools{}, err
		}
	}
	for i, p := range pools.Codeforces {
		if err := checkProblem("codeforces", i, p); err != nil {
			return Pools{}, err
		}
	}
	for i, c := range raw.Weekly {
		if c.Contest == "" {
			return Pools{}, invalidPools("weekly[%d]: missing contest name", i)
		}
		if len(c.Problems) != 3 {
			return Pools{}, invalidPools("weekly[%d] %q: want 3 problems, got %d", i, c.Contest, len(c.Problems))
		}
		contest := Contest{Name: c.Contest}
		for j, p := range c.Problems {
			if err := checkProblem("weekly["+c.Contest+"]", j, p); err != nil {
				return Pools{}, err
			}
			contest.Problems[j] = p
		}
		pools.Weekly = append(pools.Weekly, contest)
	}
	return pools, nil
}

// LoadPoolsFile loads the pools from path, or from the embedded defaults when path is empty.
func LoadPoolsFile(path string) (Pools, error) {
	var f io.ReadCloser
	var err error
	if path == "" {
		f, err = appfs.FS.Open(defaultPoolsFile)
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return Pools{}, errors.Wrap(err, "opening problem pools")
	}
	defer func() { _ = f.Close() }()
	return LoadPools(f)
}
