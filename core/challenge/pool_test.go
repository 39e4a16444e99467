package challenge

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
)

func TestLoadPoolsFile_Defaults(t *testing.T) {
	pools, err := LoadPoolsFile("")
	require.NoError(t, err)

	assert.Len(t, pools.Daily, 50)
	assert.Len(t, pools.Weekly, 4)
	assert.Len(t, pools.Codeforces, 5)

	assert.Equal(t, "Two Sum", pools.Daily[0].Title)
	assert.Equal(t, Easy, pools.Daily[0].Difficulty)
	assert.Equal(t, "Dec 2020", pools.Weekly[0].Name)
	assert.Equal(t, "US Open 2021", pools.Weekly[3].Name)
	for _, c := range pools.Weekly {
		for _, p := range c.Problems {
			assert.Equal(t, Bronze, p.Difficulty, "%s: %s", c.Name, p.Title)
		}
	}
	assert.Equal(t, "https://codeforces.com/problemset/problem/1926/A", pools.Codeforces[0].URL)
}

func TestLoadPools_Invalid(t *testing.T) {
	const valid = `
daily:
  - {title: A, url: "https://a", difficulty: Easy}
weekly:
  - contest: C
    problems:
      - {title: P1, url: "https://p1"}
      - {title: P2, url: "https://p2"}
      - {title: P3, url: "https://p3"}
codeforces:
  - {title: CF, url: "https://cf"}
`
	_, err := LoadPools(strings.NewReader(valid))
	require.NoError(t, err)

	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "daily: [:"},
		{name: "empty", yaml: ""},
		{name: "empty daily", yaml: strings.Replace(valid, `  - {title: A, url: "https://a", difficulty: Easy}`, "", 1)},
		{name: "empty codeforces", yaml: strings.Replace(valid, `  - {title: CF, url: "https://cf"}`, "", 1)},
		{name: "missing title", yaml: strings.Replace(valid, "title: A,", "", 1)},
		{name: "missing url", yaml: strings.Replace(valid, `, url: "https://cf"`, "", 1)},
		{name: "unknown difficulty", yaml: strings.Replace(valid, "difficulty: Easy", "difficulty: Trivial", 1)},
		{name: "contest with 2 problems", yaml: strings.Replace(valid, `      - {title: P3, url: "https://p3"}`, "", 1)},
		{name: "contest without name", yaml: strings.Replace(valid, "contest: C", "contest: \"\"", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPools(strings.NewReader(tt.yaml))
			assert.True(t, errors.Is(err, core.ErrInvalidConfiguration), "err = %v", err)
		})
	}
}

func TestLoadPoolsFile_NotFound(t *testing.T) {
	_, err := LoadPoolsFile("does/not/exist.yaml")
	assert.Error(t, err)
}
