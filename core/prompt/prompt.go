// Package prompt renders the AI prompts embedded under assets/templates/prompts.
package prompt

import (
	"bytes"
	"path"
	"strings"
	"sync"
	"text/template"

	"github.com/pkg/errors"

	appfs "github.com/dannygardner26/GVCS-Main-Page-sub000/fs"
)

const dir = "assets/templates/prompts"

// Prompt names
const (
	Plan              = "plan"
	Ideas             = "ideas"
	HackathonIdeation = "hackathon_ideation"
	HackathonMaster   = "hackathon_master"
)

var (
	tmpl     *template.Template
	tmplErr  error
	tmplInit sync.Once

	funcs = template.FuncMap{"join": strings.Join}
)

func parse() {
	tmpl, tmplErr = template.New("prompts").
		Funcs(funcs).
		Option("missingkey=error").
		ParseFS(appfs.FS, path.Join(dir, "*.tmpl"))
}

// Render executes the named prompt template with data.
func Render(name string, data interface{}) (string, error) {
	tmplInit.Do(parse)
	if tmplErr != nil {
		return "", errors.Wrap(tmplErr, "parsing prompt templates")
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", errors.Wrapf(err, "rendering %s prompt", name)
	}
	return strings.TrimSpace(buf.String()), nil
}
