package queryp

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"text/template"

	"github.com/greghart/dbentry/entryp"
)

// Template is a hand written query, rendered with text/template before its '@name' parameters are
// bound, so optional joins and conditions can be switched on per query.
// Any method on Template spins off a mutable builder so this can be re-used freely.
//
//	SELECT people.id{{if .Includes "pets"}}, pets.name AS pet_name{{end}} FROM people
//	{{if .Includes "pets"}}LEFT JOIN pets ON pets.person_id = people.id{{end}}
//	{{if .HasParam "age"}}WHERE age > {{.Param "age"}}{{end}}
type Template struct {
	text *template.Template
}

func NewTemplate(text string) (*Template, error) {
	t, err := template.New("query").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query template: %w", err)
	}
	return &Template{
		text: t,
	}, nil
}

func Must(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// Build returns a TemplateBuilder that can be used to build custom data for the template.
func (t *Template) Build() *TemplateBuilder {
	return newTemplateBuilder(t)
}

// Param sets a named parameter value.
// Proxies to templateBuilder under the hood.
func (t *Template) Param(key string, val any) *TemplateBuilder {
	return t.Build().Param(key, val)
}

// Properties sets a parameter for each property, named after it.
// Proxies to templateBuilder under the hood.
func (t *Template) Properties(props ...*entryp.Property) *TemplateBuilder {
	return t.Build().Properties(props...)
}

// Include marks associations to be included in the template.
// Proxies to templateBuilder under the hood.
func (t *Template) Include(associations ...string) *TemplateBuilder {
	return t.Build().Include(associations...)
}

// Query renders the template into a single statement query.
// Proxies to templateBuilder under the hood.
func (t *Template) Query() (*Query, error) {
	return t.Build().Query()
}

////////////////////////////////////////////////////////////////////////////////

type TemplateBuilder struct {
	*Template
	params   map[string]Param
	includes map[string]bool
}

func newTemplateBuilder(t *Template) *TemplateBuilder {
	return &TemplateBuilder{
		Template: t,
		params:   make(map[string]Param),
		includes: make(map[string]bool),
	}
}

func (t *TemplateBuilder) Param(key string, val any) *TemplateBuilder {
	t.params[key] = Param{Name: key, Value: val}
	return t
}

func (t *TemplateBuilder) Properties(props ...*entryp.Property) *TemplateBuilder {
	for _, p := range props {
		t.params[p.Name()] = Param{Name: p.Name(), Type: p.Type, Value: p.Value}
	}
	return t
}

func (t *TemplateBuilder) Include(associations ...string) *TemplateBuilder {
	for _, assoc := range associations {
		t.includes[assoc] = true
	}
	return t
}

// Query executes the template. Parameters are listed by name, and bound when the query runs.
func (t *TemplateBuilder) Query() (*Query, error) {
	data := &templateData{
		params:   t.params,
		includes: t.includes,
	}
	buffer := &bytes.Buffer{}
	if err := t.Template.text.Execute(buffer, data); err != nil {
		return nil, fmt.Errorf("failed to render query template: %w", err)
	}
	params := make([]Param, 0, len(t.params))
	for _, name := range slices.Sorted(maps.Keys(t.params)) {
		params = append(params, t.params[name])
	}
	return Raw(buffer.String(), params...), nil
}

////////////////////////////////////////////////////////////////////////////////

// templateData is the data object a template will be executed against.
type templateData struct {
	params   map[string]Param
	includes map[string]bool
}

// Param references a parameter, or renders nothing when it is not set.
func (t *templateData) Param(key string) string {
	if _, ok := t.params[key]; ok {
		return "@" + key
	}
	return ""
}

func (t *templateData) HasParam(key string) bool {
	_, ok := t.params[key]
	return ok
}

func (t *templateData) HasParams() bool {
	return len(t.params) > 0
}

func (t *templateData) Includes(keys ...string) bool {
	for _, key := range keys {
		if t.includes[key] {
			return true
		}
	}
	return false
}
