package codegen

import (
	"bytes"
	"fmt"
	"text/template"

	"golang.org/x/tools/imports"
)

// InjectImport is the import path of the package generated code calls.
const InjectImport = "github.com/ARTM2000/grove/inject"

// Header is the first line of every generated file.
const Header = "// Code generated by grovegen. DO NOT EDIT."

var fileTmpl = template.Must(template.New("file").Parse(Header + `

package {{.Name}}

import (
	"fmt"

	"` + InjectImport + `"
)
{{range .Targets}}{{$t := .}}
{{- if eq .Ctor 0}}
// New{{.Name}} returns a {{.Name}} with its injected fields resolved from the
// active container.
func New{{.Name}}() (*{{.Name}}, error) {
	s := &{{.Name}}{}
	if err := s.Inject(); err != nil {
		return nil, err
	}
	return s, nil
}
{{- else if eq .Ctor 1}}
// Create{{.Name}} returns the result of New{{.Name}} with its injected fields
// resolved from the active container.
func Create{{.Name}}() (*{{.Name}}, error) {
	s := New{{.Name}}()
	if err := s.Inject(); err != nil {
		return nil, err
	}
	return s, nil
}
{{- else if eq .Ctor 2}}
// Create{{.Name}} returns the result of New{{.Name}} with its injected fields
// resolved from the active container.
func Create{{.Name}}() (*{{.Name}}, error) {
	s := New{{.Name}}()
	if err := s.Inject(); err != nil {
		return nil, err
	}
	return &s, nil
}
{{- else}}
// Create{{.Name}} returns a {{.Name}} with its injected fields resolved from
// the active container.
func Create{{.Name}}() (*{{.Name}}, error) {
	s := &{{.Name}}{}
	if err := s.Inject(); err != nil {
		return nil, err
	}
	return s, nil
}
{{- end}}

// Inject resolves the injected fields of s from the active container.
func (s *{{.Name}}) Inject() error {
{{- range .Fields}}
	{
		v, err := inject.Resolve[{{.ResolveType}}]({{printf "%q" .Binding}})
		if err != nil {
			return fmt.Errorf("inject {{$t.Name}}.{{.Name}}: %w", err)
		}
		s.{{.Name}} = v
	}
{{- end}}
	return nil
}
{{end}}`))

// Generate renders the generated file for pkg. filename is used to resolve
// imports and in error messages.
func Generate(pkg *Package, filename string) ([]byte, error) {
	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, pkg); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", filename, err)
	}

	out, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w\n%s", filename, err, buf.Bytes())
	}
	return out, nil
}
