// Package codegen implements grovegen: it finds struct fields tagged with
// `inject:"..."` and emits Inject methods and constructors that resolve
// them through package inject.
package codegen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
)

// TagKey is the struct tag key grovegen looks for.
const TagKey = "inject"

// Package is the scan result for one package directory.
type Package struct {
	Name    string
	Targets []Target
}

// Target is a struct with at least one injected field.
type Target struct {
	Name   string
	Fields []Field

	// Ctor describes an existing New<Name> function.
	Ctor Ctor
}

// Ctor classifies the New<Name> function declared alongside a target.
type Ctor int

const (
	// CtorNone means no New<Name> exists; grovegen emits one.
	CtorNone Ctor = iota
	// CtorPointer means New<Name>() *Name exists.
	CtorPointer
	// CtorValue means New<Name>() Name exists.
	CtorValue
	// CtorOther means New<Name> exists with a different signature and is
	// left alone.
	CtorOther
)

// Field is one injected field.
type Field struct {
	Name string
	// Type is the declared field type.
	Type string
	// Override is the type from `type=` in the tag, if any.
	Override string
	// Binding is the binding name; empty resolves the single binding.
	Binding string
}

// ResolveType is the type argument passed to inject.Resolve.
func (f Field) ResolveType() string {
	if f.Override != "" {
		return f.Override
	}
	return f.Type
}

// ParseTag parses the value of an inject tag: "[name][,type=Expr]". A
// value of "-" returns skip.
func ParseTag(value string) (name, override string, skip bool, err error) {
	if value == "-" {
		return "", "", true, nil
	}

	parts := strings.Split(value, ",")
	name = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok {
			return "", "", false, fmt.Errorf("malformed option %q", p)
		}
		switch strings.TrimSpace(k) {
		case "type":
			override = strings.TrimSpace(v)
			if override == "" {
				return "", "", false, errors.New("empty type override")
			}
		case "name":
			name = strings.TrimSpace(v)
		default:
			return "", "", false, fmt.Errorf("unknown option %q", k)
		}
	}

	return name, override, false, nil
}

// ParseDir scans the non-test Go files in dir, skipping the file named
// output so a previous run does not feed back into the next one.
func ParseDir(dir, output string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == output {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files in %s", dir)
	}

	return ParseFiles(files)
}

// ParseFiles collects targets from the files of a single package.
func ParseFiles(files []*ast.File) (*Package, error) {
	pkg := &Package{}
	funcs := make(map[string]*ast.FuncDecl)
	methods := make(map[string]bool)

	for _, f := range files {
		if pkg.Name == "" {
			pkg.Name = f.Name.Name
		} else if pkg.Name != f.Name.Name {
			return nil, fmt.Errorf("multiple packages: %s and %s", pkg.Name, f.Name.Name)
		}

		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			if fd.Recv == nil {
				funcs[fd.Name.Name] = fd
				continue
			}
			if recv := receiverName(fd.Recv); recv != "" {
				methods[recv+"."+fd.Name.Name] = true
			}
		}
	}

	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}

				fields, err := injectedFields(ts.Name.Name, st)
				if err != nil {
					return nil, err
				}
				if len(fields) == 0 {
					continue
				}

				name := ts.Name.Name
				if ts.TypeParams != nil {
					return nil, fmt.Errorf("%s: generic structs are not supported", name)
				}
				if methods[name+".Inject"] {
					return nil, fmt.Errorf("%s already declares an Inject method", name)
				}

				t := Target{Name: name, Fields: fields, Ctor: classifyCtor(name, funcs["New"+name])}
				if t.Ctor != CtorNone {
					if _, exists := funcs["Create"+name]; exists {
						return nil, fmt.Errorf("%s: both New%s and Create%s are declared", name, name, name)
					}
				}
				pkg.Targets = append(pkg.Targets, t)
			}
		}
	}

	sort.Slice(pkg.Targets, func(i, j int) bool { return pkg.Targets[i].Name < pkg.Targets[j].Name })
	return pkg, nil
}

func injectedFields(structName string, st *ast.StructType) ([]Field, error) {
	var out []Field
	for _, fl := range st.Fields.List {
		if fl.Tag == nil {
			continue
		}
		raw := strings.Trim(fl.Tag.Value, "`")
		value, ok := reflect.StructTag(raw).Lookup(TagKey)
		if !ok {
			continue
		}

		name, override, skip, err := ParseTag(value)
		if err != nil {
			return nil, fmt.Errorf("%s: tag %q: %w", structName, value, err)
		}
		if skip {
			continue
		}
		if len(fl.Names) == 0 {
			return nil, fmt.Errorf("%s: embedded fields cannot be injected", structName)
		}

		typ := types.ExprString(fl.Type)
		for _, n := range fl.Names {
			out = append(out, Field{
				Name:     n.Name,
				Type:     typ,
				Override: override,
				Binding:  name,
			})
		}
	}
	return out, nil
}

func classifyCtor(name string, fd *ast.FuncDecl) Ctor {
	if fd == nil {
		return CtorNone
	}
	ft := fd.Type
	if ft.TypeParams != nil || ft.Params.NumFields() != 0 || ft.Results.NumFields() != 1 {
		return CtorOther
	}

	switch r := ft.Results.List[0].Type.(type) {
	case *ast.StarExpr:
		if id, ok := r.X.(*ast.Ident); ok && id.Name == name {
			return CtorPointer
		}
	case *ast.Ident:
		if r.Name == name {
			return CtorValue
		}
	}
	return CtorOther
}

func receiverName(recv *ast.FieldList) string {
	if recv.NumFields() == 0 {
		return ""
	}
	expr := recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		if id, ok := e.X.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.IndexListExpr:
		if id, ok := e.X.(*ast.Ident); ok {
			return id.Name
		}
	}
	return ""
}
