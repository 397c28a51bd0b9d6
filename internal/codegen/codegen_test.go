package codegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func parseSources(t *testing.T, srcs ...string) *Package {
	t.Helper()
	fset := token.NewFileSet()
	var files []*ast.File
	for i, src := range srcs {
		f, err := parser.ParseFile(fset, filepath.Join("src", string(rune('a'+i))+".go"), src, 0)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		files = append(files, f)
	}
	pkg, err := ParseFiles(files)
	if err != nil {
		t.Fatalf("ParseFiles: %v", err)
	}
	return pkg
}

const zooSrc = `package zoo

type Animal interface{ Sound() string }

type Dog struct{}

// Plain has no tags and is ignored.
type Plain struct{ Name string }

type Shelter struct {
	Main   Animal ` + "`inject:\"\"`" + `
	Cat    Animal ` + "`inject:\"cat\"`" + `
	Rex    Animal ` + "`inject:\"rex,type=*Dog\"`" + `
	A, B   Animal ` + "`inject:\"name=pair\"`" + `
	Skip   Animal ` + "`inject:\"-\"`" + `
	Other  string ` + "`json:\"other\"`" + `
}

type Kennel struct {
	Dog *Dog ` + "`inject:\"\"`" + `
}

func NewKennel() *Kennel { return &Kennel{} }

type Pen struct {
	Dog *Dog ` + "`inject:\"\"`" + `
}

func NewPen() Pen { return Pen{} }

type Yard struct {
	Dog *Dog ` + "`inject:\"\"`" + `
}

func NewYard(size int) *Yard { return &Yard{} }
`

func TestParseFiles(t *testing.T) {
	pkg := parseSources(t, zooSrc)

	if pkg.Name != "zoo" {
		t.Fatalf("package = %q", pkg.Name)
	}

	var names []string
	for _, tg := range pkg.Targets {
		names = append(names, tg.Name)
	}
	if want := []string{"Kennel", "Pen", "Shelter", "Yard"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("targets = %v, want %v", names, want)
	}

	ctors := map[string]Ctor{}
	for _, tg := range pkg.Targets {
		ctors[tg.Name] = tg.Ctor
	}
	wantCtors := map[string]Ctor{"Kennel": CtorPointer, "Pen": CtorValue, "Shelter": CtorNone, "Yard": CtorOther}
	if !reflect.DeepEqual(ctors, wantCtors) {
		t.Fatalf("ctors = %v, want %v", ctors, wantCtors)
	}

	shelter := pkg.Targets[2]
	wantFields := []Field{
		{Name: "Main", Type: "Animal"},
		{Name: "Cat", Type: "Animal", Binding: "cat"},
		{Name: "Rex", Type: "Animal", Override: "*Dog", Binding: "rex"},
		{Name: "A", Type: "Animal", Binding: "pair"},
		{Name: "B", Type: "Animal", Binding: "pair"},
	}
	if !reflect.DeepEqual(shelter.Fields, wantFields) {
		t.Fatalf("fields = %+v\nwant %+v", shelter.Fields, wantFields)
	}
	if shelter.Fields[2].ResolveType() != "*Dog" || shelter.Fields[0].ResolveType() != "Animal" {
		t.Fatal("ResolveType should prefer the override")
	}
}

func TestParseFiles_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"embedded field",
			"package p\ntype Dep struct{}\ntype S struct {\n\tDep `inject:\"\"`\n}\n",
			"embedded",
		},
		{
			"bad option",
			"package p\ntype S struct {\n\tA int `inject:\"a,size=3\"`\n}\n",
			"unknown option",
		},
		{
			"existing Inject method",
			"package p\ntype S struct {\n\tA int `inject:\"\"`\n}\nfunc (s *S) Inject() error { return nil }\n",
			"Inject",
		},
		{
			"generic struct",
			"package p\ntype S[T any] struct {\n\tA T `inject:\"\"`\n}\n",
			"generic",
		},
		{
			"New and Create both declared",
			"package p\ntype S struct {\n\tA int `inject:\"\"`\n}\nfunc NewS() *S { return nil }\nfunc CreateS() *S { return nil }\n",
			"CreateS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := parser.ParseFile(token.NewFileSet(), "p.go", tt.src, 0)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err = ParseFiles([]*ast.File{f})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		override string
		skip     bool
		wantErr  bool
	}{
		{in: "", name: ""},
		{in: "dog", name: "dog"},
		{in: "dog,type=*Dog", name: "dog", override: "*Dog"},
		{in: ",type=pets.Animal", override: "pets.Animal"},
		{in: "name=cat", name: "cat"},
		{in: "-", skip: true},
		{in: "dog,type=", wantErr: true},
		{in: "dog,lazy", wantErr: true},
		{in: "dog,scope=x", wantErr: true},
	}

	for _, tt := range tests {
		name, override, skip, err := ParseTag(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if name != tt.name || override != tt.override || skip != tt.skip {
			t.Errorf("ParseTag(%q) = %q, %q, %v; want %q, %q, %v", tt.in, name, override, skip, tt.name, tt.override, tt.skip)
		}
	}
}

func TestGenerate(t *testing.T) {
	pkg := parseSources(t, zooSrc)

	out, err := Generate(pkg, filepath.Join(t.TempDir(), "inject_gen.go"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	src := string(out)

	if _, err := parser.ParseFile(token.NewFileSet(), "inject_gen.go", out, 0); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}

	wants := []string{
		"// Code generated by grovegen. DO NOT EDIT.",
		"package zoo",
		`"github.com/ARTM2000/grove/inject"`,
		"func NewShelter() (*Shelter, error) {",
		"func (s *Shelter) Inject() error {",
		`inject.Resolve[Animal]("")`,
		`inject.Resolve[Animal]("cat")`,
		`inject.Resolve[*Dog]("rex")`,
		`return fmt.Errorf("inject Shelter.Rex: %w", err)`,
		"s.B = v",
		"func CreateKennel() (*Kennel, error) {",
		"s := NewKennel()",
		"func CreatePen() (*Pen, error) {",
		"return &s, nil",
		"func CreateYard() (*Yard, error) {",
		"s := &Yard{}",
	}
	for _, w := range wants {
		if !strings.Contains(src, w) {
			t.Errorf("generated code missing %q\n%s", w, src)
		}
	}

	for _, unwanted := range []string{"func NewKennel", "func NewPen", "func NewYard", "Skip", "Other"} {
		if strings.Contains(src, unwanted) {
			t.Errorf("generated code should not contain %q", unwanted)
		}
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	write("a.go", "package p\ntype S struct {\n\tA *int `inject:\"\"`\n}\n")
	write("a_test.go", "package p\ntype T struct {\n\tA *int `inject:\"\"`\n}\n")
	write("inject_gen.go", "package p\nfunc (s *S) Inject() error { return nil }\n")
	write("notes.txt", "not go")

	pkg, err := ParseDir(dir, "inject_gen.go")
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}
	if len(pkg.Targets) != 1 || pkg.Targets[0].Name != "S" {
		t.Fatalf("unexpected targets %+v", pkg.Targets)
	}

	if _, err := ParseDir(t.TempDir(), "inject_gen.go"); err == nil {
		t.Fatal("expected an error for an empty directory")
	}
}
