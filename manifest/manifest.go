// Package manifest reads class hierarchies declared in YAML or TOML files
// and compiles them into class descriptors.
//
// A manifest cannot carry Go code, so methods are written as templates:
//
//	get: field       return a field
//	set: field       assign the first argument to a field
//	return: value    return a literal
//	call: method     dispatch another method through self
//	super: true      delegate to the ancestor implementation
//	abstract         declare an abstract method
package manifest

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the constraint a manifest's schema version must meet.
const SupportedSchema = "^1"

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks a format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
}

type Manifest struct {
	Schema  string  `yaml:"schema" toml:"schema" validate:"required"`
	Classes []Class `yaml:"classes" toml:"classes" validate:"required,min=1,dive"`
}

// Class declares one class. Keys of Fields, Methods and Statics follow the
// class naming convention ("_name" protected, "__name" private, "?name"
// abstract); static keys may omit the "$" marker.
type Class struct {
	Name      string                `yaml:"name" toml:"name" validate:"required"`
	Extends   string                `yaml:"extends,omitempty" toml:"extends"`
	Fields    map[string]any        `yaml:"fields,omitempty" toml:"fields" validate:"dive,keys,required,endkeys"`
	Methods   map[string]MethodSpec `yaml:"methods,omitempty" toml:"methods" validate:"dive,keys,required,endkeys"`
	Statics   map[string]any        `yaml:"statics,omitempty" toml:"statics" validate:"dive,keys,required,endkeys"`
	Init      []Assign              `yaml:"init,omitempty" toml:"init" validate:"dive"`
	SuperArgs []int                 `yaml:"superArgs,omitempty" toml:"superArgs" validate:"dive,gte=0"`

	// Source is the file the class was read from.
	Source string `yaml:"-" toml:"-"`
}

// Assign copies constructor argument Arg into Field when the level's init
// runs. A missing argument leaves the field at its default.
type Assign struct {
	Field string `yaml:"set" toml:"set" validate:"required"`
	Arg   int    `yaml:"arg" toml:"arg" validate:"gte=0"`
}

// MethodSpec is a method template. Exactly one template is set.
type MethodSpec struct {
	Get      string `yaml:"get,omitempty" toml:"get"`
	Set      string `yaml:"set,omitempty" toml:"set"`
	Return   any    `yaml:"return,omitempty" toml:"return"`
	Call     string `yaml:"call,omitempty" toml:"call"`
	Super    bool   `yaml:"super,omitempty" toml:"super"`
	Abstract bool   `yaml:"abstract,omitempty" toml:"abstract"`

	// returns records an explicit return key, so "return: null" counts.
	returns bool
}

// Template names the template in use, or "" when none or several are set.
func (m MethodSpec) Template() string {
	var set []string
	if m.Get != "" {
		set = append(set, "get")
	}
	if m.Set != "" {
		set = append(set, "set")
	}
	if m.returns || m.Return != nil {
		set = append(set, "return")
	}
	if m.Call != "" {
		set = append(set, "call")
	}
	if m.Super {
		set = append(set, "super")
	}
	if m.Abstract {
		set = append(set, "abstract")
	}
	if len(set) != 1 {
		return ""
	}
	return set[0]
}

type rawMethodSpec MethodSpec

func (m *MethodSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return m.fromScalar(node.Value)
	}
	var raw rawMethodSpec
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*m = MethodSpec(raw)
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "return" {
				m.returns = true
			}
		}
	}
	return nil
}

// UnmarshalTOML accepts either the string "abstract" or an inline table.
func (m *MethodSpec) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		return m.fromScalar(v)
	case map[string]any:
		*m = MethodSpec{}
		for key, value := range v {
			var ok bool
			switch key {
			case "get":
				m.Get, ok = value.(string)
			case "set":
				m.Set, ok = value.(string)
			case "call":
				m.Call, ok = value.(string)
			case "super":
				m.Super, ok = value.(bool)
			case "abstract":
				m.Abstract, ok = value.(bool)
			case "return":
				m.Return, m.returns, ok = value, true, true
			default:
				return errors.Newf("unknown method template %q", key)
			}
			if !ok {
				return errors.Newf("method template %q: unexpected %T", key, value)
			}
		}
		return nil
	default:
		return errors.Newf("method must be a table or \"abstract\", got %T", data)
	}
}

func (m *MethodSpec) fromScalar(s string) error {
	if s != "abstract" {
		return errors.Newf("method must be a template or \"abstract\", got %q", s)
	}
	*m = MethodSpec{Abstract: true}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		spec := sl.Current().Interface().(MethodSpec)
		if spec.Template() == "" {
			sl.ReportError(spec, "template", "Template", "template", "")
		}
	}, MethodSpec{})
	return v
}

// Parse decodes and validates one manifest. source labels errors.
func Parse(data []byte, format Format, source string) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Wrapf(err, "decode %s", source)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", source)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Wrapf(ErrInvalid, "%s: unknown key %s", source, undecoded[0])
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s: %q", source, format)
	}
	for i := range m.Classes {
		m.Classes[i].Source = source
	}
	if err := m.Validate(); err != nil {
		return nil, invalid(source, err)
	}
	return &m, nil
}

// Validate checks structure and the schema version.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return err
	}
	return checkSchema(m.Schema)
}

func checkSchema(schema string) error {
	version, err := semver.NewVersion(schema)
	if err != nil {
		return errors.Wrapf(ErrUnsupportedSchema, "schema %q: %v", schema, err)
	}
	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return errors.AssertionFailedf("schema constraint %q: %v", SupportedSchema, err)
	}
	if !constraint.Check(version) {
		return errors.Wrapf(ErrUnsupportedSchema, "schema %s does not satisfy %s", version, SupportedSchema)
	}
	return nil
}
