package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mgomes/nodeclass/class"
)

type memberInfo struct {
	Name       string `yaml:"name" toml:"name"`
	Kind       string `yaml:"kind" toml:"kind"`
	Visibility string `yaml:"visibility" toml:"visibility"`
	Owner      string `yaml:"owner" toml:"owner"`
	Default    string `yaml:"default,omitempty" toml:"default,omitempty"`
}

type description struct {
	Name        string            `yaml:"name" toml:"name"`
	Ancestors   []string          `yaml:"ancestors" toml:"ancestors"`
	Abstract    bool              `yaml:"abstract" toml:"abstract"`
	Obligations []string          `yaml:"obligations,omitempty" toml:"obligations,omitempty"`
	Overridden  []string          `yaml:"overridden,omitempty" toml:"overridden,omitempty"`
	Implemented []string          `yaml:"implemented,omitempty" toml:"implemented,omitempty"`
	Statics     map[string]string `yaml:"statics,omitempty" toml:"statics,omitempty"`
	Members     []memberInfo      `yaml:"members" toml:"members"`
	Inherited   []memberInfo      `yaml:"inherited,omitempty" toml:"inherited,omitempty"`
}

func newDescribeCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "describe <class> [files...]",
		Short: "Show a class's ancestors, members and abstract obligations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			paths, err := a.manifestPaths(args[1:])
			if err != nil {
				return err
			}
			ws, err := a.loadWorkspace(paths)
			if err != nil {
				return err
			}
			t, err := ws.lookup(args[0])
			if err != nil {
				return err
			}
			out, err := renderDescription(describeType(t), format)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, yaml or toml")
	return cmd
}

func describeType(t *class.Type) description {
	rs := t.Resolved()
	d := description{
		Name:        t.Name(),
		Abstract:    t.IsAbstract(),
		Obligations: t.Obligations(),
		Overridden:  rs.Overridden,
		Implemented: rs.Implemented,
	}
	for _, anc := range t.Ancestors() {
		d.Ancestors = append(d.Ancestors, anc.Name())
	}
	for _, m := range rs.Members {
		d.Members = append(d.Members, infoOf(m))
	}
	for _, m := range rs.Inherited {
		if _, own := rs.Lookup(m.Name); own {
			continue
		}
		d.Inherited = append(d.Inherited, infoOf(m))
	}
	if names := t.Statics().Names(); len(names) > 0 {
		d.Statics = make(map[string]string, len(names))
		for _, name := range names {
			v, err := t.Static(name)
			if err != nil {
				d.Statics[name] = "<function>"
				continue
			}
			d.Statics[name] = v.String()
		}
	}
	return d
}

func infoOf(m class.Member) memberInfo {
	info := memberInfo{
		Name:       m.Name,
		Kind:       m.Kind.String(),
		Visibility: m.Visibility.String(),
		Owner:      m.Owner,
	}
	if m.Kind == class.FieldMember {
		info.Default = m.Default.String()
	}
	return info
}

func renderDescription(d description, format string) (string, error) {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(d)
		return string(out), errors.Wrap(err, "encode yaml")
	case "toml":
		out, err := toml.Marshal(d)
		return string(out), errors.Wrap(err, "encode toml")
	case "table", "":
		return renderDescriptionTable(d)
	default:
		return "", errors.Newf("unknown output format %q", format)
	}
}

func renderDescriptionTable(d description) (string, error) {
	var b strings.Builder
	kind := "concrete"
	if d.Abstract {
		kind = "abstract (" + strings.Join(d.Obligations, ", ") + ")"
	}
	fmt.Fprintf(&b, "%s  %s\n", pterm.Bold.Sprint(d.Name), pterm.Gray(kind))
	fmt.Fprintf(&b, "ancestors: %s\n\n", strings.Join(d.Ancestors, " > "))

	rows := pterm.TableData{{"Member", "Kind", "Visibility", "Owner", "Default", "Note"}}
	overridden := setOf(d.Overridden)
	implemented := setOf(d.Implemented)
	for _, m := range d.Members {
		note := ""
		switch {
		case implemented[m.Name]:
			note = "implements"
		case overridden[m.Name]:
			note = "overrides"
		}
		rows = append(rows, []string{m.Name, m.Kind, m.Visibility, m.Owner, m.Default, note})
	}
	for _, m := range d.Inherited {
		rows = append(rows, []string{m.Name, m.Kind, m.Visibility, m.Owner, m.Default, "inherited"})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return "", errors.Wrap(err, "render table")
	}
	b.WriteString(table)
	b.WriteString("\n")

	if len(d.Statics) > 0 {
		statics := pterm.TableData{{"Static", "Value"}}
		for _, name := range sortedNames(d.Statics) {
			statics = append(statics, []string{name, d.Statics[name]})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(statics).Srender()
		if err != nil {
			return "", errors.Wrap(err, "render table")
		}
		b.WriteString("\n" + table + "\n")
	}
	return b.String(), nil
}

func setOf(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}
