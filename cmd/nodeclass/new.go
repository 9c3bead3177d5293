package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mgomes/nodeclass/class"
)

func newNewCmd(a *app) *cobra.Command {
	var (
		ctorArgs []string
		method   string
		callArgs []string
	)
	cmd := &cobra.Command{
		Use:   "new <class> [files...]",
		Short: "Construct an instance and optionally call one of its public methods",
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
			obj, err := t.New(parseLiterals(ctorArgs)...)
			if err != nil {
				return errors.Wrapf(err, "new %s", t.Name())
			}
			if method == "" {
				return a.printInstance(obj)
			}
			result, err := obj.Call(method, parseLiterals(callArgs)...)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, result.String())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&ctorArgs, "arg", "a", nil, "constructor argument (repeatable)")
	cmd.Flags().StringVarP(&method, "call", "c", "", "public method to call on the new instance")
	cmd.Flags().StringArrayVar(&callArgs, "call-arg", nil, "argument for --call (repeatable)")
	return cmd
}

// printInstance shows the public fields of a fresh instance.
func (a *app) printInstance(obj *class.Object) error {
	rows := pterm.TableData{{"Field", "Value"}}
	for _, name := range obj.Type().PublicMembers() {
		v, err := obj.Get(name)
		if errors.Is(err, class.ErrUnknownMember) {
			// methods are listed by describe
			continue
		}
		if err != nil {
			return err
		}
		rows = append(rows, []string{name, v.String()})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return errors.Wrap(err, "render table")
	}
	fmt.Fprintf(a.out, "%s %s\n%s\n", obj, pterm.Gray(obj.ID().String()), table)
	return nil
}
