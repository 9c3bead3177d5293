package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mgomes/nodeclass/manifest"
)

func newCheckCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Compile every class and report abstract types and errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := a.manifestPaths(args)
			if err != nil {
				return err
			}
			if !watch {
				return a.check(paths)
			}
			if err := a.check(paths); err != nil {
				fmt.Fprintln(a.errOut, err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, paths)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-check whenever a manifest changes")
	return cmd
}

// check prints one row per class and fails when any class does not compile.
func (a *app) check(paths []string) error {
	ws, err := a.loadWorkspace(paths)
	if err != nil {
		return err
	}
	return a.report(ws)
}

func (a *app) report(ws *workspace) error {
	rows := pterm.TableData{{"Class", "Extends", "Status", "Detail"}}
	for _, name := range ws.order {
		parent := ws.parentOf(name)
		if err, failed := ws.failed[name]; failed {
			rows = append(rows, []string{name, parent, pterm.Red("error"), err.Error()})
			continue
		}
		t, err := ws.lookup(name)
		if err != nil {
			return err
		}
		if t.IsAbstract() {
			rows = append(rows, []string{name, parent, pterm.Yellow("abstract"), strings.Join(t.Obligations(), ", ")})
			continue
		}
		rows = append(rows, []string{name, parent, pterm.Green("ok"), ""})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return errors.Wrap(err, "render table")
	}
	fmt.Fprintln(a.out, table)

	if n := len(ws.failed); n > 0 {
		return errors.Newf("%d of %d classes failed to compile", n, len(ws.order))
	}
	return nil
}

func (a *app) watch(ctx context.Context, paths []string) error {
	a.log.Info("watching manifests", zap.Strings("paths", paths))
	return manifest.Watch(ctx, paths, a.config.Watch.Debounce(), func(m *manifest.Manifest, err error) {
		if err != nil {
			fmt.Fprintln(a.errOut, err)
			return
		}
		ws, err := a.compileWorkspace(paths, m)
		if err != nil {
			fmt.Fprintln(a.errOut, err)
			return
		}
		if err := a.report(ws); err != nil {
			fmt.Fprintln(a.errOut, err)
		}
	})
}
