package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/comalice/turingx/internal/loader"
	"github.com/comalice/turingx/internal/primitives"
	"github.com/comalice/turingx/internal/production"
)

func newGraphCmd(a *app) *cobra.Command {
	var (
		current string
		output  string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "graph MACHINE",
		Short: "Print the transition graph as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := def.Validate(); err != nil {
				return err
			}
			if current != "" && !def.HasState(primitives.State(current)) {
				return primitives.ConfigErrorf("state %q not found in states", current)
			}

			v := &production.DefaultVisualizer{}
			var out []byte
			if asJSON {
				if out, err = v.ExportJSON(def); err != nil {
					return err
				}
				out = append(out, '\n')
			} else {
				out = []byte(v.ExportDOT(def, primitives.State(current)))
			}
			if output == "" {
				_, err = a.stdout.Write(out)
				return err
			}
			return os.WriteFile(output, out, 0o644)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&current, "current", "", "highlight this state")
	fl.StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	fl.BoolVar(&asJSON, "json", false, "print the canonical definition as JSON instead of DOT")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate MACHINE...",
		Short: "Check machine descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed error
			for _, path := range args {
				def, err := loader.LoadFile(path)
				if err == nil {
					err = def.Validate()
				}
				if err != nil {
					fmt.Fprintf(a.stdout, "%s: %v\n", path, err)
					if failed == nil {
						failed = err
					}
					continue
				}
				fmt.Fprintf(a.stdout, "%s: ok (%s, version %s)\n", path, def.Describe(), primitives.Fingerprint(def))
			}
			return failed
		},
	}
}
