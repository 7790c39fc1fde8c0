package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sukiejosh/vitedge/internal/config"
	"github.com/sukiejosh/vitedge/internal/dev"
)

func routesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the compiled route tables",
		Long: `Scan the functions directory and print the route tables the
dev server would serve, per group.

Static routes are listed first, then dynamic routes in the order
they win ties.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes()
		},
	}

	return cmd
}

func runRoutes() error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	groups := dev.NewGroups(cfg.FunctionsPath())
	if err := dev.SeedFromDisk(cfg.FunctionsPath(), groups); err != nil {
		return err
	}

	for _, g := range groups {
		table := g.Index.Snapshot()

		fmt.Printf("\n\033[1m%s\033[0m (%d routes)\n", g.Name, len(table.Static)+len(table.Dynamic))

		static := make([]string, 0, len(table.Static))
		for route := range table.Static {
			static = append(static, route)
		}
		sort.Strings(static)
		for _, route := range static {
			fmt.Printf("  %s\n", route)
		}

		for _, dr := range table.Dynamic {
			fmt.Printf("  %s  [%s]\n", dr.Route, strings.Join(dr.Params, ", "))
		}
	}

	fmt.Println()
	return nil
}
