package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"voiceforge/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect line catalogs",
	}
	cmd.AddCommand(newCatalogShowCommand(ctx))
	return cmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Show the categories and line counts of a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.ensureLogger()
			cat, err := catalog.Load(args[0], logger)
			if err != nil {
				return err
			}
			if cat.Empty() {
				return fmt.Errorf("catalog %s has no usable lines", args[0])
			}

			out := cmd.OutOrStdout()
			if !stdoutIsTerminal() {
				for _, name := range cat.Categories() {
					prefix, _ := catalog.Prefix(name)
					fmt.Fprintf(out, "%s\t%s\t%d\n", name, prefix, len(cat.Lines(name)))
				}
				return nil
			}

			rows := make([][]string, 0, len(cat.Categories()))
			for _, name := range cat.Categories() {
				prefix, _ := catalog.Prefix(name)
				rows = append(rows, []string{name, prefix, strconv.Itoa(len(cat.Lines(name)))})
			}
			fmt.Fprintln(out, renderTable([]string{"Category", "Prefix", "Lines"}, rows, 2))
			fmt.Fprintf(out, "%d lines total\n", cat.Total())
			return nil
		},
	}
}
