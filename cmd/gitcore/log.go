package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Walk commit history with graph columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			f, err := openFacade(ctx, cfg)
			if err != nil {
				return err
			}
			defer f.Close()

			commits, err := f.LoadMoreCommits(n)
			if err != nil {
				return err
			}

			for i, c := range commits {
				entry, ok := f.GraphEntry(i)

				col := 0
				if ok {
					col = entry.Position
				}

				merge := ""
				if c.IsMerge() {
					merge = " (merge)"
				}

				fmt.Printf("col=%d %s %s%s\n", col, c.ShortHash(), c.Message, merge)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "number", "n", 500, "number of commits to load")

	return cmd
}
