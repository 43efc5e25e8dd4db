package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branches, HEAD, and file status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			f, err := openFacade(ctx, cfg)
			if err != nil {
				return err
			}
			defer f.Close()

			md, err := f.Reload(ctx)
			if err != nil {
				return err
			}

			if md.IsDetached {
				fmt.Printf("HEAD detached at %s\n", shortHash(md.HeadHash))
			} else {
				fmt.Printf("On branch %s (%s)\n", md.CurrentBranch, shortHash(md.HeadHash))
			}

			if md.ConflictState.Variant != 0 {
				fmt.Printf("conflict in progress: %v\n", md.ConflictState)
			}

			if len(md.Status) == 0 {
				fmt.Println("nothing to commit, working tree clean")
			}

			for _, s := range md.Status {
				fmt.Printf("%s %s\n", s.StatusCode, s.Path)
			}

			return nil
		},
	}
}

func shortHash(h string) string {
	if len(h) < 7 {
		return h
	}

	return h[:7]
}
