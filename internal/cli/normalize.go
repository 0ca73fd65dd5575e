package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"country-linker/internal/normalize"
)

func normalizeCmd(_ *app) *cobra.Command {
	var fold bool

	c := &cobra.Command{
		Use:   "normalize [TEXT...]",
		Short: "Print the matching key of each argument, or of each stdin line",
		RunE: func(cmd *cobra.Command, args []string) error {
			fn := normalize.New(normalize.Options{FoldDiacritics: fold})
			w := cmd.OutOrStdout()

			if len(args) > 0 {
				for _, s := range args {
					fmt.Fprintln(w, fn(s))
				}

				return nil
			}

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				fmt.Fprintln(w, fn(sc.Text()))
			}

			return sc.Err()
		},
	}

	c.Flags().BoolVar(&fold, "fold-diacritics", false, "fold accented letters to ASCII")

	return c
}
