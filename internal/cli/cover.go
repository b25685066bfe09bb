package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCoverCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "cover <ref>",
		Short: "Download a book cover",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			var w io.Writer = a.out
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			n, err := a.client.Cover(cmd.Context(), a.session, args[0], w)
			if err != nil {
				if w != a.out {
					_ = os.Remove(output)
				}
				return err
			}
			if w != a.out {
				fmt.Fprintf(a.err, "Saved %s to %s\n", humanize.Bytes(uint64(n)), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
