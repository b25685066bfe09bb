package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xiebiao/rebook/internal/catalog"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <book-id>",
		Short: "Delete a book (librarians only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid book id %q", args[0])
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			confirm := catalog.ConfirmFunc(a.confirm)
			if yes {
				confirm = func(context.Context, string) (bool, error) { return true, nil }
			}

			inv := catalog.NewInventory(a.client, a.session, confirm)
			err = inv.DeleteBook(cmd.Context(), uint(id))
			if errors.Is(err, catalog.ErrDeleteCancelled) {
				fmt.Fprintln(a.out, "Cancelled.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted book #%d.\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
