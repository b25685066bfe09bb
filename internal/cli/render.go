package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/xiebiao/rebook/internal/catalog"
)

const clearScreen = "\033[H\033[2J"

func renderBooks(w io.Writer, books []catalog.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tSTATUS\tAVAILABLE\tADDED")
	for _, b := range books {
		category := b.CategoryName
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			b.ID, b.Title, b.Author.Name, category, b.Status, b.Available, b.Total, added(b))
	}
	tw.Flush()
}

func added(b catalog.Book) string {
	if b.CreatedAt.IsZero() {
		return "-"
	}
	return humanize.Time(b.CreatedAt)
}

// renderView 列表加一行状态
func renderView(w io.Writer, v catalog.View) {
	switch {
	case v.Loading:
		fmt.Fprintln(w, "Loading...")
		return
	case v.Err != nil && v.UpdatedAt.IsZero():
		fmt.Fprintf(w, "Error: %v\n", v.Err)
		return
	}

	renderBooks(w, v.Rows)
	fmt.Fprintf(w, "\n%d of %d books, updated %s\n", len(v.Rows), v.Total, humanize.Time(v.UpdatedAt))
	if v.Stale() {
		fmt.Fprintf(w, "Refresh failed, showing previous data: %v\n", v.Err)
	}
}
