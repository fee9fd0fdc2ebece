package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"medkit/internal/cartsync"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCart(w io.Writer, s *cartsync.Synchronizer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tBRAND\tQTY\tPRICE\tTOTAL\tSTOCK")
	for _, it := range s.Items() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%d\n",
			it.Name, it.BrandName, it.Quantity, it.UnitPrice.StringFixed(2), it.LineTotal().StringFixed(2), it.AvailableStock)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "items: %d  total: %s  session: %s\n", s.TotalItemCount(), s.TotalPrice().StringFixed(2), s.SessionID())
}

// 通知は stderr に1行で出す
type termNotifier struct {
	w io.Writer
}

func (n termNotifier) Notify(note cartsync.Notification) {
	fmt.Fprintf(n.w, "[%s] %s: %s\n", note.Level, note.Title, note.Message)
}

func (n termNotifier) LoginRequired() {
	fmt.Fprintln(n.w, "login required: run `storefront auth login` and set --customer-id")
}
