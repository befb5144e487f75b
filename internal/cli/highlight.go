package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/viveksanandiya/pdf-annotator/internal/selection"
	"github.com/viveksanandiya/pdf-annotator/pkg/client"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight",
	Short: "Manage highlights on a document",
}

var (
	flagStart int
	flagEnd   int
)

var highlightAddCmd = &cobra.Command{
	Use:   "add <pdf-uuid> <page> <text>",
	Short: "Attach a highlight to a page",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		page, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid page number %q", args[1])
		}

		// The CLI has no rendered viewport, so the selection runs through the
		// same bridge the viewer uses, with a zero bounding box.
		bridge := selection.NewBridge(args[0], apiClient)
		if err := bridge.Select(args[2], page, client.BoundingBox{}, client.Position{Start: flagStart, End: flagEnd}); err != nil {
			return err
		}

		highlight, err := bridge.Confirm()
		if err != nil {
			return err
		}

		fmt.Printf("Highlight created on page %d\n  id: %s\n", highlight.PageNumber, highlight.ID)
		return nil
	},
}

var highlightListCmd = &cobra.Command{
	Use:   "list <pdf-uuid> [page]",
	Short: "List highlights, optionally for one page",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var highlights []client.Highlight
		var err error
		if len(args) == 2 {
			page, convErr := strconv.Atoi(args[1])
			if convErr != nil {
				return fmt.Errorf("invalid page number %q", args[1])
			}
			highlights, err = apiClient.ListPageHighlights(args[0], page)
		} else {
			highlights, err = apiClient.ListHighlights(args[0])
		}
		if err != nil {
			return err
		}
		if len(highlights) == 0 {
			fmt.Println("No highlights.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPAGE\tTEXT")
		for _, h := range highlights {
			text := h.HighlightedText
			if len(text) > 60 {
				text = text[:60] + "..."
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", h.ID, h.PageNumber, text)
		}
		return w.Flush()
	},
}

var highlightEditCmd = &cobra.Command{
	Use:   "edit <highlight-id> <text>",
	Short: "Replace a highlight's text",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		highlight, err := apiClient.UpdateHighlight(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Updated highlight %s\n", highlight.ID)
		return nil
	},
}

var highlightRmCmd = &cobra.Command{
	Use:   "rm <highlight-id>",
	Short: "Delete one highlight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		if err := apiClient.DeleteHighlight(args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var highlightClearCmd = &cobra.Command{
	Use:   "clear <pdf-uuid>",
	Short: "Delete every highlight on a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		count, err := apiClient.DeleteDocumentHighlights(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d highlight(s).\n", count)
		return nil
	},
}

func init() {
	highlightAddCmd.Flags().IntVar(&flagStart, "start", 0, "Selection start offset")
	highlightAddCmd.Flags().IntVar(&flagEnd, "end", 0, "Selection end offset")

	highlightCmd.AddCommand(highlightAddCmd)
	highlightCmd.AddCommand(highlightListCmd)
	highlightCmd.AddCommand(highlightEditCmd)
	highlightCmd.AddCommand(highlightRmCmd)
	highlightCmd.AddCommand(highlightClearCmd)
	rootCmd.AddCommand(highlightCmd)
}
