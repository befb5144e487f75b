package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		result, err := apiClient.UploadPDF(filepath.Base(args[0]), f)
		if err != nil {
			return err
		}

		fmt.Printf("Uploaded %s\n  uuid: %s\n", result.Filename, result.UUID)
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your documents, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		pdfs, err := apiClient.ListPDFs()
		if err != nil {
			return err
		}
		if len(pdfs) == 0 {
			fmt.Println("No documents yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UUID\tNAME\tUPLOADED")
		for _, p := range pdfs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.UUID, p.OriginalName, p.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var getCmd = &cobra.Command{
	Use:   "get <uuid> [output.pdf]",
	Short: "Download a document",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		out := args[0] + ".pdf"
		if len(args) == 2 {
			out = args[1]
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := apiClient.DownloadPDF(args[0], f); err != nil {
			os.Remove(out)
			return err
		}

		fmt.Printf("Saved %s\n", out)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <uuid>",
	Short: "Delete a document and its highlights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		if err := apiClient.DeletePDF(args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(rmCmd)
}
