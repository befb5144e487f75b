package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viveksanandiya/pdf-annotator/internal/session"
	"github.com/viveksanandiya/pdf-annotator/pkg/client"
)

var (
	flagServerURL string

	sess      *session.Session
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "pdf-annotator",
	Short: "Manage your annotated PDFs from the terminal",
	Long: `Upload PDFs, list them, and manage text highlights without a browser.

Get started:
  pdf-annotator signup you@example.com   Create an account
  pdf-annotator login you@example.com    Authenticate
  pdf-annotator upload paper.pdf         Upload a document
  pdf-annotator ls                       List your documents`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		sess, err = session.Load()
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		if flagServerURL != "" {
			sess.ServerURL = flagServerURL
		}
		apiClient = client.NewClient(sess.ServerURL, sess.Token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Override server URL (default: from session or http://localhost:5000)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// requireAuth returns an error when no usable token is held.
func requireAuth() error {
	if sess == nil || !sess.Valid(timeNow()) {
		return fmt.Errorf("not authenticated; run \"pdf-annotator login\" first")
	}
	return nil
}
