package cli

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/viveksanandiya/pdf-annotator/internal/session"
	"golang.org/x/term"
)

func timeNow() time.Time { return time.Now() }

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password (min 6 characters): ")
		if err != nil {
			return err
		}

		token, user, err := apiClient.Signup(args[0], password)
		if err != nil {
			return err
		}

		sess.Token = token
		sess.UserID = user.ID
		sess.Email = user.Email
		if err := session.Save(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Account created. Logged in as %s\n", user.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Authenticate with the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		token, user, err := apiClient.Login(args[0], password)
		if err != nil {
			return err
		}

		sess.Token = token
		sess.UserID = user.ID
		sess.Email = user.Email
		if err := session.Save(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Logged in as %s\n", user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		// Reconcile against the server rather than trusting the local token.
		if err := sess.Reconcile(apiClient); err != nil {
			_ = session.Save(sess)
			return fmt.Errorf("session no longer valid: %w", err)
		}
		_ = session.Save(sess)

		fmt.Printf("%s (%s)\n", sess.Email, sess.UserID)
		return nil
	},
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		// Not a terminal; fall back to a plain line read.
		var line string
		if _, scanErr := fmt.Fscanln(os.Stdin, &line); scanErr != nil {
			return "", err
		}
		return line, nil
	}
	return string(raw), nil
}

func init() {
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
