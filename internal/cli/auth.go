package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/xiebiao/rebook/internal/client"
)

func newSignupCmd(a *app) *cobra.Command {
	var req client.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a reader account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.Email == "" {
				if req.Email, err = a.readLine("Email: "); err != nil {
					return err
				}
			}
			if req.Password, err = a.readPassword("Password: "); err != nil {
				return err
			}

			user, err := a.client.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed up %s (#%d). Run \"rebook login\" to get a token.\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Fullname, "name", "", "full name")
	cmd.Flags().StringVar(&req.Username, "username", "", "username")
	cmd.Flags().StringVar(&req.Contacts, "contacts", "", "phone or other contact")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var (
		email string
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		Long: `Log in and print a bearer token.

Use it with --token or export it:
  export REBOOK_CLIENT_TOKEN=$(rebook login --email me@example.com -q)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				if email, err = a.readLine("Email: "); err != nil {
					return err
				}
			}
			password, err := a.readPassword("Password: ")
			if err != nil {
				return err
			}

			res, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if quiet {
				fmt.Fprintln(a.out, res.Session.Token)
				return nil
			}
			fmt.Fprintf(a.out, "Logged in as %s, token expires %s\n", res.Auth, humanize.Time(res.ExpiresAt))
			fmt.Fprintln(a.out, res.Session.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the token")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.client.Logout(cmd.Context(), a.session); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}
