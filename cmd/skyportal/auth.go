package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/session"
)

func loginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as the administrator or as a traveler",
	}

	var username, adminPassword string
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Sign in as the administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.svc.Auth.AdminLogin(cmd.Context(), username, adminPassword); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as administrator %s\n", username)
			return nil
		},
	}
	admin.Flags().StringVarP(&username, "username", "u", "admin", "Admin username")
	admin.Flags().StringVarP(&adminPassword, "password", "p", "", "Admin password")
	_ = admin.MarkFlagRequired("password")

	var email, password string
	user := &cobra.Command{
		Use:   "user",
		Short: "Sign in as a traveler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.Auth.UserLogin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return a.print(res.User, func(w io.Writer) {
				fmt.Fprintf(w, "Signed in as %s <%s>\n", res.User.Name, res.User.Email)
			})
		},
	}
	user.Flags().StringVarP(&email, "email", "e", "", "Account email")
	user.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = user.MarkFlagRequired("email")

	cmd.AddCommand(admin, user)
	return cmd
}

func registerCmd(a *app) *cobra.Command {
	var input domain.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a traveler account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.Auth.UserRegister(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.print(res.User, func(w io.Writer) {
				fmt.Fprintf(w, "Registered %s <%s> (id %d)\n", res.User.Name, res.User.Email, res.User.ID)
			})
		},
	}
	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "Account password")
	cmd.Flags().StringVar(&input.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "Phone number")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "logout [admin|user|all]",
		Short:     "Forget stored credentials",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(session.ScopeAdmin), string(session.ScopeUser), string(session.ScopeAll)},
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := session.ScopeAll
			if len(args) == 1 {
				scope = session.Scope(args[0])
			}
			if err := a.svc.Auth.Logout(cmd.Context(), scope); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed out (%s)\n", scope)
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, user := a.sessions.Admin(), a.sessions.User()
			view := struct {
				Admin bool                `json:"admin"`
				User  *domain.UserProfile `json:"user,omitempty"`
			}{Admin: admin != nil}
			if user != nil {
				view.User = user.User
			}
			return a.print(view, func(w io.Writer) {
				if admin == nil && view.User == nil {
					fmt.Fprintln(w, "Not signed in")
					return
				}
				if admin != nil {
					fmt.Fprintln(w, "Administrator: signed in")
				}
				if view.User != nil {
					fmt.Fprintf(w, "Traveler: %s <%s> (id %d)\n", view.User.Name, view.User.Email, view.User.ID)
				}
			})
		},
	}
}
