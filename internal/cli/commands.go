package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/hargabyte/chaos-web/internal/session"
	"github.com/hargabyte/chaos-web/internal/view"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("CHAOS_PASSWORD")
			}
			ctrl := view.NewController(a.client.Session(nil), nil)
			l, cookies, eff := ctrl.Login(cmd.Context(), email, password)
			if eff.Kind != view.Redirect {
				fmt.Fprintln(a.errOut, l.Error)
				return ErrNotOK
			}
			if err := a.jar.Save(cookies); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", l.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or CHAOS_PASSWORD)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The local session is forgotten whatever happens remotely.
			cookies, err := a.jar.Load()
			switch {
			case err == nil:
				view.NewController(a.client.Session(cookies), nil).Logout(cmd.Context())
			case !errors.Is(err, session.ErrNoSession):
				fmt.Fprintln(a.errOut, "Saved session is unreadable; removing it.")
			}
			if err := a.jar.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *app) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			s, eff := ctrl.LoadSettings(cmd.Context())
			if err := a.settle(s.State, eff); err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(s.Profile)
			}
			p := s.Profile
			fmt.Fprintf(a.out, "Email:     %s\nName:      %s\nWorkspace: %s\nRole:      %s\n",
				p.Email, p.Name, p.TenantID, p.Role.Label())
			return nil
		},
	}
}

func (a *app) memoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memories",
		Short: "List and add memories",
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List memories, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			m, eff := ctrl.LoadMemories(cmd.Context())
			if err := a.settle(m.State, eff); err != nil {
				return err
			}
			visible := m.Visible(query)
			if a.jsonOut {
				return a.printJSON(visible)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, mem := range visible {
				fmt.Fprintf(tw, "%s\t%s\t%s\n",
					mem.CreatedAt.Format("2006-01-02 15:04"), mem.Content, strings.Join(mem.Tags, ", "))
			}
			tw.Flush()
			fmt.Fprintf(a.out, "%s stored\n", view.CountLabel(len(m.Memories)))
			return nil
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "case-insensitive filter on content and tags")

	var tags []string
	add := &cobra.Command{
		Use:   "add <content>",
		Short: "Save a new memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := view.Draft{Content: args[0]}
			for _, t := range tags {
				if d = d.AddTag(t); d.Error != "" {
					fmt.Fprintln(a.errOut, d.Error)
					return ErrNotOK
				}
			}
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			d, eff := ctrl.SubmitDraft(cmd.Context(), d)
			if eff.Kind == view.Redirect && eff.Location == view.DashboardPath {
				fmt.Fprintln(a.out, "Memory saved")
				return nil
			}
			return a.settle(d.State, eff)
		},
	}
	add.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag to attach (repeatable, at most 10)")

	cmd.AddCommand(list, add)
	return cmd
}

func (a *app) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Workspace administration",
	}

	load := func(cmd *cobra.Command) (view.Admin, error) {
		ctrl, err := a.controller()
		if err != nil {
			return view.Admin{}, err
		}
		adm, eff := ctrl.LoadAdmin(cmd.Context())
		return adm, a.settle(adm.State, eff)
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show workspace totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adm, err := load(cmd)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(adm.Stats)
			}
			fmt.Fprintf(a.out, "Users:      %d\nWorkspaces: %d\nMemories:   %d\n",
				adm.Stats.TotalUsers, adm.Stats.TotalWorkspaces, adm.Stats.TotalMemories)
			return nil
		},
	}

	users := &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adm, err := load(cmd)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(adm.Users)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tCREATED")
			for _, u := range adm.Users {
				created := ""
				if !u.CreatedAt.IsZero() {
					created = u.CreatedAt.Format("2006-01-02")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role.Label(), created)
			}
			return tw.Flush()
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			adm, eff := ctrl.DeleteUser(cmd.Context(), view.Admin{}, args[0], yes)
			if err := a.settle(adm.State, eff); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}
	del.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	setRole := &cobra.Command{
		Use:   "set-role <user-id> <role>",
		Short: "Change a user's role (member, owner, admin, superadmin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			adm, eff := ctrl.UpdateRole(cmd.Context(), view.Admin{}, args[0], args[1])
			if err := a.settle(adm.State, eff); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %s to %s\n", args[0], strings.ToLower(args[1]))
			return nil
		},
	}

	cmd.AddCommand(stats, users, del, setRole)
	return cmd
}
