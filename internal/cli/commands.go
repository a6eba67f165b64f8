package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clegacy/internal/model"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.Env(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := env.App.Statistics.Compute(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "compute statistics", err)
			}
			out := formatter(opts, cmd)
			if out.JSON() {
				return out.WriteJSON(stats)
			}
			return out.Pairs([][2]string{
				{"Users", strconv.Itoa(stats.TotalUsers)},
				{"Volunteers", strconv.Itoa(stats.TotalVolunteers)},
				{"Admins", strconv.Itoa(stats.TotalAdmins)},
				{"Projects", fmt.Sprintf("%d (%d active, %d completed, %d paused)", stats.TotalProjects, stats.ActiveProjects, stats.CompletedProjects, stats.PausedProjects)},
				{"Beneficiaries", strconv.Itoa(stats.TotalBeneficiaries)},
				{"Funding", fmt.Sprintf("%s / %s (%s%%)", stats.TotalRaised.StringFixed(2), stats.TotalFundingGoal.StringFixed(2), stats.FundingPercentage.StringFixed(1))},
				{"Volunteer hours", strconv.Itoa(stats.TotalVolunteerHours)},
				{"Accesses", fmt.Sprintf("%d (%d today)", stats.TotalAccesses, stats.AccessesToday)},
			})
		},
	}
}

// NewUsersCommand creates the users command group.
func NewUsersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect user records",
	}

	var role string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users without their password hashes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.Env(cmd.Context())
			if err != nil {
				return err
			}
			users, err := env.App.Users.ListUsers(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "list users", err)
			}
			filtered := make([]model.User, 0, len(users))
			for _, u := range model.SanitizeUsers(users) {
				if role == "" || string(u.Role) == role {
					filtered = append(filtered, u)
				}
			}

			out := formatter(opts, cmd)
			if out.JSON() {
				return out.WriteJSON(filtered)
			}
			rows := make([][]string, 0, len(filtered))
			for _, u := range filtered {
				rows = append(rows, []string{strconv.Itoa(u.ID), u.Name, u.Email, string(u.Role), strconv.FormatBool(u.Active), strconv.Itoa(u.VolunteerHours)})
			}
			return out.Table([]string{"ID", "NAME", "EMAIL", "ROLE", "ACTIVE", "HOURS"}, rows)
		},
	}
	list.Flags().StringVar(&role, "role", "", "only users with this role (admin|volunteer)")
	cmd.AddCommand(list)

	return cmd
}

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Inspect projects",
	}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects with their funding progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.Env(cmd.Context())
			if err != nil {
				return err
			}
			projects, err := env.App.Projects.ListProjects(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "list projects", err)
			}
			filtered := make([]model.Project, 0, len(projects))
			for _, p := range projects {
				if status == "" || string(p.Status) == status {
					filtered = append(filtered, p)
				}
			}

			out := formatter(opts, cmd)
			if out.JSON() {
				return out.WriteJSON(filtered)
			}
			rows := make([][]string, 0, len(filtered))
			for _, p := range filtered {
				rows = append(rows, []string{
					strconv.Itoa(p.ID), p.Title, string(p.Status),
					strconv.Itoa(p.VolunteerCount), strconv.Itoa(p.BeneficiaryCount),
					p.FundingPercentage().StringFixed(1) + "%",
				})
			}
			return out.Table([]string{"ID", "TITLE", "STATUS", "VOLUNTEERS", "BENEFICIARIES", "FUNDED"}, rows)
		},
	}
	list.Flags().StringVar(&status, "status", "", "only projects in this status (active|completed|paused)")
	cmd.AddCommand(list)

	return cmd
}

// NewAccessCommand creates the access-log command group.
func NewAccessCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Inspect the access log",
	}

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "Show the newest access log entries first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return NewExitError(ExitCommandError, "limit must not be negative")
			}
			env, err := opts.Env(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := env.App.AccessLog.Recent(cmd.Context(), limit)
			if err != nil {
				return WrapExitError(ExitCommandError, "read access log", err)
			}

			out := formatter(opts, cmd)
			if out.JSON() {
				return out.WriteJSON(entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Timestamp, e.UserName, string(e.Role), e.Action, e.ClientInfo.IP})
			}
			return out.Table([]string{"TIME", "USER", "ROLE", "ACTION", "IP"}, rows)
		},
	}
	recent.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries")
	cmd.AddCommand(recent)

	return cmd
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the demonstration users and projects into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.Env(cmd.Context())
			if err != nil {
				return err
			}
			res, err := env.App.Seed(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "seed", err)
			}
			out := formatter(opts, cmd)
			if out.JSON() {
				return out.WriteJSON(res)
			}
			return out.Pairs([][2]string{
				{"Users seeded", strconv.FormatBool(res.UsersSeeded)},
				{"Projects", strconv.Itoa(res.Projects)},
			})
		},
	}
}
