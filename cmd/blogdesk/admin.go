package main

import (
	"github.com/spf13/cobra"

	handlers "blogdesk/internal/handler"
)

var (
	rejectReason string
	userOpts     handlers.UserOptions
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Moderate blogs and manage users (admins only)",
}

var adminDashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"stats"},
	Short:   "Show site statistics",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.Dashboard(cmd.Context())
	},
}

var adminPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List blogs waiting for review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.PendingBlogs(cmd.Context(), *listOpts[cmd])
	},
}

var adminBlogsCmd = &cobra.Command{
	Use:   "blogs",
	Short: "List every blog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.AdminBlogs(cmd.Context(), *listOpts[cmd])
	},
}

var adminApproveCmd = &cobra.Command{
	Use:   "approve <slug>",
	Short: "Publish a pending blog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.Approve(cmd.Context(), args[0])
	},
}

var adminRejectCmd = &cobra.Command{
	Use:   "reject <slug>",
	Short: "Reject a pending blog with a reason",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.Reject(cmd.Context(), args[0], rejectReason)
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Permanently delete a blog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.HardDelete(cmd.Context(), args[0])
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.Users(cmd.Context(), userOpts)
	},
}

var adminRoleCmd = &cobra.Command{
	Use:   "role <user-id> <user|admin>",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.SetRole(cmd.Context(), args[0], args[1])
	},
}

var adminToggleCmd = &cobra.Command{
	Use:   "toggle-active <user-id>",
	Short: "Activate or deactivate a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.ToggleActive(cmd.Context(), args[0])
	},
}

var adminCommentCmd = &cobra.Command{
	Use:   "delete-comment <comment-id>",
	Short: "Delete any comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.RemoveComment(cmd.Context(), args[0])
	},
}

func init() {
	listFlags(adminPendingCmd, false, false)
	listFlags(adminBlogsCmd, true, true)
	adminRejectCmd.Flags().StringVar(&rejectReason, "reason", "", "why the blog is rejected, prompted when omitted")

	adminUsersCmd.Flags().IntVar(&userOpts.Page, "page", 1, "page number")
	adminUsersCmd.Flags().IntVar(&userOpts.Limit, "limit", 0, "users per page")
	adminUsersCmd.Flags().StringVar(&userOpts.Search, "search", "", "search by name, username or email")
	adminUsersCmd.Flags().StringVar(&userOpts.Role, "role", "all", "all, user or admin")
	adminUsersCmd.Flags().StringVar(&userOpts.Active, "active", "all", "all, true or false")

	adminCmd.AddCommand(
		adminDashboardCmd,
		adminPendingCmd,
		adminBlogsCmd,
		adminApproveCmd,
		adminRejectCmd,
		adminDeleteCmd,
		adminUsersCmd,
		adminRoleCmd,
		adminToggleCmd,
		adminCommentCmd,
	)
	RootCmd.AddCommand(adminCmd)
}
