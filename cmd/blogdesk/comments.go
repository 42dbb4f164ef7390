package main

import (
	"github.com/spf13/cobra"
)

var (
	commentsPage  int
	commentsLimit int
	commentText   string
)

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Read and write comments",
}

var commentsListCmd = &cobra.Command{
	Use:   "list <slug>",
	Short: "List the comments on a blog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.ListComments(cmd.Context(), args[0], commentsPage, commentsLimit)
	},
}

var commentsAddCmd = &cobra.Command{
	Use:   "add <slug> [text]",
	Short: "Comment on a blog",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.AddComment(cmd.Context(), args[0], argOr(args, 1, commentText))
	},
}

var commentsEditCmd = &cobra.Command{
	Use:   "edit <slug> <comment-id> [text]",
	Short: "Change one of your comments",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.EditComment(cmd.Context(), args[0], args[1], argOr(args, 2, commentText))
	},
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete <slug> <comment-id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.DeleteComment(cmd.Context(), args[0], args[1])
	},
}

var commentsLikeCmd = &cobra.Command{
	Use:   "like <slug> <comment-id>",
	Short: "Like or unlike a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.LikeComment(cmd.Context(), args[0], args[1])
	},
}

func argOr(args []string, i int, fallback string) string {
	if i < len(args) {
		return args[i]
	}
	return fallback
}

func init() {
	commentsListCmd.Flags().IntVar(&commentsPage, "page", 1, "page number")
	commentsListCmd.Flags().IntVar(&commentsLimit, "limit", 0, "comments per page")
	commentsAddCmd.Flags().StringVar(&commentText, "text", "", "comment text, prompted when omitted")
	commentsEditCmd.Flags().StringVar(&commentText, "text", "", "new text, prompted when omitted")

	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsEditCmd, commentsDeleteCmd, commentsLikeCmd)
	RootCmd.AddCommand(commentsCmd)
}
