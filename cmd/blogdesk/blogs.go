package main

import (
	"github.com/spf13/cobra"

	handlers "blogdesk/internal/handler"
)

var (
	listOpts      = map[*cobra.Command]*handlers.ListOptions{}
	trendingLimit int
	commentPage   int
	blogInput     handlers.BlogInput
)

var blogsCmd = &cobra.Command{
	Use:     "blogs",
	Aliases: []string{"blog"},
	Short:   "Read and write blogs",
}

func listFlags(cmd *cobra.Command, withStatus, withDeleted bool) {
	opts := &handlers.ListOptions{}
	listOpts[cmd] = opts
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "blogs per page")
	cmd.Flags().StringVar(&opts.Category, "category", "", "only this category")
	cmd.Flags().StringVar(&opts.Search, "search", "", "search text")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort order, e.g. -createdAt")
	if withStatus {
		cmd.Flags().StringVar(&opts.Status, "status", "all", "all, pending, published or rejected")
	}
	if withDeleted {
		cmd.Flags().BoolVar(&opts.IncludeDeleted, "include-deleted", false, "include soft-deleted blogs")
	}
}

func draftFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&blogInput.Title, "title", "", "title")
	cmd.Flags().StringVar(&blogInput.Content, "content", "", "HTML content")
	cmd.Flags().StringVar(&blogInput.ContentFile, "content-file", "", "read HTML content from a file")
	cmd.Flags().StringVar(&blogInput.Excerpt, "excerpt", "", "short summary")
	cmd.Flags().StringVar(&blogInput.Category, "category", "", "category")
	cmd.Flags().StringVar(&blogInput.Tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&blogInput.CoverImage, "cover", "", "cover image URL")
	cmd.Flags().StringVar(&blogInput.CoverPath, "cover-file", "", "upload this image as the cover")
}

var blogsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List published blogs",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.ListBlogs(cmd.Context(), *listOpts[cmd])
	},
}

var blogsBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through published blogs interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.Browse(cmd.Context(), *listOpts[cmd])
	},
}

var blogsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own blogs in every status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.MyBlogs(cmd.Context(), *listOpts[cmd])
	},
}

var blogsTrendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show trending blogs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.Trending(cmd.Context(), trendingLimit)
	},
}

var blogsShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Read a blog with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.ShowBlog(cmd.Context(), args[0], commentPage)
	},
}

var blogsStatsCmd = &cobra.Command{
	Use:   "stats <slug>",
	Short: "Show views, likes and comments of a blog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.BlogStats(cmd.Context(), args[0])
	},
}

var blogsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a blog and submit it for review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.CreateBlog(cmd.Context(), blogInput)
	},
}

var blogsEditCmd = &cobra.Command{
	Use:   "edit <slug>",
	Short: "Change one of your blogs; it goes back to review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.EditBlog(cmd.Context(), args[0], blogInput)
	},
}

var blogsDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete one of your blogs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.DeleteBlog(cmd.Context(), args[0])
	},
}

var blogsLikeCmd = &cobra.Command{
	Use:   "like <slug>",
	Short: "Like or unlike a blog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.LikeBlog(cmd.Context(), args[0])
	},
}

func init() {
	listFlags(blogsListCmd, false, false)
	listFlags(blogsBrowseCmd, false, false)
	listFlags(blogsMineCmd, true, false)
	blogsTrendingCmd.Flags().IntVar(&trendingLimit, "limit", 5, "number of blogs")
	blogsShowCmd.Flags().IntVar(&commentPage, "comments-page", 1, "page of comments to show")
	draftFlags(blogsCreateCmd)
	draftFlags(blogsEditCmd)

	blogsCmd.AddCommand(
		blogsListCmd,
		blogsBrowseCmd,
		blogsMineCmd,
		blogsTrendingCmd,
		blogsShowCmd,
		blogsStatsCmd,
		blogsCreateCmd,
		blogsEditCmd,
		blogsDeleteCmd,
		blogsLikeCmd,
	)
	RootCmd.AddCommand(blogsCmd)
}
