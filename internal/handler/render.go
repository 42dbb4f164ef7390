package handlers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"blogdesk/internal/content"
	"blogdesk/internal/models"
	"blogdesk/internal/moderation"
	"blogdesk/internal/pagination"
)

const (
	titleWidth   = 48
	excerptWidth = 160
)

var (
	headingColor = color.New(color.Bold)
	adminColor   = color.New(color.FgMagenta, color.Bold)
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}

func statusLabel(s models.Status) string {
	switch s {
	case models.StatusPublished:
		return color.GreenString(string(s))
	case models.StatusPending:
		return color.YellowString(string(s))
	case models.StatusRejected:
		return color.RedString(string(s))
	default:
		return string(s)
	}
}

func roleLabel(r models.Role) string {
	if r == models.RoleAdmin {
		return adminColor.Sprint(string(r))
	}
	return string(r)
}

func ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

func authorName(u *models.User) string {
	if u == nil {
		return "Unknown"
	}
	return u.DisplayName()
}

// blogTable lists blogs. withStatus adds the moderation columns.
func blogTable(w io.Writer, blogs []models.Blog, withStatus bool) {
	header := []string{"Slug", "Title", "Category", "Author", "Likes", "Comments", "Created"}
	if withStatus {
		header = append(header, "Status")
	}

	table := newTable(w, header...)
	for _, b := range blogs {
		title := truncate(b.Title, titleWidth)
		if b.IsDeleted {
			title = mutedColor.Sprint(title + " (deleted)")
		}
		row := []string{
			b.Slug,
			title,
			string(b.Category),
			authorName(b.Author),
			count(b.LikesCount),
			count(b.CommentsCount),
			ago(b.CreatedAt),
		}
		if withStatus {
			row = append(row, statusLabel(b.Status))
		}
		table.Append(row)
	}
	table.Render()
}

func commentTable(w io.Writer, comments []models.Comment, viewer *models.User) {
	table := newTable(w, "ID", "Author", "Comment", "Likes", "Posted")
	for _, c := range comments {
		text := truncate(c.Content, excerptWidth)
		if c.IsEdited {
			text += mutedColor.Sprint(" (edited)")
		}
		likes := count(c.LikesCount)
		if viewer != nil && c.LikedBy(viewer.ID) {
			likes = color.RedString("♥ ") + likes
		}
		table.Append([]string{c.ID, authorName(c.Author), text, likes, ago(c.CreatedAt)})
	}
	table.Render()
}

func userTable(w io.Writer, users []models.User) {
	table := newTable(w, "ID", "Username", "Name", "Email", "Role", "Active", "Joined")
	for _, u := range users {
		active := color.GreenString("yes")
		if !u.IsActive {
			active = color.RedString("no")
		}
		table.Append([]string{u.ID, u.Username, u.FullName, u.Email, roleLabel(u.Role), active, ago(u.CreatedAt)})
	}
	table.Render()
}

// footer prints the "Showing n of total" line and the page indicator.
func footer(w io.Writer, state *pagination.State, n int) {
	fmt.Fprintln(w, mutedColor.Sprint(state.Summary(n)))
	if state.TotalPages() > 1 {
		fmt.Fprintf(w, "Page %s\n", state.Indicator())
	}
}

func profile(w io.Writer, u *models.User) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.AppendBulk([][]string{
		{"Username", u.Username},
		{"Name", u.FullName},
		{"Email", u.Email},
		{"Role", roleLabel(u.Role)},
		{"Bio", u.Bio},
		{"Image", u.ProfileImage},
		{"Joined", ago(u.CreatedAt)},
	})
	table.Render()
}

// blogDetail prints a single blog. The rejection reason is only shown to
// the author and to admins.
func blogDetail(w io.Writer, b *models.Blog, viewer *models.User) {
	fmt.Fprintln(w, headingColor.Sprint(b.Title))

	published := ago(b.CreatedAt)
	if b.PublishedAt != nil {
		published = ago(*b.PublishedAt)
	}
	fmt.Fprintf(w, "by %s · %s · %s · %d min read\n",
		authorName(b.Author), b.Category, published, content.ReadingTime(b.Content))

	if b.Status != models.StatusPublished || b.IsDeleted {
		line := "Status: " + statusLabel(b.Status)
		if b.IsDeleted {
			line += mutedColor.Sprint(" (deleted)")
		}
		fmt.Fprintln(w, line)
	}
	if b.Status == models.StatusRejected && b.RejectionReason != "" && (b.IsAuthoredBy(viewer) || viewer.IsAdmin()) {
		fmt.Fprintf(w, "%s %s\n", errorColor.Sprint("Rejected:"), b.RejectionReason)
	}
	if len(b.Tags) > 0 {
		fmt.Fprintln(w, mutedColor.Sprint("#"+strings.Join(b.Tags, " #")))
	}
	if b.CoverImage != "" {
		fmt.Fprintf(w, "Cover: %s\n", b.CoverImage)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.TrimSpace(content.PlainText(b.Content)))
	fmt.Fprintln(w)

	likes := count(b.LikesCount)
	if viewer != nil && b.LikedBy(viewer.ID) {
		likes = color.RedString("♥ ") + likes
	}
	fmt.Fprintf(w, "%s views · %s likes · %s comments\n", count(b.Views), likes, count(b.CommentsCount))
}

func actionLine(w io.Writer, actions []moderation.Action) {
	if len(actions) == 0 {
		return
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	fmt.Fprintf(w, "%s %s\n", mutedColor.Sprint("Actions:"), strings.Join(names, ", "))
}

func likeLine(liked bool, n int) string {
	if liked {
		return color.RedString("♥") + " Liked (" + strconv.Itoa(n) + ")"
	}
	return "♡ Unliked (" + strconv.Itoa(n) + ")"
}
