package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"blogdesk/internal/pagination"
)

const browseHelp = "n next · p prev · <n> page · /text search · c <category> · l <limit> · o <slug> open · q quit"

// Browse pages through published blogs until the user quits.
func (h *Handlers) Browse(ctx context.Context, opts ListOptions) error {
	opts.Status = ""
	opts.IncludeDeleted = false
	state, err := h.listState(opts, "blogs")
	if err != nil {
		return err
	}

	fetch := true
	for {
		if fetch {
			h.Logger.Debug("browsing blogs", slog.String("query", state.Key()))
			if err := h.showBlogs(ctx, state, h.BlogService.List, false); err != nil {
				return err
			}
		}

		line, err := h.Prompt.Input(browseHelp, "")
		if errors.Is(err, ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		var quit bool
		quit, fetch, err = h.browseStep(ctx, state, strings.TrimSpace(line))
		if err != nil {
			h.Report(err)
		}
		if quit {
			return nil
		}
	}
}

// browseStep applies one command to state and reports whether the list
// needs fetching again.
func (h *Handlers) browseStep(ctx context.Context, state *pagination.State, line string) (quit, fetch bool, err error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch {
	case line == "":
		return false, false, nil
	case cmd == "q" || cmd == "quit":
		return true, false, nil
	case cmd == "n":
		if !state.Next() {
			fmt.Fprintln(h.Out, mutedColor.Sprint("Already on the last page."))
			return false, false, nil
		}
		return false, true, nil
	case cmd == "p":
		if !state.Prev() {
			fmt.Fprintln(h.Out, mutedColor.Sprint("Already on the first page."))
			return false, false, nil
		}
		return false, true, nil
	case strings.HasPrefix(line, "/"):
		state.SubmitSearch(strings.TrimPrefix(line, "/"))
		return false, true, nil
	case cmd == "c":
		category, err := categoryFilter(arg)
		if err != nil {
			return false, false, err
		}
		state.SetFilter("category", category)
		return false, true, nil
	case cmd == "l":
		limit, err := strconv.Atoi(arg)
		if err != nil || limit <= 0 {
			return false, false, fmt.Errorf("invalid page size %q", arg)
		}
		state.SetLimit(limit)
		return false, true, nil
	case cmd == "o":
		if arg == "" {
			return false, false, fmt.Errorf("usage: o <slug>")
		}
		return false, false, h.ShowBlog(ctx, arg, 1)
	}

	if p, err := strconv.Atoi(cmd); err == nil {
		if !state.GoTo(p) {
			fmt.Fprintf(h.Out, "There is no page %d.\n", p)
			return false, false, nil
		}
		return false, true, nil
	}
	return false, false, fmt.Errorf("unknown command %q", line)
}
