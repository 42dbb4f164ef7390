// Package pagination holds the page/limit/filter/search state shared by
// every list view.
package pagination

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"blogdesk/internal/models"
)

const DefaultLimit = 10

// State is one list view's query. Pages are 1-indexed. Any change that
// alters which items match moves the view back to page 1.
type State struct {
	page       int
	limit      int
	search     string
	filters    map[string]string
	total      int
	totalPages int
	noun       string
}

// New returns a state on page 1. noun names the items in Summary, e.g.
// "blogs".
func New(limit int, noun string) *State {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &State{
		page:       1,
		limit:      limit,
		filters:    make(map[string]string),
		totalPages: 1,
		noun:       noun,
	}
}

func (s *State) Page() int       { return s.page }
func (s *State) Limit() int      { return s.limit }
func (s *State) Search() string  { return s.search }
func (s *State) Total() int      { return s.total }
func (s *State) TotalPages() int { return s.totalPages }

func (s *State) Filter(name string) string {
	return s.filters[name]
}

// SetFilter changes one filter. An empty value clears it.
func (s *State) SetFilter(name, value string) {
	value = strings.TrimSpace(value)
	if s.filters[name] == value {
		return
	}
	if value == "" {
		delete(s.filters, name)
	} else {
		s.filters[name] = value
	}
	s.page = 1
}

func (s *State) SetLimit(limit int) {
	if limit <= 0 || limit == s.limit {
		return
	}
	s.limit = limit
	s.page = 1
}

// SubmitSearch is an explicit user action and always restarts at page 1,
// even when the text is unchanged.
func (s *State) SubmitSearch(query string) {
	s.search = strings.TrimSpace(query)
	s.page = 1
}

// GoTo moves to page p if it is within [1, TotalPages].
func (s *State) GoTo(p int) bool {
	if p < 1 || p > s.totalPages || p == s.page {
		return false
	}
	s.page = p
	return true
}

// Jump sets the page for a first fetch, before the page count is known.
// Update pulls it back if it turns out to be out of range.
func (s *State) Jump(p int) {
	s.page = max(p, 1)
}

func (s *State) Next() bool { return s.GoTo(s.page + 1) }
func (s *State) Prev() bool { return s.GoTo(s.page - 1) }

func (s *State) HasNext() bool { return s.page < s.totalPages }
func (s *State) HasPrev() bool { return s.page > 1 }

// Update records what the backend reported for the current query. A page
// that no longer exists is pulled back to the last one.
func (s *State) Update(total, totalPages int) {
	s.total = max(total, 0)
	s.totalPages = max(totalPages, 1)
	if s.page > s.totalPages {
		s.page = s.totalPages
	}
}

// Apply is Update from a fetched page.
func Apply[T any](s *State, p *models.Page[T]) {
	s.Update(p.Total, p.TotalPages)
}

// Summary is the "Showing n of total" line under a list.
func (s *State) Summary(n int) string {
	if s.noun == "" {
		return fmt.Sprintf("Showing %d of %d", n, s.total)
	}
	return fmt.Sprintf("Showing %d of %d %s", n, s.total, s.noun)
}

// Window lists the page numbers worth showing: the first, the last, and
// the neighbours of the current page. A 0 marks a gap.
func (s *State) Window() []int {
	var pages []int
	prev := 0
	for p := 1; p <= s.totalPages; p++ {
		if p != 1 && p != s.totalPages && abs(p-s.page) > 1 {
			continue
		}
		if prev != 0 && p-prev > 1 {
			pages = append(pages, 0)
		}
		pages = append(pages, p)
		prev = p
	}
	return pages
}

// Indicator renders Window, e.g. "1 … 4 [5] 6 … 10".
func (s *State) Indicator() string {
	parts := make([]string, 0, s.totalPages)
	for _, p := range s.Window() {
		switch p {
		case 0:
			parts = append(parts, "…")
		case s.page:
			parts = append(parts, "["+strconv.Itoa(p)+"]")
		default:
			parts = append(parts, strconv.Itoa(p))
		}
	}
	return strings.Join(parts, " ")
}

// Key identifies the query, useful for logging and caching.
func (s *State) Key() string {
	names := make([]string, 0, len(s.filters))
	for name := range s.filters {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "page=%d&limit=%d", s.page, s.limit)
	if s.search != "" {
		fmt.Fprintf(&b, "&search=%s", s.search)
	}
	for _, name := range names {
		fmt.Fprintf(&b, "&%s=%s", name, s.filters[name])
	}
	return b.String()
}

// BlogParams builds the blog list query from the state.
func (s *State) BlogParams() models.BlogListParams {
	return models.BlogListParams{
		Category:       models.Category(s.Filter("category")),
		Search:         s.search,
		Sort:           s.Filter("sort"),
		Status:         s.Filter("status"),
		IncludeDeleted: s.Filter("includeDeleted") == "true",
		Page:           s.page,
		Limit:          s.limit,
	}
}

func (s *State) UserParams() models.UserListParams {
	return models.UserListParams{
		Search:   s.search,
		Role:     s.Filter("role"),
		IsActive: s.Filter("isActive"),
		Page:     s.page,
		Limit:    s.limit,
	}
}

func (s *State) CommentParams() models.CommentListParams {
	return models.CommentListParams{
		Page:  s.page,
		Limit: s.limit,
		Sort:  s.Filter("sort"),
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
