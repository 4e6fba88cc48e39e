package service

import (
	"context"
	"sort"
	"strings"

	"github.com/AlvanCjh/paddock-panel/caching"
	"github.com/AlvanCjh/paddock-panel/logger"
	"github.com/AlvanCjh/paddock-panel/paddock"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort orders accepted by the feed views. Unknown values fall back to
// SortNewest.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
)

var titleCollator = collate.New(language.English, collate.IgnoreCase)

// BlogService serves the community feed. Reads go through a short TTL cache
// so one page render does not trigger several identical upstream fetches;
// every mutation invalidates the affected keys before returning.
type BlogService struct{}

// GetFeed returns the full community feed, newest first by default.
func (s *BlogService) GetFeed(ctx context.Context) ([]paddock.BlogPost, error) {
	if cached, ok := Memory().Get(caching.KeyFeed); ok {
		if posts, ok := cached.([]paddock.BlogPost); ok {
			return posts, nil
		}
	}

	posts, err := API().GetBlogs(ctx)
	if err != nil {
		return nil, err
	}
	Memory().Set(caching.KeyFeed, posts, caching.TTLFeed)
	return posts, nil
}

// GetPost returns one post by id, or nil when it no longer exists.
func (s *BlogService) GetPost(ctx context.Context, id int) (*paddock.BlogPost, error) {
	posts, err := s.GetFeed(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if int(posts[i].Id) == id {
			return &posts[i], nil
		}
	}
	return nil, nil
}

// GetMyBlogs returns the posts authored by the given member.
func (s *BlogService) GetMyBlogs(ctx context.Context, email string) ([]paddock.BlogPost, error) {
	key := caching.KeyMyBlogsPrefix + email
	if cached, ok := Memory().Get(key); ok {
		if posts, ok := cached.([]paddock.BlogPost); ok {
			return posts, nil
		}
	}

	posts, err := API().GetMyBlogs(ctx, email)
	if err != nil {
		return nil, err
	}
	Memory().Set(key, posts, caching.TTLFeed)
	return posts, nil
}

// Create publishes a new post and drops the cached feeds it changes.
func (s *BlogService) Create(ctx context.Context, email, title, content string, image *paddock.FileUpload) error {
	if err := API().UploadBlog(ctx, email, title, content, image); err != nil {
		return err
	}
	s.invalidate(email)
	return nil
}

// Update submits an edit. A moderation block from the backend comes back as
// a *paddock.APIError; the caches are only dropped when the write landed.
func (s *BlogService) Update(ctx context.Context, id int, title, content, email string) error {
	if err := API().UpdateBlog(ctx, id, title, content, email); err != nil {
		return err
	}
	s.invalidate(email)
	return nil
}

func (s *BlogService) invalidate(email string) {
	Memory().Delete(caching.KeyFeed)
	if email != "" {
		Memory().Delete(caching.KeyMyBlogsPrefix + email)
	}
	logger.Debug("blog cache invalidated for", email)
}

// FilterPosts keeps the posts whose title or author name contains the query,
// case-insensitively. An empty query returns the input unchanged.
func FilterPosts(posts []paddock.BlogPost, query string) []paddock.BlogPost {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return posts
	}
	filtered := make([]paddock.BlogPost, 0, len(posts))
	for _, post := range posts {
		if strings.Contains(strings.ToLower(post.Title), query) ||
			strings.Contains(strings.ToLower(post.AuthorName), query) {
			filtered = append(filtered, post)
		}
	}
	return filtered
}

// SortPosts orders a copy of the feed without mutating the cached slice.
// The sort is stable so posts sharing a timestamp keep their upstream order.
func SortPosts(posts []paddock.BlogPost, order string) []paddock.BlogPost {
	sorted := make([]paddock.BlogPost, len(posts))
	copy(sorted, posts)

	switch order {
	case SortOldest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt.Time)
		})
	case SortTitle:
		sort.SliceStable(sorted, func(i, j int) bool {
			return titleCollator.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt.Time)
		})
	}
	return sorted
}
