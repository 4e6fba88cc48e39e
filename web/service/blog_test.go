package service

import (
	"testing"
	"time"

	"github.com/AlvanCjh/paddock-panel/paddock"

	"github.com/stretchr/testify/assert"
)

func feedPost(id int, title, author string, created time.Time) paddock.BlogPost {
	return paddock.BlogPost{
		Id:         paddock.FlexInt(id),
		Title:      title,
		AuthorName: author,
		CreatedAt:  paddock.Timestamp{Time: created},
	}
}

func TestFilterPosts(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	posts := []paddock.BlogPost{
		feedPost(1, "Silverstone race report", "Lando", base),
		feedPost(2, "Paddock gossip", "Carlos", base),
		feedPost(3, "Tyre strategy deep dive", "lando", base),
	}

	tests := []struct {
		name     string
		query    string
		expected []int
	}{
		{"empty query returns all", "", []int{1, 2, 3}},
		{"matches title case-insensitively", "SILVERSTONE", []int{1}},
		{"matches author case-insensitively", "lando", []int{1, 3}},
		{"trims surrounding whitespace", "  gossip  ", []int{2}},
		{"no match", "monza", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterPosts(posts, tt.query)
			ids := make([]int, 0, len(filtered))
			for _, p := range filtered {
				ids = append(ids, int(p.Id))
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestSortPosts(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	posts := []paddock.BlogPost{
		feedPost(1, "bravo", "A", base.Add(time.Hour)),
		feedPost(2, "Alpha", "B", base.Add(2*time.Hour)),
		feedPost(3, "charlie", "C", base),
	}

	tests := []struct {
		name     string
		order    string
		expected []int
	}{
		{"newest first", SortNewest, []int{2, 1, 3}},
		{"oldest first", SortOldest, []int{3, 1, 2}},
		{"by title ignoring case", SortTitle, []int{2, 1, 3}},
		{"unknown order falls back to newest", "bogus", []int{2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := SortPosts(posts, tt.order)
			ids := make([]int, 0, len(sorted))
			for _, p := range sorted {
				ids = append(ids, int(p.Id))
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestSortPostsDoesNotMutateInput(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	posts := []paddock.BlogPost{
		feedPost(1, "b", "A", base.Add(time.Hour)),
		feedPost(2, "a", "B", base),
	}

	SortPosts(posts, SortOldest)
	assert.EqualValues(t, 1, posts[0].Id)
}

func TestSortPostsIsStable(t *testing.T) {
	shared := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	posts := []paddock.BlogPost{
		feedPost(1, "first", "A", shared),
		feedPost(2, "second", "B", shared),
		feedPost(3, "third", "C", shared),
	}

	sorted := SortPosts(posts, SortNewest)
	ids := []int{int(sorted[0].Id), int(sorted[1].Id), int(sorted[2].Id)}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestStrikeLevel(t *testing.T) {
	tests := []struct {
		strikes  int
		expected string
	}{
		{0, StrikeNeutral},
		{1, StrikeWarning},
		{2, StrikeWarning},
		{3, StrikeCritical},
		{7, StrikeCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StrikeLevel(tt.strikes), "strikes=%d", tt.strikes)
	}
}
