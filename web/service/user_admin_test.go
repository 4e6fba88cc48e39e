package service

import (
	"testing"

	"github.com/AlvanCjh/paddock-panel/paddock"

	"github.com/stretchr/testify/assert"
)

func registryUser(id int, username string) paddock.User {
	return paddock.User{
		Id:       paddock.FlexInt(id),
		Username: username,
		Email:    username + "@test",
	}
}

func TestFilterUsers(t *testing.T) {
	users := []paddock.User{
		registryUser(1, "Lewis44"),
		registryUser(2, "maxv"),
		registryUser(3, "lando"),
	}

	tests := []struct {
		name     string
		query    string
		expected []int
	}{
		{"empty query returns all", "", []int{1, 2, 3}},
		{"matches substring case-insensitively", "LEW", []int{1}},
		{"matches across members", "l", []int{1, 3}},
		{"trims surrounding whitespace", "  maxv  ", []int{2}},
		{"no match", "seb", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterUsers(users, tt.query)
			ids := make([]int, 0, len(filtered))
			for _, u := range filtered {
				ids = append(ids, int(u.Id))
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}
