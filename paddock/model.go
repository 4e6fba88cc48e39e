// Package paddock is the data-access layer for the external community API.
// It exposes typed request functions for every endpoint the panel consumes
// and the scan-staleness policy used by the moderation views.
package paddock

import (
	"bytes"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const timeLayout = "2006-01-02 15:04:05"

// Timestamp decodes the API's MySQL-style datetime strings. A null or empty
// value unmarshals to the zero time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(timeLayout, s)
	if err != nil {
		// some endpoints emit RFC 3339
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(timeLayout) + `"`), nil
}

// FlexInt decodes integers the PHP backend serializes either as numbers or
// as numeric strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

// BlogPost is a community post as the API reports it. updated_at is always
// at or after created_at; last_scan_at is zero until moderation first runs.
type BlogPost struct {
	Id         FlexInt   `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorId   FlexInt   `json:"author_id"`
	AuthorName string    `json:"author_name"`
	AuthorPfp  string    `json:"author_pfp"`
	ImagePath  string    `json:"image_path"`
	CreatedAt  Timestamp `json:"created_at"`
	UpdatedAt  Timestamp `json:"updated_at"`
	LastScanAt Timestamp `json:"last_scan_at"`
}

// Edited reports whether the post changed after it was first published.
func (p BlogPost) Edited() bool {
	return !p.UpdatedAt.Equal(p.CreatedAt.Time)
}

// ScanText is the text sent to the moderation scan: title and content
// concatenated, matching what the scan endpoint expects.
func (p BlogPost) ScanText() string {
	return p.Title + " " + p.Content
}

// User is a registered community member as the admin registry reports it.
type User struct {
	Id        FlexInt   `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Strikes   FlexInt   `json:"strikes"`
	CreatedAt Timestamp `json:"created_at"`
}

// Profile is the signed-in member's own profile record.
type Profile struct {
	Name       string  `json:"name"`
	Strikes    FlexInt `json:"strikes"`
	ProfilePic string  `json:"profile_pic"`
}

// ModerationReport is the verdict of one AI content scan. It is keyed by
// post id in the panel and overwritten by the next scan of the same post.
type ModerationReport struct {
	Flagged  bool   `json:"flagged"`
	Category string `json:"category"`
	Targets  string `json:"targets"`
	Evidence string `json:"evidence"`
	Reason   string `json:"reason"`
}

// Member is the session identity: set at login, cleared at logout, read by
// every view. All four fields are written in one session save so a view can
// never observe a partially updated identity.
type Member struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// IsAdmin reports whether the member carries the admin role.
func (m *Member) IsAdmin() bool {
	return m.Role == "admin"
}

// envelope is the status/message/data wrapper every endpoint except
// check_content responds with.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// loginData is the payload of a successful login response.
type loginData struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	ProfilePic string `json:"profile_pic"`
}
