package paddock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultTimeout = 15 * time.Second

	// maximum bytes of a non-JSON body kept for error reporting
	errBodySnippet = 512
)

// APIError is an application-level failure: the endpoint answered but
// reported status != success. Message carries the backend's reason and is
// safe to surface in the UI (e.g. a blocked update).
type APIError struct {
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Endpoint + ": request rejected"
	}
	return e.Endpoint + ": " + e.Message
}

// Client talks to the external community API. All blog, profile, user and
// moderation state is authoritative on the far side; the client never
// caches responses.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the API rooted at base, e.g.
// "http://localhost/api".
func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimSuffix(base, "/"),
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// UploadURL resolves a post image reference against the uploads base path.
func (c *Client) UploadURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	return c.base + "/user/uploads/" + imagePath
}

// PfpURL resolves a profile picture reference against the pfp base path.
func (c *Client) PfpURL(pfp string) string {
	if pfp == "" {
		return ""
	}
	return c.base + "/user/pfp/" + pfp
}

// GetBlogs fetches the full community feed.
func (c *Client) GetBlogs(ctx context.Context) ([]BlogPost, error) {
	env, err := c.get(ctx, "user/get_blogs.php", nil)
	if err != nil {
		return nil, err
	}
	var posts []BlogPost
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		return nil, fmt.Errorf("get_blogs: decode data: %w", err)
	}
	return posts, nil
}

// GetBlog fetches the feed and picks the post with the given id. The API
// exposes no single-post endpoint, so detail views match against the list.
func (c *Client) GetBlog(ctx context.Context, id int) (*BlogPost, error) {
	posts, err := c.GetBlogs(ctx)
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

// GetMyBlogs fetches the posts authored by the given member.
func (c *Client) GetMyBlogs(ctx context.Context, email string) ([]BlogPost, error) {
	env, err := c.get(ctx, "user/get_my_blogs.php", url.Values{"email": {email}})
	if err != nil {
		return nil, err
	}
	var posts []BlogPost
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		return nil, fmt.Errorf("get_my_blogs: decode data: %w", err)
	}
	return posts, nil
}

// GetProfile fetches a member's own profile record.
func (c *Client) GetProfile(ctx context.Context, email string) (*Profile, error) {
	env, err := c.get(ctx, "user/get_profile.php", url.Values{"email": {email}})
	if err != nil {
		return nil, err
	}
	profile := &Profile{}
	if err := json.Unmarshal(env.Data, profile); err != nil {
		return nil, fmt.Errorf("get_profile: decode data: %w", err)
	}
	return profile, nil
}

// GetUsers fetches the full member registry.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	env, err := c.get(ctx, "admin/get_users.php", nil)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := json.Unmarshal(env.Data, &users); err != nil {
		return nil, fmt.Errorf("get_users: decode data: %w", err)
	}
	return users, nil
}

// FileUpload is an image attached to a multipart submission.
type FileUpload struct {
	Name    string
	Content io.Reader
}

// UploadBlog submits a new post. The image is optional.
func (c *Client) UploadBlog(ctx context.Context, email, title, content string, image *FileUpload) error {
	fields := map[string]string{
		"email":   email,
		"title":   title,
		"content": content,
	}
	_, err := c.postMultipart(ctx, "user/upload_blog.php", fields, image)
	return err
}

// UpdateBlog submits edited title and content for an existing post. The
// backend re-verifies the content and answers with a block message when the
// edit is rejected.
func (c *Client) UpdateBlog(ctx context.Context, id int, title, content, email string) error {
	body := map[string]any{
		"id":      id,
		"title":   title,
		"content": content,
		"email":   email,
	}
	_, err := c.postJSON(ctx, "user/update_blog.php", body)
	return err
}

// UploadPfp submits a new profile picture and returns the stored image
// reference.
func (c *Client) UploadPfp(ctx context.Context, email string, image *FileUpload) (string, error) {
	env, err := c.postMultipart(ctx, "user/upload_pfp.php", map[string]string{"email": email}, image)
	if err != nil {
		return "", err
	}
	return env.ImagePath, nil
}

// CheckContent runs an AI moderation scan over the given text. Unlike the
// other endpoints the response is the bare report, no envelope.
func (c *Client) CheckContent(ctx context.Context, text string, blogID int) (*ModerationReport, error) {
	payload, err := json.Marshal(map[string]any{"text": text, "blog_id": blogID})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, "admin/check_content.php", bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}
	report := &ModerationReport{}
	if err := json.Unmarshal(resp, report); err != nil {
		return nil, fmt.Errorf("check_content: decode report: %w", err)
	}
	return report, nil
}

// IssueStrike issues one penalty point to the given member.
func (c *Client) IssueStrike(ctx context.Context, userID int) error {
	_, err := c.postJSON(ctx, "admin/issue_strike.php", map[string]any{"id": userID})
	return err
}

// DeleteBlog permanently removes a post.
func (c *Client) DeleteBlog(ctx context.Context, blogID int) error {
	_, err := c.postJSON(ctx, "admin/delete_blog.php", map[string]any{"id": blogID})
	return err
}

// Login authenticates a member against the external API and returns the
// session identity to store.
func (c *Client) Login(ctx context.Context, email, password string) (*Member, error) {
	env, err := c.postJSON(ctx, "user/login.php", map[string]any{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	data := &loginData{}
	if err := json.Unmarshal(env.Data, data); err != nil {
		return nil, fmt.Errorf("login: decode data: %w", err)
	}
	return &Member{
		Email:  email,
		Name:   data.Name,
		Role:   data.Role,
		Avatar: data.ProfilePic,
	}, nil
}

// Signup registers a new member.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	body := map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}
	_, err := c.postJSON(ctx, "user/signup.php", body)
	return err
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*clientEnvelope, error) {
	endpoint := path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	body, err := c.do(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return nil, err
	}
	return c.decodeEnvelope(path, body)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*clientEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(raw), "application/json")
	if err != nil {
		return nil, err
	}
	return c.decodeEnvelope(path, body)
}

func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, image *FileUpload) (*clientEnvelope, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", image.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, path, buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return c.decodeEnvelope(path, body)
}

// do performs one request and returns the raw body. Transport failures and
// non-2xx or non-JSON answers come back as errors; there is no retry.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	buffer := &bytes.Buffer{}
	if _, err := buffer.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("%s: read body: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: server returned %d: %s", path, resp.StatusCode, snippet(buffer.Bytes()))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		return nil, fmt.Errorf("%s: non-JSON answer (%s): %s", path, ct, snippet(buffer.Bytes()))
	}
	return buffer.Bytes(), nil
}

// clientEnvelope extends the shared envelope with the one field only
// upload_pfp sets at the top level.
type clientEnvelope struct {
	envelope
	ImagePath string `json:"image_path"`
}

func (c *Client) decodeEnvelope(path string, body []byte) (*clientEnvelope, error) {
	env := &clientEnvelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	if env.Status != "success" {
		return nil, &APIError{Endpoint: path, Message: env.Message}
	}
	return env, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > errBodySnippet {
		s = s[:errBodySnippet] + "..."
	}
	return s
}
