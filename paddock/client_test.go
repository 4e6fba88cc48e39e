package paddock

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestGetBlogsDecodesPHPShapes(t *testing.T) {
	// ids and strikes arrive as strings, last_scan_at may be null
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/get_blogs.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":[
			{"id":"7","title":"Silver Arrows","content":"body","author_id":"3",
			 "author_name":"lewis","author_pfp":null,"image_path":"race.jpg",
			 "created_at":"2024-03-10 14:00:00","updated_at":"2024-03-10 15:00:00",
			 "last_scan_at":null}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	posts, err := client.GetBlogs(context.Background())
	if err != nil {
		t.Fatalf("GetBlogs() error: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("GetBlogs() returned %d posts, expected 1", len(posts))
	}

	post := posts[0]
	if int(post.Id) != 7 || int(post.AuthorId) != 3 {
		t.Errorf("ids = %d/%d, expected 7/3", post.Id, post.AuthorId)
	}
	if !post.LastScanAt.IsZero() {
		t.Errorf("LastScanAt = %v, expected zero", post.LastScanAt)
	}
	if !post.Edited() {
		t.Error("Edited() = false, expected true")
	}
	wantUpdated := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	if !post.UpdatedAt.Equal(wantUpdated) {
		t.Errorf("UpdatedAt = %v, expected %v", post.UpdatedAt.Time, wantUpdated)
	}
	if !NeedsScan(post.UpdatedAt.Time, post.LastScanAt.Time) {
		t.Error("never-scanned post should need a scan")
	}
}

func TestCheckContentBareReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text   string `json:"text"`
			BlogId int    `json:"blog_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.BlogId != 7 || payload.Text != "Silver Arrows body" {
			t.Errorf("payload = %+v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"flagged":true,"category":"harassment","targets":"driver",
			"evidence":"quoted text","reason":"targets a person"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	report, err := client.CheckContent(context.Background(), "Silver Arrows body", 7)
	if err != nil {
		t.Fatalf("CheckContent() error: %v", err)
	}
	if !report.Flagged || report.Category != "harassment" {
		t.Errorf("report = %+v", report)
	}
}

func TestAPIFailureCarriesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","message":"Content blocked by moderation"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.UpdateBlog(context.Background(), 7, "t", "c", "lewis@example.com")
	if err == nil {
		t.Fatal("UpdateBlog() succeeded, expected rejection")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T, expected *APIError", err)
	}
	if apiErr.Message != "Content blocked by moderation" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestNonJSONAnswerIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<b>Fatal error</b> in get_users.php on line 12"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetUsers(context.Background())
	if err == nil {
		t.Fatal("GetUsers() succeeded on an HTML answer, expected error")
	}
	if !strings.Contains(err.Error(), "Fatal error") {
		t.Errorf("error %q should carry the body snippet", err)
	}
}

func TestUploadPfpMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("email"); got != "lewis@example.com" {
			t.Errorf("email = %q", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "avatar.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","image_path":"u3_avatar.png"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	path, err := client.UploadPfp(context.Background(), "lewis@example.com", &FileUpload{
		Name:    "avatar.png",
		Content: strings.NewReader("not-really-a-png"),
	})
	if err != nil {
		t.Fatalf("UploadPfp() error: %v", err)
	}
	if path != "u3_avatar.png" {
		t.Errorf("image path = %q, expected u3_avatar.png", path)
	}
}

func TestGetBlogMatchesRouteId(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":[
			{"id":1,"title":"one","content":"","author_id":1,"author_name":"a",
			 "created_at":"2024-01-01 00:00:00","updated_at":"2024-01-01 00:00:00"},
			{"id":2,"title":"two","content":"","author_id":1,"author_name":"a",
			 "created_at":"2024-01-02 00:00:00","updated_at":"2024-01-02 00:00:00"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	post, err := client.GetBlog(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetBlog() error: %v", err)
	}
	if post == nil || post.Title != "two" {
		t.Errorf("post = %+v, expected title two", post)
	}

	missing, err := client.GetBlog(context.Background(), 99)
	if err != nil {
		t.Fatalf("GetBlog(99) error: %v", err)
	}
	if missing != nil {
		t.Errorf("GetBlog(99) = %+v, expected nil", missing)
	}
}
