package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/AlvanCjh/paddock-panel/caching"
	"github.com/AlvanCjh/paddock-panel/database"
	"github.com/AlvanCjh/paddock-panel/database/model"
	"github.com/AlvanCjh/paddock-panel/paddock"

	"github.com/stretchr/testify/assert"
)

func setup() {
	dbPath := "test.db"
	os.Remove(dbPath)
	database.InitDB(dbPath)
	Memory().Flush()
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

func testPost(id int) *paddock.BlogPost {
	return &paddock.BlogPost{
		Id:      paddock.FlexInt(id),
		Title:   "Monaco qualifying notes",
		Content: "Sector times and tyre choices.",
	}
}

func TestScanStoresVerdict(t *testing.T) {
	setup()
	defer teardown()

	mockAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/check_content.php", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"flagged":true,"category":"harassment","targets":"driver","evidence":"...","reason":"abusive"}`))
	}))
	defer mockAPI.Close()
	InitAPI(mockAPI.URL)

	moderationService := ModerationService{}
	report, err := moderationService.Scan(context.Background(), testPost(7), "admin@test", "127.0.0.1", "go-test")
	assert.NoError(t, err)
	assert.True(t, report.Flagged)
	assert.Equal(t, "harassment", report.Category)

	verdicts, err := moderationService.GetVerdicts()
	assert.NoError(t, err)
	assert.Contains(t, verdicts, 7)
	assert.True(t, verdicts[7].Flagged)

	// the scan was audited
	auditService := AuditLogService{}
	logs, total, err := auditService.GetAuditLogs(10, 0, "SCAN", "blog")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "admin@test", logs[0].AdminEmail)
	assert.Equal(t, 7, logs[0].ResourceId)
}

func TestScanRejectsConcurrentSameDocument(t *testing.T) {
	setup()
	defer teardown()

	started := make(chan struct{})
	release := make(chan struct{})
	mockAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"flagged":false}`))
	}))
	defer mockAPI.Close()
	InitAPI(mockAPI.URL)

	moderationService := ModerationService{}
	firstDone := make(chan error, 1)
	go func() {
		_, err := moderationService.Scan(context.Background(), testPost(3), "admin@test", "127.0.0.1", "go-test")
		firstDone <- err
	}()

	<-started
	assert.True(t, moderationService.Scanning(3))

	_, err := moderationService.Scan(context.Background(), testPost(3), "admin@test", "127.0.0.1", "go-test")
	assert.ErrorIs(t, err, ErrScanInFlight)

	close(release)
	assert.NoError(t, <-firstDone)
	assert.False(t, moderationService.Scanning(3))
}

func TestCleanScanDropsCachedFeed(t *testing.T) {
	setup()
	defer teardown()

	mockAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"flagged":false}`))
	}))
	defer mockAPI.Close()
	InitAPI(mockAPI.URL)

	Memory().Set(caching.KeyFeed, []paddock.BlogPost{*testPost(1)}, caching.TTLFeed)

	moderationService := ModerationService{}
	report, err := moderationService.Scan(context.Background(), testPost(1), "admin@test", "127.0.0.1", "go-test")
	assert.NoError(t, err)
	assert.False(t, report.Flagged)

	// next feed render must re-fetch so it shows the advanced last_scan_at
	_, cached := Memory().Get(caching.KeyFeed)
	assert.False(t, cached)
}

func TestDeletePostPrunesVerdict(t *testing.T) {
	setup()
	defer teardown()

	mockAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/delete_blog.php", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"deleted"}`))
	}))
	defer mockAPI.Close()
	InitAPI(mockAPI.URL)

	db := database.GetDB()
	db.Create(&model.ScanVerdict{BlogId: 9, Flagged: true, Category: "spam"})

	moderationService := ModerationService{}
	err := moderationService.DeletePost(context.Background(), 9, "admin@test", "127.0.0.1", "go-test")
	assert.NoError(t, err)

	verdicts, err := moderationService.GetVerdicts()
	assert.NoError(t, err)
	assert.NotContains(t, verdicts, 9)
}
