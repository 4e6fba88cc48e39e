package controller

import (
	"errors"
	"strconv"

	"github.com/AlvanCjh/paddock-panel/logger"
	"github.com/AlvanCjh/paddock-panel/paddock"
	"github.com/AlvanCjh/paddock-panel/web/middleware"
	"github.com/AlvanCjh/paddock-panel/web/service"
	"github.com/AlvanCjh/paddock-panel/web/session"

	"github.com/gin-gonic/gin"
)

// AdminController serves the moderation console: dashboard, content review,
// member registry and the audit trail.
type AdminController struct {
	BaseController

	blogService       service.BlogService
	moderationService service.ModerationService
	userAdminService  service.UserAdminService
	serverService     service.ServerService
	auditService      service.AuditLogService
}

func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/admin")
	g.Use(a.checkLogin, middleware.RoleRequired("admin"))

	g.GET("", a.dashboard)
	g.GET("/blogs", a.blogs)
	g.POST("/blogs/:id/scan", a.scan)
	g.POST("/blogs/:id/delete", a.delete)
	g.GET("/users", a.users)
	g.POST("/users/:id/strike", a.strike)
	g.GET("/audit", a.audit)
	g.POST("/logs/:count", a.logs)
	g.POST("/status", a.status)
}

func (a *AdminController) dashboard(c *gin.Context) {
	html(c, "admin_dashboard.html", I18nWeb(c, "pages.admin.title"), nil)
}

// status feeds the dashboard tiles over ajax.
func (a *AdminController) status(c *gin.Context) {
	jsonObj(c, a.serverService.GetStatus(), nil)
}

// blogs renders the content review table: every post with its scan badge
// and, when one exists, the stored verdict of its last scan.
func (a *AdminController) blogs(c *gin.Context) {
	posts, err := a.blogService.GetFeed(c.Request.Context())
	if err != nil {
		html(c, "admin_blogs.html", I18nWeb(c, "pages.admin.blogs.title"), gin.H{
			"loadError": err.Error(),
		})
		return
	}
	query := c.Query("q")
	posts = service.SortPosts(service.FilterPosts(posts, query), service.SortNewest)

	states := a.moderationService.ScanStates(posts)
	verdicts, err := a.moderationService.GetVerdicts()
	if err != nil {
		logger.Warning("load stored verdicts failed:", err)
	}

	rows := make([]gin.H, 0, len(posts))
	needScan := 0
	for _, post := range posts {
		state := states[int(post.Id)]
		if state.NeedsScan() {
			needScan++
		}
		row := gin.H{
			"post":      post,
			"state":     state,
			"badge":     state.Label(),
			"needsScan": state.NeedsScan(),
			"scanning":  a.moderationService.Scanning(int(post.Id)),
		}
		if verdict, ok := verdicts[int(post.Id)]; ok {
			row["verdict"] = verdict
		}
		rows = append(rows, row)
	}

	html(c, "admin_blogs.html", I18nWeb(c, "pages.admin.blogs.title"), gin.H{
		"rows":     rows,
		"needScan": needScan,
		"query":    query,
	})
}

// scan runs one moderation scan over a post. Requested over ajax; the page
// re-renders the row from the returned report. A concurrent scan of the
// same post answers with a conflict message instead of a second upstream
// call.
func (a *AdminController) scan(c *gin.Context) {
	member := session.GetMember(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.blogs.scanFailed"), err)
		return
	}

	post, err := a.blogService.GetPost(c.Request.Context(), id)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.blogs.scanFailed"), err)
		return
	}
	if post == nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.blogs.postGone"), errors.New("post no longer exists"))
		return
	}

	report, err := a.moderationService.Scan(c.Request.Context(), post, member.Email, getRemoteIp(c), c.GetHeader("User-Agent"))
	if errors.Is(err, service.ErrScanInFlight) {
		jsonMsg(c, I18nWeb(c, "pages.admin.blogs.scanRunning"), err)
		return
	}
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.blogs.scanFailed"), err)
		return
	}
	jsonObj(c, report, nil)
}

func (a *AdminController) delete(c *gin.Context) {
	member := session.GetMember(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.blogs.deleteFailed"), err)
		return
	}

	if err := a.moderationService.DeletePost(c.Request.Context(), id, member.Email, getRemoteIp(c), c.GetHeader("User-Agent")); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.blogs.deleteFailed"), err)
		return
	}
	jsonMsg(c, I18nWeb(c, "pages.admin.blogs.deleteSuccess"), nil)
}

func (a *AdminController) users(c *gin.Context) {
	users, err := a.userAdminService.GetUsers(c.Request.Context())
	if err != nil {
		html(c, "admin_users.html", I18nWeb(c, "pages.admin.users.title"), gin.H{
			"loadError": err.Error(),
		})
		return
	}

	query := c.Query("q")
	html(c, "admin_users.html", I18nWeb(c, "pages.admin.users.title"), gin.H{
		"users": a.viewUsers(service.FilterUsers(users, query)),
		"query": query,
	})
}

// strike issues one penalty point and answers with the refreshed registry
// so the page renders counts the backend actually stored.
func (a *AdminController) strike(c *gin.Context) {
	member := session.GetMember(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.users.strikeFailed"), err)
		return
	}

	users, err := a.userAdminService.IssueStrike(c.Request.Context(), id, member.Email, getRemoteIp(c), c.GetHeader("User-Agent"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.admin.users.strikeFailed"), err)
		return
	}
	jsonObj(c, a.viewUsers(users), nil)
}

func (a *AdminController) audit(c *gin.Context) {
	limit := 50
	offset := 0
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 1 {
		offset = (page - 1) * limit
	}

	logs, total, err := a.auditService.GetAuditLogs(limit, offset, c.Query("action"), c.Query("resource"))
	if err != nil {
		html(c, "admin_audit.html", I18nWeb(c, "pages.admin.audit.title"), gin.H{
			"loadError": err.Error(),
		})
		return
	}

	html(c, "admin_audit.html", I18nWeb(c, "pages.admin.audit.title"), gin.H{
		"logs":  logs,
		"total": total,
	})
}

// logs answers the most recent panel log lines for the dashboard.
func (a *AdminController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil {
		count = 50
	}
	jsonObj(c, logger.GetLogs(count, c.DefaultPostForm("level", "info")), nil)
}

type userView struct {
	paddock.User
	StrikeLevel string
}

func (a *AdminController) viewUsers(users []paddock.User) []userView {
	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, userView{
			User:        user,
			StrikeLevel: service.StrikeLevel(int(user.Strikes)),
		})
	}
	return views
}
