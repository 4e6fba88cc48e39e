package controller

import (
	"net/http"
	"time"

	"github.com/AlvanCjh/paddock-panel/logger"
	"github.com/AlvanCjh/paddock-panel/web/service"
	"github.com/AlvanCjh/paddock-panel/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm is the credential payload of the login endpoint.
type LoginForm struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// SignupForm is the registration payload of the signup endpoint.
type SignupForm struct {
	Username string `json:"username" form:"username" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// IndexController handles sign in, sign up and sign out.
type IndexController struct {
	BaseController

	settingService service.SettingService
	auditService   service.AuditLogService
}

func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/login", a.index)
	g.POST("/login", a.login)
	g.GET("/signup", a.signup)
	g.POST("/signup", a.register)
	g.GET("/logout", a.logout)
}

func (a *IndexController) index(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		return
	}
	html(c, "login.html", I18nWeb(c, "pages.login.title"), nil)
}

func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	member, err := service.API().Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		logger.Warningf("wrong login attempt for %s from ip %s", form.Email, getRemoteIp(c))
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.wrongCredentials"))
		return
	}

	maxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("read session max age failed:", err)
	}
	if maxAge > 0 {
		if err := session.SetMaxAge(c, maxAge*60); err != nil {
			logger.Warning("set session max age failed:", err)
		}
	}

	if err := session.SetMember(c, member); err != nil {
		logger.Warning("set session member failed:", err)
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.failed"))
		return
	}

	logger.Infof("%s logged in from ip %s", member.Email, getRemoteIp(c))
	a.auditService.LogAction(member.Email, "LOGIN", "session", 0, getRemoteIp(c), c.GetHeader("User-Agent"), nil)
	jsonMsg(c, I18nWeb(c, "pages.login.success")+" "+time.Now().Format("2006-01-02 15:04:05"), nil)
}

func (a *IndexController) signup(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		return
	}
	html(c, "signup.html", I18nWeb(c, "pages.signup.title"), nil)
}

func (a *IndexController) register(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.signup.invalidFormData"))
		return
	}

	if err := service.API().Signup(c.Request.Context(), form.Username, form.Email, form.Password); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.signup.failed"), err)
		return
	}
	jsonMsg(c, I18nWeb(c, "pages.signup.success"), nil)
}

func (a *IndexController) logout(c *gin.Context) {
	if member := session.GetMember(c); member != nil {
		logger.Infof("%s logged out", member.Email)
		a.auditService.LogAction(member.Email, "LOGOUT", "session", 0, getRemoteIp(c), c.GetHeader("User-Agent"), nil)
	}
	if err := session.ClearMember(c); err != nil {
		logger.Warning("clear session failed:", err)
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path")+"login")
}
