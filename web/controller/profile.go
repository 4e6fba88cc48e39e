package controller

import (
	"path/filepath"

	"github.com/AlvanCjh/paddock-panel/paddock"
	"github.com/AlvanCjh/paddock-panel/web/service"
	"github.com/AlvanCjh/paddock-panel/web/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfileController serves the signed-in member's profile page and picture
// upload.
type ProfileController struct {
	BaseController

	profileService service.ProfileService
}

func NewProfileController(g *gin.RouterGroup) *ProfileController {
	a := &ProfileController{}
	a.initRouter(g)
	return a
}

func (a *ProfileController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/profile")
	g.Use(a.checkLogin)

	g.GET("", a.profile)
	g.POST("/pfp", a.uploadPfp)
}

func (a *ProfileController) profile(c *gin.Context) {
	member := session.GetMember(c)

	profile, err := a.profileService.GetProfile(c.Request.Context(), member.Email)
	if err != nil {
		html(c, "profile.html", I18nWeb(c, "pages.profile.title"), gin.H{
			"loadError": err.Error(),
		})
		return
	}

	html(c, "profile.html", I18nWeb(c, "pages.profile.title"), gin.H{
		"profile":     profile,
		"pfpURL":      service.API().PfpURL(profile.ProfilePic),
		"strikeLevel": service.StrikeLevel(int(profile.Strikes)),
	})
}

// uploadPfp stores a new profile picture and refreshes the session identity
// in the same write so every later view renders the new avatar.
func (a *ProfileController) uploadPfp(c *gin.Context) {
	member := session.GetMember(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.profile.invalidFormData"), err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.profile.uploadFailed"), err)
		return
	}
	defer file.Close()

	image := &paddock.FileUpload{
		Name:    uuid.NewString() + filepath.Ext(fileHeader.Filename),
		Content: file,
	}
	imagePath, err := a.profileService.UpdatePfp(c.Request.Context(), member.Email, image)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.profile.uploadFailed"), err)
		return
	}

	member.Avatar = imagePath
	if err := session.SetMember(c, member); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.profile.uploadFailed"), err)
		return
	}
	jsonObj(c, service.API().PfpURL(imagePath), nil)
}
