package controller

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/AlvanCjh/paddock-panel/paddock"
	"github.com/AlvanCjh/paddock-panel/web/service"
	"github.com/AlvanCjh/paddock-panel/web/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// BlogForm is the payload of the create and edit endpoints. The image comes
// in as a separate multipart file part.
type BlogForm struct {
	Title   string `form:"title" binding:"required"`
	Content string `form:"content" binding:"required"`
}

// BlogController serves the community feed and the member's own posts.
type BlogController struct {
	BaseController

	blogService service.BlogService
}

func NewBlogController(g *gin.RouterGroup) *BlogController {
	a := &BlogController{}
	a.initRouter(g)
	return a
}

func (a *BlogController) initRouter(g *gin.RouterGroup) {
	// the feed and detail pages render for anonymous visitors
	g.GET("/", a.feed)
	g.GET("/blog/:id", a.post)
	g.GET("/blog/:id/qr", a.qr)

	auth := g.Group("/")
	auth.Use(a.checkLogin)
	auth.GET("/create", a.createForm)
	auth.POST("/create", a.create)
	auth.POST("/blog/:id/update", a.update)
	auth.GET("/profile/blogs", a.myBlogs)
}

func (a *BlogController) feed(c *gin.Context) {
	posts, err := a.blogService.GetFeed(c.Request.Context())
	if err != nil {
		html(c, "feed.html", I18nWeb(c, "pages.feed.title"), gin.H{
			"loadError": err.Error(),
		})
		return
	}

	query := c.Query("q")
	order := c.DefaultQuery("sort", service.SortNewest)
	posts = service.SortPosts(service.FilterPosts(posts, query), order)

	html(c, "feed.html", I18nWeb(c, "pages.feed.title"), gin.H{
		"posts":     a.viewPosts(posts),
		"query":     query,
		"sort":      order,
		"postCount": len(posts),
	})
}

func (a *BlogController) post(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		return
	}

	post, err := a.blogService.GetPost(c.Request.Context(), id)
	if err != nil {
		html(c, "post.html", I18nWeb(c, "pages.post.title"), gin.H{
			"loadError": err.Error(),
		})
		return
	}
	if post == nil {
		html(c, "post.html", I18nWeb(c, "pages.post.notFound"), gin.H{
			"notFound": true,
		})
		return
	}

	html(c, "post.html", post.Title, gin.H{
		"post": a.viewPost(*post),
	})
}

// qr renders a share QR code pointing at the post detail page.
func (a *BlogController) qr(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	link := scheme + "://" + c.Request.Host + c.GetString("base_path") + "blog/" + strconv.Itoa(id)

	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.post.qrFailed"), err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (a *BlogController) createForm(c *gin.Context) {
	html(c, "blog_form.html", I18nWeb(c, "pages.create.title"), nil)
}

func (a *BlogController) create(c *gin.Context) {
	member := session.GetMember(c)

	var form BlogForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.create.invalidFormData"), err)
		return
	}

	var image *paddock.FileUpload
	fileHeader, err := c.FormFile("image")
	if err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			jsonMsg(c, I18nWeb(c, "pages.create.imageFailed"), err)
			return
		}
		defer file.Close()
		image = &paddock.FileUpload{
			Name:    uuid.NewString() + filepath.Ext(fileHeader.Filename),
			Content: file,
		}
	}

	if err := a.blogService.Create(c.Request.Context(), member.Email, form.Title, form.Content, image); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.create.failed"), err)
		return
	}
	jsonMsg(c, I18nWeb(c, "pages.create.success"), nil)
}

// update submits an edit. A moderation block from the backend is surfaced
// verbatim so the author sees why the edit was rejected.
func (a *BlogController) update(c *gin.Context) {
	member := session.GetMember(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "pages.edit.invalidFormData"), err)
		return
	}

	var form BlogForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.edit.invalidFormData"), err)
		return
	}

	if err := a.blogService.Update(c.Request.Context(), id, form.Title, form.Content, member.Email); err != nil {
		jsonMsg(c, I18nWeb(c, "pages.edit.failed"), err)
		return
	}
	jsonMsg(c, I18nWeb(c, "pages.edit.success"), nil)
}

func (a *BlogController) myBlogs(c *gin.Context) {
	member := session.GetMember(c)

	posts, err := a.blogService.GetMyBlogs(c.Request.Context(), member.Email)
	if err != nil {
		html(c, "my_blogs.html", I18nWeb(c, "pages.myBlogs.title"), gin.H{
			"loadError": err.Error(),
		})
		return
	}

	html(c, "my_blogs.html", I18nWeb(c, "pages.myBlogs.title"), gin.H{
		"posts": a.viewPosts(service.SortPosts(posts, service.SortNewest)),
	})
}

// blogView is a post decorated with the resolved image URLs the templates
// render.
type blogView struct {
	paddock.BlogPost
	ImageURL     string
	AuthorPfpURL string
}

func (a *BlogController) viewPost(post paddock.BlogPost) blogView {
	return blogView{
		BlogPost:     post,
		ImageURL:     service.API().UploadURL(post.ImagePath),
		AuthorPfpURL: service.API().PfpURL(post.AuthorPfp),
	}
}

func (a *BlogController) viewPosts(posts []paddock.BlogPost) []blogView {
	views := make([]blogView, 0, len(posts))
	for _, post := range posts {
		views = append(views, a.viewPost(post))
	}
	return views
}
