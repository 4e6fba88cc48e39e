// Package web provides the paddock panel's web server: HTTP serving,
// routing, templates, sessions and background job scheduling.
package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/AlvanCjh/paddock-panel/caching"
	"github.com/AlvanCjh/paddock-panel/config"
	"github.com/AlvanCjh/paddock-panel/logger"
	"github.com/AlvanCjh/paddock-panel/util/common"
	"github.com/AlvanCjh/paddock-panel/web/controller"
	"github.com/AlvanCjh/paddock-panel/web/job"
	"github.com/AlvanCjh/paddock-panel/web/locale"
	"github.com/AlvanCjh/paddock-panel/web/middleware"
	"github.com/AlvanCjh/paddock-panel/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed assets
var assetsFS embed.FS

//go:embed html/*
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

var startTime = time.Now()

type wrapAssetsFS struct {
	embed.FS
}

func (f *wrapAssetsFS) Open(name string) (fs.File, error) {
	file, err := f.FS.Open("assets/" + name)
	if err != nil {
		return nil, err
	}
	return &wrapAssetsFile{File: file}, nil
}

type wrapAssetsFile struct {
	fs.File
}

func (f *wrapAssetsFile) Stat() (fs.FileInfo, error) {
	info, err := f.File.Stat()
	if err != nil {
		return nil, err
	}
	return &wrapAssetsFileInfo{FileInfo: info}, nil
}

type wrapAssetsFileInfo struct {
	fs.FileInfo
}

func (f *wrapAssetsFileInfo) ModTime() time.Time {
	return startTime
}

// Server is the paddock panel web server with its controllers, services and
// scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	index   *controller.IndexController
	blog    *controller.BlogController
	profile *controller.ProfileController
	admin   *controller.AdminController

	settingService service.SettingService
	tgbotService   service.Tgbot

	cache *caching.Cache
	cron  *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// getHtmlFiles walks the local `web/html` directory and returns a list of
// template file paths. Used only in debug/development mode.
func (s *Server) getHtmlFiles() ([]string, error) {
	files := make([]string, 0)
	dir, _ := os.Getwd()
	err := fs.WalkDir(os.DirFS(dir), "web/html", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// getHtmlTemplate parses embedded HTML templates from the bundled `htmlFS`.
func (s *Server) getHtmlTemplate(funcMap template.FuncMap) (*template.Template, error) {
	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(htmlFS, "html", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			newT, err := t.ParseFS(htmlFS, path+"/*.html")
			if err != nil {
				// ignore folders without matches
				return nil
			}
			t = newT
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// initRouter initializes Gin, registers middleware, templates, static assets,
// controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	webDomain, err := s.settingService.GetWebDomain()
	if err != nil {
		return nil, err
	}
	if webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}

	secret, err := s.settingService.GetSecret()
	if err != nil {
		return nil, err
	}

	basePath, err := s.settingService.GetBasePath()
	if err != nil {
		return nil, err
	}

	store := cookie.NewStore(secret)
	engine.Use(sessions.Sessions("paddock-panel", store))
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", basePath)
	})
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(locale.LocalizerMiddleware())

	// i18n in templates
	i18nWebFunc := func(key string, params ...string) string {
		return locale.I18n(locale.Web, key, params...)
	}
	funcMap := template.FuncMap{
		"i18n": i18nWebFunc,
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
	}
	engine.SetFuncMap(funcMap)

	// Static files & templates
	if config.IsDebug() {
		files, err := s.getHtmlFiles()
		if err != nil {
			return nil, err
		}
		engine.LoadHTMLFiles(files...)
		engine.StaticFS(basePath+"assets", http.FS(os.DirFS("web/assets")))
	} else {
		tpl, err := s.getHtmlTemplate(funcMap)
		if err != nil {
			return nil, err
		}
		engine.SetHTMLTemplate(tpl)
		engine.StaticFS(basePath+"assets", http.FS(&wrapAssetsFS{FS: assetsFS}))
	}

	// Redirects (/profile/my-blogs -> /profile/blogs etc.)
	engine.Use(middleware.RedirectMiddleware(basePath))

	// scans fan out to the AI moderation endpoint, keep them bounded
	engine.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		RequestsPerMinute: 30,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		SkipPaths: []string{basePath + "assets/", basePath + "blog/", basePath + "login", basePath + "signup"},
	}))

	g := engine.Group(basePath)
	s.index = controller.NewIndexController(g)
	s.blog = controller.NewBlogController(g)
	s.profile = controller.NewProfileController(g)
	s.admin = controller.NewAdminController(g)

	// 404 handler
	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background jobs.
func (s *Server) startTask() {
	sweepCron, err := s.settingService.GetStaleSweepCron()
	if err != nil || sweepCron == "" {
		sweepCron = "@every 5m"
	}
	if _, err := s.cron.AddJob(sweepCron, job.NewStaleContentJob()); err != nil {
		logger.Warning("Add StaleContentJob error:", err)
	}

	if _, err := s.cron.AddJob("@daily", job.NewAuditCleanupJob()); err != nil {
		logger.Warning("Add AuditCleanupJob error:", err)
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	loc, err := s.settingService.GetTimeLocation()
	if err != nil {
		return err
	}
	s.cron = cron.New(cron.WithLocation(loc), cron.WithSeconds())
	s.cron.Start()

	s.cache = caching.NewCache()
	if err = s.cache.Init(); err != nil {
		return err
	}
	service.SetMemory(s.cache.Memory())

	if err = locale.InitLocalizer(i18nFS, &s.settingService); err != nil {
		return err
	}

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listen, err := s.settingService.GetListen()
	if err != nil {
		return err
	}
	port, err := s.settingService.GetPort()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(listen, strconv.Itoa(port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	if tgBotEnable, err := s.settingService.GetTgBotEnable(); err == nil && tgBotEnable {
		if err := s.tgbotService.Start(); err != nil {
			logger.Warning("Start telegram alerts failed:", err)
		}
	}

	return nil
}

// Stop gracefully shuts down the web server, cron jobs and Telegram alerts.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.tgbotService.IsRunning() {
		s.tgbotService.Stop()
	}
	if s.cache != nil {
		_ = s.cache.Flush()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

// GetCron returns the server's cron scheduler instance.
func (s *Server) GetCron() *cron.Cron { return s.cron }
