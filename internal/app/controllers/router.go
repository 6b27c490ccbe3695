package controllers

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/notes/internal/app/controllers/middlewares"
)

type RouterParams struct {
	NoteService NoteService
	Pinger      ConnectionChecker
	CORSOrigins []string
	Logger      *logrus.Logger
}

func SetupRouter(params RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware(params.Logger))
	r.Use(gin.Recovery())
	r.Use(middlewares.CORS(params.CORSOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	notesController := NewNotesController(params.NoteService)

	if params.Pinger != nil {
		r.GET("/ping", NewPingController(params.Pinger).Ping)
	}

	api := r.Group("/api")
	api.GET("/", notesController.Index)
	api.POST("/create", notesController.Create)
	api.GET("/check/:url", notesController.Check)
	api.GET("/threads/:id", notesController.Thread)
	api.GET("/:shortUrl", notesController.Get)
	api.PUT("/:shortUrl", notesController.Update)

	return r
}
