package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/notes/internal/app/models"
	"github.com/fsdevblog/notes/internal/app/services"
)

const DefaultRequestTimeout = 3 * time.Second

type NoteService interface {
	Create(ctx context.Context, args services.CreateNoteArgs) (*models.Note, error)
	GetByShortURL(ctx context.Context, shortURL string) (*models.Note, error)
	IsAvailable(ctx context.Context, shortURL string) (bool, error)
	Update(ctx context.Context, shortURL, content string) (*models.Note, error)
	GetThread(ctx context.Context, noteID uint) ([]models.Note, error)
	GetLatest(ctx context.Context) ([]models.Note, error)
}

type createNoteRequest struct {
	Content   string     `json:"content"`
	ShortURL  string     `json:"short_url"`
	ExpiresAt *time.Time `json:"expires_at"`
	ParentID  *uint      `json:"parent_id"`
}

type updateNoteRequest struct {
	ShortURL string `json:"short_url"`
	Content  string `json:"content"`
}

type checkResponse struct {
	Available bool `json:"available"`
}

type NotesController struct {
	noteService NoteService
}

func NewNotesController(noteService NoteService) *NotesController {
	return &NotesController{noteService: noteService}
}

// Index последние заметки верхнего уровня.
func (n *NotesController) Index(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	notes, err := n.noteService.GetLatest(reqCtx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, notes)
}

// Create POST /api/create. Занятая ссылка дает 409.
func (n *NotesController) Create(ctx *gin.Context) {
	var req createNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		_ = ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: ErrBadRequest.Error()})
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	note, err := n.noteService.Create(reqCtx, services.CreateNoteArgs{
		ShortURL:  req.ShortURL,
		Content:   req.Content,
		ExpiresAt: req.ExpiresAt,
		ParentID:  req.ParentID,
	})
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, note)
}

// Check GET /api/check/:url.
func (n *NotesController) Check(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	available, err := n.noteService.IsAvailable(reqCtx, ctx.Param("url"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, checkResponse{Available: available})
}

// Get GET /api/:shortUrl. Отсутствующая или истекшая заметка дает 404.
func (n *NotesController) Get(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	note, err := n.noteService.GetByShortURL(reqCtx, ctx.Param("shortUrl"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, note)
}

// Update PUT /api/:shortUrl. short_url в теле, если задан, обязан совпадать с путем.
func (n *NotesController) Update(ctx *gin.Context) {
	shortURL := ctx.Param("shortUrl")

	var req updateNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || (req.ShortURL != "" && req.ShortURL != shortURL) {
		if err != nil {
			_ = ctx.Error(err)
		}
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: ErrBadRequest.Error()})
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	note, err := n.noteService.Update(reqCtx, shortURL, req.Content)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, note)
}

// Thread GET /api/threads/:id.
func (n *NotesController) Thread(ctx *gin.Context) {
	noteID, parseErr := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if parseErr != nil || noteID == 0 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: ErrBadRequest.Error()})
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	replies, err := n.noteService.GetThread(reqCtx, uint(noteID))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, replies)
}
