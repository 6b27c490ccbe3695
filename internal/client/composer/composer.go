// Package composer жизненный цикл заметки на клиенте: создание, просмотр, правка, ответы
// и локальная история версий.
package composer

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/notes/internal/app/utils"
	"github.com/fsdevblog/notes/internal/client/api"
	"github.com/fsdevblog/notes/internal/client/history"
	"github.com/fsdevblog/notes/internal/client/identity"
	"github.com/fsdevblog/notes/internal/client/kv"
	"github.com/fsdevblog/notes/internal/client/ownership"
	"github.com/fsdevblog/notes/internal/client/reservation"
)

// NotFoundPath маршрут для отсутствующих заметок.
const NotFoundPath = "/not-found"

// Сообщения для пользователя. Подробности ошибки идут в лог.
const (
	MsgCreateFailed = "Failed to create note"
	MsgUpdateFailed = "Failed to update note"
	MsgReplyFailed  = "Failed to post reply"
)

var (
	ErrSubmitDisabled = errors.New("short url is not available for submission")
	ErrEmptyReply     = errors.New("reply content is empty")
)

// NotesAPI операции REST API, нужные клиенту.
type NotesAPI interface {
	CreateNote(ctx context.Context, req api.CreateNoteRequest) (*api.Note, error)
	GetNote(ctx context.Context, shortURL string) (*api.Note, error)
	UpdateNote(ctx context.Context, shortURL, content string) (*api.Note, error)
	GetThread(ctx context.Context, noteID int64) ([]api.Note, error)
}

type Params struct {
	API         NotesAPI
	Reservation *reservation.Reservation
	Store       kv.Store
	Editor      Editor
	Navigator   Navigator
	Logger      *logrus.Logger
	// Clock и RandomShortURL подменяются в тестах.
	Clock          func() time.Time
	RandomShortURL func() string
}

// AuthoredNote заметка с разобранной оберткой авторства.
type AuthoredNote struct {
	Note   api.Note
	Author string
	Color  string
	HTML   string
}

// View открытая заметка.
type View struct {
	AuthoredNote
	// CanEdit косметический признак, сервер правку не ограничивает.
	CanEdit bool
	Replies []AuthoredNote
}

type Composer struct {
	api         NotesAPI
	reservation *reservation.Reservation
	store       kv.Store
	owned       *ownership.OwnedURLs
	history     *history.History
	editor      Editor
	nav         Navigator
	logger      *logrus.Entry
	now         func() time.Time
	randomURL   func() string

	mu        sync.Mutex
	content   string
	lastError string
	// последняя известная версия открытой заметки
	current *api.Note
}

func New(p Params) *Composer {
	now := p.Clock
	if now == nil {
		now = time.Now
	}
	randomURL := p.RandomShortURL
	if randomURL == nil {
		randomURL = utils.RandomShortURL
	}
	nav := p.Navigator
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}

	c := &Composer{
		api:         p.API,
		reservation: p.Reservation,
		store:       p.Store,
		owned:       ownership.New(p.Store),
		history:     history.New(p.Store, now),
		editor:      p.Editor,
		nav:         nav,
		logger:      p.Logger.WithField("module", "client/composer"),
		now:         now,
		randomURL:   randomURL,
	}
	if src, ok := p.Editor.(htmlSource); ok {
		c.content = src.HTML()
	}
	p.Editor.OnChange(func(html string) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.content = html
	})
	return c
}

// Content текущее содержимое буфера редактора.
func (c *Composer) Content() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// LastError сообщение о последней неудачной операции, пустое после успешной.
func (c *Composer) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Identity псевдоним профиля, создается при первом обращении.
func (c *Composer) Identity(ctx context.Context) (identity.Identity, error) {
	return identity.GetOrCreate(ctx, c.store, identity.Random)
}

// SetShortURL передает ввод короткой ссылки в автомат резервирования.
func (c *Composer) SetShortURL(value string) {
	c.reservation.Input(value)
}

func (c *Composer) CanSubmit() bool {
	return c.reservation.CanSubmit()
}

// CreateNote публикует содержимое буфера под зарезервированной ссылкой.
// Содержимое не оборачивается. Конфликт переводит резервирование в Taken.
func (c *Composer) CreateNote(ctx context.Context, expiration Expiration, parentID *int64) (*api.Note, error) {
	if !c.reservation.CanSubmit() {
		return nil, ErrSubmitDisabled
	}
	shortURL := c.reservation.Value()

	note, err := c.api.CreateNote(ctx, api.CreateNoteRequest{
		Content:   c.Content(),
		ShortURL:  shortURL,
		ExpiresAt: expiration.ExpiresAt(c.now()),
		ParentID:  parentID,
	})
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			c.reservation.Conflict()
		}
		c.fail(MsgCreateFailed, err)
		return nil, errors.Wrapf(err, "create note `%s`", shortURL)
	}
	c.succeed()

	if parentID == nil {
		if addErr := c.owned.Add(ctx, note.ShortURL); addErr != nil {
			c.logger.WithError(addErr).Warn("failed to record owned url")
		}
	}
	c.nav.Navigate("/" + note.ShortURL)
	return note, nil
}

// Open загружает заметку и ответы на нее. Любая ошибка загрузки ведет на NotFoundPath.
func (c *Composer) Open(ctx context.Context, shortURL string) (*View, error) {
	note, err := c.api.GetNote(ctx, shortURL)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			c.logger.WithError(err).WithField("short_url", shortURL).Warn("failed to load note")
		}
		c.nav.Navigate(NotFoundPath)
		return nil, errors.Wrapf(err, "open note `%s`", shortURL)
	}

	view := &View{AuthoredNote: authored(*note)}
	if view.CanEdit, err = c.canEdit(ctx, note.ShortURL, view.Author); err != nil {
		return nil, err
	}

	replies, err := c.api.GetThread(ctx, note.ID)
	if err != nil {
		c.logger.WithError(err).WithField("note_id", note.ID).Warn("failed to load replies")
	}
	for _, reply := range replies {
		view.Replies = append(view.Replies, authored(reply))
	}

	c.mu.Lock()
	c.current = note
	c.mu.Unlock()
	c.editor.Render(view.HTML)
	return view, nil
}

// UpdateNote сохраняет content под авторством профиля. После успеха прежнее
// содержимое заметки добавляется в историю версий.
func (c *Composer) UpdateNote(ctx context.Context, shortURL, content string) (*api.Note, error) {
	id, err := c.Identity(ctx)
	if err != nil {
		return nil, err
	}
	previous, err := c.previousContent(ctx, shortURL)
	if err != nil {
		c.fail(MsgUpdateFailed, err)
		return nil, err
	}

	note, err := c.api.UpdateNote(ctx, shortURL, identity.Wrap(content, id))
	if err != nil {
		c.fail(MsgUpdateFailed, err)
		return nil, errors.Wrapf(err, "update note `%s`", shortURL)
	}
	c.succeed()

	if _, histErr := c.history.Append(ctx, shortURL, previous); histErr != nil {
		c.logger.WithError(histErr).WithField("short_url", shortURL).Warn("failed to save version")
	}

	c.mu.Lock()
	c.current = note
	c.mu.Unlock()
	return note, nil
}

// CreateReply публикует ответ под случайной ссылкой без проверки коллизий и без срока жизни.
func (c *Composer) CreateReply(ctx context.Context, parentID int64, content string) (*api.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyReply
	}
	id, err := c.Identity(ctx)
	if err != nil {
		return nil, err
	}

	note, err := c.api.CreateNote(ctx, api.CreateNoteRequest{
		Content:  identity.Wrap(content, id),
		ShortURL: c.randomURL(),
		ParentID: &parentID,
	})
	if err != nil {
		c.fail(MsgReplyFailed, err)
		return nil, errors.Wrapf(err, "reply to note %d", parentID)
	}
	c.succeed()
	return note, nil
}

// Versions локальные версии заметки, новые последними.
func (c *Composer) Versions(ctx context.Context, shortURL string) ([]history.Version, error) {
	return c.history.List(ctx, shortURL)
}

// StageVersion загружает версию в редактор без сохранения.
func (c *Composer) StageVersion(ctx context.Context, shortURL string, index int) (string, error) {
	version, err := c.history.Get(ctx, shortURL, index)
	if err != nil {
		return "", err
	}
	html := identity.Parse(version.Content).HTML
	c.editor.Render(html)
	return html, nil
}

func (c *Composer) canEdit(ctx context.Context, shortURL, author string) (bool, error) {
	id, err := c.Identity(ctx)
	if err != nil {
		return false, err
	}
	if author != "" && author == id.Name {
		return true, nil
	}
	owned, err := c.owned.Contains(ctx, shortURL)
	if err != nil {
		return false, err
	}
	return owned, nil
}

func (c *Composer) previousContent(ctx context.Context, shortURL string) (string, error) {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current != nil && current.ShortURL == shortURL {
		return current.Content, nil
	}

	note, err := c.api.GetNote(ctx, shortURL)
	if err != nil {
		return "", errors.Wrapf(err, "load note `%s` before update", shortURL)
	}
	return note.Content, nil
}

func (c *Composer) fail(msg string, err error) {
	c.logger.WithError(err).Warn(strings.ToLower(msg))
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = msg
}

func (c *Composer) succeed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = ""
}

func authored(note api.Note) AuthoredNote {
	parsed := identity.Parse(note.Content)
	return AuthoredNote{
		Note:   note,
		Author: parsed.Author,
		Color:  parsed.Color,
		HTML:   parsed.HTML,
	}
}
