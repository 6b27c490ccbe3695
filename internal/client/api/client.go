// Package api http клиент REST API заметок.
package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultCacheSize = 128
	DefaultCacheTTL  = 3 * time.Second

	maxBodySize = 4 << 20
	userAgent   = "notes-cli"
)

type Options struct {
	HTTPClient *http.Client
	// CacheSize размер кеша проверок доступности, 0 отключает кеш.
	CacheSize int
	CacheTTL  time.Duration
}

func WithHTTPClient(c *http.Client) func(*Options) {
	return func(o *Options) {
		o.HTTPClient = c
	}
}

func WithCache(size int, ttl time.Duration) func(*Options) {
	return func(o *Options) {
		o.CacheSize = size
		o.CacheTTL = ttl
	}
}

// Client клиент API. Повторов запросов нет.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Entry
	// кеш ответов /api/check, сбрасывается при создании заметки
	availability *expirable.LRU[string, bool]
}

func New(baseURL string, logger *logrus.Logger, opts ...func(*Options)) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse api url `%s`", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("api url `%s` must be http or https", baseURL)
	}

	o := Options{
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		CacheSize:  DefaultCacheSize,
		CacheTTL:   DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    o.HTTPClient,
		logger:  logger.WithField("module", "client/api"),
	}
	if o.CacheSize > 0 {
		c.availability = expirable.NewLRU[string, bool](o.CacheSize, nil, o.CacheTTL)
	}
	return c, nil
}

// CheckAvailability GET /api/check/:url.
func (c *Client) CheckAvailability(ctx context.Context, shortURL string) (bool, error) {
	if c.availability != nil {
		if available, ok := c.availability.Get(shortURL); ok {
			return available, nil
		}
	}

	var res checkResponse
	if err := c.do(ctx, http.MethodGet, "/api/check/"+url.PathEscape(shortURL), nil, &res); err != nil {
		return false, err
	}
	if res.Available == nil {
		return false, &DecodeError{Endpoint: "check", Err: errors.New("missing `available` field")}
	}
	if c.availability != nil {
		c.availability.Add(shortURL, *res.Available)
	}
	return *res.Available, nil
}

// CreateNote POST /api/create. Занятая ссылка дает ErrConflict.
func (c *Client) CreateNote(ctx context.Context, req CreateNoteRequest) (*Note, error) {
	// результат проверки этой ссылки больше не актуален при любом исходе
	c.forget(req.ShortURL)

	var note Note
	if err := c.do(ctx, http.MethodPost, "/api/create", req, &note); err != nil {
		return nil, err
	}
	if err := note.validate(); err != nil {
		return nil, &DecodeError{Endpoint: "create", Err: err}
	}
	return &note, nil
}

// GetNote GET /api/:shortUrl.
func (c *Client) GetNote(ctx context.Context, shortURL string) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodGet, "/api/"+url.PathEscape(shortURL), nil, &note); err != nil {
		return nil, err
	}
	if err := note.validate(); err != nil {
		return nil, &DecodeError{Endpoint: "get", Err: err}
	}
	return &note, nil
}

// UpdateNote PUT /api/:shortUrl.
func (c *Client) UpdateNote(ctx context.Context, shortURL, content string) (*Note, error) {
	var note Note
	body := updateNoteRequest{ShortURL: shortURL, Content: content}
	if err := c.do(ctx, http.MethodPut, "/api/"+url.PathEscape(shortURL), body, &note); err != nil {
		return nil, err
	}
	if err := note.validate(); err != nil {
		return nil, &DecodeError{Endpoint: "update", Err: err}
	}
	return &note, nil
}

// GetThread GET /api/threads/:noteId. Порядок ответов задает сервер.
func (c *Client) GetThread(ctx context.Context, noteID int64) ([]Note, error) {
	var notes []Note
	if err := c.do(ctx, http.MethodGet, "/api/threads/"+strconv.FormatInt(noteID, 10), nil, &notes); err != nil {
		return nil, err
	}
	if err := validateAll(notes); err != nil {
		return nil, &DecodeError{Endpoint: "threads", Err: err}
	}
	return notes, nil
}

// Latest GET /api/ последние заметки.
func (c *Client) Latest(ctx context.Context) ([]Note, error) {
	var notes []Note
	if err := c.do(ctx, http.MethodGet, "/api/", nil, &notes); err != nil {
		return nil, err
	}
	if err := validateAll(notes); err != nil {
		return nil, &DecodeError{Endpoint: "latest", Err: err}
	}
	return notes, nil
}

func (c *Client) forget(shortURL string) {
	if c.availability != nil {
		c.availability.Remove(shortURL)
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   res.StatusCode,
		"duration": time.Since(start),
	}).Debug("api request")

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return errors.Wrapf(err, "read %s %s response", method, path)
	}

	switch {
	case res.StatusCode == http.StatusConflict:
		return ErrConflict
	case res.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case res.StatusCode < 200 || res.StatusCode > 299:
		return errors.Wrapf(ErrUnexpectedStatus, "%s %s: %d %s", method, path, res.StatusCode, serverMessage(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Endpoint: method + " " + path, Err: err}
	}
	return nil
}

// serverMessage достает текст ошибки из тела {"error": "..."}.
func serverMessage(raw []byte) string {
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	return ""
}

func validateAll(notes []Note) error {
	for i := range notes {
		if err := notes[i].validate(); err != nil {
			return err
		}
	}
	return nil
}
