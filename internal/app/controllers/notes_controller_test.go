package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/notes/internal/app/apperrs"
	"github.com/fsdevblog/notes/internal/app/models"
	"github.com/fsdevblog/notes/internal/app/services"
	"github.com/fsdevblog/notes/internal/app/services/smocks"
)

type NotesControllerSuite struct {
	suite.Suite
	noteServMock *smocks.NoteMock
	router       *gin.Engine
}

func (s *NotesControllerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.noteServMock = new(smocks.NoteMock)
	s.router = SetupRouter(RouterParams{
		NoteService: s.noteServMock,
		CORSOrigins: []string{"http://localhost:5173"},
		Logger:      logrus.New(),
	})
}

func (s *NotesControllerSuite) TestCreate() {
	parentID := uint(7)
	s.noteServMock.On("Create", mock.MatchedBy(func(a services.CreateNoteArgs) bool {
		return a.ShortURL == "fresh"
	})).Return(&models.Note{ID: 1, ShortURL: "fresh", Content: "<p>x</p>"}, nil)
	s.noteServMock.On("Create", mock.MatchedBy(func(a services.CreateNoteArgs) bool {
		return a.ShortURL == "taken"
	})).Return(nil, apperrs.ErrURLTaken)
	s.noteServMock.On("Create", mock.MatchedBy(func(a services.CreateNoteArgs) bool {
		return a.ShortURL == "bad url"
	})).Return(nil, apperrs.ErrInvalidShortURL)
	s.noteServMock.On("Create", mock.MatchedBy(func(a services.CreateNoteArgs) bool {
		return a.ShortURL == "reply" && a.ParentID != nil && *a.ParentID == parentID && a.ExpiresAt != nil
	})).Return(nil, apperrs.ErrParentNotFound)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "created", body: `{"content":"<p>x</p>","short_url":"fresh","expires_at":null}`, wantStatus: http.StatusCreated},
		{name: "taken", body: `{"content":"x","short_url":"taken"}`, wantStatus: http.StatusConflict},
		{name: "invalid short url", body: `{"content":"x","short_url":"bad url"}`, wantStatus: http.StatusUnprocessableEntity},
		{
			name:       "missing parent",
			body:       `{"content":"x","short_url":"reply","parent_id":7,"expires_at":"2026-01-01T00:00:00Z"}`,
			wantStatus: http.StatusNotFound,
		},
		{name: "broken json", body: `{"content":`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(http.MethodPost, "/api/create", strings.NewReader(tt.body))
			defer res.Body.Close()

			s.Equal(tt.wantStatus, res.StatusCode)
			if tt.wantStatus == http.StatusCreated {
				var note models.Note
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&note))
				s.Equal("fresh", note.ShortURL)
				s.EqualValues(1, note.ID)
			}
		})
	}
}

func (s *NotesControllerSuite) TestCheck() {
	s.noteServMock.On("IsAvailable", "free").Return(true, nil)
	s.noteServMock.On("IsAvailable", "busy").Return(false, nil)

	for shortURL, want := range map[string]string{"free": `{"available":true}`, "busy": `{"available":false}`} {
		res := s.makeRequest(http.MethodGet, "/api/check/"+shortURL, nil)
		body, _ := io.ReadAll(res.Body)
		_ = res.Body.Close()

		s.Equal(http.StatusOK, res.StatusCode)
		s.JSONEq(want, string(body))
	}
}

func (s *NotesControllerSuite) TestGet() {
	expiresAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.noteServMock.On("GetByShortURL", "exists").
		Return(&models.Note{ID: 3, ShortURL: "exists", Content: "c", ExpiresAt: &expiresAt}, nil)
	s.noteServMock.On("GetByShortURL", "gone").Return(nil, apperrs.ErrRecordNotFound)

	res := s.makeRequest(http.MethodGet, "/api/exists", nil)
	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	s.Equal(http.StatusOK, res.StatusCode)
	s.Contains(string(body), `"short_url":"exists"`)
	s.Contains(string(body), `"expires_at":"2026-01-01T00:00:00Z"`)
	s.Contains(string(body), `"parent_id":null`)

	res = s.makeRequest(http.MethodGet, "/api/gone", nil)
	body, _ = io.ReadAll(res.Body)
	_ = res.Body.Close()
	s.Equal(http.StatusNotFound, res.StatusCode)
	s.JSONEq(`{"error":"Note not found"}`, string(body))
}

func (s *NotesControllerSuite) TestUpdate() {
	s.noteServMock.On("Update", "mine", "new").Return(&models.Note{ID: 1, ShortURL: "mine", Content: "new"}, nil)
	s.noteServMock.On("Update", "gone", "new").Return(nil, apperrs.ErrRecordNotFound)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "updated", path: "/api/mine", body: `{"short_url":"mine","content":"new"}`, wantStatus: http.StatusOK},
		{name: "path only", path: "/api/mine", body: `{"content":"new"}`, wantStatus: http.StatusOK},
		{name: "mismatch", path: "/api/mine", body: `{"short_url":"other","content":"new"}`, wantStatus: http.StatusBadRequest},
		{name: "not found", path: "/api/gone", body: `{"short_url":"gone","content":"new"}`, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(http.MethodPut, tt.path, strings.NewReader(tt.body))
			defer res.Body.Close()
			s.Equal(tt.wantStatus, res.StatusCode)
		})
	}
}

func (s *NotesControllerSuite) TestThread() {
	parentID := uint(5)
	s.noteServMock.On("GetThread", uint(5)).Return([]models.Note{
		{ID: 6, ShortURL: "a", ParentID: &parentID},
		{ID: 7, ShortURL: "b", ParentID: &parentID},
	}, nil)

	res := s.makeRequest(http.MethodGet, "/api/threads/5", nil)
	var replies []models.Note
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&replies))
	_ = res.Body.Close()
	s.Equal(http.StatusOK, res.StatusCode)
	s.Require().Len(replies, 2)
	s.Equal("a", replies[0].ShortURL)

	for _, id := range []string{"abc", "0", "-1"} {
		res = s.makeRequest(http.MethodGet, "/api/threads/"+id, nil)
		_ = res.Body.Close()
		s.Equal(http.StatusBadRequest, res.StatusCode, id)
	}
}

func (s *NotesControllerSuite) TestIndex() {
	s.noteServMock.On("GetLatest").Return([]models.Note{{ID: 1, ShortURL: "x"}}, nil)

	res := s.makeRequest(http.MethodGet, "/api/", nil)
	defer res.Body.Close()
	s.Equal(http.StatusOK, res.StatusCode)
}

func (s *NotesControllerSuite) TestMiddlewares() {
	request := httptest.NewRequest(http.MethodOptions, "/api/create", nil)
	request.Header.Set("Origin", "http://localhost:5173")
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)

	s.Equal(http.StatusNoContent, recorder.Code)
	s.Equal("http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
	s.NotEmpty(recorder.Header().Get("X-Request-Id"))

	request = httptest.NewRequest(http.MethodOptions, "/api/create", nil)
	request.Header.Set("Origin", "http://evil.test")
	request.Header.Set("X-Request-Id", "req-1")
	recorder = httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)

	s.Empty(recorder.Header().Get("Access-Control-Allow-Origin"))
	s.Equal("req-1", recorder.Header().Get("X-Request-Id"))
}

// makeRequest вспомогательная функция создающая тестовый http запрос.
func (s *NotesControllerSuite) makeRequest(method, url string, body io.Reader) *http.Response {
	request := httptest.NewRequest(method, url, body)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()

	s.router.ServeHTTP(recorder, request)

	return recorder.Result()
}

func TestNotesControllerSuite(t *testing.T) {
	suite.Run(t, new(NotesControllerSuite))
}
