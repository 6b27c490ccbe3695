package smocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fsdevblog/notes/internal/app/models"
	"github.com/fsdevblog/notes/internal/app/services"
)

type NoteMock struct {
	mock.Mock
}

var _ services.NoteService = (*NoteMock)(nil)

func (n *NoteMock) Create(_ context.Context, args services.CreateNoteArgs) (*models.Note, error) {
	res := n.Called(args)
	if res.Get(0) == nil {
		return nil, res.Error(1) //nolint:wrapcheck
	}
	return res.Get(0).(*models.Note), res.Error(1) //nolint:wrapcheck,errcheck
}

func (n *NoteMock) GetByShortURL(_ context.Context, shortURL string) (*models.Note, error) {
	res := n.Called(shortURL)
	if res.Get(0) == nil {
		return nil, res.Error(1) //nolint:wrapcheck
	}
	return res.Get(0).(*models.Note), res.Error(1) //nolint:wrapcheck,errcheck
}

func (n *NoteMock) IsAvailable(_ context.Context, shortURL string) (bool, error) {
	res := n.Called(shortURL)
	return res.Bool(0), res.Error(1) //nolint:wrapcheck
}

func (n *NoteMock) Update(_ context.Context, shortURL, content string) (*models.Note, error) {
	res := n.Called(shortURL, content)
	if res.Get(0) == nil {
		return nil, res.Error(1) //nolint:wrapcheck
	}
	return res.Get(0).(*models.Note), res.Error(1) //nolint:wrapcheck,errcheck
}

func (n *NoteMock) GetThread(_ context.Context, noteID uint) ([]models.Note, error) {
	res := n.Called(noteID)
	if res.Get(0) == nil {
		return nil, res.Error(1) //nolint:wrapcheck
	}
	return res.Get(0).([]models.Note), res.Error(1) //nolint:wrapcheck,errcheck
}

func (n *NoteMock) GetLatest(_ context.Context) ([]models.Note, error) {
	res := n.Called()
	if res.Get(0) == nil {
		return nil, res.Error(1) //nolint:wrapcheck
	}
	return res.Get(0).([]models.Note), res.Error(1) //nolint:wrapcheck,errcheck
}

func (n *NoteMock) DeleteExpired(_ context.Context) (int64, error) {
	res := n.Called()
	return res.Get(0).(int64), res.Error(1) //nolint:wrapcheck,errcheck
}
