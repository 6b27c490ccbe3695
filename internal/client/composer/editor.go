package composer

import "sync"

// Editor буфер редактора с html содержимым. Сам виджет редактора снаружи.
type Editor interface {
	// Render заменяет содержимое буфера.
	Render(html string)
	// OnChange подписывает на изменения содержимого.
	OnChange(fn func(html string))
}

// htmlSource редактор, который может отдать текущее содержимое.
type htmlSource interface {
	HTML() string
}

// Navigator переход на маршрут вида "/<shortURL>".
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Buffer редактор без интерфейса: хранит html и уведомляет подписчиков.
type Buffer struct {
	mu        sync.Mutex
	html      string
	listeners []func(string)
}

var _ Editor = (*Buffer)(nil)

func NewBuffer(html string) *Buffer {
	return &Buffer{html: html}
}

func (b *Buffer) Render(html string) {
	b.mu.Lock()
	b.html = html
	listeners := append([]func(string){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(html)
	}
}

func (b *Buffer) OnChange(fn func(html string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

func (b *Buffer) HTML() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.html
}
