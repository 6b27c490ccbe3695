package composer

import "time"

// Expiration вариант времени жизни заметки.
type Expiration string

const (
	Expire5m    Expiration = "5m"
	Expire10m   Expiration = "10m"
	Expire15m   Expiration = "15m"
	Expire30m   Expiration = "30m"
	Expire1h    Expiration = "1h"
	Expire1d    Expiration = "1d"
	ExpireNever Expiration = "never"

	DefaultExpiration = Expire30m
)

var expirationDurations = map[Expiration]time.Duration{
	Expire5m:  5 * time.Minute,
	Expire10m: 10 * time.Minute,
	Expire15m: 15 * time.Minute,
	Expire30m: 30 * time.Minute,
	Expire1h:  time.Hour,
	Expire1d:  24 * time.Hour,
}

// Expirations варианты в порядке показа пользователю.
func Expirations() []Expiration {
	return []Expiration{Expire5m, Expire10m, Expire15m, Expire30m, Expire1h, Expire1d, ExpireNever}
}

// ExpiresAt момент истечения относительно now, nil для бессрочной заметки.
// Неизвестный вариант трактуется как DefaultExpiration.
func (e Expiration) ExpiresAt(now time.Time) *time.Time {
	if e == ExpireNever {
		return nil
	}
	d, ok := expirationDurations[e]
	if !ok {
		d = expirationDurations[DefaultExpiration]
	}
	at := now.Add(d).UTC()
	return &at
}
