// Package config конфигурация клиента из ENV. Флаги командной строки поверх нее
// накладывает cmd/notes.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/fsdevblog/notes/internal/app/utils"
)

const (
	DefaultAPIURL  = "http://localhost:8080"
	DefaultProfile = "default"
	appDirName     = "notes"
)

var ErrInvalidProfile = errors.New("profile name may contain only letters, numbers, hyphens, and underscores")

type Config struct {
	// Адрес REST API
	APIURL string `env:"NOTES_API_URL" envDefault:"http://localhost:8080"`
	// Имя профиля: псевдоним, свои ссылки и история хранятся отдельно для каждого
	Profile string `env:"NOTES_PROFILE" envDefault:"default"`
	// Каталог профилей, по умолчанию <UserConfigDir>/notes
	Home string `env:"NOTES_HOME"`
	// Пауза перед проверкой доступности ссылки
	CheckDebounce time.Duration `env:"NOTES_CHECK_DEBOUNCE" envDefault:"500ms"`
	// Подробный лог
	Verbose bool `env:"NOTES_VERBOSE"`
}

// LoadConfig читает конфигурацию из ENV.
func LoadConfig() (*Config, error) {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		return nil, errors.Wrap(err, "parse ENV config error")
	}
	return &conf, nil
}

// ProfilePath путь к файлу sqlite профиля. Каталог создается при необходимости.
func (c *Config) ProfilePath() (string, error) {
	profile := strings.TrimSpace(c.Profile)
	if profile == "" {
		profile = DefaultProfile
	}
	if !utils.IsValidURLPath(profile) {
		return "", errors.Wrapf(ErrInvalidProfile, "profile `%s`", profile)
	}

	home := c.Home
	if home == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve user config dir")
		}
		home = filepath.Join(base, appDirName)
	}
	if err := os.MkdirAll(home, 0o700); err != nil {
		return "", errors.Wrapf(err, "create profile dir `%s`", home)
	}
	return filepath.Join(home, profile+".sqlite"), nil
}
