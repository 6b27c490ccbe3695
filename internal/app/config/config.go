package config

import (
	"flag"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/notes/internal/app/db"
)

type Config struct {
	// Адрес на котором запустится сервер
	ServerAddress string `env:"SERVER_ADDRESS"`
	// Тип хранилища
	DBType db.StorageType `env:"DB"`
	// Путь к файлу sqlite
	SQLitePath string `env:"SQLITE_PATH"`
	// Разрешенные CORS источники (через запятую)
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	// Расписание очистки истекших заметок (формат cron)
	SweepSpec string `env:"SWEEP_SPEC"`
	// Вывести версию сборки и выйти
	ShowVersion bool `env:"-"`

	Logger *logrus.Logger `env:"-"`
}

// LoadConfig собирает конфигурацию из ENV и флагов командной строки. ENV имеет приоритет.
func LoadConfig(args []string) (*Config, error) {
	var flagsConfig, envConfig Config

	if err := env.Parse(&envConfig); err != nil {
		return nil, errors.Wrapf(err, "parse ENV config error")
	}

	if err := loadFlags(&flagsConfig, args); err != nil {
		return nil, errors.Wrap(err, "parse flags error")
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	conf.Logger = initLogger()
	return conf, nil
}

// MustLoadConfig аналогичен LoadConfig, но паникует при ошибке.
func MustLoadConfig(args []string) *Config {
	conf, err := LoadConfig(args)
	if err != nil {
		panic(err)
	}
	return conf
}

// loadFlags парсит флаги командной строки.
func loadFlags(flagsConfig *Config, args []string) error {
	fs := flag.NewFlagSet("notesd", flag.ContinueOnError)

	fs.StringVar(&flagsConfig.ServerAddress, "a", "localhost:8080", "Адрес сервера")
	fs.StringVar((*string)(&flagsConfig.DBType), "d", string(db.StorageTypeSQLite), "Тип хранилища (sqlite|inMemory)")
	fs.StringVar(&flagsConfig.SQLitePath, "f", db.SQLiteDBPath, "Путь к файлу sqlite")
	fs.StringVar(&flagsConfig.SweepSpec, "s", "@every 1m", "Расписание очистки истекших заметок")
	fs.BoolVar(&flagsConfig.ShowVersion, "v", false, "Версия сборки")
	fs.Func("c", "Разрешенные CORS источники через запятую", func(raw string) error {
		flagsConfig.CORSOrigins = splitOrigins(raw)
		return nil
	})

	return fs.Parse(args) //nolint:wrapcheck
}

// mergeConfig сливает структуры для env и флагов.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	conf := &Config{
		ServerAddress: defaultIfBlank(envConfig.ServerAddress, flagsConfig.ServerAddress),
		DBType:        defaultIfBlank(envConfig.DBType, flagsConfig.DBType),
		SQLitePath:    defaultIfBlank(envConfig.SQLitePath, flagsConfig.SQLitePath),
		SweepSpec:     defaultIfBlank(envConfig.SweepSpec, flagsConfig.SweepSpec),
		CORSOrigins:   envConfig.CORSOrigins,
		ShowVersion:   flagsConfig.ShowVersion,
	}
	if len(conf.CORSOrigins) == 0 {
		conf.CORSOrigins = flagsConfig.CORSOrigins
	}
	if len(conf.CORSOrigins) == 0 {
		conf.CORSOrigins = []string{"http://localhost:5173"}
	}
	return conf
}

func defaultIfBlank[T ~string](value T, defaultValue T) T {
	if value == "" {
		return defaultValue
	}
	return value
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
