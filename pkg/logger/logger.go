package logger

import (
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log является глобальным экземпляром логгера для всего приложения.
var Log *logrus.Logger

// Config - настройки логгера из переменных окружения
type Config struct {
	Level      string `env:"LOG_LEVEL"        envDefault:"info"`
	Format     string `env:"LOG_FORMAT"       envDefault:"text"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB"  envDefault:"10"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS"  envDefault:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"7"`
}

// Init инициализирует глобальный логгер.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		cfg = Config{Level: "info", Format: "text", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 7}
	}
	InitWith(cfg)
}

// InitWith инициализирует логгер готовым конфигом (тесты, реплей).
func InitWith(cfg Config) {
	Log = logrus.New()

	// 1. Уровень логирования. По умолчанию - "info". Для отладки можно выставить "debug".
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер.
	// "json" - для продакшена и сбора логов.
	// "text" - для удобной разработки.
	if strings.ToLower(cfg.Format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   cfg.File == "",
		})
	}

	// 3. Куда писать. stdout занят операторской консолью, поэтому по умолчанию stderr.
	// Если задан LOG_FILE - пишем в файл с ротацией.
	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
	}
	Log.SetOutput(out)
}
