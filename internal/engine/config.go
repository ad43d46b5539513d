package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"nuggets-server/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config хранит правила партии
type Config struct {
	GoldTotal int   `yaml:"gold"`
	MinPiles  int   `yaml:"minPiles"`
	MaxPiles  int   `yaml:"maxPiles"`
	Seed      int64 `yaml:"seed"` // 0 - случайное зерно
	Plain     bool  `yaml:"plain"`
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		GoldTotal: domain.DefaultGoldTotal,
		MinPiles:  domain.DefaultMinPiles,
		MaxPiles:  domain.DefaultMaxPiles,
	}
}

func (c Config) Validate() error {
	if c.GoldTotal < 1 {
		return fmt.Errorf("%w: gold must be positive, got %d", domain.ErrInvalidConfig, c.GoldTotal)
	}
	if c.MinPiles < 1 {
		return fmt.Errorf("%w: minpiles must be positive, got %d", domain.ErrInvalidConfig, c.MinPiles)
	}
	if c.MaxPiles < c.MinPiles {
		return fmt.Errorf("%w: maxpiles %d is below minpiles %d", domain.ErrInvalidConfig, c.MaxPiles, c.MinPiles)
	}
	if c.Seed < 0 {
		return fmt.Errorf("%w: seed must not be negative, got %d", domain.ErrInvalidConfig, c.Seed)
	}
	return nil
}

// ResolveSeed возвращает зерно партии. Нулевое зерно заменяется временем запуска.
func (c Config) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

// LoadRules накладывает YAML-файл правил поверх base.
// Ключи, которых нет в файле, остаются как в base.
func LoadRules(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("%w: read rules %s: %v", domain.ErrInvalidConfig, path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	cfg := base
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("%w: parse rules %s: %v", domain.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}
