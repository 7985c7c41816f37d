package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/aws-vpc-cleaner/internal/domain/repository"
	"github.com/diillson/aws-vpc-cleaner/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// decoder associa um formato ao seu unmarshal.
type decoder struct {
	format    string
	unmarshal func(data []byte, v interface{}) error
}

var decoders = map[string]decoder{
	".toml": {format: "TOML", unmarshal: toml.Unmarshal},
	".yaml": {format: "YAML", unmarshal: yaml.Unmarshal},
	".yml":  {format: "YAML", unmarshal: yaml.Unmarshal},
	".json": {format: "JSON", unmarshal: json.Unmarshal},
}

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON, escolhido pela extensão.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	dec, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg types.Config
	if err := dec.unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s file: %w", dec.format, err)
	}

	normalize(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	return &cfg, nil
}

// normalize remove espaços e entradas vazias das listas.
func normalize(cfg *types.Config) {
	cfg.Profile = strings.TrimSpace(cfg.Profile)
	cfg.Regions = compact(cfg.Regions)
	cfg.ReportType = compact(cfg.ReportType)
}

func compact(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// validate rejeita valores que nunca seriam aceitos pelas flags equivalentes.
func validate(cfg *types.Config) error {
	if cfg.MaxRetries != nil && *cfg.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", *cfg.MaxRetries)
	}
	if cfg.RetryDelay == "" {
		return nil
	}
	delay, err := time.ParseDuration(cfg.RetryDelay)
	if err != nil {
		return fmt.Errorf("retry_delay: %w", err)
	}
	if delay < 0 {
		return fmt.Errorf("retry_delay must be >= 0, got %s", cfg.RetryDelay)
	}
	return nil
}
