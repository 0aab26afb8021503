package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"teeth-classifier/internal/domain/entity"
)

const (
	appName          = "teeth-classifier"
	defaultModelFile = "teeth_classification_model.onnx"
)

type Config struct {
	TelegramToken string
	HTTPAddr      string
	LogLevel      string
	Model         ModelConfig
}

type ModelConfig struct {
	URL         string
	Path        string
	LibraryPath string
	InputName   string
	OutputName  string
	ImageSize   int
}

// Size размер входного изображения модели.
func (m ModelConfig) Size() entity.Size {
	return entity.Size{Width: m.ImageSize, Height: m.ImageSize}
}

// Load собирает конфигурацию из флагов, окружения, .env и необязательного YAML-файла.
// Приоритет: флаг > окружение > файл > значение по умолчанию.
func Load(args []string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.String("telegram-token", "", "Telegram bot token, empty disables the bot")
	fs.String("http-addr", ":8080", "web UI listen address, empty disables the web UI")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("model-url", "", "URL the model is downloaded from when missing locally")
	fs.String("model-path", "", "local path of the cached ONNX model")
	fs.String("ort-library", "", "path to the onnxruntime shared library")
	fs.String("input-name", "", "model input tensor name, empty = first input")
	fs.String("output-name", "", "model output tensor name, empty = first output")
	fs.Int("image-size", 100, "preprocessing target size in pixels (square)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("TEETH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// Пустая переменная, например TEETH_SERVER_ADDR=, отключает поверхность
	v.AllowEmptyEnv(true)

	bindings := map[string]string{
		"config":            "config",
		"telegram.token":    "telegram-token",
		"server.addr":       "http-addr",
		"log.level":         "log-level",
		"model.url":         "model-url",
		"model.path":        "model-path",
		"model.ort_library": "ort-library",
		"model.input_name":  "input-name",
		"model.output_name": "output-name",
		"model.image_size":  "image-size",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, err
		}
	}
	// Токен по-прежнему можно задать как TELEGRAM_TOKEN
	if err := v.BindEnv("telegram.token", "TEETH_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"); err != nil {
		return nil, err
	}

	configDir := ""
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		configDir = filepath.Dir(abs)
	}

	cfg := &Config{
		TelegramToken: v.GetString("telegram.token"),
		HTTPAddr:      v.GetString("server.addr"),
		LogLevel:      v.GetString("log.level"),
		Model: ModelConfig{
			URL:         v.GetString("model.url"),
			Path:        resolvePath(v.GetString("model.path"), configDir),
			LibraryPath: resolvePath(v.GetString("model.ort_library"), configDir),
			InputName:   v.GetString("model.input_name"),
			OutputName:  v.GetString("model.output_name"),
			ImageSize:   v.GetInt("model.image_size"),
		},
	}

	if cfg.Model.Path == "" {
		cfg.Model.Path = DefaultModelPath()
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Model.ImageSize <= 0 {
		return fmt.Errorf("model.image_size must be positive, got %d", c.Model.ImageSize)
	}
	if c.Model.URL == "" {
		if _, err := os.Stat(c.Model.Path); err != nil {
			return fmt.Errorf("model.url is empty and model %s is not available: %w", c.Model.Path, err)
		}
	}
	if c.TelegramToken == "" && c.HTTPAddr == "" {
		return errors.New("nothing to run: set telegram.token and/or server.addr")
	}
	return nil
}

// DefaultModelPath путь к модели в пользовательском каталоге кэша
func DefaultModelPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join("models", defaultModelFile)
	}
	return filepath.Join(dir, appName, defaultModelFile)
}

func resolvePath(path, baseDir string) string {
	if path == "" || baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
