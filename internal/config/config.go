// Package config loads ghostwriter settings from defaults, an optional TOML
// file, GHOSTWRITER_* environment variables and bound command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/petasbytes/ghostwriter/internal/capture"
	"github.com/petasbytes/ghostwriter/internal/geom"
	"github.com/petasbytes/ghostwriter/internal/logging"
	"github.com/petasbytes/ghostwriter/internal/trigger"
)

const (
	envPrefix  = "GHOSTWRITER"
	configName = "config"
	configType = "toml"
	configDir  = ".config/ghostwriter"
)

type Devices struct {
	Pen    string `mapstructure:"pen" toml:"pen"`
	Touch  string `mapstructure:"touch" toml:"touch"`
	UInput string `mapstructure:"uinput" toml:"uinput"`
}

type Framebuffer struct {
	Process    string `mapstructure:"process" toml:"process"`
	Device     string `mapstructure:"device" toml:"device"`
	HeaderSkip int64  `mapstructure:"header_skip" toml:"header_skip"`
}

// Calibration holds the screen-to-device mapping of each input surface.
type Calibration struct {
	Pen   geom.Calibration `mapstructure:"pen" toml:"pen"`
	Touch geom.Calibration `mapstructure:"touch" toml:"touch"`
}

type Config struct {
	Engine    string        `mapstructure:"engine" toml:"engine"`
	Model     string        `mapstructure:"model" toml:"model"`
	APIKey    string        `mapstructure:"api_key" toml:"api_key,omitempty"`
	BaseURL   string        `mapstructure:"base_url" toml:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" toml:"timeout"`
	MaxTokens int64         `mapstructure:"max_tokens" toml:"max_tokens"`

	Prompt     string `mapstructure:"prompt" toml:"prompt"`
	PromptsDir string `mapstructure:"prompts_dir" toml:"prompts_dir"`
	OutputDir  string `mapstructure:"output_dir" toml:"output_dir"`
	InputPNG   string `mapstructure:"input_png" toml:"input_png"`
	FontsDir   string `mapstructure:"fonts_dir" toml:"fonts_dir"`

	NoSubmit       bool `mapstructure:"no_submit" toml:"no_submit"`
	NoLoop         bool `mapstructure:"no_loop" toml:"no_loop"`
	AbortOnError   bool `mapstructure:"abort_on_error" toml:"abort_on_error"`
	NoDrawProgress bool `mapstructure:"no_draw_progress" toml:"no_draw_progress"`
	SaveScreenshot bool `mapstructure:"save_screenshot" toml:"save_screenshot"`
	SaveBitmap     bool `mapstructure:"save_bitmap" toml:"save_bitmap"`

	LogLevel    string `mapstructure:"log_level" toml:"log_level"`
	MetricsAddr string `mapstructure:"metrics_addr" toml:"metrics_addr"`

	Devices     Devices       `mapstructure:"devices" toml:"devices"`
	Framebuffer Framebuffer   `mapstructure:"framebuffer" toml:"framebuffer"`
	Contrast    capture.Curve `mapstructure:"contrast" toml:"contrast"`
	Trigger     trigger.Zone  `mapstructure:"trigger" toml:"trigger"`
	Calibration Calibration   `mapstructure:"calibration" toml:"calibration"`
}

// SetDefaults registers every key with its reference-panel default so
// that environment variables bind to all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("engine", "")
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", 2*time.Minute)
	v.SetDefault("max_tokens", 5000)

	v.SetDefault("prompt", "general")
	v.SetDefault("prompts_dir", "prompts")
	v.SetDefault("output_dir", "tmp")
	v.SetDefault("input_png", "")
	v.SetDefault("fonts_dir", "")

	v.SetDefault("no_submit", false)
	v.SetDefault("no_loop", false)
	v.SetDefault("abort_on_error", false)
	v.SetDefault("no_draw_progress", false)
	v.SetDefault("save_screenshot", false)
	v.SetDefault("save_bitmap", false)

	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")

	v.SetDefault("devices.pen", "/dev/input/event1")
	v.SetDefault("devices.touch", "/dev/input/event2")
	v.SetDefault("devices.uinput", "/dev/uinput")

	v.SetDefault("framebuffer.process", capture.DefaultProcess)
	v.SetDefault("framebuffer.device", capture.DefaultDevice)
	v.SetDefault("framebuffer.header_skip", capture.DefaultHeaderSkip)

	v.SetDefault("contrast.low", capture.DefaultCurve.Low)
	v.SetDefault("contrast.high", capture.DefaultCurve.High)

	v.SetDefault("trigger.min_x", trigger.DefaultZone.MinX)
	v.SetDefault("trigger.min_y", trigger.DefaultZone.MinY)
	v.SetDefault("trigger.max_x", trigger.DefaultZone.MaxX)
	v.SetDefault("trigger.max_y", trigger.DefaultZone.MaxY)

	setCalibrationDefaults(v, "calibration.pen", geom.PenRM2)
	setCalibrationDefaults(v, "calibration.touch", geom.TouchRM2)
}

func setCalibrationDefaults(v *viper.Viper, prefix string, c geom.Calibration) {
	v.SetDefault(prefix+".screen_width", c.ScreenWidth)
	v.SetDefault(prefix+".screen_height", c.ScreenHeight)
	v.SetDefault(prefix+".device_max_x", c.DeviceMaxX)
	v.SetDefault(prefix+".device_max_y", c.DeviceMaxY)
	v.SetDefault(prefix+".swap_axes", c.SwapAxes)
	v.SetDefault(prefix+".flip_x", c.FlipX)
	v.SetDefault(prefix+".flip_y", c.FlipY)
}

// Load reads configuration into a Config. file names an explicit config
// file; when empty, $HOME/.config/ghostwriter/config.toml is used if it
// exists. Flags must already be bound to v.
func Load(v *viper.Viper, file string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, configDir))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a cycle.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Engine) {
	case "", "anthropic", "openai", "google":
	default:
		errs = append(errs, fmt.Errorf("engine %q: want anthropic, openai or google", c.Engine))
	}
	if c.Engine == "" && c.Model == "" {
		errs = append(errs, errors.New("either engine or model must be set"))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s: must not be negative", c.Timeout))
	}
	if c.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("max_tokens %d: must not be negative", c.MaxTokens))
	}
	if !c.Contrast.Valid() {
		errs = append(errs, fmt.Errorf("contrast: need 0 <= low < high <= 1, got %v/%v", c.Contrast.Low, c.Contrast.High))
	}
	if c.Trigger.MaxX > 0 && c.Trigger.MaxX <= c.Trigger.MinX {
		errs = append(errs, fmt.Errorf("trigger: max_x %d must exceed min_x %d", c.Trigger.MaxX, c.Trigger.MinX))
	}
	if c.Trigger.MaxY > 0 && c.Trigger.MaxY <= c.Trigger.MinY {
		errs = append(errs, fmt.Errorf("trigger: max_y %d must exceed min_y %d", c.Trigger.MaxY, c.Trigger.MinY))
	}
	if !c.Calibration.Pen.Valid() {
		errs = append(errs, errors.New("calibration.pen: screen and device dimensions must be positive"))
	}
	if !c.Calibration.Touch.Valid() {
		errs = append(errs, errors.New("calibration.touch: screen and device dimensions must be positive"))
	}
	if c.Framebuffer.HeaderSkip < 0 {
		errs = append(errs, fmt.Errorf("framebuffer.header_skip %d: must not be negative", c.Framebuffer.HeaderSkip))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TOML renders the effective configuration with the API key omitted.
func (c Config) TOML() ([]byte, error) {
	c.APIKey = ""
	return toml.Marshal(c)
}
