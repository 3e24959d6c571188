package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"engine":           "engine",
	"model":            "model",
	"api-key":          "api_key",
	"base-url":         "base_url",
	"timeout":          "timeout",
	"max-tokens":       "max_tokens",
	"prompt":           "prompt",
	"prompts-dir":      "prompts_dir",
	"output-dir":       "output_dir",
	"input-png":        "input_png",
	"fonts-dir":        "fonts_dir",
	"no-submit":        "no_submit",
	"no-loop":          "no_loop",
	"abort-on-error":   "abort_on_error",
	"no-draw-progress": "no_draw_progress",
	"save-screenshot":  "save_screenshot",
	"save-bitmap":      "save_bitmap",
	"log-level":        "log_level",
	"metrics-addr":     "metrics_addr",
	"pen-device":       "devices.pen",
	"touch-device":     "devices.touch",
	"uinput-device":    "devices.uinput",
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "ghostwriter",
		Short: "Answer handwriting on an e-ink tablet with a vision model",
		Long: "ghostwriter waits for a touch in the top-right corner of the screen, captures the page, " +
			"asks a vision model for a response and writes it back with a virtual keyboard or pen.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), false)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default $HOME/.config/ghostwriter/config.toml)")
	pf.String("engine", "", "model vendor: anthropic, openai or google (inferred from --model when empty)")
	pf.String("model", "", "model name")
	pf.String("api-key", "", "vendor API key (default from the vendor's environment variable)")
	pf.String("base-url", "", "vendor API base URL")
	pf.Duration("timeout", 0, "request timeout")
	pf.Int64("max-tokens", 0, "maximum response tokens")
	pf.String("prompt", "", "prompt name, read from <prompts-dir>/<name>.json")
	pf.String("prompts-dir", "", "directory holding prompt files")
	pf.String("output-dir", "", "directory for saved screenshots and bitmaps")
	pf.String("input-png", "", "use this PNG instead of capturing the screen (implies --no-loop)")
	pf.String("fonts-dir", "", "font directory for SVG text")
	pf.Bool("no-submit", false, "capture the screen, then stop without calling the model")
	pf.Bool("no-loop", false, "run a single cycle")
	pf.Bool("abort-on-error", false, "exit on the first failed cycle")
	pf.Bool("no-draw-progress", false, "do not draw progress marks")
	pf.Bool("save-screenshot", false, "save each screenshot to <output-dir>/screenshot.png")
	pf.Bool("save-bitmap", false, "save each rendered bitmap to <output-dir>/bitmap.png")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address")
	pf.String("pen-device", "", "pen evdev node")
	pf.String("touch-device", "", "touch evdev node")
	pf.String("uinput-device", "", "uinput node for the virtual keyboard")
	bindFlags(a.v, pf)

	rootCmd.AddCommand(
		newRunCmd(a),
		newTextAssistCmd(a),
		newKeyboardTestCmd(a),
		newCaptureCmd(a),
		newDrawCmd(a),
		newTapCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// bindFlags binds every known flag so that only flags set on the command
// line override file and environment values.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}
