package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/gubarz/regionfold/internal/folding"
)

// Config holds the application configuration
type Config struct {
	Output       string                    `mapstructure:"output"`
	Verbose      bool                      `mapstructure:"verbose"`
	Watch        bool                      `mapstructure:"watch"`
	Extensions   []string                  `mapstructure:"extensions"`
	Folding      []folding.Spec            `mapstructure:"folding"`
	Languages    map[string][]folding.Spec `mapstructure:"languages"`
	ColorGutter  string                    `mapstructure:"color_gutter"`
	ColorFold    string                    `mapstructure:"color_fold"`
	ColorCursor  string                    `mapstructure:"color_cursor"`
	ColorDim     string                    `mapstructure:"color_dim"`
	ColorCurrent string                    `mapstructure:"color_current"`
}

// C is the global config instance
var C Config

// DefaultFolding is used when no folding rules are configured
var DefaultFolding = []folding.Spec{
	{Name: "region", BeginRegex: `^\s*(//|#|--|;)?\s*#?region\b`, EndRegex: `^\s*(//|#|--|;)?\s*#?endregion\b`},
	{Name: "braces", Begin: "{", End: "}"},
	{Name: "brackets", Begin: "[", End: "]"},
	{Name: "html-comment", Begin: "<!--", End: "-->"},
}

// Init initializes configuration with viper. configFile overrides the
// search path when non-empty. A missing config file is not an error.
func Init(configFile string) error {
	viper.SetDefault("output", "print")
	viper.SetDefault("verbose", false)
	viper.SetDefault("watch", false)
	viper.SetDefault("extensions", []string{})
	viper.SetDefault("color_gutter", "241") // Gray
	viper.SetDefault("color_fold", "36")    // Cyan
	viper.SetDefault("color_cursor", "212") // Pink
	viper.SetDefault("color_dim", "240")
	viper.SetDefault("color_current", "236")

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("regionfold")
		viper.SetConfigType("yaml")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "regionfold"))
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("REGIONFOLD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	C = Config{}
	if err := viper.Unmarshal(&C); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

// Reset clears viper state, for tests and repeated Init calls
func Reset() {
	viper.Reset()
	C = Config{}
}

// ConfigFile returns the config file in use, if any
func ConfigFile() string {
	return viper.ConfigFileUsed()
}

// SpecsFor returns the folding rules for a document path. A languages
// entry keyed by the file extension wins over the default folding list.
func SpecsFor(path string) []folding.Spec {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext != "" {
		for key, specs := range C.Languages {
			if strings.TrimPrefix(strings.ToLower(key), ".") == ext {
				return specs
			}
		}
	}
	if len(C.Folding) > 0 {
		return C.Folding
	}
	return DefaultFolding
}

// GetOutput returns the output mode
func GetOutput() string {
	return viper.GetString("output")
}

// GetVerbose returns whether debug logging is enabled
func GetVerbose() bool {
	return viper.GetBool("verbose")
}

// GetWatch returns whether the viewer reloads on file changes
func GetWatch() bool {
	return viper.GetBool("watch")
}

// GetExtensions returns the extensions scanned in directory mode
func GetExtensions() []string {
	return viper.GetStringSlice("extensions")
}

// GetColorGutter returns the line number color
func GetColorGutter() string {
	return viper.GetString("color_gutter")
}

// GetColorFold returns the fold marker color
func GetColorFold() string {
	return viper.GetString("color_fold")
}

// GetColorCursor returns the cursor color
func GetColorCursor() string {
	return viper.GetString("color_cursor")
}

// GetColorDim returns the color for help and status text
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// GetColorCurrent returns the background of the cursor line
func GetColorCurrent() string {
	return viper.GetString("color_current")
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}
