package menush

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-navi/menush/internal/menu"
	"github.com/go-navi/menush/internal/process"
	"github.com/go-navi/menush/internal/utils"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Default file names inside the configuration directory
const (
	defaultConfigFile = "menush.yml"
	defaultMenusDir   = "menus"
	defaultStoreFile  = "variables"
	defaultLogFile    = "activity.log"
)

// readYamlConfiguration loads and parses the config file. A missing file is only
// an error when it was requested explicitly.
func readYamlConfiguration(path string, explicit bool) (YamlConfig, error) {
	var configResult YamlConfig

	fileData, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return configResult, nil
		}
		return configResult, fmt.Errorf("Configuration file not found. Path: %s", path)
	}

	content := replaceEnvironmentVariables(string(fileData), true)
	if strings.TrimSpace(content) == "" {
		return configResult, nil
	}

	if err := yaml.UnmarshalWithOptions([]byte(content), &configResult, yaml.Strict()); err != nil {
		return configResult, fmt.Errorf("Invalid configuration file `%s`: %v", path, err)
	}

	return configResult, nil
}

// loadSettings merges defaults, the config file and command-line flags
func loadSettings(flags Flags) (Settings, error) {
	configDir := utils.ConfigDir()
	configPath := filepath.Join(configDir, defaultConfigFile)
	explicit := strings.TrimSpace(flags.File) != ""

	if explicit {
		path, err := filepath.Abs(utils.ExpandHome(flags.File))
		if err != nil {
			return Settings{}, fmt.Errorf("Failed to determine configuration file path: %w", err)
		}

		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return Settings{}, fmt.Errorf("Configuration file not found. Path: %s", flags.File)
		}

		configPath = path
		configDir = filepath.Dir(path)
	}

	config, err := readYamlConfiguration(configPath, explicit)
	if err != nil {
		return Settings{}, err
	}

	settings := Settings{
		ConfigPath: configPath,
		MenusDir:   resolveFilePath(utils.FirstNonEmpty(config.Menus, defaultMenusDir), configDir),
		Root:       utils.FirstNonEmpty(config.Root, menu.DefaultRoot),
		Pattern:    utils.FirstNonEmpty(config.Pattern, menu.DefaultPattern),
		StorePath:  resolveFilePath(utils.FirstNonEmpty(config.Store, defaultStoreFile), configDir),
		LogPath:    resolveFilePath(utils.FirstNonEmpty(config.Log, defaultLogFile), configDir),
		Shell:      utils.FirstNonEmpty(config.Shell, process.DefaultShell()),
		Title:      strings.TrimSpace(config.Title),
		Viewer:     config.Viewer == nil || *config.Viewer,
		Watch:      config.Watch == nil || *config.Watch,
		DotEnv:     parseDotEnvConfiguration(config.Dotenv, configDir),
	}

	if strings.TrimSpace(flags.Menus) != "" {
		path, err := filepath.Abs(utils.ExpandHome(flags.Menus))
		if err != nil {
			return Settings{}, fmt.Errorf("Failed to determine menu directory: %w", err)
		}
		settings.MenusDir = path
	}

	if flags.NoViewer {
		settings.Viewer = false
	}

	return settings, nil
}

// resolveFilePath makes relative paths relative to the configuration directory
func resolveFilePath(targetPath string, baseDirPath string) string {
	targetPath = utils.ExpandHome(strings.TrimSpace(targetPath))

	if filepath.IsAbs(targetPath) {
		return filepath.Clean(targetPath)
	}

	if targetPath != "" {
		return filepath.Clean(filepath.Join(baseDirPath, targetPath))
	}

	return baseDirPath
}

// parseDotEnvConfiguration processes dotenv config entries into structured format
func parseDotEnvConfiguration(dotEnvConfig any, baseDirPath string) DotEnvConfig {
	if dotEnvConfig == nil {
		return DotEnvConfig{}
	}

	var envFileConfig DotEnvConfig
	var entries []string

	switch value := dotEnvConfig.(type) {
	case string:
		entries = []string{value}
	case []any:
		for _, item := range value {
			if str, ok := item.(string); ok {
				entries = append(entries, str)
			}
		}
	case []string:
		entries = value
	}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		// Parse path and optional keys
		parts := strings.Split(entry, "|")
		path := resolveFilePath(parts[0], baseDirPath)

		var keys []string
		if len(parts) > 1 {
			for _, key := range strings.Split(parts[1], ",") {
				if key = strings.TrimSpace(key); key != "" {
					keys = append(keys, key)
				}
			}
		}

		envFileConfig.Files = append(envFileConfig.Files, DotEnvFile{
			Path: path,
			Keys: keys,
		})
	}

	envFileConfig.Valid = len(envFileConfig.Files) > 0
	return envFileConfig
}

// loadEnvironmentVariables reads the configured .env files into KEY=VALUE pairs
func loadEnvironmentVariables(config DotEnvConfig) ([]string, error) {
	if !config.Valid {
		return nil, nil
	}

	envVarsMap := make(map[string]string)

	for _, file := range config.Files {
		fileEnv, err := godotenv.Read(file.Path)
		if err != nil {
			return nil, fmt.Errorf("Failed to load environment file `%s`: %v", file.Path, err)
		}

		if len(file.Keys) == 0 {
			for k, v := range fileEnv {
				envVarsMap[k] = replaceEnvironmentVariables(v, false)
			}
			continue
		}

		for _, key := range file.Keys {
			if val, exists := fileEnv[key]; exists {
				envVarsMap[key] = replaceEnvironmentVariables(val, false)
			} else {
				return nil, fmt.Errorf("Environment variable `%s` not found in file `%s`", key, file.Path)
			}
		}
	}

	return formatEnvironmentMap(envVarsMap), nil
}

// exportEnvironmentVariables sets KEY=VALUE pairs in the process environment
func exportEnvironmentVariables(pairs []string) error {
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("Failed to export environment variable `%s`: %w", key, err)
		}
	}
	return nil
}

// formatEnvironmentMap converts a map to a sorted KEY=VALUE string slice
func formatEnvironmentMap(envMap map[string]string) []string {
	if len(envMap) == 0 {
		return nil
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}

	sort.Strings(result)
	return result
}

// replaceEnvironmentVariables expands ${VAR} references. Unknown variables are
// left untouched and `\$` produces a literal dollar sign.
func replaceEnvironmentVariables(input string, escapeChars bool) string {
	input = strings.ReplaceAll(input, "\\\\$", "\uF002")
	input = strings.ReplaceAll(input, "\\$", "\uF001")
	input = strings.ReplaceAll(input, "\uF002", "\\$")

	result := os.Expand(input, func(key string) string {
		if val, exists := os.LookupEnv(key); exists {
			if escapeChars {
				val = strings.ReplaceAll(val, "\\", "\\\\")
				val = strings.ReplaceAll(val, "\"", "\\\"")
			}
			return val
		}
		return "${" + key + "}"
	})

	return strings.ReplaceAll(result, "\uF001", "$")
}
