package menush

// YamlConfig represents the optional menush.yml file
type YamlConfig struct {
	Menus   string `yaml:"menus"`   // Directory holding menu definitions
	Root    string `yaml:"root"`    // Root definition inside the menu directory
	Pattern string `yaml:"pattern"` // Glob discovering definition files
	Store   string `yaml:"store"`   // Variable store file
	Log     string `yaml:"log"`     // Activity log file
	Shell   string `yaml:"shell"`   // Interpreter for actions
	Viewer  *bool  `yaml:"viewer"`  // Open the tmux log viewer
	Watch   *bool  `yaml:"watch"`   // Rebuild the root menu on file changes
	Dotenv  any    `yaml:"dotenv"`  // Environment file settings
	Title   string `yaml:"title"`   // Title of the root menu
}

// Settings is the resolved configuration the shell runs with
type Settings struct {
	ConfigPath string
	MenusDir   string
	Root       string
	Pattern    string
	StorePath  string
	LogPath    string
	Shell      string
	Title      string
	Viewer     bool
	Watch      bool
	DotEnv     DotEnvConfig
}

// Flags holds the command-line options
type Flags struct {
	File     string
	Menus    string
	NoViewer bool
	Help     bool
	Version  bool
}

// DotEnvConfig defines environment file loading configuration
type DotEnvConfig struct {
	Files []DotEnvFile // Environment files to process
	Valid bool         // Config validation status
}

// DotEnvFile specifies an environment file with optional key filtering
type DotEnvFile struct {
	Path string   // Path to the .env file
	Keys []string // Specific keys to load (empty = all)
}
