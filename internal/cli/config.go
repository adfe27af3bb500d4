package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/config"
	"github.com/tessro/crate/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing crate configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  library.store             Playlist file location
  library.default_playlist  Playlist used when --playlist is not given
  playback.volume           Default volume (0-100)
  playback.shuffle          Start new playlists shuffled (true/false)
  playback.poll_interval    Milliseconds between end-of-track checks
  play.no_emoji             Plain event lines for 'crate play' (true/false)
  play.timestamp            Timestamp event lines (true/false)
  play.format               Event line template
  tui.theme                 auto, dark or light
  tui.refresh_interval      Dashboard refresh in milliseconds
  log.level                 debug, info, warn or error
  log.file                  Write logs to this file

Examples:
  crate config set library.default_playlist "Road Trip"
  crate config set playback.volume 50`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var (
	intKeys = map[string]bool{
		"playback.volume":        true,
		"playback.poll_interval": true,
		"tui.refresh_interval":   true,
	}
	boolKeys = map[string]bool{
		"playback.shuffle": true,
		"play.no_emoji":    true,
		"play.timestamp":   true,
	}
	stringKeys = map[string]bool{
		"library.store":            true,
		"library.default_playlist": true,
		"play.format":              true,
		"tui.theme":                true,
		"log.level":                true,
		"log.file":                 true,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	// Pretty print as TOML
	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return errors.WithSuggestion(
			fmt.Errorf("%s: %w", configPath, errors.ErrConfigNotFound),
			"Run 'crate config init' first")
	}

	// Find editor
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := writeConfig(configPath, config.Default()); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Create a playlist with 'crate playlist new <name>'")
	fmt.Println("  2. Add music with 'crate track add <files>'")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := setConfigValue(key, value); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// setConfigValue updates one key in the config file, creating the file
// from defaults if needed. Keys not being set are preserved as written.
func setConfigValue(key, value string) error {
	configPath := getConfigPath()

	rawConfig := map[string]any{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), &rawConfig); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// Created below
	default:
		return fmt.Errorf("failed to read config: %w", err)
	}

	// Parse the key (e.g., "playback.volume" -> ["playback", "volume"])
	section, field, ok := strings.Cut(key, ".")
	if !ok || strings.Contains(field, ".") {
		return fmt.Errorf("invalid key format. Use 'section.key' (e.g., playback.volume)")
	}

	var typedValue any
	switch {
	case intKeys[key]:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("value must be an integer for %s", key)
		}
		typedValue = i
	case boolKeys[key]:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("value must be true or false for %s", key)
		}
		typedValue = b
	case stringKeys[key]:
		typedValue = value
	default:
		return errors.WithSuggestion(
			fmt.Errorf("%w: unknown key %s", errors.ErrInvalidConfig, key),
			"Run 'crate config set --help' to list supported keys")
	}

	sectionMap, ok := rawConfig[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		rawConfig[section] = sectionMap
	}
	sectionMap[field] = typedValue

	return writeConfig(configPath, rawConfig)
}

func writeConfig(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Crate Configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
