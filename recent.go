package combobox

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RecentConfig holds the configuration of a RecentManager.
//
// File path supports multiple formats:
// - Empty string: memory only (no persistence)
// - Absolute path: "/home/user/.combobox_recent"
// - Home directory: "~/.combobox_recent"
// - Relative path: "./recent" (converted to absolute)
// - XDG compliant: Use GetDefaultRecentFile() for "~/.config/combobox/recent"
type RecentConfig struct {
	Enabled     bool   // Enable/disable recording
	MaxEntries  int    // Maximum number of entries kept per source (default: 50)
	File        string // File path for persistence (empty = memory only)
	MaxFileSize int64  // Maximum file size in bytes before rotation (default: 1MB)
	MaxBackups  int    // Maximum number of backup files to keep (default: 3)
}

// DefaultRecentConfig returns the default recent selection configuration.
func DefaultRecentConfig() *RecentConfig {
	return &RecentConfig{
		Enabled:     true,
		MaxEntries:  50,
		File:        "",
		MaxFileSize: 1024 * 1024, // 1MB
		MaxBackups:  3,
	}
}

// GetDefaultRecentFile returns ~/.config/combobox/recent, or
// $XDG_CONFIG_HOME/combobox/recent when XDG_CONFIG_HOME is set.
func GetDefaultRecentFile() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "combobox", "recent")
}

// RecentEntry is a selected option remembered for a source.
type RecentEntry struct {
	Source string `json:"source"`
	Option Option `json:"option"`
}

// RecentManager remembers the options a user selected, per source, and
// persists them as JSON lines. It backs "recently viewed" lists.
// RecentManager is not safe for concurrent use.
type RecentManager struct {
	config  *RecentConfig
	entries []RecentEntry // oldest first
}

// NewRecentManager creates a manager with the given configuration.
func NewRecentManager(config *RecentConfig) *RecentManager {
	if config == nil {
		config = DefaultRecentConfig()
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = 50
	}
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = 1024 * 1024 // 1MB default
	}
	if config.MaxBackups < 0 {
		config.MaxBackups = 3
	}

	if config.File != "" {
		if absPath, err := expandPath(config.File); err == nil {
			config.File = absPath
		}
	}

	return &RecentManager{
		config:  config,
		entries: make([]RecentEntry, 0),
	}
}

// IsEnabled returns whether recording is enabled
func (rm *RecentManager) IsEnabled() bool {
	return rm.config.Enabled
}

// Load reads entries from the configured file. A missing file is not an error.
func (rm *RecentManager) Load() error {
	if !rm.config.Enabled || rm.config.File == "" {
		return nil
	}

	file, err := os.Open(rm.config.File)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open recent file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry RecentEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue // skip corrupt lines
		}
		rm.entries = append(rm.entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read recent file: %w", err)
	}
	return nil
}

// Save writes the entries to the configured file.
func (rm *RecentManager) Save() error {
	if !rm.config.Enabled || rm.config.File == "" {
		return nil
	}

	if err := rm.rotateIfNeeded(); err != nil {
		return fmt.Errorf("failed to rotate recent file: %w", err)
	}

	dir := filepath.Dir(rm.config.File)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create recent directory: %w", err)
		}
	}

	return rm.writeEntries(rm.entries)
}

func (rm *RecentManager) writeEntries(entries []RecentEntry) error {
	file, err := os.Create(rm.config.File)
	if err != nil {
		return fmt.Errorf("failed to create recent file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("failed to write recent entry: %w", err)
		}
	}
	return nil
}

// Add remembers opt as the most recent selection for source. An earlier entry
// with the same value is replaced. Action rows are never recorded.
func (rm *RecentManager) Add(source string, opt Option) {
	if !rm.config.Enabled || opt.Value == "" || opt.IsAction {
		return
	}

	for i, entry := range rm.entries {
		if entry.Source == source && entry.Option.Value == opt.Value {
			rm.entries = append(rm.entries[:i], rm.entries[i+1:]...)
			break
		}
	}
	rm.entries = append(rm.entries, RecentEntry{Source: source, Option: opt.clone()})
	rm.trim(source)
}

// trim drops the oldest entries of source beyond MaxEntries.
func (rm *RecentManager) trim(source string) {
	count := 0
	for _, entry := range rm.entries {
		if entry.Source == source {
			count++
		}
	}
	excess := count - rm.config.MaxEntries
	if excess <= 0 {
		return
	}
	kept := rm.entries[:0]
	for _, entry := range rm.entries {
		if entry.Source == source && excess > 0 {
			excess--
			continue
		}
		kept = append(kept, entry)
	}
	rm.entries = kept
}

// Recent returns up to limit options of source, most recent first.
// A limit of zero or less returns all of them.
func (rm *RecentManager) Recent(source string, limit int) []Option {
	if !rm.config.Enabled {
		return []Option{}
	}
	options := []Option{}
	for i := len(rm.entries) - 1; i >= 0; i-- {
		if rm.entries[i].Source != source {
			continue
		}
		options = append(options, rm.entries[i].Option)
		if limit > 0 && len(options) == limit {
			break
		}
	}
	return options
}

// Entries returns a copy of every entry, oldest first.
func (rm *RecentManager) Entries() []RecentEntry {
	if !rm.config.Enabled {
		return []RecentEntry{}
	}
	return append([]RecentEntry{}, rm.entries...)
}

// Clear forgets every entry.
func (rm *RecentManager) Clear() {
	if !rm.config.Enabled {
		return
	}
	rm.entries = []RecentEntry{}
}

// rotateIfNeeded checks if the recent file needs rotation and performs it
func (rm *RecentManager) rotateIfNeeded() error {
	if rm.config.File == "" {
		return nil
	}

	info, err := os.Stat(rm.config.File)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if info.Size() < rm.config.MaxFileSize {
		return nil
	}
	return rm.rotateFile()
}

// rotateFile shifts file.N to file.N+1, moves the current file to file.1 and
// keeps the newer half of the entries in memory.
func (rm *RecentManager) rotateFile() error {
	if rm.config.MaxBackups <= 0 {
		return os.Truncate(rm.config.File, 0)
	}

	oldestBackup := rm.config.File + "." + strconv.Itoa(rm.config.MaxBackups)
	if _, err := os.Stat(oldestBackup); err == nil {
		if err := os.Remove(oldestBackup); err != nil {
			return fmt.Errorf("failed to remove oldest backup: %w", err)
		}
	}

	for i := rm.config.MaxBackups - 1; i >= 1; i-- {
		oldFile := rm.config.File + "." + strconv.Itoa(i)
		newFile := rm.config.File + "." + strconv.Itoa(i+1)

		if _, err := os.Stat(oldFile); err == nil {
			if err := os.Rename(oldFile, newFile); err != nil {
				return fmt.Errorf("failed to rotate backup %d: %w", i, err)
			}
		}
	}

	if err := os.Rename(rm.config.File, rm.config.File+".1"); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	keep := len(rm.entries) / 2
	if keep < 100 {
		keep = len(rm.entries)
	}
	rm.entries = rm.entries[len(rm.entries)-keep:]
	return nil
}

// expandPath expands "~" and converts path to an absolute path.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to convert to absolute path: %w", err)
	}
	return absPath, nil
}
