package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultFileIcon = "📄"
	dirIcon         = "📁"
	asciiDirMarker  = "[d]"
	asciiFileMarker = "[f]"
)

// fileType is the icon and category shown for a file extension.
type fileType struct {
	Icon     string
	Category string
}

var builtinFileTypes = map[string]fileType{
	// Documents
	".pdf": {"📄", "document"}, ".doc": {"📝", "document"}, ".docx": {"📝", "document"},
	".txt": {"📄", "document"}, ".md": {"📝", "document"}, ".rst": {"📝", "document"},
	".rtf": {"📄", "document"},
	// Images
	".jpg": {"🖼️", "image"}, ".jpeg": {"🖼️", "image"}, ".png": {"🖼️", "image"},
	".gif": {"🖼️", "image"}, ".bmp": {"🖼️", "image"}, ".svg": {"🖼️", "image"},
	".webp": {"🖼️", "image"}, ".ico": {"🖼️", "image"}, ".tiff": {"🖼️", "image"},
	".tif": {"🖼️", "image"},
	// Video
	".mp4": {"🎥", "video"}, ".avi": {"🎥", "video"}, ".mkv": {"🎥", "video"},
	".mov": {"🎥", "video"}, ".wmv": {"🎥", "video"}, ".flv": {"🎥", "video"},
	".webm": {"🎥", "video"}, ".m4v": {"🎥", "video"},
	// Audio
	".mp3": {"🎵", "audio"}, ".wav": {"🎵", "audio"}, ".flac": {"🎵", "audio"},
	".aac": {"🎵", "audio"}, ".ogg": {"🎵", "audio"}, ".m4a": {"🎵", "audio"},
	".wma": {"🎵", "audio"},
	// Source code
	".py": {"🐍", "code"}, ".js": {"📜", "code"}, ".ts": {"📜", "code"},
	".jsx": {"📜", "code"}, ".tsx": {"📜", "code"}, ".html": {"🌐", "code"},
	".htm": {"🌐", "code"}, ".css": {"🎨", "code"}, ".scss": {"🎨", "code"},
	".sass": {"🎨", "code"}, ".php": {"🐘", "code"}, ".rb": {"💎", "code"},
	".go": {"🐹", "code"}, ".rs": {"🦀", "code"}, ".java": {"☕", "code"},
	".c": {"⚙️", "code"}, ".cpp": {"⚙️", "code"}, ".cxx": {"⚙️", "code"},
	".h": {"⚙️", "code"}, ".hpp": {"⚙️", "code"}, ".cs": {"🔷", "code"},
	".vb": {"🔷", "code"}, ".swift": {"🦉", "code"}, ".kt": {"🟣", "code"},
	".scala": {"🔺", "code"}, ".r": {"📊", "code"}, ".m": {"🍎", "code"},
	".sh": {"🐚", "code"}, ".bash": {"🐚", "code"}, ".zsh": {"🐚", "code"},
	".fish": {"🐚", "code"}, ".ps1": {"💻", "code"}, ".bat": {"💻", "code"},
	".cmd": {"💻", "code"},
	// Data
	".json": {"📋", "data"}, ".xml": {"📋", "data"}, ".yaml": {"📋", "data"},
	".yml": {"📋", "data"}, ".csv": {"📊", "data"}, ".xlsx": {"📊", "data"},
	".xls": {"📊", "data"}, ".sql": {"🗄️", "data"}, ".db": {"🗄️", "data"},
	".sqlite": {"🗄️", "data"}, ".sqlite3": {"🗄️", "data"},
	// Configuration
	".ini": {"⚙️", "config"}, ".cfg": {"⚙️", "config"}, ".conf": {"⚙️", "config"},
	".config": {"⚙️", "config"}, ".toml": {"⚙️", "config"}, ".env": {"🔐", "config"},
	".gitignore": {"🙈", "config"}, ".dockerfile": {"🐳", "config"},
	".dockerignore": {"🐳", "config"},
	// Archives
	".zip": {"📦", "archive"}, ".rar": {"📦", "archive"}, ".7z": {"📦", "archive"},
	".tar": {"📦", "archive"}, ".gz": {"📦", "archive"}, ".bz2": {"📦", "archive"},
	".xz": {"📦", "archive"},
	// Executables and packages
	".exe": {"⚡", "executable"}, ".msi": {"⚡", "executable"}, ".run": {"⚡", "executable"},
	".deb": {"📱", "executable"}, ".rpm": {"📱", "executable"}, ".dmg": {"📱", "executable"},
	".app": {"📱", "executable"},
	// Fonts
	".ttf": {"🔤", "font"}, ".otf": {"🔤", "font"}, ".woff": {"🔤", "font"},
	".woff2": {"🔤", "font"},
	// Others
	".lock": {"🔒", "other"}, ".log": {"📋", "other"}, ".tmp": {"🗑️", "other"},
	".bak": {"💾", "other"}, ".old": {"🗑️", "other"}, ".orig": {"🗑️", "other"},
}

// iconSet resolves file icons, with optional per-extension overrides.
type iconSet struct {
	overrides map[string]string // lowercase extension -> icon
}

// defaultIcons has no overrides; it is what renderers fall back to.
var defaultIcons = &iconSet{}

// fileSuffix returns the final extension of name including its dot.
// Names whose only dot is the leading one (".env", ".gitignore") have none.
func fileSuffix(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// fileIcon returns the emoji for a file name, case-insensitive on the extension.
func (s *iconSet) fileIcon(name string) string {
	ext := strings.ToLower(fileSuffix(name))
	if s != nil {
		if icon, ok := s.overrides[ext]; ok {
			return icon
		}
	}
	if ft, ok := builtinFileTypes[ext]; ok {
		return ft.Icon
	}
	return defaultFileIcon
}

// fileCategory returns the broad category of a file name, "other" if unknown.
func fileCategory(name string) string {
	if ft, ok := builtinFileTypes[strings.ToLower(fileSuffix(name))]; ok {
		return ft.Category
	}
	return "other"
}

// loadIconSet looks for icons.yml in the standard config locations and parses
// it as a map of extension to icon. No file means no overrides.
func loadIconSet() (*iconSet, error) {
	configPaths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".config", appName))
	}
	configPaths = append(configPaths, ".")

	for _, p := range configPaths {
		path := filepath.Join(p, "icons.yml")
		if _, err := os.Stat(path); err == nil {
			return loadIconFile(path)
		}
	}
	return defaultIcons, nil
}

func loadIconFile(path string) (*iconSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading icons file %s: %w", path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing icons file %s: %w", path, err)
	}

	set := &iconSet{overrides: make(map[string]string, len(raw))}
	for ext, icon := range raw {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || icon == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set.overrides[ext] = icon
	}
	logger.Debugf("loaded %d icon overrides from %s", len(set.overrides), path)
	return set, nil
}
