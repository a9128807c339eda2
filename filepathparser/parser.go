package filepathparser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParsePath expands a leading "~/" and returns the absolute form of path.
func ParsePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		dirname, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("filepathparser.ParsePath: %w", err)
		}
		path = filepath.Join(dirname, path[2:])
	}

	return filepath.Abs(path)
}

// CatalogCachePath is the folder holding cached marketplace catalog documents for one
// locale and language: {baseDir}/_azureSdk/catalogApi/{locale}.{language}.
func CatalogCachePath(baseDir string, locale string, language string) (string, error) {
	if strings.TrimSpace(locale) == "" || strings.TrimSpace(language) == "" {
		return "", fmt.Errorf("filepathparser.CatalogCachePath: locale and language are required")
	}
	if strings.ContainsAny(locale+language, `/\.`) {
		return "", fmt.Errorf("filepathparser.CatalogCachePath: invalid locale %q or language %q", locale, language)
	}

	base, err := ParsePath(baseDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "_azureSdk", "catalogApi", locale+"."+language), nil
}

// SafeFileName turns an identifier such as an offer id into a file name that stays inside its folder.
func SafeFileName(name string, extension string) string {
	replacer := strings.NewReplacer("/", "_", `\`, "_", ":", "_", "..", "_")
	return replacer.Replace(strings.TrimSpace(name)) + extension
}
