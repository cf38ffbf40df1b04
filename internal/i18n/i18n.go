package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

const (
	LangBN = "bn"
	LangEN = "en"
)

var requiredLanguages = []string{LangBN, LangEN}

// Manager serves flat key/value message catalogs, one JSON file per
// language. Lookups fall back to the default language, then to the key.
type Manager struct {
	defaultLanguage string
	locales         map[string]map[string]string
	supported       []string
}

func NewManager(defaultLanguage string, localesDir string) (*Manager, error) {
	if _, err := os.Stat(localesDir); err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	return NewManagerFS(defaultLanguage, os.DirFS(localesDir))
}

func NewManagerFS(defaultLanguage string, locales fs.FS) (*Manager, error) {
	entries, err := fs.ReadDir(locales, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	manager := &Manager{locales: map[string]map[string]string{}}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		language := strings.ToLower(strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
		messages, err := readCatalog(locales, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", language, err)
		}
		manager.locales[language] = messages
		manager.supported = append(manager.supported, language)
	}

	for _, language := range requiredLanguages {
		if _, ok := manager.locales[language]; !ok {
			return nil, fmt.Errorf("required locale %q missing", language)
		}
	}

	sort.Strings(manager.supported)
	manager.defaultLanguage = LangBN
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)
	return manager, nil
}

func readCatalog(locales fs.FS, name string) (map[string]string, error) {
	content, err := fs.ReadFile(locales, name)
	if err != nil {
		return nil, err
	}
	messages := map[string]string{}
	if err := json.Unmarshal(content, &messages); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return messages, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	return append([]string(nil), manager.supported...)
}

// NormalizeLanguage reduces a tag like "bn-BD" to a supported base
// language, or the default when unsupported.
func (manager *Manager) NormalizeLanguage(raw string) string {
	language := baseLanguage(raw)
	if manager.isSupported(language) {
		return language
	}
	return manager.defaultLanguage
}

func (manager *Manager) DetectFromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		if language := baseLanguage(tag); manager.isSupported(language) {
			return language
		}
	}
	return manager.defaultLanguage
}

func (manager *Manager) Messages(language string) map[string]string {
	fallback := manager.locales[manager.defaultLanguage]
	target := manager.locales[manager.NormalizeLanguage(language)]

	result := make(map[string]string, len(fallback)+len(target))
	for key, value := range fallback {
		result[key] = value
	}
	for key, value := range target {
		if strings.TrimSpace(value) != "" {
			result[key] = value
		}
	}
	return result
}

func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.Messages(language)[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

func (manager *Manager) isSupported(language string) bool {
	_, ok := manager.locales[language]
	return language != "" && ok
}

func baseLanguage(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	language = strings.ReplaceAll(language, "_", "-")
	language, _, _ = strings.Cut(language, "-")
	return language
}
