package api

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
)

// sharedPartialFile holds the label card markup reused by the editor preview,
// the print sheet and the HTMX preview swap.
const sharedPartialFile = "label_previews_partial.html"

func parsePageTemplates(templateDir string, funcMap template.FuncMap, pages []string) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		parsed, err := template.New("base").Funcs(funcMap).ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page+".html"),
			filepath.Join(templateDir, sharedPartialFile),
		)
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", page, err)
		}
		templates[page] = parsed
	}
	return templates, nil
}

// Partials are executed by their own name so HTMX swaps get bare fragments.
func parsePartialTemplates(templateDir string, funcMap template.FuncMap, partialFiles []string) (map[string]*template.Template, error) {
	partials := make(map[string]*template.Template, len(partialFiles))
	for _, partial := range partialFiles {
		name := strings.TrimSuffix(partial, ".html")
		files := []string{filepath.Join(templateDir, sharedPartialFile)}
		if partial != sharedPartialFile {
			files = append(files, filepath.Join(templateDir, partial))
		}
		parsed, err := template.New(name).Funcs(funcMap).ParseFiles(files...)
		if err != nil {
			return nil, fmt.Errorf("parse partial %s: %w", partial, err)
		}
		partials[name] = parsed
	}
	return partials, nil
}
