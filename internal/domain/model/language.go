package model

import "strings"

// Language is a target SDK language.
type Language struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

var languages = []Language{
	{ID: "javascript", Name: "JavaScript", Extension: "js"},
	{ID: "typescript", Name: "TypeScript", Extension: "ts"},
	{ID: "python", Name: "Python", Extension: "py"},
	{ID: "java", Name: "Java", Extension: "java"},
	{ID: "csharp", Name: "C#", Extension: "cs"},
	{ID: "go", Name: "Go", Extension: "go"},
	{ID: "ruby", Name: "Ruby", Extension: "rb"},
	{ID: "php", Name: "PHP", Extension: "php"},
}

// SupportedLanguages returns the languages offered by the UI.
// The orchestrator accepts any non-empty language; this list only drives
// selection and file naming.
func SupportedLanguages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// FileExtension returns the source file extension for language, or "txt"
// when the language is not in the catalogue.
func FileExtension(language string) string {
	id := strings.ToLower(strings.TrimSpace(language))
	for _, l := range languages {
		if l.ID == id {
			return l.Extension
		}
	}
	return "txt"
}

// SDKFileName is the download name for a generated SDK.
func SDKFileName(language string) string {
	return "generated-sdk." + FileExtension(language)
}
