package review

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language is a source language the backend accepts.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangCPP        Language = "cpp"
	LangCSharp     Language = "csharp"
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangSQL        Language = "sql"
	LangHTML       Language = "html"
)

// DefaultLanguage is used when none is given.
const DefaultLanguage = LangJavaScript

type languageInfo struct {
	lang  Language
	label string
	exts  []string
}

var languages = []languageInfo{
	{LangJavaScript, "JavaScript", []string{".js", ".jsx", ".mjs", ".cjs"}},
	{LangTypeScript, "TypeScript", []string{".ts", ".tsx"}},
	{LangPython, "Python", []string{".py"}},
	{LangJava, "Java", []string{".java"}},
	{LangCPP, "C++", []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".h"}},
	{LangCSharp, "C#", []string{".cs"}},
	{LangGo, "Go", []string{".go"}},
	{LangRust, "Rust", []string{".rs"}},
	{LangSQL, "SQL", []string{".sql"}},
	{LangHTML, "HTML", []string{".html", ".htm"}},
}

// Languages returns all supported languages in display order.
func Languages() []Language {
	out := make([]Language, len(languages))
	for i, l := range languages {
		out[i] = l.lang
	}
	return out
}

// Label returns the display name of the language.
func (l Language) Label() string {
	for _, info := range languages {
		if info.lang == l {
			return info.label
		}
	}
	return string(l)
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	for _, info := range languages {
		if info.lang == l {
			return true
		}
	}
	return false
}

// ParseLanguage resolves a language name or display label, case-insensitively.
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	for _, info := range languages {
		if strings.EqualFold(s, string(info.lang)) || strings.EqualFold(s, info.label) {
			return info.lang, nil
		}
	}
	return "", fmt.Errorf("unsupported language: %q", s)
}

// LanguageFromPath infers the language from a file extension.
// Returns "" when the extension is unknown.
func LanguageFromPath(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	for _, info := range languages {
		for _, e := range info.exts {
			if e == ext {
				return info.lang
			}
		}
	}
	return ""
}
