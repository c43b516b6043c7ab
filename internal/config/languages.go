package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Language describes one syntax definition for the highlighter. Keywords
// ending in "|" are type keywords; the marker is stripped before matching.
type Language struct {
	Name              string   `toml:"name"`
	FileTypes         []string `toml:"file-types"`
	Keywords          []string `toml:"keywords"`
	LineComment       string   `toml:"line-comment"`
	BlockCommentStart string   `toml:"block-comment-start"`
	BlockCommentEnd   string   `toml:"block-comment-end"`
	HighlightNumbers  bool     `toml:"highlight-numbers"`
	HighlightStrings  bool     `toml:"highlight-strings"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

// Match returns the first language whose file-types match the path. An entry
// starting with "." matches the extension, anything else matches as a
// substring of the basename.
func (l Languages) Match(path string) *Language {
	base := strings.ToLower(filepath.Base(path))
	ext := strings.ToLower(filepath.Ext(base))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ft = strings.ToLower(ft)
			if strings.HasPrefix(ft, ".") {
				if ft == ext {
					return lang
				}
				continue
			}
			if strings.Contains(base, ft) {
				return lang
			}
		}
	}
	return nil
}

// Builtin returns the compiled-in syntax definitions.
func Builtin() Languages {
	return Languages{
		Languages: []Language{
			{
				Name:      "c",
				FileTypes: []string{".c", ".h", ".cpp"},
				Keywords: []string{
					"switch", "if", "while", "for", "break", "continue", "return",
					"else", "struct", "union", "typedef", "static", "enum", "class",
					"case",
					"int|", "long|", "double|", "float|", "char|", "unsigned|",
					"signed|", "void|",
				},
				LineComment:       "//",
				BlockCommentStart: "/*",
				BlockCommentEnd:   "*/",
				HighlightNumbers:  true,
				HighlightStrings:  true,
			},
			{
				Name:      "go",
				FileTypes: []string{".go"},
				Keywords: []string{
					"break", "case", "chan", "const", "continue", "default",
					"defer", "else", "fallthrough", "for", "func", "go", "goto",
					"if", "import", "interface", "map", "package", "range",
					"return", "select", "struct", "switch", "type", "var",
					"bool|", "byte|", "complex64|", "complex128|", "error|",
					"float32|", "float64|", "int|", "int8|", "int16|", "int32|",
					"int64|", "rune|", "string|", "uint|", "uint8|", "uint16|",
					"uint32|", "uint64|", "uintptr|", "true|", "false|", "nil|",
				},
				LineComment:       "//",
				BlockCommentStart: "/*",
				BlockCommentEnd:   "*/",
				HighlightNumbers:  true,
				HighlightStrings:  true,
			},
		},
	}
}

// LoadLanguages returns the built-in definitions, with entries from
// languages.toml replacing same-named built-ins or appending new ones.
func LoadLanguages() (Languages, error) {
	langs := Builtin()
	path, err := LanguagesPath()
	if err != nil {
		return langs, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return langs, nil
		}
		return langs, err
	}

	var user Languages
	if _, err := toml.Decode(string(data), &user); err != nil {
		return langs, err
	}
	for _, lang := range user.Languages {
		replaced := false
		for i := range langs.Languages {
			if langs.Languages[i].Name == lang.Name {
				langs.Languages[i] = lang
				replaced = true
				break
			}
		}
		if !replaced {
			langs.Languages = append(langs.Languages, lang)
		}
	}
	return langs, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
