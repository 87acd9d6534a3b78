package parse

import (
	"fmt"
	"regexp"
	"strings"

	"site_ai_server/internal/types"
)

// A strategy attempts to extract a filename -> content mapping from raw LLM
// output. A strategy succeeds when it yields at least one file; Response runs
// the strategies in order and returns the first successful result, so a
// higher-priority strategy fully shadows the ones below it.
type strategy interface {
	name() string
	tryParse(text string) types.FileMap
}

var strategies = []strategy{
	markerFenceStrategy{},
	sectionSplitStrategy{},
	contentSniffStrategy{},
}

// Response extracts generated files from unstructured LLM output. It never
// panics on malformed input; an empty map means nothing was extractable.
func Response(text string) types.FileMap {
	for _, s := range strategies {
		if files := s.tryParse(text); len(files) > 0 {
			return files
		}
	}
	return types.FileMap{}
}

const fencedBlock = "```" + `(?:[A-Za-z0-9]+)?[ \t]*\n(.*?)\n[ \t]*` + "```"

// --- Strategy 1: filename marker followed by a fenced code block ---

// Marker conventions, tried one at a time. The first convention that matches
// anywhere in the text determines the whole result; matches from different
// conventions are never merged.
var markerPatterns = []*regexp.Regexp{
	// **index.html**: or **index.html**
	regexp.MustCompile(`(?s)\*\*([\w.-]+)\*\*:?[ \t]*\n+[ \t]*` + fencedBlock),
	// ### index.html or ## index.html
	regexp.MustCompile(`(?ms)^#{2,3}[ \t]+([\w.-]+)[ \t]*\n+[ \t]*` + fencedBlock),
	// index.html: at the start of a line
	regexp.MustCompile(`(?ms)^([\w.-]+):[ \t]*\n+[ \t]*` + fencedBlock),
}

type markerFenceStrategy struct{}

func (markerFenceStrategy) name() string { return "marker_fence" }

func (markerFenceStrategy) tryParse(text string) types.FileMap {
	for _, pattern := range markerPatterns {
		matches := pattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		files := types.FileMap{}
		for _, m := range matches {
			filename := strings.TrimSpace(m[1])
			content := strings.TrimSpace(m[2])
			if filename == "" || content == "" {
				continue
			}
			files[filename] = content
		}
		if len(files) > 0 {
			return files
		}
	}
	return nil
}

// --- Strategy 2: loose section splitting on filename-bearing lines ---

// Dot-leading names (.env, .env.example) carry no stem, so they get their own
// alternative.
var sectionFilenameRe = regexp.MustCompile(`([\w-][\w.-]*\.(?:html|css|js|py|sql|env)(?:\.example)?|\.env(?:\.example)?)`)

var sectionFenceRe = regexp.MustCompile(`(?s)` + fencedBlock)

type sectionSplitStrategy struct{}

func (sectionSplitStrategy) name() string { return "section_split" }

// tryParse splits the text at lines that mention a recognized file extension
// near the start of the line, then takes the first fenced block within each
// section as that file's content. Lines inside code fences never start a
// section.
func (sectionSplitStrategy) tryParse(text string) types.FileMap {
	lines := strings.Split(text, "\n")

	type section struct {
		filename string
		start    int // line index after the header
	}
	var sections []section

	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		loc := sectionFilenameRe.FindStringIndex(line)
		if loc == nil || loc[0] > 50 {
			continue
		}
		sections = append(sections, section{
			filename: sectionFilenameRe.FindString(line),
			start:    i + 1,
		})
	}

	files := types.FileMap{}
	for idx, sec := range sections {
		end := len(lines)
		if idx+1 < len(sections) {
			end = sections[idx+1].start - 1
		}
		body := strings.Join(lines[sec.start:end], "\n")
		m := sectionFenceRe.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		content := strings.TrimSpace(m[1])
		if content == "" {
			continue
		}
		files[strings.TrimSpace(sec.filename)] = content
	}
	return files
}

// --- Strategy 3: content-sniffing fallback over bare fenced blocks ---

type contentSniffStrategy struct{}

func (contentSniffStrategy) name() string { return "content_sniff" }

var (
	cssSelectorRe = regexp.MustCompile(`(?m)[.#][A-Za-z][\w-]*\s*\{|^\s*body\s*\{`)
	vueMarkupRe   = regexp.MustCompile(`<[A-Za-z][^>]*>`)
	envAssignRe   = regexp.MustCompile(`(?m)^[A-Za-z_][A-Za-z0-9_]*\s*=`)
)

func (contentSniffStrategy) tryParse(text string) types.FileMap {
	blocks := sectionFenceRe.FindAllStringSubmatch(text, -1)
	files := types.FileMap{}
	for i, m := range blocks {
		content := strings.TrimSpace(m[1])
		if content == "" {
			continue
		}
		// Last block wins when two blocks sniff to the same filename.
		files[sniffFilename(content, i+1)] = content
	}
	return files
}

// sniffFilename classifies a bare code block by its content signature.
// Rule order is fixed; the first matching rule wins.
func sniffFilename(content string, position int) string {
	lower := strings.ToLower(content)

	switch {
	case strings.Contains(lower, "<!doctype html>") || strings.Contains(content, "<html>"):
		return "index.html"
	case strings.Contains(content, "<template>") && strings.Contains(content, "<script>") &&
		len(vueMarkupRe.FindAllString(content, 6)) >= 5:
		return "App.vue"
	case strings.Contains(content, "createApp"):
		return "main.js"
	case cssSelectorRe.MatchString(content):
		return "style.css"
	case strings.Contains(content, "from flask import") || strings.Contains(content, "app = Flask"):
		return "app.py"
	case strings.Contains(lower, "create table") || strings.Contains(lower, "insert into"):
		return "schema.sql"
	case strings.Contains(content, "import pymysql") || strings.Contains(content, "def get_connection"):
		return "database.py"
	case looksLikeScript(content):
		return "script.js"
	case strings.HasPrefix(content, "#") ||
		(envAssignRe.MatchString(content) && !strings.HasPrefix(content, "<")):
		return ".env.example"
	default:
		return fmt.Sprintf("file_%d.txt", position)
	}
}

func looksLikeScript(content string) bool {
	hasJSToken := strings.Contains(content, "function") ||
		strings.Contains(content, "const") ||
		strings.Contains(content, "var")
	looksLikeFlask := strings.Contains(content, "from flask import") ||
		strings.Contains(content, "app = Flask")
	return hasJSToken && !looksLikeFlask && !strings.Contains(content, "createApp")
}
