package prompts

import (
	"fmt"
	"sort"
	"strings"

	"site_ai_server/internal/types"
)

// SystemPrompt is sent with every generation call.
func SystemPrompt() string {
	return "You are a professional web developer and UI/UX designer. " +
		"You generate complete, working website files and follow the requested " +
		"output format exactly. Your output will be parsed and saved as files."
}

// FileBlock renders one filename/content pair in the marker/fence format the
// response parser round-trips: a bold filename marker followed by a fenced
// code block tagged with a language hint.
func FileBlock(filename, content string) string {
	return fmt.Sprintf("**%s**:\n```%s\n%s\n```\n", filename, languageHint(filename), content)
}

func languageHint(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".html"):
		return "html"
	case strings.HasSuffix(filename, ".css"):
		return "css"
	case strings.HasSuffix(filename, ".js"):
		return "javascript"
	case strings.HasSuffix(filename, ".py"):
		return "python"
	case strings.HasSuffix(filename, ".sql"):
		return "sql"
	default:
		return ""
	}
}

func formatExample(filenames []string) string {
	var b strings.Builder
	for _, name := range filenames {
		fmt.Fprintf(&b, "**%s**:\n```%s\n[complete %s code here]\n```\n\n", name, languageHint(name), name)
	}
	return b.String()
}

// InitialPrompt builds the first generation prompt for a fresh run. The
// backend variant additionally demands the Flask application and database
// files.
func InitialPrompt(topic string, requiresBackend bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a stunning, modern website based on this prompt: '%s'\n\n", topic)
	b.WriteString(`IMPORTANT DESIGN REQUIREMENTS:
- Make the website MODERN, BEAUTIFUL, and VISUALLY APPEALING
- Use contemporary design trends (clean layouts, attractive colors, modern typography)
- Apply CSS techniques like flexbox, grid, smooth animations, gradients, shadows
- Ensure fully responsive design for mobile, tablet, and desktop
- Add subtle animations, hover effects, and micro-interactions
- Include relevant, realistic content (no Lorem ipsum)

`)

	required := []string{"index.html", "style.css", "script.js"}
	if requiresBackend {
		required = append(required, "app.py", "database.py", "schema.sql", ".env.example")
		b.WriteString(`This website needs a working backend:
- app.py: a complete Flask application serving the frontend and a JSON API
- database.py: a database connection helper
- schema.sql: CREATE TABLE statements plus sample INSERT data
- .env.example: the environment variables the backend reads

`)
	}

	b.WriteString("Format your response exactly like this:\n\n")
	b.WriteString(formatExample(required))
	b.WriteString("Only include code in the fenced blocks - no extra explanation inside them.")

	return b.String()
}

// RefinementPrompt builds the continuation prompt used when the output
// directory already holds files from a previous run. Every existing file is
// embedded and a full rewrite of ALL files is requested, never a diff.
func RefinementPrompt(instruction string, priorFiles types.FileMap) string {
	var b strings.Builder

	b.WriteString("Here are the existing files for a website:\n\n")

	names := priorFiles.Filenames()
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(FileBlock(name, priorFiles[name]))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Please improve and modify this website based on this request: '%s'\n\n", instruction)
	b.WriteString(`IMPORTANT DESIGN REQUIREMENTS:
- Keep the website MODERN, BEAUTIFUL, and VISUALLY APPEALING
- Use modern CSS techniques (flexbox, grid, smooth animations, gradients)
- Ensure responsive design for all devices

Provide the complete, updated code for ALL files (even if only some changed).
Format your response exactly like this:

`)
	b.WriteString(formatExample(names))

	return b.String()
}
