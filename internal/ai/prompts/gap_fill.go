package prompts

import (
	"fmt"
	"strings"

	"site_ai_server/internal/validate"
)

// GapFillPrompt builds a narrow follow-up prompt asking for exactly one
// missing artifact category. The label comes from the completeness
// validator's vocabulary; unknown labels get a generic single-file request.
func GapFillPrompt(missingLabel, topic string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You already generated most of a website for this prompt: '%s'\n\n", topic)

	switch missingLabel {
	case validate.MissingHTML:
		b.WriteString("The HTML page is missing. Provide ONLY the complete index.html for the site.\n\n")
		b.WriteString(formatExample([]string{"index.html"}))
	case validate.MissingCSS:
		b.WriteString("The stylesheet is missing. Provide ONLY the complete style.css for the site.\n\n")
		b.WriteString(formatExample([]string{"style.css"}))
	case validate.MissingFlask:
		b.WriteString(`The Flask backend is missing. Provide ONLY a complete app.py:
- a Flask application with routes serving the frontend files
- JSON API endpoints matching the site's functionality
- runnable as-is with 'python app.py'

`)
		b.WriteString(formatExample([]string{"app.py"}))
	case validate.MissingDatabase:
		b.WriteString(`The database files are missing. Provide ONLY these two files:
- database.py: a connection helper the Flask app can import
- schema.sql: CREATE TABLE statements plus sample INSERT data

`)
		b.WriteString(formatExample([]string{"database.py", "schema.sql"}))
	default:
		fmt.Fprintf(&b, "The following artifact is missing: %s. Provide ONLY that file.\n\n", missingLabel)
	}

	b.WriteString("Respond with nothing but the requested file(s) in the exact format above.")

	return b.String()
}
