package classify

import "strings"

// Keyword tiers for backend detection. Evaluated as a priority cascade:
// strong always wins, static suppresses weak, weak needs an interaction
// keyword to flip to backend-required.
var strongBackendKeywords = []string{
	"order", "orders", "ordering", "purchase", "buy", "cart", "checkout",
	"user account", "login", "register", "registration", "signup", "authentication",
	"booking", "reservation", "appointment", "schedule",
	"inventory", "manage products", "admin panel", "dashboard",
	"contact form", "form submission", "submit data",
	"crud", "database", "store data", "save data",
	"user management", "payment", "subscription",
}

var staticIndicators = []string{
	"static", "simple", "landing page", "brochure",
	"informational", "about", "showcase", "display",
}

var weakBackendKeywords = []string{
	"blog", "post", "posts", "article", "comment",
	"portfolio", "gallery", "showcase",
	"product catalog", "product list",
}

var interactionKeywords = []string{
	"comment", "user", "manage", "add", "edit", "delete", "submit",
}

// IsDataDriven reports whether the prompt describes a site that needs
// persistent, server-side functionality (and therefore a Flask backend plus
// database files). Pure function of case-insensitive substring membership.
func IsDataDriven(prompt string) bool {
	promptLower := strings.ToLower(prompt)

	if containsAny(promptLower, strongBackendKeywords) {
		return true
	}

	// Explicitly static requests never get a backend.
	if containsAny(promptLower, staticIndicators) {
		return false
	}

	// Weak indicators only count when the prompt also mentions interaction
	// (commenting, managing, submitting). A plain blog or portfolio is static.
	if containsAny(promptLower, weakBackendKeywords) {
		return containsAny(promptLower, interactionKeywords)
	}

	return false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
