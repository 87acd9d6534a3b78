package pipeline

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"site_ai_server/internal/types"
	"site_ai_server/internal/vertical"
)

const defaultMinScriptChars = 200

// applyFallbacks patches the fragile failure modes before anything is
// written: an abandoned framework skeleton is replaced wholesale with a
// static site, an undersized interactive script is swapped for a canned one,
// and a backend-required run with no Flask app gets a generated one. Applying
// the fallbacks twice yields the same mapping.
func (p *Pipeline) applyFallbacks(sessionID, userPrompt string, files types.FileMap, requiresBackend bool) {
	if isAbandonedSkeleton(files) {
		log.Printf("Session %s: detected abandoned framework skeleton, synthesizing static site", sessionID)
		storeType := vertical.Detect(userPrompt)
		replaceFrontend(files, storeType, vertical.DisplayName(userPrompt))
	}

	if name, content := interactiveScript(files); len(content) < p.minScriptChars {
		if name == "" {
			name = "script.js"
		}
		log.Printf("Session %s: script %q below %d chars, using canned interactive script", sessionID, name, p.minScriptChars)
		files[name] = cannedScript()
	}

	if requiresBackend && !hasFlaskApp(files) {
		storeType := vertical.Detect(userPrompt)
		log.Printf("Session %s: backend required but no Flask app produced, generating %s backend", sessionID, storeType)
		files["app.py"] = vertical.BuildFlaskApp(storeType, vertical.DisplayName(userPrompt))
		if !hasDatabaseFile(files) {
			files["schema.sql"] = buildSchema(storeType)
		}
	}
}

var (
	emptyRootRe    = regexp.MustCompile(`(?s)<div[^>]*id=["'](?:app|root)["'][^>]*>[^<>]{0,39}</div>`)
	bootstrapRefRe = regexp.MustCompile(`createApp|ReactDOM\.|from ['"]\./App\.vue['"]|src=["']\./?main\.js["'][^>]*type=["']module["']|type=["']module["'][^>]*src=["']\./?main\.js["']`)
)

// isAbandonedSkeleton reports whether the generation stopped at a framework
// scaffold: an essentially empty root container in the HTML together with a
// bootstrap reference, meaning the page would render blank.
func isAbandonedSkeleton(files types.FileMap) bool {
	var html string
	for name, content := range files {
		if strings.HasSuffix(name, ".html") {
			html = content
			break
		}
	}
	if html == "" || !emptyRootRe.MatchString(html) {
		return false
	}
	if bootstrapRefRe.MatchString(html) {
		return true
	}
	for name, content := range files {
		if strings.HasSuffix(name, ".js") || strings.HasSuffix(name, ".vue") {
			if bootstrapRefRe.MatchString(content) {
				return true
			}
		}
	}
	return false
}

// interactiveScript returns the plain browser script, ignoring framework
// entry points.
func interactiveScript(files types.FileMap) (string, string) {
	if content, ok := files["script.js"]; ok {
		return "script.js", content
	}
	for name, content := range files {
		if strings.HasSuffix(name, ".js") && name != "main.js" {
			return name, content
		}
	}
	return "", ""
}

func hasFlaskApp(files types.FileMap) bool {
	for name, content := range files {
		if strings.Contains(name, "app.py") {
			return true
		}
		lower := strings.ToLower(content)
		if strings.Contains(lower, "from flask import") {
			return true
		}
	}
	return false
}

func hasDatabaseFile(files types.FileMap) bool {
	for name := range files {
		if strings.Contains(name, "database.py") || strings.Contains(name, "schema.sql") {
			return true
		}
	}
	return false
}

// replaceFrontend drops framework scaffolding files and installs a plain
// static trio for the detected vertical.
func replaceFrontend(files types.FileMap, storeType vertical.StoreType, storeName string) {
	for name := range files {
		if strings.HasSuffix(name, ".vue") || name == "main.js" || strings.HasSuffix(name, ".html") ||
			strings.HasSuffix(name, ".css") || name == "script.js" {
			delete(files, name)
		}
	}
	files["index.html"] = staticIndexHTML(storeType, storeName)
	files["style.css"] = staticStyleCSS()
	files["script.js"] = cannedScript()
}

func staticIndexHTML(storeType vertical.StoreType, storeName string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%[1]s</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <header class="site-header">
    <h1>%[1]s</h1>
    <nav>
      <a href="#products">Browse</a>
      <a href="#about">About</a>
      <a href="#contact">Contact</a>
    </nav>
  </header>

  <main>
    <section class="hero">
      <h2>Welcome to %[1]s</h2>
      <p>Quality you can count on, every day of the week.</p>
      <button class="cta" data-scroll="#products">See what we offer</button>
    </section>

    <section id="products" class="grid-section">
      <h2>Featured</h2>
      <div class="card-grid" data-store-type="%[2]s"></div>
    </section>

    <section id="about">
      <h2>About Us</h2>
      <p>We are a local %[2]s serving the neighborhood with care.</p>
    </section>

    <section id="contact">
      <h2>Get in Touch</h2>
      <form id="contact-form">
        <input type="text" name="name" placeholder="Your name" required>
        <input type="email" name="email" placeholder="Your email" required>
        <textarea name="message" placeholder="How can we help?" required></textarea>
        <button type="submit">Send</button>
      </form>
      <p id="form-status" role="status"></p>
    </section>
  </main>

  <footer>
    <p>&copy; %[1]s. All rights reserved.</p>
  </footer>

  <script src="script.js"></script>
</body>
</html>
`, storeName, storeType)
}

func staticStyleCSS() string {
	return `:root {
  --primary: #2c6e49;
  --accent: #ffc145;
  --text: #1f2933;
  --bg: #fdfdfb;
}

* {
  margin: 0;
  padding: 0;
  box-sizing: border-box;
}

body {
  font-family: 'Segoe UI', system-ui, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.6;
}

.site-header {
  display: flex;
  justify-content: space-between;
  align-items: center;
  padding: 1rem 2rem;
  background: var(--primary);
  color: #fff;
}

.site-header nav a {
  color: #fff;
  margin-left: 1.5rem;
  text-decoration: none;
}

.hero {
  text-align: center;
  padding: 5rem 2rem;
  background: linear-gradient(160deg, var(--primary), #4c956c);
  color: #fff;
}

.cta {
  margin-top: 1.5rem;
  padding: 0.75rem 2rem;
  border: none;
  border-radius: 6px;
  background: var(--accent);
  font-size: 1rem;
  cursor: pointer;
}

section {
  padding: 3rem 2rem;
  max-width: 960px;
  margin: 0 auto;
}

.card-grid {
  display: grid;
  grid-template-columns: repeat(auto-fill, minmax(220px, 1fr));
  gap: 1.5rem;
  margin-top: 1.5rem;
}

.card {
  border: 1px solid #e0e0e0;
  border-radius: 8px;
  padding: 1.25rem;
  background: #fff;
  box-shadow: 0 1px 3px rgba(0, 0, 0, 0.08);
}

form {
  display: grid;
  gap: 0.75rem;
  max-width: 480px;
}

input,
textarea {
  padding: 0.6rem;
  border: 1px solid #cbd2d9;
  border-radius: 4px;
  font: inherit;
}

footer {
  text-align: center;
  padding: 2rem;
  background: #1f2933;
  color: #fff;
}
`
}

// cannedScript is the self-contained interactive fallback: smooth scrolling,
// placeholder cards, and a contact form handler with no external
// dependencies.
func cannedScript() string {
	return `document.addEventListener('DOMContentLoaded', function () {
  // Smooth scroll for nav links and CTA buttons.
  document.querySelectorAll('a[href^="#"], [data-scroll]').forEach(function (el) {
    el.addEventListener('click', function (event) {
      var target = el.getAttribute('data-scroll') || el.getAttribute('href');
      var section = document.querySelector(target);
      if (section) {
        event.preventDefault();
        section.scrollIntoView({ behavior: 'smooth' });
      }
    });
  });

  // Populate the featured grid with placeholder cards.
  var grid = document.querySelector('.card-grid');
  if (grid && grid.children.length === 0) {
    var items = ['Seasonal Pick', 'Customer Favorite', 'New Arrival', 'Staff Choice'];
    items.forEach(function (title, i) {
      var card = document.createElement('div');
      card.className = 'card';
      card.innerHTML = '<h3>' + title + '</h3>' +
        '<p>Ask us in store for details.</p>' +
        '<strong>$' + (9.99 + i * 5).toFixed(2) + '</strong>';
      grid.appendChild(card);
    });
  }

  // Contact form feedback without a page reload.
  var form = document.getElementById('contact-form');
  var status = document.getElementById('form-status');
  if (form) {
    form.addEventListener('submit', function (event) {
      event.preventDefault();
      if (status) {
        status.textContent = 'Thanks! We will get back to you shortly.';
      }
      form.reset();
    });
  }
});
`
}

func buildSchema(storeType vertical.StoreType) string {
	table := "products"
	switch storeType {
	case vertical.Restaurant, vertical.CoffeeShop:
		table = "menu_items"
	case vertical.Bookstore:
		table = "books"
	}
	return fmt.Sprintf(`-- Schema for the generated %s backend.

CREATE TABLE IF NOT EXISTS %s (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT,
    price REAL NOT NULL DEFAULT 0,
    category TEXT,
    available INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS submissions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    endpoint TEXT NOT NULL,
    payload TEXT,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_name TEXT,
    customer_email TEXT,
    total REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TEXT NOT NULL
);
`, storeType, table)
}
