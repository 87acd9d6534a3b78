package vertical

import (
	"fmt"
	"strings"
)

// Endpoint describes one generated Flask route.
type Endpoint struct {
	Path        string
	Method      string
	HandlerName string
	Description string
}

var commonEndpoints = []Endpoint{
	{"/api/health", "GET", "health_check", "Health check endpoint"},
	{"/api/contact", "POST", "submit_contact_form", "Submit contact form"},
	{"/api/newsletter/subscribe", "POST", "subscribe_newsletter", "Subscribe to newsletter"},
	{"/api/store/info", "GET", "get_store_info", "Get store information"},
}

var ecommerceEndpoints = []Endpoint{
	{"/api/products", "GET", "get_products", "Get all products with filtering"},
	{"/api/products/<int:product_id>", "GET", "get_product", "Get single product by ID"},
	{"/api/cart/add", "POST", "add_to_cart", "Add item to cart"},
	{"/api/orders", "POST", "create_order", "Create new order"},
}

var restaurantEndpoints = []Endpoint{
	{"/api/menu", "GET", "get_menu", "Get menu items"},
	{"/api/reservations", "POST", "create_reservation", "Create table reservation"},
	{"/api/orders", "POST", "create_order", "Create food order"},
	{"/api/specials", "GET", "get_daily_specials", "Get daily specials"},
}

var bookstoreEndpoints = []Endpoint{
	{"/api/books/search", "GET", "search_books", "Search books by title, author, ISBN"},
	{"/api/events", "GET", "get_events", "Get upcoming events"},
	{"/api/events/<int:event_id>/register", "POST", "register_for_event", "Register for event"},
}

// Endpoints returns the route table for a vertical: common routes plus the
// vertical-specific set.
func Endpoints(storeType StoreType) []Endpoint {
	endpoints := append([]Endpoint{}, commonEndpoints...)
	switch storeType {
	case Retail, FlowerShop, Bakery:
		endpoints = append(endpoints, ecommerceEndpoints...)
	case Restaurant, CoffeeShop:
		endpoints = append(endpoints, restaurantEndpoints...)
	case Bookstore:
		endpoints = append(endpoints, bookstoreEndpoints...)
	}
	return endpoints
}

// BuildFlaskApp generates a runnable Flask application for the vertical.
// Pure string construction over static tables; used by fallback synthesis
// when a backend-required run ends with no app.py at all.
func BuildFlaskApp(storeType StoreType, storeName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `"""Generated Flask API for %s (%s)."""

from flask import Flask, request, jsonify, send_from_directory
import os
import sqlite3
from datetime import datetime

app = Flask(__name__, static_folder='.')

STORE_CONFIG = {
    'name': '%s',
    'type': '%s',
    'currency': 'USD',
    'tax_rate': 0.085,
}


def get_db():
    conn = sqlite3.connect(os.environ.get('DATABASE_PATH', 'store.db'))
    conn.row_factory = sqlite3.Row
    return conn


@app.route('/')
def serve_index():
    return send_from_directory('.', 'index.html')


@app.route('/<path:path>')
def serve_static(path):
    return send_from_directory('.', path)

`, storeName, storeType, storeName, storeType)

	for _, ep := range Endpoints(storeType) {
		b.WriteString(buildHandler(ep))
	}

	b.WriteString(`
if __name__ == '__main__':
    app.run(debug=True, host='0.0.0.0', port=5000)
`)

	return b.String()
}

func buildHandler(ep Endpoint) string {
	var body string
	switch {
	case ep.Path == "/api/health":
		body = `    return jsonify({'status': 'healthy', 'store': STORE_CONFIG['name'], 'timestamp': datetime.utcnow().isoformat()})`
	case ep.Path == "/api/store/info":
		body = `    return jsonify(STORE_CONFIG)`
	case ep.Method == "GET":
		body = `    db = get_db()
    try:
        rows = db.execute('SELECT * FROM ` + tableFor(ep) + ` LIMIT 50').fetchall()
        return jsonify([dict(r) for r in rows])
    except sqlite3.OperationalError:
        return jsonify([])
    finally:
        db.close()`
	default:
		body = `    data = request.get_json(silent=True) or {}
    if not data:
        return jsonify({'error': 'request body required'}), 400
    db = get_db()
    try:
        db.execute('INSERT INTO submissions (endpoint, payload, created_at) VALUES (?, ?, ?)',
                   ('` + ep.Path + `', str(data), datetime.utcnow().isoformat()))
        db.commit()
    except sqlite3.OperationalError:
        pass
    finally:
        db.close()
    return jsonify({'message': 'received'}), 201`
	}

	args := ""
	if strings.Contains(ep.Path, "<int:") {
		start := strings.Index(ep.Path, "<int:") + len("<int:")
		end := strings.Index(ep.Path[start:], ">")
		args = ep.Path[start : start+end]
	}

	return fmt.Sprintf(`
@app.route('%s', methods=['%s'])
def %s(%s):
    """%s"""
%s

`, ep.Path, ep.Method, ep.HandlerName, args, ep.Description, body)
}

func tableFor(ep Endpoint) string {
	switch {
	case strings.Contains(ep.Path, "menu"):
		return "menu_items"
	case strings.Contains(ep.Path, "book"):
		return "books"
	case strings.Contains(ep.Path, "event"):
		return "events"
	case strings.Contains(ep.Path, "special"):
		return "specials"
	default:
		return "products"
	}
}
