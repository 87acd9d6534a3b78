package vertical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		prompt string
		want   StoreType
	}{
		{"modern flower shop with shopping cart and orders", FlowerShop},
		{"cozy coffee shop in downtown", CoffeeShop},
		{"artisan bakery with fresh bread", Bakery},
		{"italian restaurant with dining menu", Restaurant},
		{"independent bookstore with events", Bookstore},
		{"general merchandise store", Retail},
		{"something else entirely", Retail},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Detect(tc.prompt), "prompt: %q", tc.prompt)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Modern Flower", DisplayName("modern flower shop"))
	assert.Equal(t, "Local Store", DisplayName("bakery"))
	assert.Equal(t, "Local Store", DisplayName(""))
}

func TestEndpointsPerVertical(t *testing.T) {
	flower := Endpoints(FlowerShop)
	assert.Greater(t, len(flower), len(commonEndpoints))
	assert.True(t, hasPath(flower, "/api/products"))

	restaurant := Endpoints(Restaurant)
	assert.True(t, hasPath(restaurant, "/api/menu"))
	assert.False(t, hasPath(restaurant, "/api/products"))

	bookstore := Endpoints(Bookstore)
	assert.True(t, hasPath(bookstore, "/api/books/search"))
}

func TestBuildFlaskAppIsValidatable(t *testing.T) {
	app := BuildFlaskApp(FlowerShop, "Bloom & Petals")

	// The generated backend must satisfy the completeness validator's Flask
	// content markers.
	assert.Contains(t, app, "from flask import")
	assert.Contains(t, app, "app = Flask(__name__")
	assert.Contains(t, app, "Bloom & Petals")
	assert.Contains(t, app, "/api/products")
	assert.Contains(t, app, "app.run(")
}

func TestBuildFlaskAppRouteParamsBecomeArgs(t *testing.T) {
	app := BuildFlaskApp(Bookstore, "Readers Corner")
	assert.Contains(t, app, "def register_for_event(event_id):")
	assert.True(t, strings.Contains(app, "@app.route('/api/events/<int:event_id>/register'"))
}

func hasPath(endpoints []Endpoint, path string) bool {
	for _, ep := range endpoints {
		if ep.Path == path {
			return true
		}
	}
	return false
}
