package vertical

import "strings"

// StoreType is the vertical a prompt describes. It steers fallback synthesis
// and the canned Flask backend builder.
type StoreType string

const (
	Restaurant StoreType = "restaurant"
	Retail     StoreType = "retail"
	FlowerShop StoreType = "flower_shop"
	Bakery     StoreType = "bakery"
	Bookstore  StoreType = "bookstore"
	CoffeeShop StoreType = "coffee_shop"
)

// Detection keywords per vertical. First vertical with any match wins;
// Retail is the default.
var detectionKeywords = []struct {
	storeType StoreType
	keywords  []string
}{
	{FlowerShop, []string{"flower", "florist", "bouquet", "rose", "lily"}},
	{CoffeeShop, []string{"coffee", "cafe", "espresso", "latte", "brew"}},
	{Bakery, []string{"bakery", "bread", "cake", "pastry", "bake"}},
	{Restaurant, []string{"restaurant", "dining", "menu", "food", "cuisine"}},
	{Bookstore, []string{"book", "bookstore", "literature", "novel", "read"}},
	{Retail, []string{"store", "shop", "retail", "merchandise", "products"}},
}

// Detect picks a store vertical from the prompt by keyword membership.
func Detect(prompt string) StoreType {
	promptLower := strings.ToLower(prompt)
	for _, entry := range detectionKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(promptLower, kw) {
				return entry.storeType
			}
		}
	}
	return Retail
}

// DisplayName extracts a store name from the prompt, or invents one.
func DisplayName(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) < 2 {
		return "Local Store"
	}
	return titleCase(words[0]) + " " + titleCase(words[1])
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
