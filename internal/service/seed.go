package service

import "github.com/joris-vdw/StyleCast/internal/domain/wardrobe"

// starterItems is the built-in demo catalog, a small wardrobe covering
// every category over a realistic warmth and formality range.
func starterItems() []wardrobe.CreateRequest {
	return []wardrobe.CreateRequest{
		{
			Name: "White Cotton T-Shirt", Category: "top", Subcategory: "t-shirt",
			Material: "cotton", Color: "white", WarmthLevel: 1, Formality: 1,
			WeatherTags: []string{"warm", "hot"}, SeasonTags: []string{"spring", "summer"},
			Description: "Basic crew-neck tee, goes with everything.",
			Tags:        []string{"basic", "casual"},
		},
		{
			Name: "Light Blue Oxford Shirt", Category: "top", Subcategory: "shirt",
			Material: "cotton", Color: "light blue", WarmthLevel: 2, Formality: 3,
			WeatherTags: []string{"mild", "warm"}, SeasonTags: []string{"spring", "summer", "autumn"},
			Description: "Button-down oxford, smart casual staple.",
			Tags:        []string{"smart casual", "office"},
		},
		{
			Name: "Grey Merino Sweater", Category: "top", Subcategory: "sweater",
			Material: "merino wool", Color: "grey", WarmthLevel: 4, Formality: 3,
			WeatherTags: []string{"cold", "cool"}, SeasonTags: []string{"autumn", "winter"},
			Description: "Fine-knit merino crew neck, warm without bulk.",
			Tags:        []string{"layering", "warm"},
		},
		{
			Name: "Black Hoodie", Category: "top", Subcategory: "hoodie",
			Material: "cotton blend", Color: "black", WarmthLevel: 3, Formality: 1,
			WeatherTags: []string{"cool", "mild"}, SeasonTags: []string{"autumn", "spring"},
			Description: "Relaxed pullover hoodie.",
			Tags:        []string{"casual", "weekend"},
		},
		{
			Name: "Dark Wash Jeans", Category: "bottom", Subcategory: "jeans",
			Material: "denim", Color: "dark blue", WarmthLevel: 3, Formality: 2,
			WeatherTags: []string{"cool", "mild", "cold"}, SeasonTags: []string{"autumn", "winter", "spring"},
			Description: "Straight-cut dark denim.",
			Tags:        []string{"casual", "versatile"},
		},
		{
			Name: "Beige Chinos", Category: "bottom", Subcategory: "chinos",
			Material: "cotton twill", Color: "beige", WarmthLevel: 2, Formality: 3,
			WeatherTags: []string{"mild", "warm"}, SeasonTags: []string{"spring", "summer", "autumn"},
			Description: "Slim-fit chinos, dress up or down.",
			Tags:        []string{"smart casual", "office"},
		},
		{
			Name: "Navy Shorts", Category: "bottom", Subcategory: "shorts",
			Material: "cotton", Color: "navy", WarmthLevel: 1, Formality: 1,
			WeatherTags: []string{"hot", "warm"}, SeasonTags: []string{"summer"},
			Description: "Above-the-knee summer shorts.",
			Tags:        []string{"casual", "summer"},
		},
		{
			Name: "White Leather Sneakers", Category: "footwear", Subcategory: "sneakers",
			Material: "leather", Color: "white", WarmthLevel: 2, Formality: 2,
			WeatherTags: []string{"mild", "warm"}, SeasonTags: []string{"spring", "summer", "autumn"},
			Description: "Clean minimal sneakers.",
			Tags:        []string{"casual", "versatile"},
		},
		{
			Name: "Brown Leather Boots", Category: "footwear", Subcategory: "boots",
			Material: "leather", Color: "brown", WarmthLevel: 4, Formality: 3,
			WeatherTags: []string{"cold", "cool", "rain"}, SeasonTags: []string{"autumn", "winter"},
			Description: "Waterproof ankle boots with lug sole.",
			Tags:        []string{"waterproof", "warm"},
		},
		{
			Name: "Black Running Shoes", Category: "footwear", Subcategory: "running shoes",
			Material: "mesh", Color: "black", WarmthLevel: 1, Formality: 1,
			WeatherTags: []string{"warm", "hot", "mild"}, SeasonTags: []string{"spring", "summer"},
			Description: "Breathable trainers.",
			Tags:        []string{"sport", "casual"},
		},
		{
			Name: "Navy Rain Jacket", Category: "outerwear", Subcategory: "rain jacket",
			Material: "nylon", Color: "navy", WarmthLevel: 2, Formality: 2,
			WeatherTags: []string{"rain", "wind", "cool"}, SeasonTags: []string{"spring", "autumn"},
			Description: "Packable waterproof shell with hood.",
			Tags:        []string{"waterproof", "windproof"},
		},
		{
			Name: "Charcoal Wool Coat", Category: "outerwear", Subcategory: "coat",
			Material: "wool", Color: "charcoal", WarmthLevel: 5, Formality: 4,
			WeatherTags: []string{"cold"}, SeasonTags: []string{"winter"},
			Description: "Knee-length winter coat.",
			Tags:        []string{"warm", "formal"},
		},
		{
			Name: "Black Beanie", Category: "accessory", Subcategory: "hat",
			Material: "wool", Color: "black", WarmthLevel: 4, Formality: 1,
			WeatherTags: []string{"cold", "wind"}, SeasonTags: []string{"winter"},
			Description: "Ribbed knit beanie.",
			Tags:        []string{"warm", "winter"},
		},
		{
			Name: "Grey Wool Scarf", Category: "accessory", Subcategory: "scarf",
			Material: "wool", Color: "grey", WarmthLevel: 4, Formality: 3,
			WeatherTags: []string{"cold", "wind"}, SeasonTags: []string{"autumn", "winter"},
			Description: "Long soft scarf.",
			Tags:        []string{"warm", "layering"},
		},
		{
			Name: "Black Sunglasses", Category: "accessory", Subcategory: "sunglasses",
			Material: "acetate", Color: "black", WarmthLevel: 1, Formality: 2,
			WeatherTags: []string{"sun", "hot", "warm"}, SeasonTags: []string{"summer", "spring"},
			Description: "Classic wayfarer frame.",
			Tags:        []string{"sun", "summer"},
		},
	}
}
