package main

type SeedEntry struct {
	Name   string
	Type   string
	Parent int
}

// demoCatalog is loaded by -seed into an empty store.
var demoCatalog = []SeedEntry{
	{"Electronics", "category", -1},
	{"Clothing", "category", -1},
	{"Computers", "subcategory", 0},
	{"Mobile Phones", "subcategory", 0},
	{`MacBook Pro 16"`, "product", 2},
	{"Dell XPS 13", "product", 2},
	{"iPhone 15 Pro", "product", 3},
	{"Samsung Galaxy S24", "product", 3},
	{"Men's Clothing", "subcategory", 1},
	{"Women's Clothing", "subcategory", 1},
	{"Cotton T-Shirt", "product", 8},
	{"Denim Jeans", "product", 8},
	{"Summer Dress", "product", 9},
}
