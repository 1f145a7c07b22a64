package settings

import "sort"

// Theme is a UI color palette served to the frontend as data.
type Theme struct {
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	BgColor         string `json:"bg_color"`
	SidebarColor    string `json:"sidebar_color"`
	UserBubble      string `json:"user_bubble"`
	AssistantBubble string `json:"assistant_bubble"`
}

// Themes are the built-in palettes.
var Themes = map[string]Theme{
	"default": {
		PrimaryColor:    "#3a7bd5",
		SecondaryColor:  "#2c3e50",
		BgColor:         "#f8f9fa",
		SidebarColor:    "#1a202c",
		UserBubble:      "#3a7bd5",
		AssistantBubble: "#f1f5f9",
	},
	"dark": {
		PrimaryColor:    "#0ea5e9",
		SecondaryColor:  "#f1f5f9",
		BgColor:         "#111827",
		SidebarColor:    "#0f172a",
		UserBubble:      "#0ea5e9",
		AssistantBubble: "#1e293b",
	},
	"forest": {
		PrimaryColor:    "#22c55e",
		SecondaryColor:  "#f1f5f9",
		BgColor:         "#f8fafc",
		SidebarColor:    "#064e3b",
		UserBubble:      "#22c55e",
		AssistantBubble: "#ecfdf5",
	},
	"sunset": {
		PrimaryColor:    "#f97316",
		SecondaryColor:  "#431407",
		BgColor:         "#f8fafc",
		SidebarColor:    "#7c2d12",
		UserBubble:      "#f97316",
		AssistantBubble: "#fff7ed",
	},
	"midnight": {
		PrimaryColor:    "#8b5cf6",
		SecondaryColor:  "#f8fafc",
		BgColor:         "#020617",
		SidebarColor:    "#1e1b4b",
		UserBubble:      "#8b5cf6",
		AssistantBubble: "#1e1b4b",
	},
}

// ThemeNames returns the available theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
