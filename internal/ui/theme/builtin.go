package theme

// RainbowTheme is the default theme
func RainbowTheme() *Theme {
	return &Theme{
		Name:        "rainbow",
		Description: "Bright colors on a dark background",
		Colors: ColorsConfig{
			Primary:    "#ff79c6",
			Secondary:  "#8be9fd",
			Accent:     "#f1fa8c",
			Background: "#1e1e2e",
			Foreground: "#f8f8f2",
			Muted:      "#6c7086",
			Border:     "#585b70",
			Error:      "#ff5555",
			Warning:    "#ffb86c",
			Success:    "#50fa7b",
		},
		Picker: PickerConfig{
			HeaderFg:    "#1e1e2e",
			HeaderBg:    "#ff79c6",
			SelectedFg:  "#1e1e2e",
			SelectedBg:  "#8be9fd",
			ContactFg:   "#f8f8f2",
			AvatarFg:    "#bd93f9",
			ActionFg:    "#50fa7b",
			SeparatorFg: "#45475a",
		},
		Search: SearchConfig{
			PromptFg:      "#ff79c6",
			TextFg:        "#f8f8f2",
			PlaceholderFg: "#6c7086",
			SpinnerFg:     "#f1fa8c",
		},
		StatusBar: StatusBarConfig{
			Fg:         "#f8f8f2",
			Bg:         "#313244",
			ModeNormal: "#8be9fd",
			ModeSearch: "#f1fa8c",
			AccountFg:  "#ff79c6",
		},
	}
}

// NordTheme is an arctic, blue-tinted theme
func NordTheme() *Theme {
	return &Theme{
		Name:        "nord",
		Description: "Arctic, north-bluish palette",
		Colors: ColorsConfig{
			Primary:    "#88c0d0",
			Secondary:  "#81a1c1",
			Accent:     "#ebcb8b",
			Background: "#2e3440",
			Foreground: "#eceff4",
			Muted:      "#4c566a",
			Border:     "#434c5e",
			Error:      "#bf616a",
			Warning:    "#d08770",
			Success:    "#a3be8c",
		},
		Picker: PickerConfig{
			HeaderFg:    "#2e3440",
			HeaderBg:    "#88c0d0",
			SelectedFg:  "#2e3440",
			SelectedBg:  "#81a1c1",
			ContactFg:   "#e5e9f0",
			AvatarFg:    "#b48ead",
			ActionFg:    "#a3be8c",
			SeparatorFg: "#3b4252",
		},
		Search: SearchConfig{
			PromptFg:      "#88c0d0",
			TextFg:        "#eceff4",
			PlaceholderFg: "#4c566a",
			SpinnerFg:     "#ebcb8b",
		},
		StatusBar: StatusBarConfig{
			Fg:         "#eceff4",
			Bg:         "#3b4252",
			ModeNormal: "#88c0d0",
			ModeSearch: "#ebcb8b",
			AccountFg:  "#8fbcbb",
		},
	}
}

// GruvboxTheme is a warm retro theme
func GruvboxTheme() *Theme {
	return &Theme{
		Name:        "gruvbox",
		Description: "Retro groove colors",
		Colors: ColorsConfig{
			Primary:    "#fabd2f",
			Secondary:  "#83a598",
			Accent:     "#fe8019",
			Background: "#282828",
			Foreground: "#ebdbb2",
			Muted:      "#928374",
			Border:     "#504945",
			Error:      "#fb4934",
			Warning:    "#fe8019",
			Success:    "#b8bb26",
		},
		Picker: PickerConfig{
			HeaderFg:    "#282828",
			HeaderBg:    "#fabd2f",
			SelectedFg:  "#282828",
			SelectedBg:  "#83a598",
			ContactFg:   "#ebdbb2",
			AvatarFg:    "#d3869b",
			ActionFg:    "#b8bb26",
			SeparatorFg: "#3c3836",
		},
		Search: SearchConfig{
			PromptFg:      "#fabd2f",
			TextFg:        "#ebdbb2",
			PlaceholderFg: "#928374",
			SpinnerFg:     "#fe8019",
		},
		StatusBar: StatusBarConfig{
			Fg:         "#ebdbb2",
			Bg:         "#3c3836",
			ModeNormal: "#83a598",
			ModeSearch: "#fabd2f",
			AccountFg:  "#8ec07c",
		},
	}
}
