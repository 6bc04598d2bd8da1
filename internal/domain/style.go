package domain

// StyleCategory groups style options by the product surface that offers
// them: artistic restyling versus landmark "check-in" backdrops.
type StyleCategory string

const (
	StyleCategoryStyle    StyleCategory = "style"
	StyleCategoryLocation StyleCategory = "location"
)

// StyleOption is one selectable transformation preset. The prompt template
// is prepended to the caller's own prompt when the option is chosen.
type StyleOption struct {
	ID             string        `json:"id"`
	Label          string        `json:"label"`
	Icon           string        `json:"icon"`
	Category       StyleCategory `json:"category"`
	PromptTemplate string        `json:"promptTemplate"`
}

// StyleOptions is the built-in preset catalogue. Order is presentation
// order.
var StyleOptions = []StyleOption{
	{
		ID:             "ghibli",
		Label:          "Ghibli",
		Icon:           "🎨",
		Category:       StyleCategoryStyle,
		PromptTemplate: "Studio Ghibli style, warm hand-drawn animation texture, soft colors, dreamy atmosphere",
	},
	{
		ID:             "watercolor",
		Label:          "Watercolor",
		Icon:           "🖌️",
		Category:       StyleCategoryStyle,
		PromptTemplate: "hand-painted watercolor comic style, rich saturated colors, soothing watercolor texture, highly detailed illustration, clean composition with no stray elements, pen and watercolor mixed media, crisp outlines, true-to-life colors",
	},
	{
		ID:             "moebius",
		Label:          "Moebius",
		Icon:           "🌌",
		Category:       StyleCategoryStyle,
		PromptTemplate: "Moebius (Jean Giraud) style, maximalism, extreme expressiveness, romantic mood, perfect detail, masterwork",
	},
	{
		ID:             "flat-illustration",
		Label:          "Flat illustration",
		Icon:           "🖍️",
		Category:       StyleCategoryStyle,
		PromptTemplate: "Irasutoya style, flat illustration",
	},
	{
		ID:             "scale-figure",
		Label:          "3D figurine",
		Icon:           "🤖",
		Category:       StyleCategoryStyle,
		PromptTemplate: "a commercial 1/7 scale figurine of the character in the picture, realistic style and environment, placed on a computer desk with a round transparent acrylic base, the computer screen showing the ZBrush modeling process, a BANDAI-style toy box with the original art printed on it next to the screen",
	},
	{
		ID:             "anime",
		Label:          "Anime",
		Icon:           "🌸",
		Category:       StyleCategoryStyle,
		PromptTemplate: "Japanese anime style, sharp color contrast, detailed features, dynamic pose",
	},
	{
		ID:             "eiffel",
		Label:          "Eiffel Tower",
		Icon:           "🗼",
		Category:       StyleCategoryLocation,
		PromptTemplate: "In front of the Eiffel Tower in Paris, romantic atmosphere, tourist photo style",
	},
	{
		ID:             "bund",
		Label:          "The Bund",
		Icon:           "🌃",
		Category:       StyleCategoryLocation,
		PromptTemplate: "Shanghai Bund night view background, city lights, modern urban atmosphere",
	},
	{
		ID:             "tokyo-tower",
		Label:          "Tokyo Tower",
		Icon:           "🌸",
		Category:       StyleCategoryLocation,
		PromptTemplate: "Tokyo Tower with cherry blossoms, Japanese spring season, pink sakura petals",
	},
}

// StyleOptionByID looks up a preset by its identifier.
func StyleOptionByID(id string) (StyleOption, bool) {
	for _, opt := range StyleOptions {
		if opt.ID == id {
			return opt, true
		}
	}
	return StyleOption{}, false
}

// StyleOptionsByCategory returns the presets belonging to the given
// category, preserving catalogue order.
func StyleOptionsByCategory(category StyleCategory) []StyleOption {
	var out []StyleOption
	for _, opt := range StyleOptions {
		if opt.Category == category {
			out = append(out, opt)
		}
	}
	return out
}
