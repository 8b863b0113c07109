package config

// PlatformInfo describes the formatting constraints of one target platform.
// The platform set is open: unknown platform names are accepted everywhere
// and simply carry no constraints.
type PlatformInfo struct {
	Name      string
	MaxLength int
	Emoji     bool
	Hashtags  bool
	Formal    bool
}

// Platforms holds the static metadata injected into generation prompts.
var Platforms = map[string]PlatformInfo{
	"telegram": {
		Name:      "Telegram",
		MaxLength: 4096,
		Emoji:     true,
		Hashtags:  true,
	},
	"vk": {
		Name:      "ВКонтакте",
		MaxLength: 4096,
		Emoji:     true,
		Hashtags:  true,
	},
	"twitter": {
		Name:      "Twitter/X",
		MaxLength: 280,
		Emoji:     true,
		Hashtags:  true,
	},
	"linkedin": {
		Name:      "LinkedIn",
		MaxLength: 3000,
		Emoji:     false,
		Hashtags:  true,
		Formal:    true,
	},
	"press": {
		Name:      "Пресс-релиз",
		MaxLength: 1500,
		Emoji:     false,
		Hashtags:  false,
		Formal:    true,
	},
	"slack": {
		Name:      "Slack",
		MaxLength: 4000,
		Emoji:     true,
		Hashtags:  false,
	},
}

// DefaultPlatforms is used when neither the caller nor the user settings
// name a platform list.
var DefaultPlatforms = []string{"telegram", "vk", "linkedin"}
