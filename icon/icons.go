package icon

// Icon identifies one UI symbol in the registry.
type Icon int

const (
	Audio Icon = iota
	Video
	Document
	Play
	Pause
	Finished
	Progress
	Note
	Search
	Success
	Fail
)

var icons = map[Icon]*iconDef{
	Audio: {
		emoji: "🎵",
		nerd:  "",
		plain: "[a]",
	},
	Video: {
		emoji: "🎬",
		nerd:  "",
		plain: "[v]",
	},
	Document: {
		emoji: "📄",
		nerd:  "",
		plain: "[d]",
	},
	Play: {
		emoji: "▶️",
		nerd:  "",
		plain: ">",
	},
	Pause: {
		emoji: "⏸️",
		nerd:  "",
		plain: "||",
	},
	Finished: {
		emoji: "✅",
		nerd:  "",
		plain: "*",
	},
	Progress: {
		emoji: "⏳",
		nerd:  "",
		plain: "~",
	},
	Note: {
		emoji: "📝",
		nerd:  "",
		plain: "#",
	},
	Search: {
		emoji: "🔍",
		nerd:  "",
		plain: "?",
	},
	Success: {
		emoji: "🎉",
		nerd:  "✓",
		plain: "+",
	},
	Fail: {
		emoji: "💀",
		nerd:  "✗",
		plain: "!",
	},
}
