// Package icon renders the status symbols printed by the CLI in the configured variant.
package icon

import (
	"github.com/spf13/viper"
	"github.com/vodhub/vodhub/key"
)

const (
	emoji   = "emoji"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants returns every supported icons variant.
func AvailableVariants() []string {
	return []string{emoji, plain, squares}
}

// Icon identifies a status symbol.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Progress
	Pending
	Group
)

type iconDef struct {
	emoji   string
	plain   string
	squares string
}

func (d iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case plain:
		return d.plain
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]iconDef{
	Success:  {emoji: "🎉", plain: "✓", squares: "🟩"},
	Fail:     {emoji: "💥", plain: "✖", squares: "🟥"},
	Progress: {emoji: "⏳", plain: "…", squares: "🟦"},
	Pending:  {emoji: "🕒", plain: "~", squares: "🟨"},
	Group:    {emoji: "📺", plain: "▸", squares: "⬛"},
}

// Get returns the rendered symbol for i, or "" for an unknown variant.
func Get(i Icon) string {
	return icons[i].get()
}
