package entities

// CustomTemplateID is the pass-through template that echoes the user's text
const CustomTemplateID = "custom-signal"

// Template categories
const (
	CategoryLucky   = "lucky"
	CategorySharp   = "sharp"
	CategoryPersona = "persona"
	CategoryFuture  = "future"
)

// Template describes one card theme users can draw from
type Template struct {
	ID           string            `json:"id" yaml:"id"`
	Title        string            `json:"title" yaml:"title"`
	Subtitle     string            `json:"subtitle,omitempty" yaml:"subtitle"`
	Tag          string            `json:"tag,omitempty" yaml:"tag"`
	Category     string            `json:"category" yaml:"category"`
	Cost         int64             `json:"cost" yaml:"cost"`
	InputHint    string            `json:"inputHint,omitempty" yaml:"inputHint"`
	QuickPrompts []string          `json:"quickPrompts,omitempty" yaml:"quickPrompts"`
	Description  string            `json:"description,omitempty" yaml:"description"`
	Keywords     []string          `json:"keywords,omitempty" yaml:"keywords"`
	PresetTexts  []string          `json:"presetTexts,omitempty" yaml:"presetTexts"`
	Assets       map[Rarity]string `json:"assets,omitempty" yaml:"assets"`
}

// IsCustom reports whether the template passes the user's text through
func (t *Template) IsCustom() bool {
	return t.ID == CustomTemplateID
}
