package content

// FieldKind is the admin widget family of a field.
type FieldKind string

const (
	KindChar   FieldKind = "char"
	KindText   FieldKind = "text"
	KindURL    FieldKind = "url"
	KindDate   FieldKind = "date"
	KindChoice FieldKind = "choice"
	KindImage  FieldKind = "image"
	KindStream FieldKind = "stream"
)

// Field describes one admin panel entry.
type Field struct {
	Name      string    `json:"name"`
	Kind      FieldKind `json:"kind"`
	Required  bool      `json:"required"`
	MaxLength int       `json:"max_length,omitempty"`
	Choices   []Choice  `json:"choices,omitempty"`
	Default   string    `json:"default,omitempty"`
	HelpText  string    `json:"help_text,omitempty"`
}

// Definition binds a stream tag to its value shape and presentation.
type Definition struct {
	Type     string  `json:"type"`
	Label    string  `json:"label"`
	Icon     string  `json:"icon"`
	Template string  `json:"template"`
	Fields   []Field `json:"fields"`

	newValue func() Block
}

// New returns an empty value of the definition's block type.
func (d Definition) New() Block {
	return d.newValue()
}

var definitions = []Definition{
	{
		Type:     TypeHero,
		Label:    "Hero Section",
		Icon:     "image",
		Template: "blocks/hero_block.html",
		Fields: []Field{
			{Name: "title", Kind: KindChar, Required: true, MaxLength: 250, HelpText: "Main headline"},
			{Name: "subtitle", Kind: KindText, HelpText: "Supporting subtitle"},
			{Name: "background_image", Kind: KindImage, Required: true},
			{Name: "cta_primary_text", Kind: KindChar, Required: true, MaxLength: 50},
			{Name: "cta_primary_url", Kind: KindURL, Required: true},
			{Name: "cta_secondary_text", Kind: KindChar, MaxLength: 50},
			{Name: "cta_secondary_url", Kind: KindURL},
		},
		newValue: func() Block { return &Hero{} },
	},
	{
		Type:     TypeStatistic,
		Label:    "Statistic Item",
		Icon:     "placeholder",
		Template: "blocks/statistic_block.html",
		Fields: []Field{
			{Name: "icon_name", Kind: KindChoice, Required: true, Choices: IconChoices, HelpText: "Select an icon to display"},
			{Name: "value", Kind: KindChar, Required: true, MaxLength: 50},
			{Name: "label", Kind: KindChar, Required: true, MaxLength: 150},
		},
		newValue: func() Block { return &Statistic{} },
	},
	{
		Type:     TypeNews,
		Label:    "News / Story",
		Icon:     "doc-full",
		Template: "blocks/news_block.html",
		Fields: []Field{
			{Name: "title", Kind: KindChar, Required: true, MaxLength: 250},
			{Name: "date", Kind: KindDate, Required: true},
			{Name: "image", Kind: KindImage, Required: true},
			{Name: "excerpt", Kind: KindText, Required: true, MaxLength: 500},
			{Name: "link_url", Kind: KindURL},
		},
		newValue: func() Block { return &News{} },
	},
	{
		Type:     TypeTestimonial,
		Label:    "Testimonial",
		Icon:     "user",
		Template: "blocks/testimonial_block.html",
		Fields: []Field{
			{Name: "quote", Kind: KindText, Required: true},
			{Name: "name", Kind: KindChar, Required: true, MaxLength: 100},
			{Name: "role", Kind: KindChar, MaxLength: 100},
			{Name: "image", Kind: KindImage},
		},
		newValue: func() Block { return &Testimonial{} },
	},
	{
		Type:     TypeCTA,
		Label:    "Call-to-Action Button",
		Icon:     "placeholder",
		Template: "blocks/cta_button_block.html",
		Fields: []Field{
			{Name: "text", Kind: KindChar, Required: true, MaxLength: 50},
			{Name: "url", Kind: KindURL, Required: true},
			{Name: "style", Kind: KindChoice, Required: true, Choices: CTAStyleChoices, Default: CTAStylePrimary, HelpText: "Button style variant"},
			{Name: "icon_name", Kind: KindChar, MaxLength: 50, HelpText: "Optional icon"},
		},
		newValue: func() Block { return &CTAButton{} },
	},
}

var definitionIndex = func() map[string]Definition {
	index := make(map[string]Definition, len(definitions))
	for _, def := range definitions {
		index[def.Type] = def
	}
	return index
}()

// Lookup returns a copy of the definition registered for a stream tag.
func Lookup(tag string) (Definition, bool) {
	def, ok := definitionIndex[tag]
	if !ok {
		return Definition{}, false
	}
	return def.clone(), true
}

// Definitions returns copies of every block definition in registry order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	for i, def := range definitions {
		out[i] = def.clone()
	}
	return out
}

func (d Definition) clone() Definition {
	d.Fields = cloneFields(d.Fields)
	return d
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		if field.Choices != nil {
			field.Choices = append([]Choice(nil), field.Choices...)
		}
		out[i] = field
	}
	return out
}
