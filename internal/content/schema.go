package content

// Snippet names.
const (
	SnippetStatistic   = "statistic"
	SnippetNews        = "news"
	SnippetTestimonial = "testimonials"
)

// SnippetSchema describes the admin form of a library record.
type SnippetSchema struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Panels []Field `json:"panels"`
}

// PageSchema describes the admin form of a page type.
type PageSchema struct {
	Name   string  `json:"name"`
	Panels []Field `json:"panels"`
}

// Schema is the full admin surface description.
type Schema struct {
	Blocks   []Definition    `json:"blocks"`
	Snippets []SnippetSchema `json:"snippets"`
	Pages    []PageSchema    `json:"pages"`
}

var snippetSchemas = []SnippetSchema{
	{
		Name:  SnippetStatistic,
		Label: "Statistic",
		Panels: []Field{
			{Name: "icon_name", Kind: KindChoice, Required: true, MaxLength: 255, Choices: IconChoices},
			{Name: "value", Kind: KindChar, Required: true, MaxLength: 255},
			{Name: "label", Kind: KindChar, Required: true, MaxLength: 255},
		},
	},
	{
		Name:  SnippetNews,
		Label: "News",
		Panels: []Field{
			{Name: "title", Kind: KindChar, Required: true, MaxLength: 255},
			{Name: "date", Kind: KindDate, Required: true},
			{Name: "image", Kind: KindImage},
			{Name: "excerpt", Kind: KindText, Required: true},
			{Name: "link_url", Kind: KindURL, MaxLength: 200},
		},
	},
	{
		Name:  SnippetTestimonial,
		Label: "Testimonials",
		Panels: []Field{
			{Name: "quote", Kind: KindText, Required: true},
			{Name: "name", Kind: KindChar, Required: true, MaxLength: 255},
			{Name: "role", Kind: KindChar, MaxLength: 255},
			{Name: "image", Kind: KindImage},
		},
	},
}

var homePageSchema = PageSchema{
	Name: "home_page",
	Panels: []Field{
		{Name: "title", Kind: KindChar, Required: true, MaxLength: 255},
		{Name: "body", Kind: KindStream},
	},
}

// AdminSchema returns the block registry together with snippet and page panels.
func AdminSchema() Schema {
	snippets := make([]SnippetSchema, len(snippetSchemas))
	for i, snippet := range snippetSchemas {
		snippet.Panels = cloneFields(snippet.Panels)
		snippets[i] = snippet
	}
	page := homePageSchema
	page.Panels = cloneFields(page.Panels)
	return Schema{
		Blocks:   Definitions(),
		Snippets: snippets,
		Pages:    []PageSchema{page},
	}
}
