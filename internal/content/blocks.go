package content

import "strings"

// Stream tags of the home page body.
const (
	TypeHero        = "hero"
	TypeStatistic   = "statistic"
	TypeNews        = "news"
	TypeTestimonial = "testimonial"
	TypeCTA         = "cta"
)

// Icon tokens shared by the statistic block and the Statistic snippet.
const (
	IconUsers      = "users"
	IconHeart      = "heart"
	IconTrendingUp = "trending_up"
	IconHandHeart  = "hand_heart"
)

// Call-to-action button styles.
const (
	CTAStylePrimary   = "primary"
	CTAStyleSecondary = "secondary"
)

// Choice is one selectable value of an enum field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// IconChoices lists the statistic icons in admin order.
var IconChoices = []Choice{
	{Value: IconUsers, Label: "Users"},
	{Value: IconHeart, Label: "Heart"},
	{Value: IconTrendingUp, Label: "Trending Up"},
	{Value: IconHandHeart, Label: "Hand Heart"},
}

// CTAStyleChoices lists the button style variants.
var CTAStyleChoices = []Choice{
	{Value: CTAStylePrimary, Label: "Primary"},
	{Value: CTAStyleSecondary, Label: "Secondary"},
}

// ImageRef names an image reference carried by a field.
type ImageRef struct {
	Field string
	ID    uint
}

// Block is the value of one body stream child.
type Block interface {
	// BlockType returns the stream tag the value belongs to.
	BlockType() string
	// Clean trims text and fills defaults before validation.
	Clean()
	// ImageRefs lists the image ids the value points at.
	ImageRefs() []ImageRef
}

// Validate cleans b and checks its field constraints.
func Validate(b Block) error {
	b.Clean()
	return ValidateStruct(b)
}

// Hero is the page-top banner.
type Hero struct {
	Title            string `json:"title" validate:"required,max=250"`
	Subtitle         string `json:"subtitle"`
	BackgroundImage  *uint  `json:"background_image" validate:"required,gt=0"`
	CTAPrimaryText   string `json:"cta_primary_text" validate:"required,max=50"`
	CTAPrimaryURL    string `json:"cta_primary_url" validate:"required,weburl"`
	CTASecondaryText string `json:"cta_secondary_text" validate:"max=50"`
	CTASecondaryURL  string `json:"cta_secondary_url" validate:"omitempty,weburl"`
}

func (*Hero) BlockType() string { return TypeHero }

func (b *Hero) Clean() {
	trimAll(&b.Title, &b.Subtitle, &b.CTAPrimaryText, &b.CTAPrimaryURL, &b.CTASecondaryText, &b.CTASecondaryURL)
}

func (b *Hero) ImageRefs() []ImageRef {
	return collectRefs(ImageRef{Field: "background_image"}, b.BackgroundImage)
}

// Statistic is a single headline figure.
type Statistic struct {
	IconName string `json:"icon_name" validate:"required,oneof=users heart trending_up hand_heart"`
	Value    string `json:"value" validate:"required,max=50"`
	Label    string `json:"label" validate:"required,max=150"`
}

func (*Statistic) BlockType() string { return TypeStatistic }

func (b *Statistic) Clean() {
	trimAll(&b.IconName, &b.Value, &b.Label)
}

func (*Statistic) ImageRefs() []ImageRef { return nil }

// News is a dated story teaser.
type News struct {
	Title   string `json:"title" validate:"required,max=250"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Image   *uint  `json:"image" validate:"required,gt=0"`
	Excerpt string `json:"excerpt" validate:"required,max=500"`
	LinkURL string `json:"link_url" validate:"omitempty,weburl"`
}

func (*News) BlockType() string { return TypeNews }

func (b *News) Clean() {
	trimAll(&b.Title, &b.Date, &b.Excerpt, &b.LinkURL)
}

func (b *News) ImageRefs() []ImageRef {
	return collectRefs(ImageRef{Field: "image"}, b.Image)
}

// Testimonial is a quote attributed to a person.
type Testimonial struct {
	Quote string `json:"quote" validate:"required"`
	Name  string `json:"name" validate:"required,max=100"`
	Role  string `json:"role" validate:"max=100"`
	Image *uint  `json:"image" validate:"omitempty,gt=0"`
}

func (*Testimonial) BlockType() string { return TypeTestimonial }

func (b *Testimonial) Clean() {
	trimAll(&b.Quote, &b.Name, &b.Role)
}

func (b *Testimonial) ImageRefs() []ImageRef {
	return collectRefs(ImageRef{Field: "image"}, b.Image)
}

// CTAButton is a standalone call-to-action link.
type CTAButton struct {
	Text     string `json:"text" validate:"required,max=50"`
	URL      string `json:"url" validate:"required,weburl"`
	Style    string `json:"style" validate:"required,oneof=primary secondary"`
	IconName string `json:"icon_name" validate:"max=50"`
}

func (*CTAButton) BlockType() string { return TypeCTA }

func (b *CTAButton) Clean() {
	trimAll(&b.Text, &b.URL, &b.Style, &b.IconName)
	if b.Style == "" {
		b.Style = CTAStylePrimary
	}
}

func (*CTAButton) ImageRefs() []ImageRef { return nil }

func trimAll(fields ...*string) {
	for _, field := range fields {
		*field = strings.TrimSpace(*field)
	}
}

func collectRefs(ref ImageRef, id *uint) []ImageRef {
	if id == nil || *id == 0 {
		return nil
	}
	ref.ID = *id
	return []ImageRef{ref}
}
