package models

// Campaign describes a single automation run: a content theme and how many
// posts to produce. Immutable for the lifetime of a run.
type Campaign struct {
	Theme      string
	Iterations int
}

// TitleCandidate is a generated blog title together with the numeric lead it
// was asked to start with ("5 Ways to ..." -> NumericLead 5).
type TitleCandidate struct {
	Text        string
	NumericLead int
}

// Idea is a single headline/description pair generated for a post.
// Descriptions below the minimum word count are rejected at parse time and
// never stored.
type Idea struct {
	Headline    string `json:"title"`
	Description string `json:"description"`
}

// PackageItem pairs an accepted idea with its generated image. Exactly one
// item per package carries Featured=true; its image becomes the post's
// featured image.
type PackageItem struct {
	Idea      Idea
	ImagePath string
	ImageURL  string
	Featured  bool
}

// ContentPackage is the fully assembled post: title, descriptions, and the
// ordered idea/image pairs. Built once per campaign iteration and discarded
// after publishing.
type ContentPackage struct {
	Title           TitleCandidate
	MainDescription string
	MetaDescription string
	Items           []PackageItem
}

// FeaturedItem returns the item flagged as featured, or nil if none exists.
func (p *ContentPackage) FeaturedItem() *PackageItem {
	for i := range p.Items {
		if p.Items[i].Featured {
			return &p.Items[i]
		}
	}
	return nil
}

// RemoteCategory is a category known to the CMS backend.
type RemoteCategory struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PublishedPost is the result of a successful CMS publish. It is consumed
// exactly once by the pin publisher and never persisted beyond the iteration.
type PublishedPost struct {
	Title             string
	MainDescription   string
	FeaturedImagePath string
	PublicURL         string
}

// PinRequest carries everything the pin publisher needs for one pin.
// Keywords are pre-generated hashtags appended to the description together
// with the promotional boilerplate during the details stage.
type PinRequest struct {
	Title       string
	Description string
	Keywords    string
	ImagePath   string
	LinkURL     string
	BoardName   string
}
