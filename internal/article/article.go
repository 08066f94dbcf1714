package article

import "time"

// Article is the canonical record every downstream consumer works with.
// It is constructed fresh on each fetch cycle and never mutated afterwards;
// the persisted variant is owned by the database layer and keyed by Slug.
type Article struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Excerpt      string    `json:"excerpt"`
	Content      string    `json:"content"` // bounded preview, never the full body
	Author       string    `json:"author"`
	Category     Category  `json:"category"`
	Tags         []string  `json:"tags"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	PublishedAt  time.Time `json:"publishedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Featured     bool      `json:"featured"`
	Source       string    `json:"source"`
	SourceURL    string    `json:"sourceUrl"`
	SourceDomain string    `json:"sourceDomain,omitempty"`
}

// Category is one of the fixed set of feed categories.
type Category string

const (
	CategoryWorld         Category = "World"
	CategoryPolitics      Category = "Politics"
	CategoryBusiness      Category = "Business"
	CategoryTechnology    Category = "Technology"
	CategorySports        Category = "Sports"
	CategoryEntertainment Category = "Entertainment"
	CategoryScience       Category = "Science"
	CategoryHealth        Category = "Health"
)

// DefaultCategory is where unmapped upstream sections land.
const DefaultCategory = CategoryWorld

// Categories returns all members of the category set in display order.
func Categories() []Category {
	return []Category{
		CategoryWorld,
		CategoryPolitics,
		CategoryBusiness,
		CategoryTechnology,
		CategorySports,
		CategoryEntertainment,
		CategoryScience,
		CategoryHealth,
	}
}

// Valid reports whether c is a member of the category set.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryInfo carries the display metadata seeded into the store.
type CategoryInfo struct {
	Name        Category `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
}

// CategorySeed is the fixed category table the store is seeded with.
func CategorySeed() []CategoryInfo {
	return []CategoryInfo{
		{CategoryWorld, "world", "International news and global events"},
		{CategoryPolitics, "politics", "Political news and analysis"},
		{CategoryBusiness, "business", "Business, finance, and economy"},
		{CategoryTechnology, "technology", "Tech news and innovation"},
		{CategorySports, "sports", "Sports news and updates"},
		{CategoryEntertainment, "entertainment", "Entertainment and culture"},
		{CategoryScience, "science", "Science and research"},
		{CategoryHealth, "health", "Health and wellness news"},
	}
}

// CategoryFromSlug resolves a lowercase slug back to a category member.
func CategoryFromSlug(slug string) (Category, bool) {
	for _, info := range CategorySeed() {
		if info.Slug == slug {
			return info.Name, true
		}
	}
	return "", false
}
