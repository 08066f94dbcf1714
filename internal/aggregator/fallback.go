package aggregator

import (
	"fmt"
	"time"

	"newsdesk/internal/article"
)

// Placeholders returns the static last-resort dataset served when every live
// source fails or returns nothing. It is an availability guarantee, not a
// data-quality one: the entries are well-formed but fixed.
func Placeholders() []article.Article {
	entries := []struct {
		title    string
		excerpt  string
		content  string
		author   string
		category article.Category
		tags     []string
		featured bool
		daysAgo  int
	}{
		{
			title:    "AI Revolution: How Machine Learning is Transforming Industries",
			excerpt:  "Artificial intelligence and machine learning are reshaping how businesses operate across all sectors.",
			content:  "Artificial intelligence and machine learning technologies are fundamentally transforming how industries operate. Companies are leveraging AI to automate processes, gain insights from data, and create innovative products across healthcare, finance, and manufacturing sectors.",
			author:   "Sarah Johnson",
			category: article.CategoryTechnology,
			tags:     []string{"artificial", "intelligence", "machine", "learning"},
			featured: true,
			daysAgo:  3,
		},
		{
			title:    "Global Climate Summit Reaches Historic Agreement",
			excerpt:  "World leaders commit to ambitious carbon reduction targets at landmark climate conference.",
			content:  "Representatives from 195 countries have reached a groundbreaking agreement on climate action. The accord includes binding commitments to reduce carbon emissions by 50% by 2030 and achieve net-zero by 2050.",
			author:   "Michael Chen",
			category: article.CategoryWorld,
			tags:     []string{"climate", "summit", "agreement"},
			featured: true,
			daysAgo:  2,
		},
		{
			title:    "The Future of Remote Work: Trends Shaping the Decade",
			excerpt:  "As hybrid work becomes the norm, companies are reimagining office spaces and collaboration.",
			content:  "The workplace continues to evolve with hybrid models becoming standard. Companies are investing in technology to support distributed teams while maintaining company culture and productivity.",
			author:   "Emily Rodriguez",
			category: article.CategoryBusiness,
			tags:     []string{"remote", "work", "hybrid"},
			daysAgo:  5,
		},
		{
			title:    "Breakthrough in Quantum Computing Announced",
			excerpt:  "Scientists achieve stable qubits at room temperature, marking major milestone.",
			content:  "Researchers have successfully demonstrated quantum computing operations at room temperature, eliminating the need for extreme cooling. This breakthrough could accelerate practical quantum computing applications.",
			author:   "Dr. James Wilson",
			category: article.CategoryTechnology,
			tags:     []string{"quantum", "computing", "research"},
			featured: true,
			daysAgo:  1,
		},
		{
			title:    "New Study Links Mediterranean Diet to Longevity",
			excerpt:  "Comprehensive 20-year study shows significant health benefits from traditional diet.",
			content:  "A landmark study following 100,000 participants over two decades reveals that adherence to a Mediterranean diet pattern reduces mortality risk by 23% and significantly lowers cardiovascular disease.",
			author:   "Dr. Maria Gonzalez",
			category: article.CategoryHealth,
			tags:     []string{"mediterranean", "diet", "study"},
			daysAgo:  4,
		},
		{
			title:    "NASA Confirms Water Ice Deposits on Mars",
			excerpt:  "Latest Mars rover findings reveal vast underground ice reserves.",
			content:  "The Perseverance rover has discovered extensive water ice deposits beneath the Martian surface, potentially providing crucial resources for future human missions to the red planet.",
			author:   "Jennifer Park",
			category: article.CategoryScience,
			tags:     []string{"nasa", "mars", "water"},
			featured: true,
			daysAgo:  2,
		},
		{
			title:    "Premier League: Dramatic Final Day Decides Champion",
			excerpt:  "Title race goes down to the wire with last-minute goals deciding the winner.",
			content:  "The most thrilling league season finale in years saw three teams separated by just two points going into the final matchday. A stunning comeback victory secured the championship.",
			author:   "Tom Harrison",
			category: article.CategorySports,
			tags:     []string{"premier", "league", "football"},
			daysAgo:  1,
		},
		{
			title:    "Streaming Wars: Major Platform Announces Merger",
			excerpt:  "Industry consolidation continues as two major players join forces.",
			content:  "In a move that will reshape the streaming landscape, two leading platforms have announced plans to merge, creating a service with over 200 million subscribers worldwide.",
			author:   "Rachel Green",
			category: article.CategoryEntertainment,
			tags:     []string{"streaming", "merger", "entertainment"},
			daysAgo:  3,
		},
		{
			title:    "Historic Peace Accord Signed After Years of Negotiation",
			excerpt:  "Long-standing conflict moves toward resolution with landmark agreement.",
			content:  "After years of negotiations, regional powers have signed a comprehensive peace agreement addressing territorial disputes and establishing frameworks for economic cooperation.",
			author:   "Fatima Abbas",
			category: article.CategoryPolitics,
			tags:     []string{"peace", "accord", "diplomacy"},
			daysAgo:  4,
		},
		{
			title:    "Global Markets Rally on Economic Data",
			excerpt:  "Strong employment numbers fuel investor optimism.",
			content:  "Stock markets worldwide posted significant gains following better-than-expected economic indicators. Unemployment rates fell to decade lows while wage growth remained steady.",
			author:   "David Miller",
			category: article.CategoryBusiness,
			tags:     []string{"markets", "economy", "rally"},
			daysAgo:  1,
		},
	}

	now := time.Now().UTC()
	out := make([]article.Article, 0, len(entries))
	for i, e := range entries {
		published := now.AddDate(0, 0, -e.daysAgo)
		slug := article.Slug(e.title)
		out = append(out, article.Article{
			ID:          fmt.Sprintf("placeholder-%d", i+1),
			Title:       e.title,
			Slug:        slug,
			Excerpt:     e.excerpt,
			Content:     e.content,
			Author:      e.author,
			Category:    e.category,
			Tags:        e.tags,
			PublishedAt: published,
			UpdatedAt:   published,
			Featured:    e.featured,
			Source:      "Newsdesk",
			SourceURL:   "https://newsdesk.local/articles/" + slug,
		})
	}
	return out
}
