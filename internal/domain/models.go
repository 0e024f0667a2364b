package domain

// ManifestEntry is one page's searchable metadata from the build-time manifest.
// Entries are loaded once per session and never mutated.
type ManifestEntry struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Aliases []string `json:"aliases"`
	Authors []string `json:"authors"`
}

// Document is the indexed form of a manifest entry
type Document struct {
	ID      int
	Slug    string
	Title   string
	Content string
	Authors string // joined with ", " for display and matching
}

// ResultEntry is one rendered search result. Recomputed on every query change.
type ResultEntry struct {
	Slug    string
	Title   string // marked-up with search markers
	Excerpt string // marked-up, trimmed to the context window
	Authors string
	NoMatch bool // true for the single "no results" placeholder card
}

// Frontmatter is the structured metadata block embedded in a page fragment
type Frontmatter struct {
	Title     string   `toml:"title"`
	Authors   []string `toml:"authors"`
	Tags      []string `toml:"tags"`
	NoDropcap bool     `toml:"no_dropcap"`
}
