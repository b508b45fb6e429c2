package scrape

// Selectors holds the structural CSS selectors used to pick the dependents
// listing apart. They track GitHub's current markup and can be overridden
// from the config file when GitHub ships a redesign.
type Selectors struct {
	// Item matches one dependent entry row on a listing page.
	Item string `toml:"item"`
	// Repo matches the repository link inside an entry row.
	Repo string `toml:"repo"`
	// Stars matches the star-count element inside an entry row. Ghost and
	// private dependents render without one.
	Stars string `toml:"stars"`
	// NextButton matches the pagination links at the bottom of a page.
	NextButton string `toml:"next_button"`
	// Count matches the selected tab of the listing header, whose text leads
	// with the total dependent count (e.g. "1,234 Repositories").
	Count string `toml:"count"`
}

// DefaultSelectors returns the selectors matching GitHub's dependents page
// markup as of this writing.
func DefaultSelectors() Selectors {
	return Selectors{
		Item:       "#dependents > div.Box > div.flex-items-center",
		Repo:       "span > a.text-bold",
		Stars:      "div > span:nth-child(1)",
		NextButton: "#dependents > div.paginate-container > div > a",
		Count:      ".table-list-header-toggle .btn-link.selected",
	}
}

// merged returns s with any empty field filled from the defaults, so a
// partial override in the config file doesn't blank out the rest.
func (s Selectors) merged() Selectors {
	def := DefaultSelectors()
	if s.Item == "" {
		s.Item = def.Item
	}
	if s.Repo == "" {
		s.Repo = def.Repo
	}
	if s.Stars == "" {
		s.Stars = def.Stars
	}
	if s.NextButton == "" {
		s.NextButton = def.NextButton
	}
	if s.Count == "" {
		s.Count = def.Count
	}
	return s
}
