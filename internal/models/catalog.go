package models

// CatalogEntry is one creature card in the public catalog listing.
// Entries are immutable once fetched; a re-fetch replaces them wholesale.
type CatalogEntry struct {
	ID       int
	Name     string
	ImageURL string // official artwork URL, may be empty
	Types    []string
}

// CatalogDetail extends an entry with the fields shown on the detail
// screen, including the species description fetched via a secondary lookup.
type CatalogDetail struct {
	CatalogEntry
	Height      int // decimetres, as served
	Weight      int // hectograms, as served
	Abilities   []string
	Stats       []Stat
	MoveCount   int
	Description string
	Genus       string
}

// Stat is a single base stat line (hp, attack, defense...).
type Stat struct {
	Name  string
	Value int
}
