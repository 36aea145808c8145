package models

// Rarity is the server-side rarity tier of a gacha item.
// Values match what the management API stores, lowercase Portuguese.
type Rarity string

const (
	RarityComum    Rarity = "comum"
	RarityIncomum  Rarity = "incomum"
	RarityRaro     Rarity = "raro"
	RarityEpico    Rarity = "epico"
	RarityLendario Rarity = "lendario"
)

// Rarities lists every tier in ascending order, for form pickers.
var Rarities = []Rarity{RarityComum, RarityIncomum, RarityRaro, RarityEpico, RarityLendario}

// Kind distinguishes playable characters from loot items.
type Kind string

const (
	KindPersonagem Kind = "personagem"
	KindItem       Kind = "item"
)

// Kinds lists every kind, for form pickers.
var Kinds = []Kind{KindPersonagem, KindItem}

// GachaItem is a record in the item management API.
// JSON tags follow the server's field names.
//
// Passives and Abilities are always ordered sequences of trimmed,
// non-empty strings; blank lines never appear on the wire.
type GachaItem struct {
	ID          int      `json:"id"`
	Name        string   `json:"nome"`
	Title       string   `json:"titulo,omitempty"`
	Rarity      Rarity   `json:"raridade"`
	Kind        Kind     `json:"tipo"`
	Description string   `json:"descricao,omitempty"`
	Passives    []string `json:"passivas"`
	Abilities   []string `json:"habilidades"`
	DropRate    float64  `json:"taxa_drop"`
	Image       string   `json:"imagem,omitempty"` // opaque server path, resolved against the asset base URL
}

// ImageAsset is a picked local image attached to a create request.
type ImageAsset struct {
	Name string // file name, extension drives the MIME type
	Data []byte
}
