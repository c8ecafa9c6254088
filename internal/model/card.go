package model

import "time"

// Category names the nine fixed rarity tiers.
type Category string

const (
	CategorySecret     Category = "Secret"
	CategoryFounder    Category = "Founder"
	CategoryHistorical Category = "Historical"
	CategoryMaster     Category = "Master"
	CategoryBlackHole  Category = "BlackHole"
	CategoryArchitects Category = "Architects"
	CategoryTeachers   Category = "Teachers"
	CategoryOther      Category = "Other"
	CategoryStudents   Category = "Students"
)

// Categories lists every rarity tier in draw-table order (rarest first).
var Categories = []Category{
	CategorySecret,
	CategoryFounder,
	CategoryHistorical,
	CategoryMaster,
	CategoryBlackHole,
	CategoryArchitects,
	CategoryTeachers,
	CategoryOther,
	CategoryStudents,
}

// CatalogEntry is one drawable card backed by an image file.
// Name is the file's base name with the extension stripped.
type CatalogEntry struct {
	FileID      string   `json:"file_id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	FullVariant bool     `json:"full_variant"`
}

// CardRef identifies a card independently of any backing file.
type CardRef struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
}

// OwnedCard is one inventory entry for a user.
type OwnedCard struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	ImageID  string   `json:"image_id,omitempty"`
}

// DrawnCard is one freshly drawn card, ready for display.
type DrawnCard struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	ImageID  string   `json:"image_id,omitempty"`
}

// RankingEntry is one row of the collector ranking.
type RankingEntry struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Total       int    `json:"total"`
}

// Offer is one card deposited on the exchange board.
type Offer struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name,omitempty"`
	Category  Category  `json:"category"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Comment   string    `json:"comment,omitempty"`
	ImageID   string    `json:"image_id,omitempty"`
}
