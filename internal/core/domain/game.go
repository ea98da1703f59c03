package domain

import "time"

// Game represents an indexed rulebook.
// It is the unit of document selection at query time.
type Game struct {
	// ID is the unique identifier for the game.
	ID string

	// Name is the human-readable display name (e.g. "Catan").
	Name string

	// SourcePath is the path of the file the rulebook was ingested from.
	SourcePath string

	// ChunkCount is the number of indexed chunks for this game.
	// It is also the next sequential chunk offset when merging.
	ChunkCount int

	// CreatedAt is when the game was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the game was last updated.
	UpdatedAt time.Time
}

// Page is one page of extracted rulebook text.
// Pages are ephemeral: they exist between extraction and section building.
type Page struct {
	// Number is the 1-based page number in the source document.
	Number int

	// Text is the raw extracted text of the page.
	Text string
}
