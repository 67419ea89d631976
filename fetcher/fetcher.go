package fetcher

import "github.com/jochie/teletekst/models"

// Fetcher interface defines the contract for page-walking implementations
type Fetcher interface {
	// Fetch retrieves the full set of news pages in one run and returns them
	// as a snapshot
	Fetch() (models.Snapshot, error)
}
