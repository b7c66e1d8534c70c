package db

// SearchResult holds one page of hits.
type SearchResult struct {
	Entries []SearchEntry
}

// SearchEntry is a single hit. Source is the JSON document stored at index time.
type SearchEntry struct {
	ID     string
	Score  float64
	Source []byte
}
