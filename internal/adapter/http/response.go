package http

// listEnvelope is the normalized list response: results plus count,
// never a bare array, so clients decode one shape everywhere.
type listEnvelope[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func listOf[T any](items []T) listEnvelope[T] {
	if items == nil {
		items = []T{}
	}
	return listEnvelope[T]{Count: len(items), Results: items}
}
