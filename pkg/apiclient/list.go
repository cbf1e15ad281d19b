package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
)

// List is the normalized list envelope. Endpoints answer either
// {"results": [...], "count": n} or a bare array; both decode into the
// same shape, so callers never branch on the body format.
type List[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		l.Results = items
		l.Count = int64(len(items))
		return nil
	}
	type envelope List[T] // drop the method to avoid recursing
	var e envelope
	if err := json.Unmarshal(trimmed, &e); err != nil {
		return err
	}
	*l = List[T](e)
	if l.Count == 0 {
		l.Count = int64(len(l.Results))
	}
	return nil
}

// GetList fetches a listing endpoint into the normalized envelope.
func GetList[T any](ctx context.Context, c *Client, path string) (List[T], error) {
	var out List[T]
	err := c.Get(ctx, path, &out)
	return out, err
}

// PostList is GetList for endpoints that take a filter body, such as
// the advanced filter.
func PostList[T any](ctx context.Context, c *Client, path string, in any) (List[T], error) {
	var out List[T]
	err := c.Post(ctx, path, in, &out)
	return out, err
}
