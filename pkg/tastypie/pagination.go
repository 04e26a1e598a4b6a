package tastypie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// Meta is the pagination block tastypie puts at the top of every list
// response. Next and Previous are null on the last and first page.
type Meta struct {
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	TotalCount int     `json:"total_count"`
	Next       *string `json:"next"`
	Previous   *string `json:"previous"`
}

// ListEnvelope is the raw shape of a tastypie list response.
type ListEnvelope struct {
	Meta    Meta              `json:"meta"`
	Objects []json.RawMessage `json:"objects"`
}

// List is a decoded page of typed objects.
type List[T any] struct {
	Meta    Meta
	Objects []T
}

// DecodeList decodes a list response into typed objects.
func DecodeList[T any](resp *restkit.Response) (*List[T], error) {
	var envelope ListEnvelope

	err := resp.Decode(&envelope)
	if err != nil {
		return nil, fmt.Errorf("decoding list envelope: %w", err)
	}

	list := &List[T]{
		Meta:    envelope.Meta,
		Objects: make([]T, 0, len(envelope.Objects)),
	}

	for _, raw := range envelope.Objects {
		var object T

		err = json.Unmarshal(raw, &object)
		if err != nil {
			return nil, fmt.Errorf("decoding list object: %w", err)
		}

		list.Objects = append(list.Objects, object)
	}

	return list, nil
}

// EachPage walks a resource list page by page, following meta.next, and
// calls fn with each decoded page. Iteration stops when fn returns false,
// when the last page is reached, or after MaxPages pages.
func EachPage[T any](ctx context.Context, resource *Resource, params *QueryParams, fn func(*List[T]) (bool, error)) error {
	values := url.Values{}
	if params != nil {
		values = params.ToValues()
	}

	for page := 0; page < constants.MaxPages; page++ {
		resp, err := resource.List(ctx, values)
		if err != nil {
			return err
		}

		list, err := DecodeList[T](resp)
		if err != nil {
			return err
		}

		keepGoing, err := fn(list)
		if err != nil {
			return err
		}

		if !keepGoing || list.Meta.Next == nil || *list.Meta.Next == "" {
			return nil
		}

		nextURL, err := url.Parse(*list.Meta.Next)
		if err != nil {
			return fmt.Errorf("parsing next page URL: %w", err)
		}

		values = nextURL.Query()
	}

	return nil
}

// FetchAll collects every object from a paginated list.
func FetchAll[T any](ctx context.Context, resource *Resource, params *QueryParams) ([]T, error) {
	var all []T

	err := EachPage(ctx, resource, params, func(list *List[T]) (bool, error) {
		all = append(all, list.Objects...)

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return all, nil
}
