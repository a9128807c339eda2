package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sujayvsarma/armclient/types"
)

// ContinuationOptions bounds GETWithContinuations. MaxPages of zero follows every nextLink.
type ContinuationOptions struct {
	MaxPages int
}

// GETWithContinuations reads a {value, nextLink} list and follows nextLink until it is empty.
// Values are returned in page order. The returned Response is that of the last page, with its
// body replaced by the combined {"value": [...]} document. On failure the values read so far are
// discarded and the failing Response is returned.
func GETWithContinuations[T any](ctx context.Context, client *Client, request Request, options *ContinuationOptions) ([]T, *Response) {
	if options == nil {
		options = &ContinuationOptions{}
	}

	values := []T{}
	response := client.GET(ctx, request)
	for pages := 1; ; pages++ {
		if !response.IsExpectedSuccess {
			return nil, response
		}

		var page types.ListResponse[T]
		if response.HasBody() {
			if err := json.Unmarshal(response.Body, &page); err != nil {
				return nil, response.reject(pages, fmt.Errorf("decoding page: %w", err))
			}
		}
		values = append(values, page.Values...)

		if !page.HasMore() {
			break
		}
		if options.MaxPages > 0 && pages >= options.MaxPages {
			return nil, response.reject(pages, fmt.Errorf("%w: %d", ErrTooManyPages, options.MaxPages))
		}

		next, err := nextLinkRequest(page.NextLink, response.RequestURI, request)
		if err != nil {
			return nil, response.reject(pages, err)
		}
		client.Logger.Debugf("Following nextLink (page %d)", pages+1)
		response = client.GET(ctx, next)
	}

	body, err := json.Marshal(types.ListResponse[T]{Values: values})
	if err != nil {
		return nil, response.reject(0, err)
	}
	response.Body = body
	return values, response
}

// reject marks a received page unusable. WasException stays false since a response did arrive.
func (r *Response) reject(page int, err error) *Response {
	r.IsExpectedSuccess = false
	r.Err = &ContinuationError{Method: r.Method, RequestURI: r.RequestURI, StatusCode: r.HTTPStatus, Page: page, Err: err}
	return r
}

// nextLinkRequest keeps the original expectations and adds api-version only when the link lacks one.
// Links pointing at a different host are refused.
func nextLinkRequest(nextLink string, current string, original Request) (Request, error) {
	next, err := url.Parse(nextLink)
	if err != nil {
		return Request{}, fmt.Errorf("invalid nextLink %q: %w", nextLink, err)
	}
	base, err := url.Parse(current)
	if err != nil {
		return Request{}, fmt.Errorf("invalid request uri %q: %w", current, err)
	}
	if next.IsAbs() && !strings.EqualFold(next.Host, base.Host) {
		return Request{}, fmt.Errorf("%w: %q", ErrForeignNextLink, next.Host)
	}
	next = base.ResolveReference(next)

	request := Request{
		URL:                  next.String(),
		Headers:              original.Headers,
		ExpectedSuccessCodes: original.ExpectedSuccessCodes,
		Timeout:              original.Timeout,
	}
	if next.Query().Get("api-version") == "" {
		request.APIVersion = original.APIVersion
	}
	return request, nil
}
