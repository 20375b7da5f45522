package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/edent/crossref-client/pkg/crossref"
)

// WorksClient implements crossref.WorksClient.
type WorksClient struct {
	client *Client
}

// NewWorksClient creates a new works client.
func NewWorksClient(client *Client) *WorksClient {
	return &WorksClient{client: client}
}

// Get implements crossref.WorksClient.Get.
func (c *WorksClient) Get(ctx context.Context, doi string) (*crossref.Work, error) {
	if doi == "" {
		return nil, crossref.ErrDOIRequired
	}

	path := "works/" + url.PathEscape(doi)

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(nil))
	if err != nil {
		return nil, fmt.Errorf("getting work %s: %w", doi, err)
	}

	return decodeMessage[crossref.Work](resp.Body)
}

// List implements crossref.WorksClient.List.
func (c *WorksClient) List(ctx context.Context, params *crossref.QueryParams) (*crossref.WorkList, error) {
	resp, err := c.client.httpClient.Get(ctx, "works", c.client.listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("listing works: %w", err)
	}

	return decodeMessage[crossref.WorkList](resp.Body)
}

// Agency implements crossref.WorksClient.Agency.
func (c *WorksClient) Agency(ctx context.Context, doi string) (*crossref.Agency, error) {
	if doi == "" {
		return nil, crossref.ErrDOIRequired
	}

	path := "works/" + url.PathEscape(doi) + "/agency"

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(nil))
	if err != nil {
		return nil, fmt.Errorf("getting agency for %s: %w", doi, err)
	}

	return decodeMessage[crossref.Agency](resp.Body)
}

// Exists implements crossref.WorksClient.Exists.
func (c *WorksClient) Exists(ctx context.Context, doi string) (bool, error) {
	if doi == "" {
		return false, crossref.ErrDOIRequired
	}

	return c.client.Exists(ctx, "works/"+url.PathEscape(doi))
}

// ListAll walks the full result set for params using the cursor protocol,
// calling fn for each page. Iteration stops when fn returns false, the pages
// run out, or the context is done.
func (c *WorksClient) ListAll(ctx context.Context, params *crossref.QueryParams, fn func(*crossref.WorkList) bool) error {
	if params == nil {
		params = crossref.NewQueryParams()
	}

	params.WithCursor("*")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := c.List(ctx, params)
		if err != nil {
			return err
		}

		if len(page.Items) == 0 {
			return nil
		}

		if !fn(page) {
			return nil
		}

		if page.NextCursor == "" {
			return nil
		}

		params.WithCursor(page.NextCursor)
	}
}
