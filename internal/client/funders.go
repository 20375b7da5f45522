package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/edent/crossref-client/pkg/crossref"
)

// FundersClient implements crossref.FundersClient.
type FundersClient struct {
	client *Client
}

// NewFundersClient creates a new funders client.
func NewFundersClient(client *Client) *FundersClient {
	return &FundersClient{client: client}
}

// Get implements crossref.FundersClient.Get.
func (c *FundersClient) Get(ctx context.Context, id string) (*crossref.Funder, error) {
	path := "funders/" + url.PathEscape(id)

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(nil))
	if err != nil {
		return nil, fmt.Errorf("getting funder %s: %w", id, err)
	}

	return decodeMessage[crossref.Funder](resp.Body)
}

// List implements crossref.FundersClient.List.
func (c *FundersClient) List(ctx context.Context, params *crossref.QueryParams) (*crossref.FunderList, error) {
	resp, err := c.client.httpClient.Get(ctx, "funders", c.client.listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("listing funders: %w", err)
	}

	return decodeMessage[crossref.FunderList](resp.Body)
}

// Works implements crossref.FundersClient.Works.
func (c *FundersClient) Works(ctx context.Context, id string, params *crossref.QueryParams) (*crossref.WorkList, error) {
	path := "funders/" + url.PathEscape(id) + "/works"

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("listing works for funder %s: %w", id, err)
	}

	return decodeMessage[crossref.WorkList](resp.Body)
}
