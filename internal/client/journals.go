package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/edent/crossref-client/pkg/crossref"
)

// JournalsClient implements crossref.JournalsClient.
type JournalsClient struct {
	client *Client
}

// NewJournalsClient creates a new journals client.
func NewJournalsClient(client *Client) *JournalsClient {
	return &JournalsClient{client: client}
}

// Get implements crossref.JournalsClient.Get.
func (c *JournalsClient) Get(ctx context.Context, issn string) (*crossref.Journal, error) {
	if issn == "" {
		return nil, crossref.ErrISSNRequired
	}

	path := "journals/" + url.PathEscape(issn)

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(nil))
	if err != nil {
		return nil, fmt.Errorf("getting journal %s: %w", issn, err)
	}

	return decodeMessage[crossref.Journal](resp.Body)
}

// List implements crossref.JournalsClient.List.
func (c *JournalsClient) List(ctx context.Context, params *crossref.QueryParams) (*crossref.JournalList, error) {
	resp, err := c.client.httpClient.Get(ctx, "journals", c.client.listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}

	return decodeMessage[crossref.JournalList](resp.Body)
}

// Works implements crossref.JournalsClient.Works.
func (c *JournalsClient) Works(ctx context.Context, issn string, params *crossref.QueryParams) (*crossref.WorkList, error) {
	if issn == "" {
		return nil, crossref.ErrISSNRequired
	}

	path := "journals/" + url.PathEscape(issn) + "/works"

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("listing works for journal %s: %w", issn, err)
	}

	return decodeMessage[crossref.WorkList](resp.Body)
}
