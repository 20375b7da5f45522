package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/edent/crossref-client/pkg/crossref"
)

// TypesClient implements crossref.TypesClient.
type TypesClient struct {
	client *Client
}

// NewTypesClient creates a new types client.
func NewTypesClient(client *Client) *TypesClient {
	return &TypesClient{client: client}
}

// Get implements crossref.TypesClient.Get.
func (c *TypesClient) Get(ctx context.Context, id string) (*crossref.WorkType, error) {
	path := "types/" + url.PathEscape(id)

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(nil))
	if err != nil {
		return nil, fmt.Errorf("getting type %s: %w", id, err)
	}

	return decodeMessage[crossref.WorkType](resp.Body)
}

// List implements crossref.TypesClient.List.
func (c *TypesClient) List(ctx context.Context) (*crossref.WorkTypeList, error) {
	resp, err := c.client.httpClient.Get(ctx, "types", c.client.listQuery(nil))
	if err != nil {
		return nil, fmt.Errorf("listing types: %w", err)
	}

	return decodeMessage[crossref.WorkTypeList](resp.Body)
}

// PrefixesClient implements crossref.PrefixesClient.
type PrefixesClient struct {
	client *Client
}

// NewPrefixesClient creates a new prefixes client.
func NewPrefixesClient(client *Client) *PrefixesClient {
	return &PrefixesClient{client: client}
}

// Get implements crossref.PrefixesClient.Get.
func (c *PrefixesClient) Get(ctx context.Context, prefix string) (*crossref.Prefix, error) {
	if prefix == "" {
		return nil, crossref.ErrPrefixRequired
	}

	path := "prefixes/" + url.PathEscape(prefix)

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(nil))
	if err != nil {
		return nil, fmt.Errorf("getting prefix %s: %w", prefix, err)
	}

	return decodeMessage[crossref.Prefix](resp.Body)
}

// Works implements crossref.PrefixesClient.Works.
func (c *PrefixesClient) Works(ctx context.Context, prefix string, params *crossref.QueryParams) (*crossref.WorkList, error) {
	if prefix == "" {
		return nil, crossref.ErrPrefixRequired
	}

	path := "prefixes/" + url.PathEscape(prefix) + "/works"

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("listing works for prefix %s: %w", prefix, err)
	}

	return decodeMessage[crossref.WorkList](resp.Body)
}

// LicensesClient implements crossref.LicensesClient.
type LicensesClient struct {
	client *Client
}

// NewLicensesClient creates a new licenses client.
func NewLicensesClient(client *Client) *LicensesClient {
	return &LicensesClient{client: client}
}

// List implements crossref.LicensesClient.List.
func (c *LicensesClient) List(ctx context.Context, params *crossref.QueryParams) (*crossref.LicenseList, error) {
	resp, err := c.client.httpClient.Get(ctx, "licenses", c.client.listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("listing licenses: %w", err)
	}

	return decodeMessage[crossref.LicenseList](resp.Body)
}
