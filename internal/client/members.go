package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/edent/crossref-client/pkg/crossref"
)

// MembersClient implements crossref.MembersClient.
type MembersClient struct {
	client *Client
}

// NewMembersClient creates a new members client.
func NewMembersClient(client *Client) *MembersClient {
	return &MembersClient{client: client}
}

// Get implements crossref.MembersClient.Get.
func (c *MembersClient) Get(ctx context.Context, id int) (*crossref.Member, error) {
	path := "members/" + strconv.Itoa(id)

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(nil))
	if err != nil {
		return nil, fmt.Errorf("getting member %d: %w", id, err)
	}

	return decodeMessage[crossref.Member](resp.Body)
}

// List implements crossref.MembersClient.List.
func (c *MembersClient) List(ctx context.Context, params *crossref.QueryParams) (*crossref.MemberList, error) {
	resp, err := c.client.httpClient.Get(ctx, "members", c.client.listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	return decodeMessage[crossref.MemberList](resp.Body)
}

// Works implements crossref.MembersClient.Works.
func (c *MembersClient) Works(ctx context.Context, id int, params *crossref.QueryParams) (*crossref.WorkList, error) {
	path := "members/" + strconv.Itoa(id) + "/works"

	resp, err := c.client.httpClient.Get(ctx, path, c.client.listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("listing works for member %d: %w", id, err)
	}

	return decodeMessage[crossref.WorkList](resp.Body)
}
