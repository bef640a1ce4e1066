package tablestore

import (
	"context"
	"fmt"
)

type PaginatorOptions struct {
	// The maximum number of items in the response.
	Limit int32
}

// ListTablesPaginator is a paginator for ListTables
type ListTablesPaginator struct {
	options   PaginatorOptions
	client    *Client
	request   *ListTablesRequest
	pageToken *string
	firstPage bool
	hasMore   bool
}

func (c *Client) NewListTablesPaginator(request *ListTablesRequest, optFns ...func(*PaginatorOptions)) *ListTablesPaginator {
	if request == nil {
		request = &ListTablesRequest{}
	}

	options := PaginatorOptions{}
	options.Limit = request.PageSize

	for _, fn := range optFns {
		fn(&options)
	}

	return &ListTablesPaginator{
		options:   options,
		client:    c,
		request:   request,
		pageToken: request.PageToken,
		firstPage: true,
		hasMore:   false,
	}
}

// Returns true if there's a next page.
func (p *ListTablesPaginator) HasNext() bool {
	return p.firstPage || p.hasMore
}

// NextPage retrieves the next ListTables page.
func (p *ListTablesPaginator) NextPage(ctx context.Context, optFns ...func(*Options)) (*ListTablesResult, error) {
	if !p.HasNext() {
		return nil, fmt.Errorf("no more pages available")
	}

	request := *p.request
	request.PageToken = p.pageToken

	if p.options.Limit > 0 {
		request.PageSize = p.options.Limit
	}

	result, err := p.client.ListTables(ctx, &request, optFns...)
	if err != nil {
		return nil, err
	}

	p.firstPage = false
	p.hasMore = result.NextPageToken != nil && len(*result.NextPageToken) > 0
	p.pageToken = result.NextPageToken

	return result, nil
}
