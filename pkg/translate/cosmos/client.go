// Package cosmos is the chain data client for Cosmos ecosystems.
// Cosmos backends page by timestamp cursors: the server narrows
// startTimestamp/endTimestamp in the next-page link it returns.
package cosmos

import (
	"context"
	"fmt"

	"github.com/Noves-Inc/noves-sdk-sub000/pkg/pagination"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/translate"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/types"
)

// Client exposes the paged collections of one Cosmos chain.
type Client struct {
	api   translate.Getter
	chain string
}

// NewClient creates a client for the given chain (e.g. "cosmoshub").
func NewClient(api translate.Getter, chain string) *Client {
	return &Client{api: api, chain: chain}
}

// Chain returns the chain this client queries.
func (c *Client) Chain() string { return c.chain }

// TransactionsPage pages through an account's classified transactions.
type TransactionsPage struct {
	*pagination.Pager[types.Transaction]
}

// Transactions returns the current page's transactions.
func (p *TransactionsPage) Transactions() []types.Transaction { return p.Items() }

// Transactions fetches the first page of an account's transactions.
// Cosmos backends cursor by time, so block-range bounds are rejected
// before any request is made.
func (c *Client) Transactions(ctx context.Context, accountAddress string, opts types.PageOptions) (*TransactionsPage, error) {
	f, err := c.txFetcher(accountAddress, opts)
	if err != nil {
		return nil, err
	}
	pager, err := pagination.Start(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return &TransactionsPage{Pager: pager}, nil
}

// ResumeTransactions resumes a transactions traversal from a cursor
// token issued by an earlier session.
func (c *Client) ResumeTransactions(ctx context.Context, accountAddress, token string) (*TransactionsPage, error) {
	f, err := c.txFetcher(accountAddress, types.PageOptions{})
	if err != nil {
		return nil, err
	}
	pager, err := pagination.Resume(ctx, f, nil, token)
	if err != nil {
		return nil, err
	}
	return &TransactionsPage{Pager: pager}, nil
}

func (c *Client) txFetcher(accountAddress string, opts types.PageOptions) (pagination.Fetcher[types.Transaction], error) {
	if accountAddress == "" {
		return nil, fmt.Errorf("account address is required")
	}
	if opts.StartBlock != nil || opts.EndBlock != nil {
		return nil, fmt.Errorf("block range filters are not supported on cosmos chains, use timestamps")
	}
	path := fmt.Sprintf("/cosmos/%s/txs/%s", c.chain, accountAddress)
	return translate.NewFetcher[types.Transaction](c.api, path), nil
}
