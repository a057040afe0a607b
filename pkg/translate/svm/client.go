// Package svm is the chain data client for SVM (Solana) ecosystems.
// SVM backends do not page by block or time ranges: the server issues
// an opaque continuation key (a signature watermark) which rides in the
// pageKey parameter of the next-page link.
package svm

import (
	"context"
	"fmt"

	"github.com/Noves-Inc/noves-sdk-sub000/pkg/pagination"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/translate"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/types"
)

// Client exposes the paged collections of one SVM chain.
type Client struct {
	api   translate.Getter
	chain string
}

// NewClient creates a client for the given chain (e.g. "solana").
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
// Block-range bounds are not valid on SVM backends and are rejected
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
		return nil, fmt.Errorf("block range filters are not supported on svm chains")
	}
	path := fmt.Sprintf("/svm/%s/txs/%s", c.chain, accountAddress)
	return translate.NewFetcher[types.Transaction](c.api, path), nil
}

// HistoryPage pages through an account's time-ordered history.
type HistoryPage struct {
	*pagination.Pager[types.HistoryEvent]
}

// Events returns the current page's history entries.
func (p *HistoryPage) Events() []types.HistoryEvent { return p.Items() }

// History fetches the first page of an account's history.
func (c *Client) History(ctx context.Context, accountAddress string, opts types.PageOptions) (*HistoryPage, error) {
	if accountAddress == "" {
		return nil, fmt.Errorf("account address is required")
	}
	path := fmt.Sprintf("/svm/%s/history/%s", c.chain, accountAddress)
	pager, err := pagination.Start(ctx, translate.NewFetcher[types.HistoryEvent](c.api, path), opts)
	if err != nil {
		return nil, err
	}
	return &HistoryPage{Pager: pager}, nil
}
