// Package evm is the chain data client for EVM ecosystems. EVM
// backends page by block-range cursors: the server narrows startBlock/
// endBlock (or issues a pageKey) in the next-page link it returns.
package evm

import (
	"context"
	"fmt"

	"github.com/Noves-Inc/noves-sdk-sub000/pkg/pagination"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/translate"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/types"
)

// Client exposes the paged collections of one EVM chain.
type Client struct {
	api   translate.Getter
	chain string
}

// NewClient creates a client for the given chain (e.g. "eth", "polygon").
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

// Transactions fetches the first page of an account's transactions and
// returns a materialized page.
func (c *Client) Transactions(ctx context.Context, accountAddress string, opts types.PageOptions) (*TransactionsPage, error) {
	f, err := c.txFetcher(accountAddress)
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
	f, err := c.txFetcher(accountAddress)
	if err != nil {
		return nil, err
	}
	pager, err := pagination.Resume(ctx, f, nil, token)
	if err != nil {
		return nil, err
	}
	return &TransactionsPage{Pager: pager}, nil
}

func (c *Client) txFetcher(accountAddress string) (pagination.Fetcher[types.Transaction], error) {
	if accountAddress == "" {
		return nil, fmt.Errorf("account address is required")
	}
	path := fmt.Sprintf("/evm/%s/txs/%s", c.chain, accountAddress)
	return translate.NewFetcher[types.Transaction](c.api, path), nil
}

// HistoryPage pages through an account's time-ordered history.
//
// History entries are strictly time-ordered, so backward navigation
// re-issues the recorded timestamp window of the earlier page rather
// than deriving a new range from the current one.
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
	path := fmt.Sprintf("/evm/%s/history/%s", c.chain, accountAddress)
	pager, err := pagination.Start(ctx, translate.NewFetcher[types.HistoryEvent](c.api, path), opts)
	if err != nil {
		return nil, err
	}
	return &HistoryPage{Pager: pager}, nil
}

// TokenHoldersPage pages through the holders of a token.
type TokenHoldersPage struct {
	*pagination.Pager[types.TokenHolder]
}

// Holders returns the current page's holders.
func (p *TokenHoldersPage) Holders() []types.TokenHolder { return p.Items() }

// TokenHolders fetches the first page of a token's holders at the
// block selected by opts (latest when no block bound is set).
func (c *Client) TokenHolders(ctx context.Context, tokenAddress string, opts types.PageOptions) (*TokenHoldersPage, error) {
	if tokenAddress == "" {
		return nil, fmt.Errorf("token address is required")
	}
	path := fmt.Sprintf("/evm/%s/tokens/%s/holders", c.chain, tokenAddress)
	pager, err := pagination.Start(ctx, translate.NewFetcher[types.TokenHolder](c.api, path), opts)
	if err != nil {
		return nil, err
	}
	return &TokenHoldersPage{Pager: pager}, nil
}
