package types

import (
	"github.com/shopspring/decimal"
)

// Transaction is one classified transaction as returned by the API.
type Transaction struct {
	// Hash is the transaction hash or signature.
	Hash string `json:"hash"`

	// BlockNumber is the block (or slot) the transaction was included in.
	BlockNumber int64 `json:"blockNumber"`

	// Timestamp is the block unix timestamp.
	Timestamp int64 `json:"timestamp"`

	// Classification is the human-readable classification of the
	// transaction (e.g. "Sent 0.5 ETH").
	Classification TxClassification `json:"classification"`

	// Transfers are the asset movements attributed to the transaction.
	Transfers []Transfer `json:"transfers,omitempty"`
}

// TxClassification describes what a transaction did.
type TxClassification struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Transfer is one asset movement within a transaction.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Asset  Asset           `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
}

// Asset identifies a transferred token or native coin.
type Asset struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address,omitempty"`
	Decimals int    `json:"decimals"`
}

// HistoryEvent is one entry of an account's time-ordered history. It is
// a lighter record than Transaction: just enough to walk the timeline
// and fetch details on demand.
type HistoryEvent struct {
	TransactionHash string `json:"transactionHash"`
	BlockNumber     int64  `json:"blockNumber"`
	Timestamp       int64  `json:"timestamp"`
}

// TokenHolder is one holder of a token at the queried block.
type TokenHolder struct {
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`

	// Share is the holder's fraction of the total supply, when the
	// ecosystem reports it.
	Share *decimal.Decimal `json:"share,omitempty"`
}
