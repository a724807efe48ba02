package network

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

// IndexerClient talks to a REST chain indexer exposing Chronik-style routes:
//
//	GET  /address/{address}/utxos
//	GET  /blockchain-info
//	GET  /raw-tx/{txid}
//	POST /broadcast-tx
type IndexerClient struct {
	client *resty.Client
}

var _ BlockchainService = (*IndexerClient)(nil)

type indexerOutpoint struct {
	TxID   string `json:"txid"`
	OutIdx uint32 `json:"outIdx"`
}

type indexerUTXO struct {
	Outpoint    indexerOutpoint `json:"outpoint"`
	BlockHeight int64           `json:"blockHeight"` // -1 while unconfirmed
	Sats        string          `json:"sats"`        // decimal string, may exceed 2^53
	Script      string          `json:"script"`
}

type indexerUTXOsResponse struct {
	Utxos []indexerUTXO `json:"utxos"`
}

type indexerBlockchainInfo struct {
	TipHash   string `json:"tipHash"`
	TipHeight uint64 `json:"tipHeight"`
}

type indexerRawTx struct {
	RawTx string `json:"rawTx"`
}

type indexerBroadcastRequest struct {
	RawTx string `json:"rawTx"`
}

type indexerBroadcastResponse struct {
	TxID string `json:"txid"`
}

type indexerError struct {
	Error string `json:"error"`
}

// NewIndexerClient creates an indexer client rooted at cfg.URL.
func NewIndexerClient(cfg Config) *IndexerClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.User != "" {
		c.SetBasicAuth(cfg.User, cfg.Password)
	}
	return &IndexerClient{client: c}
}

// ListUnspent fetches the address's UTXO set.
func (c *IndexerClient) ListUnspent(ctx context.Context, address string) ([]*UTXO, error) {
	var out indexerUTXOsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("address", address).
		SetResult(&out).
		SetError(&indexerError{}).
		Get("/address/{address}/utxos")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	utxos := make([]*UTXO, 0, len(out.Utxos))
	for _, u := range out.Utxos {
		sats, err := strconv.ParseUint(u.Sats, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: sats %q: %v", ErrInvalidResponse, u.Sats, err)
		}
		var confs int64
		if u.BlockHeight >= 0 {
			confs = 1
		}
		utxos = append(utxos, &UTXO{
			TxID:          u.Outpoint.TxID,
			Vout:          u.Outpoint.OutIdx,
			Amount:        sats,
			ScriptPubKey:  u.Script,
			Address:       address,
			Confirmations: confs,
		})
	}
	return utxos, nil
}

// GetBestBlockHeight returns tipHeight from /blockchain-info.
func (c *IndexerClient) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	var out indexerBlockchainInfo
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&indexerError{}).
		Get("/blockchain-info")
	if err := checkResponse(resp, err); err != nil {
		return 0, err
	}
	return out.TipHeight, nil
}

// GetRawTx fetches and decodes a raw transaction.
func (c *IndexerClient) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	var out indexerRawTx
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("txid", txid).
		SetResult(&out).
		SetError(&indexerError{}).
		Get("/raw-tx/{txid}")
	if resp != nil && resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrTxNotFound, txid)
	}
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(out.RawTx)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tx hex: %v", ErrInvalidResponse, err)
	}
	return data, nil
}

// BroadcastTx posts the raw transaction. Any non-2xx answer wraps
// ErrBroadcastRejected and carries the indexer's message.
func (c *IndexerClient) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	var out indexerBroadcastResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(indexerBroadcastRequest{RawTx: rawTxHex}).
		SetResult(&out).
		SetError(&indexerError{}).
		Post("/broadcast-tx")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: %s", ErrBroadcastRejected, errorMessage(resp))
	}
	if out.TxID == "" {
		return "", fmt.Errorf("%w: empty txid", ErrInvalidResponse)
	}
	return out.TxID, nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: HTTP %d: %s", ErrInvalidResponse, resp.StatusCode(), errorMessage(resp))
	}
	return nil
}

func errorMessage(resp *resty.Response) string {
	if e, ok := resp.Error().(*indexerError); ok && e.Error != "" {
		return e.Error
	}
	return truncate(resp.Body(), 1024)
}
