package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
)

// Client talks to a Solana JSON-RPC endpoint. It implements
// domain.LedgerClient: transport and 5xx failures come back as
// TransientNetworkError so the settlement retry loop can distinguish them
// from definitive rejections.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransientNetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return &domain.TransientNetworkError{Err: fmt.Errorf("rpc endpoint returned %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc endpoint returned %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return &domain.TransientNetworkError{Err: err}
	}
	if rpcResp.Error != nil {
		return mapRPCError(rpcResp.Error)
	}
	if out != nil {
		return json.Unmarshal(rpcResp.Result, out)
	}
	return nil
}

// mapRPCError sorts node errors into the settlement error taxonomy. Anything
// not recognized as transient is a definitive rejection.
func mapRPCError(e *rpcError) error {
	msg := strings.ToLower(e.Message)
	switch {
	case strings.Contains(msg, "blockhash not found"), strings.Contains(msg, "blockhash expired"):
		return domain.ErrBlockhashExpired
	case strings.Contains(msg, "insufficient funds"), strings.Contains(msg, "insufficient lamports"):
		return domain.ErrInsufficientFunds
	case strings.Contains(msg, "already processed"), strings.Contains(msg, "already been processed"):
		return domain.ErrDuplicateSignature
	case strings.Contains(msg, "node is behind"), strings.Contains(msg, "unhealthy"):
		return &domain.TransientNetworkError{Err: fmt.Errorf("rpc error %d: %s", e.Code, e.Message)}
	default:
		return &domain.LedgerRejectedError{Reason: e.Message, Err: fmt.Errorf("rpc error %d", e.Code)}
	}
}

type blockhashResult struct {
	Value struct {
		Blockhash string `json:"blockhash"`
	} `json:"value"`
}

func (c *Client) GetLatestBlockhash(ctx context.Context) (string, error) {
	var result blockhashResult
	params := []interface{}{map[string]string{"commitment": "finalized"}}
	if err := c.call(ctx, "getLatestBlockhash", params, &result); err != nil {
		return "", err
	}
	return result.Value.Blockhash, nil
}

type simulateResult struct {
	Value struct {
		Err  interface{} `json:"err"`
		Logs []string    `json:"logs"`
	} `json:"value"`
}

func (c *Client) Simulate(ctx context.Context, tx *domain.TransferTx) error {
	var result simulateResult
	params := []interface{}{encodeTransaction(tx), map[string]string{"encoding": "base64"}}
	if err := c.call(ctx, "simulateTransaction", params, &result); err != nil {
		return err
	}
	if result.Value.Err != nil {
		return &domain.LedgerRejectedError{Reason: fmt.Sprintf("simulation failed: %v", result.Value.Err)}
	}
	return nil
}

func (c *Client) Submit(ctx context.Context, tx *domain.TransferTx) (string, error) {
	var signature string
	params := []interface{}{encodeTransaction(tx), map[string]interface{}{
		"encoding":   "base64",
		"maxRetries": 0,
	}}
	if err := c.call(ctx, "sendTransaction", params, &signature); err != nil {
		return "", err
	}
	return signature, nil
}

type signatureStatusResult struct {
	Value []*struct {
		ConfirmationStatus string      `json:"confirmationStatus"`
		Err                interface{} `json:"err"`
	} `json:"value"`
}

func (c *Client) GetSignatureStatus(ctx context.Context, signature string) (domain.SignatureStatus, error) {
	var result signatureStatusResult
	params := []interface{}{[]string{signature}, map[string]bool{"searchTransactionHistory": true}}
	if err := c.call(ctx, "getSignatureStatuses", params, &result); err != nil {
		return domain.SignatureNotFound, err
	}

	if len(result.Value) == 0 || result.Value[0] == nil {
		return domain.SignatureNotFound, nil
	}
	entry := result.Value[0]
	if entry.Err != nil {
		return domain.SignatureFailed, nil
	}
	switch entry.ConfirmationStatus {
	case "confirmed", "finalized":
		return domain.SignatureConfirmed, nil
	default:
		return domain.SignaturePending, nil
	}
}
