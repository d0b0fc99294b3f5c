package tron

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/trongate/trongate/internal/config"
)

// HTTPClient talks to a TRON full node (TronGrid-compatible wallet API).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(cfg config.TronConfig) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(cfg.NodeURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	var resp struct {
		Balance int64 `json:"balance"`
	}
	err := c.post(ctx, "/wallet/getaccount", map[string]interface{}{
		"address": address,
		"visible": true,
	}, &resp)
	if err != nil {
		return decimal.Zero, err
	}
	// A never-activated account comes back as {} — balance zero.
	return decimal.NewFromInt(resp.Balance), nil
}

func (c *HTTPClient) SendTRX(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if !req.AmountSun.IsPositive() {
		return nil, fmt.Errorf("transfer amount must be positive, got %s", req.AmountSun)
	}

	// 1. Build the unsigned transaction on the node.
	var unsigned map[string]interface{}
	err := c.post(ctx, "/wallet/createtransaction", map[string]interface{}{
		"owner_address": req.FromAddress,
		"to_address":    req.ToAddress,
		"amount":        req.AmountSun.IntPart(),
		"visible":       true,
	}, &unsigned)
	if err != nil {
		return nil, err
	}
	if errMsg, ok := unsigned["Error"].(string); ok {
		return nil, fmt.Errorf("create transaction: %s", errMsg)
	}
	txID, _ := unsigned["txID"].(string)
	rawDataHex, _ := unsigned["raw_data_hex"].(string)
	if txID == "" || rawDataHex == "" {
		return nil, fmt.Errorf("create transaction: malformed node response")
	}

	// 2. Sign locally: secp256k1 over sha256(raw_data).
	sig, err := signRawData(rawDataHex, req.PrivateKey)
	if err != nil {
		return nil, err
	}
	unsigned["signature"] = []string{sig}

	// 3. Broadcast. Past this point a timeout is ambiguous: the node may
	// have accepted the transaction before the connection died.
	var bc struct {
		Result  bool   `json:"result"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/wallet/broadcasttransaction", unsigned, &bc); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &TransferResult{TxID: txID}, fmt.Errorf("%w: %v", ErrBroadcastUnknown, err)
		}
		return nil, err
	}

	result := &TransferResult{
		TxID:      txID,
		Broadcast: bc.Result,
		Code:      bc.Code,
		Message:   decodeNodeMessage(bc.Message),
	}
	return result, nil
}

func (c *HTTPClient) GetTransaction(ctx context.Context, txID string) (*TransactionInfo, error) {
	var raw map[string]interface{}
	err := c.post(ctx, "/wallet/gettransactionbyid", map[string]interface{}{
		"value": txID,
	}, &raw)
	if err != nil {
		return nil, err
	}
	info := &TransactionInfo{TxID: txID, Raw: raw}
	if len(raw) == 0 {
		return info, nil
	}
	info.Found = true
	if rets, ok := raw["ret"].([]interface{}); ok && len(rets) > 0 {
		if ret, ok := rets[0].(map[string]interface{}); ok {
			info.ContractRet, _ = ret["contractRet"].(string)
		}
	}
	info.Success = info.ContractRet == "SUCCESS"
	return info, nil
}

func signRawData(rawDataHex, privateKeyHex string) (string, error) {
	rawData, err := hex.DecodeString(rawDataHex)
	if err != nil {
		return "", fmt.Errorf("decode raw_data_hex: %w", err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid signing key: %w", err)
	}
	digest := sha256.Sum256(rawData)
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	return hex.EncodeToString(sig), nil
}

// Broadcast failure messages come back hex-encoded.
func decodeNodeMessage(msg string) string {
	if msg == "" {
		return ""
	}
	if decoded, err := hex.DecodeString(msg); err == nil {
		return string(decoded)
	}
	return msg
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("TRON-PRO-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node returned %d for %s: %s", resp.StatusCode, path, truncate(string(data), 200))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
