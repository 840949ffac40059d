package polymarket

// trading.go — Real order execution via Polymarket CLOB API.
//
// Implements ports.OrderExecutor using AuthClient for L1/L2 auth. All
// orders are submitted as taker FOK limit orders: the fill is immediate
// and complete, or the order is killed.

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/avargasm/edgebot/internal/domain"
)

// clobOrderRequest is the JSON body sent to POST /order.
type clobOrderRequest struct {
	Order     clobOrderBody `json:"order"`
	Owner     string        `json:"owner"`
	OrderType string        `json:"orderType"`
}

type clobOrderBody struct {
	Salt          json.Number `json:"salt"`
	Maker         string      `json:"maker"`
	Signer        string      `json:"signer"`
	Taker         string      `json:"taker"`
	TokenID       string      `json:"tokenId"`
	MakerAmount   string      `json:"makerAmount"`
	TakerAmount   string      `json:"takerAmount"`
	Expiration    string      `json:"expiration"`
	Nonce         string      `json:"nonce"`
	FeeRateBps    string      `json:"feeRateBps"`
	Side          string      `json:"side"`
	SignatureType int         `json:"signatureType"`
	Signature     string      `json:"signature"`
}

type clobOrderResponse struct {
	ErrorMsg     string `json:"errorMsg"`
	OrderID      string `json:"orderID"`
	TakingAmount string `json:"takingAmount"`
	MakingAmount string `json:"makingAmount"`
	Status       string `json:"status"`
	Success      bool   `json:"success"`
}

type clobNegRiskResponse struct {
	NegRisk bool `json:"neg_risk"`
}

const usdcEAddress = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"

var balanceOfABI abi.ABI

func init() {
	var err error
	balanceOfABI, err = abi.JSON(strings.NewReader(`[{
		"name":"balanceOf","type":"function",
		"inputs":[{"name":"account","type":"address"}],
		"outputs":[{"name":"","type":"uint256"}]
	}]`))
	if err != nil {
		panic("balanceOf abi: " + err.Error())
	}
}

// TradingClient implements ports.OrderExecutor.
type TradingClient struct {
	auth      *AuthClient
	rpcClient *ethclient.Client
	negRisk   map[string]bool // token ID → neg-risk flag, cached
}

// NewTradingClient creates a TradingClient. rpcURL is used for on-chain
// balance checks.
func NewTradingClient(auth *AuthClient, rpcURL string) (*TradingClient, error) {
	rpc, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("trading: dial rpc: %w", err)
	}
	return &TradingClient{auth: auth, rpcClient: rpc, negRisk: make(map[string]bool)}, nil
}

// Address returns the trading wallet address.
func (tc *TradingClient) Address() string {
	return tc.auth.Address()
}

// PlaceOrder signs and submits a FOK limit order to the CLOB. A CLOB
// rejection (unfilled FOK, bad price) is reported as an unsuccessful
// result, not an error: the caller treats it as a failed trade.
func (tc *TradingClient) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	if err := tc.auth.EnsureCreds(ctx); err != nil {
		return domain.OrderResult{}, fmt.Errorf("place order: creds: %w", err)
	}

	negRisk, err := tc.isNegRisk(ctx, req.TokenID)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("place order: %w", err)
	}

	signed, err := tc.auth.buildSignedOrder(req.TokenID, req.Price, req.Size, req.Side, negRisk)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("place order: sign: %w", err)
	}

	body := clobOrderRequest{
		Order: clobOrderBody{
			Salt:          json.Number(signed.Order.Salt.String()),
			Maker:         signed.Order.Maker.Hex(),
			Signer:        signed.Order.Signer.Hex(),
			Taker:         signed.Order.Taker.Hex(),
			TokenID:       req.TokenID,
			MakerAmount:   signed.Order.MakerAmount.String(),
			TakerAmount:   signed.Order.TakerAmount.String(),
			Expiration:    signed.Order.Expiration.String(),
			Nonce:         signed.Order.Nonce.String(),
			FeeRateBps:    signed.Order.FeeRateBps.String(),
			Side:          strings.ToUpper(string(req.Side)),
			SignatureType: int(signed.Order.SignatureType.Int64()),
			Signature:     "0x" + hex.EncodeToString(signed.Signature),
		},
		Owner:     tc.auth.creds.APIKey,
		OrderType: req.OrderType,
	}

	var resp clobOrderResponse
	if err := tc.auth.doL2(ctx, http.MethodPost, "/order", body, &resp); err != nil {
		return domain.OrderResult{}, fmt.Errorf("place order: post: %w", err)
	}

	return domain.OrderResult{
		Success: resp.Success && resp.ErrorMsg == "",
		OrderID: resp.OrderID,
		Message: resp.ErrorMsg,
	}, nil
}

// GetBalance returns the on-chain USDC.e balance of the wallet.
func (tc *TradingClient) GetBalance(ctx context.Context) (float64, error) {
	callData, err := balanceOfABI.Pack("balanceOf", tc.auth.address)
	if err != nil {
		return 0, fmt.Errorf("get balance: pack: %w", err)
	}

	token := common.HexToAddress(usdcEAddress)
	result, err := tc.rpcClient.CallContract(ctx, ethereum.CallMsg{
		To:   &token,
		Data: callData,
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("get balance: rpc call: %w", err)
	}

	vals, err := balanceOfABI.Unpack("balanceOf", result)
	if err != nil || len(vals) == 0 {
		return 0, fmt.Errorf("get balance: unpack: %w", err)
	}

	raw := vals[0].(*big.Int)
	bal, _ := new(big.Float).Quo(new(big.Float).SetInt(raw), new(big.Float).SetFloat64(1e6)).Float64()
	return bal, nil
}

// isNegRisk queries the CLOB for the token's exchange variant, caching
// per token since the flag never changes.
func (tc *TradingClient) isNegRisk(ctx context.Context, tokenID string) (bool, error) {
	if v, ok := tc.negRisk[tokenID]; ok {
		return v, nil
	}

	url := fmt.Sprintf("%s/neg-risk?token_id=%s", tc.auth.clobBase, tokenID)
	var resp clobNegRiskResponse
	if err := tc.auth.get(ctx, tc.auth.clobLimiter, url, &resp); err != nil {
		return false, fmt.Errorf("neg-risk check: %w", err)
	}
	tc.negRisk[tokenID] = resp.NegRisk
	return resp.NegRisk, nil
}
