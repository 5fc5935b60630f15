package httpinterface

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

const defaultDecimalsIn = 18

type generateRequest struct {
	Sender    string          `json:"sender"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Token     string          `json:"token"`
}

type generateResponse struct {
	Hash      string          `json:"hash"`
	Salt      string          `json:"salt"`
	Timestamp int64           `json:"timestamp"`
	Sender    string          `json:"sender"`
	Amount    decimal.Decimal `json:"amount"`
	Token     string          `json:"token"`
	Status    string          `json:"status"`
}

type verifyRequest struct {
	Hash      string `json:"hash"`
	Recipient string `json:"recipient"`
}

type verifyResponse struct {
	Valid   bool             `json:"valid"`
	Hash    string           `json:"hash"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Token   string           `json:"token,omitempty"`
	Message string           `json:"message"`
}

type openingRequest struct {
	Hash      string          `json:"hash"`
	Sender    string          `json:"sender"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Token     string          `json:"token"`
	Salt      string          `json:"salt"`
	Timestamp int64           `json:"timestamp"`
}

type openingResponse struct {
	Valid bool   `json:"valid"`
	Hash  string `json:"hash"`
}

type statusResponse struct {
	Hash        string          `json:"hash"`
	Status      string          `json:"status"`
	Sender      string          `json:"sender"`
	Amount      decimal.Decimal `json:"amount"`
	Token       string          `json:"token"`
	Timestamp   int64           `json:"timestamp"`
	ClaimedAt   *int64          `json:"claimed_at"`
	CancelledAt *int64          `json:"cancelled_at"`
}

type pendingTransfer struct {
	Hash      string          `json:"hash"`
	Sender    string          `json:"sender"`
	Amount    decimal.Decimal `json:"amount"`
	Token     string          `json:"token"`
	Timestamp int64           `json:"timestamp"`
	CreatedAt string          `json:"created_at"`
}

type pendingResponse struct {
	Address      string            `json:"address"`
	Count        int               `json:"count"`
	Transactions []pendingTransfer `json:"transactions"`
}

type claimRequest struct {
	Hash    string `json:"hash"`
	Claimer string `json:"claimer"`
}

type cancelRequest struct {
	Hash   string `json:"hash"`
	Sender string `json:"sender"`
}

type transitionResponse struct {
	Success bool   `json:"success"`
	Hash    string `json:"hash"`
	Address string `json:"address"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type quoteRequest struct {
	TokenIn    string          `json:"token_in"`
	TokenOut   string          `json:"token_out"`
	AmountIn   decimal.Decimal `json:"amount_in"`
	DecimalsIn *int            `json:"decimals_in"`
}

type quoteResponse struct {
	TokenIn            string          `json:"token_in"`
	TokenOut           string          `json:"token_out"`
	AmountIn           decimal.Decimal `json:"amount_in"`
	AmountOutEstimated decimal.Decimal `json:"amount_out_estimated"`
	PriceImpact        decimal.Decimal `json:"price_impact"`
	GasEstimated       uint64          `json:"gas_estimated"`
	Route              []string        `json:"route"`
}

type listResponse struct {
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
	Transactions []statusResponse `json:"transactions"`
}

type statsResponse struct {
	TotalTransactions     uint64 `json:"total_transactions"`
	PendingTransactions   uint64 `json:"pending_transactions"`
	ClaimedTransactions   uint64 `json:"claimed_transactions"`
	CancelledTransactions uint64 `json:"cancelled_transactions"`
	Timestamp             string `json:"timestamp"`
}

type participantResponse struct {
	Address       string `json:"address"`
	TotalSent     uint64 `json:"total_sent"`
	TotalReceived uint64 `json:"total_received"`
	FirstSeen     string `json:"first_seen,omitempty"`
	LastActivity  string `json:"last_activity,omitempty"`
}

type infoResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newStatusResponse(c *domain.Commitment) statusResponse {
	res := statusResponse{
		Hash:      c.Hash,
		Status:    c.Status.String(),
		Sender:    c.Sender,
		Amount:    c.Amount,
		Token:     c.Token,
		Timestamp: c.Timestamp,
	}
	if c.IsClaimed() {
		claimedAt := c.ClaimedAt
		res.ClaimedAt = &claimedAt
	}
	if c.IsCancelled() {
		cancelledAt := c.CancelledAt
		res.CancelledAt = &cancelledAt
	}
	return res
}

func newParticipantResponse(p *domain.Participant) participantResponse {
	res := participantResponse{
		Address:       p.Address,
		TotalSent:     p.TotalSent,
		TotalReceived: p.TotalReceived,
	}
	if p.FirstSeen > 0 {
		res.FirstSeen = formatTime(p.FirstSeen)
	}
	if p.LastActivity > 0 {
		res.LastActivity = formatTime(p.LastActivity)
	}
	return res
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
