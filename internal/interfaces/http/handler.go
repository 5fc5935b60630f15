package httpinterface

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/invisible-transfer/invisible-daemon/internal/core/application"
	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
)

const (
	serviceName    = "Invisible Transfer API"
	serviceVersion = "1.0.0"
)

type handler struct {
	commitmentSvc application.CommitmentService
	quoteSvc      application.QuoteService
	now           func() time.Time
}

func newHandler(
	commitmentSvc application.CommitmentService,
	quoteSvc application.QuoteService,
) *handler {
	return &handler{commitmentSvc, quoteSvc, time.Now}
}

func (h *handler) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Name:    serviceName,
		Version: serviceVersion,
		Status:  "operational",
		Endpoints: map[string]string{
			"generate_hash":      "/api/generate-hash",
			"verify_transaction": "/api/verify-transaction",
			"verify_opening":     "/api/verify-opening",
			"transaction_status": "/api/transaction-status/{hash}",
			"pending_transfers":  "/api/pending-transfers/{address}",
			"claim_transaction":  "/api/claim-transaction",
			"cancel_transaction": "/api/cancel-transaction",
			"uniswap_quote":      "/api/uniswap/quote",
			"transactions":       "/api/transactions",
			"stats":              "/api/stats",
			"user_stats":         "/api/user-stats/{address}",
		},
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	commitment, err := h.commitmentSvc.GenerateCommitment(
		r.Context(), req.Sender, req.Recipient, req.Amount, req.Token,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Hash:      commitment.Hash,
		Salt:      commitment.Salt,
		Timestamp: commitment.Timestamp,
		Sender:    commitment.Sender,
		Amount:    commitment.Amount,
		Token:     commitment.Token,
		Status:    commitment.Status.String(),
	})
}

func (h *handler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	verification, err := h.commitmentSvc.VerifyRecipient(
		r.Context(), req.Hash, req.Recipient,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res := verifyResponse{
		Valid:   verification.Valid,
		Hash:    req.Hash,
		Message: "Transaction not found or not for this recipient",
	}
	if verification.Valid {
		amount := verification.Amount
		res.Amount = &amount
		res.Token = verification.Token
		res.Message = "Transaction is valid for this recipient"
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) verifyOpening(w http.ResponseWriter, r *http.Request) {
	var req openingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	valid, err := h.commitmentSvc.VerifyOpening(r.Context(), req.Hash, domain.Opening{
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Token:     req.Token,
		Salt:      req.Salt,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, openingResponse{Valid: valid, Hash: req.Hash})
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	commitment, err := h.commitmentSvc.GetStatus(
		r.Context(), chi.URLParam(r, "hash"),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newStatusResponse(commitment))
}

func (h *handler) pending(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	commitments, err := h.commitmentSvc.ListPending(r.Context(), address)
	if err != nil {
		writeError(w, r, err)
		return
	}

	transfers := make([]pendingTransfer, 0, len(commitments))
	for _, c := range commitments {
		transfers = append(transfers, pendingTransfer{
			Hash:      c.Hash,
			Sender:    c.Sender,
			Amount:    c.Amount,
			Token:     c.Token,
			Timestamp: c.Timestamp,
			CreatedAt: formatTime(c.CreatedAt),
		})
	}

	writeJSON(w, http.StatusOK, pendingResponse{
		Address:      domain.NormalizeAddress(address),
		Count:        len(transfers),
		Transactions: transfers,
	})
}

func (h *handler) claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	commitment, err := h.commitmentSvc.Claim(r.Context(), req.Hash, req.Claimer)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transitionResponse{
		Success: true,
		Hash:    commitment.Hash,
		Address: req.Claimer,
		Status:  commitment.Status.String(),
		Message: "Transaction claimed successfully",
	})
}

func (h *handler) cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	commitment, err := h.commitmentSvc.Cancel(r.Context(), req.Hash, req.Sender)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transitionResponse{
		Success: true,
		Hash:    commitment.Hash,
		Address: req.Sender,
		Status:  commitment.Status.String(),
		Message: "Transaction cancelled successfully",
	})
}

func (h *handler) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	decimalsIn := defaultDecimalsIn
	if req.DecimalsIn != nil {
		decimalsIn = *req.DecimalsIn
	}

	quote, err := h.quoteSvc.Quote(r.Context(), ports.QuoteRequest{
		TokenIn:    req.TokenIn,
		TokenOut:   req.TokenOut,
		AmountIn:   req.AmountIn,
		DecimalsIn: decimalsIn,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		TokenIn:            quote.TokenIn,
		TokenOut:           quote.TokenOut,
		AmountIn:           quote.AmountIn,
		AmountOutEstimated: quote.AmountOutEstimated,
		PriceImpact:        quote.PriceImpact,
		GasEstimated:       quote.GasEstimated,
		Route:              quote.Route,
	})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	pageNumber, err := queryInt(r, "page")
	if err != nil {
		writeError(w, r, err)
		return
	}
	pageSize, err := queryInt(r, "page_size")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page := domain.NewPage(pageNumber, pageSize)

	commitments, err := h.commitmentSvc.ListCommitments(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	transactions := make([]statusResponse, 0, len(commitments))
	for i := range commitments {
		transactions = append(transactions, newStatusResponse(&commitments[i]))
	}

	writeJSON(w, http.StatusOK, listResponse{
		Page:         page.Number,
		PageSize:     page.Size,
		Transactions: transactions,
	})
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.commitmentSvc.GetStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalTransactions:     stats.Total(),
		PendingTransactions:   stats.Pending,
		ClaimedTransactions:   stats.Claimed,
		CancelledTransactions: stats.Cancelled,
		Timestamp:             h.now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) participantStats(w http.ResponseWriter, r *http.Request) {
	participant, err := h.commitmentSvc.GetParticipantStats(
		r.Context(), chi.URLParam(r, "address"),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newParticipantResponse(participant))
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errInvalidQuery
	}
	return n, nil
}
