package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	membersdomain "gym-desk-go/internal/domain/members"
)

const maxReceiptSize = 10 << 20 // 10 MiB

type paymentResponse struct {
	ID           string    `json:"id"`
	MembershipID string    `json:"membership_id"`
	Amount       string    `json:"amount"`
	Method       string    `json:"method"`
	HasReceipt   bool      `json:"has_receipt"`
	PaidAt       time.Time `json:"paid_at"`
}

func toPaymentResponse(payment membersdomain.Payment) paymentResponse {
	return paymentResponse{
		ID:           payment.ID,
		MembershipID: payment.MembershipID,
		Amount:       payment.Amount.StringFixed(2),
		Method:       string(payment.Method),
		HasReceipt:   payment.ReceiptPath != "",
		PaidAt:       payment.PaidAt,
	}
}

// CreatePayment accepts a multipart form: amount, method and an optional
// receipt file. The receipt is stored before any record is written so a
// storage failure leaves the database untouched.
func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return
	}

	amount, err := parseDecimalRequired(r.FormValue("amount"))
	if err != nil || !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid amount")
		return
	}

	receiptPath := ""
	file, header, err := r.FormFile("receipt")
	if err == nil {
		defer file.Close()
		receiptPath, err = h.receipts.Save(header.Filename, file)
		if err != nil {
			h.log.InternalError("payments: store receipt", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
	} else if err != http.ErrMissingFile {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid receipt upload")
		return
	}

	payment, err := h.members.RecordPayment(r.Context(), membersdomain.RecordPaymentInput{
		MembershipID: chi.URLParam(r, "id"),
		Amount:       amount,
		Method:       r.FormValue("method"),
		ReceiptPath:  receiptPath,
	})
	if err != nil {
		h.writeDomainError(w, err, "payments: create")
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentResponse(*payment))
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.members.Payments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err, "payments: list")
		return
	}

	items := make([]paymentResponse, 0, len(payments))
	for _, payment := range payments {
		items = append(items, toPaymentResponse(payment))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": len(items)})
}

// GetReceipt streams the stored receipt blob.
func (h *Handlers) GetReceipt(w http.ResponseWriter, r *http.Request) {
	payment, err := h.members.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err, "payments: get")
		return
	}
	if payment.ReceiptPath == "" {
		writeError(w, http.StatusNotFound, "receipt_not_found", "payment has no receipt")
		return
	}

	file, err := h.receipts.Open(payment.ReceiptPath)
	if err != nil {
		writeError(w, http.StatusNotFound, "receipt_not_found", "receipt file missing")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		h.log.InternalError("payments: stat receipt", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	http.ServeContent(w, r, payment.ReceiptPath, info.ModTime(), file)
}
