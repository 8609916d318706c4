package api

import (
	"driveline/internal/db"
	"driveline/internal/entities"
	"driveline/internal/service"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// maxEvidenceBytes caps payment evidence uploads at 10MB.
const maxEvidenceBytes = 10 << 20

type PaymentHandler struct {
	Service *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

// RecordPayment appends a cash or transfer entry against a reservation.
// Transfer evidence arrives as multipart form data and is uploaded before the
// entry is written, so a storage failure leaves the ledger untouched.
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid reservation ID", http.StatusBadRequest)
		return
	}

	var req entities.PaymentRequest
	var evidenceKey string

	contentType := r.Header.Get("Content-Type")
	if len(contentType) >= 19 && contentType[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxEvidenceBytes); err != nil {
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}
		amount, err := strconv.ParseInt(r.FormValue("amount"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid amount", http.StatusBadRequest)
			return
		}
		req.Amount = amount
		req.Method = r.FormValue("method")

		file, header, err := r.FormFile("evidence")
		if err == nil {
			defer file.Close()
			evidenceKey, err = h.Service.UploadEvidence(
				r.Context(), reservationID, header.Filename,
				header.Header.Get("Content-Type"), file,
			)
			if err != nil {
				writeError(w, err)
				return
			}
		} else if req.Method == db.MethodTransfer {
			http.Error(w, "evidence file required for transfer payments", http.StatusBadRequest)
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	resp, svcErr := h.Service.RecordPayment(reservationID, req, evidenceKey)
	if svcErr != nil {
		writeError(w, svcErr)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *PaymentHandler) SettlePayment(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Settle)
}

func (h *PaymentHandler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Reject)
}

func (h *PaymentHandler) resolve(w http.ResponseWriter, r *http.Request, fn func(int) error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}
	if err := fn(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment updated"})
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	reservationID, _ := strconv.Atoi(r.URL.Query().Get("reservation_id"))
	payments, err := h.Service.List(reservationID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid reservation ID", http.StatusBadRequest)
		return
	}
	resp, svcErr := h.Service.Settlement(reservationID)
	if svcErr != nil {
		writeError(w, svcErr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// StartOnlinePayment is public: the customer identifies the reservation by
// code and email and is redirected to a hosted checkout page.
func (h *PaymentHandler) StartOnlinePayment(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email required", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.StartOnlinePayment(code, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
