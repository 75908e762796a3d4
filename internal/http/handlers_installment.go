package http

import (
	"net/http"

	"orcamento/internal/core"
	"orcamento/internal/installment"
)

// purchaseBody describes an installment purchase. DueYear/dueMonth name
// the month the first installment falls due; zero values fall back to
// the acting period.
type purchaseBody struct {
	Card             string      `json:"card"`
	Description      string      `json:"description"`
	TotalAmount      core.Amount `json:"totalAmount"`
	InstallmentCount int         `json:"installmentCount"`
	DueYear          int         `json:"dueYear"`
	DueMonth         int         `json:"dueMonth"`
}

type removePurchaseBody struct {
	Card        string `json:"card"`
	Description string `json:"description"`
}

func (s *Server) handleInstallments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleAddPurchase(w, r)
	case http.MethodDelete:
		s.handleRemovePurchase(w, r)
	default:
		methodNotAllowed(w, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) handleAddPurchase(w http.ResponseWriter, r *http.Request) {
	current, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body purchaseBody
	if !decodeBody(w, r, &body) {
		return
	}

	due := current
	if body.DueYear != 0 || body.DueMonth != 0 {
		due = core.Period{Year: body.DueYear, Month: body.DueMonth}
	}

	purchase, err := s.projector.AddPurchase(r.Context(), installment.PurchaseRequest{
		Card:             body.Card,
		Description:      body.Description,
		TotalAmount:      body.TotalAmount,
		InstallmentCount: body.InstallmentCount,
		Due:              due,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchase)
}

// handleRemovePurchase deletes the purchase records matching card and
// description from the acting period. Expenses already booked by the
// projection stay where they are.
func (s *Server) handleRemovePurchase(w http.ResponseWriter, r *http.Request) {
	current, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body removePurchaseBody
	if !decodeBody(w, r, &body) {
		return
	}

	if err := s.projector.RemovePurchase(r.Context(), current, body.Card, body.Description); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
