package http

import (
	"net/http"

	"orcamento/internal/core"
	"orcamento/internal/ledger"
)

// entryBody is the JSON body for income, expense, and investment posts.
// Year/month select the target period; zero values fall back to the
// acting period from the query string.
type entryBody struct {
	Year        int         `json:"year"`
	Month       int         `json:"month"`
	Description string      `json:"description"`
	Bucket      string      `json:"bucket"`
	Amount      core.Amount `json:"amount"`
	Note        string      `json:"note"`
}

func (b entryBody) period(fallback core.Period) core.Period {
	if b.Year == 0 && b.Month == 0 {
		return fallback
	}
	return core.Period{Year: b.Year, Month: b.Month}
}

func (s *Server) handleIncomes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	current, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body entryBody
	if !decodeBody(w, r, &body) {
		return
	}

	tx, err := s.engine.AddIncome(r.Context(), current, ledger.EntryRequest{
		Period:      body.period(current),
		Description: body.Description,
		Amount:      body.Amount,
		Note:        body.Note,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	current, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body entryBody
	if !decodeBody(w, r, &body) {
		return
	}

	tx, err := s.engine.AddExpense(r.Context(), current, ledger.EntryRequest{
		Period:      body.period(current),
		Description: body.Description,
		Amount:      body.Amount,
		Note:        body.Note,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleInvestments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	current, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body entryBody
	if !decodeBody(w, r, &body) {
		return
	}

	tx, err := s.engine.AddInvestmentContribution(r.Context(), current, ledger.ContributionRequest{
		Period: body.period(current),
		Bucket: body.Bucket,
		Amount: body.Amount,
		Note:   body.Note,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// removeBody identifies a transaction to remove, either by stable ID or,
// when no ID is known, by description and amount.
type removeBody struct {
	Year        int         `json:"year"`
	Month       int         `json:"month"`
	Kind        string      `json:"kind"`
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Amount      core.Amount `json:"amount"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}
	current, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body removeBody
	if !decodeBody(w, r, &body) {
		return
	}

	period := current
	if body.Year != 0 || body.Month != 0 {
		period = core.Period{Year: body.Year, Month: body.Month}
	}
	kind := core.TransactionKind(body.Kind)

	if body.ID != "" {
		err = s.engine.RemoveTransaction(r.Context(), current, ledger.RemoveRequest{
			Period: period,
			Kind:   kind,
			ID:     body.ID,
		})
	} else {
		err = s.engine.RemoveTransactionByValue(r.Context(), current, ledger.RemoveByValueRequest{
			Period:      period,
			Kind:        kind,
			Description: body.Description,
			Amount:      body.Amount,
		})
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

type bucketBody struct {
	Bucket    string      `json:"bucket"`
	Amount    core.Amount `json:"amount"`
	NewValue  core.Amount `json:"newValue"`
	Confirmed bool        `json:"confirmed"`
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	current, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body bucketBody
	if !decodeBody(w, r, &body) {
		return
	}

	err = s.engine.RedeemInvestment(r.Context(), current, ledger.RedeemRequest{
		Bucket:    body.Bucket,
		Amount:    body.Amount,
		Confirmed: body.Confirmed,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "redeemed"})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	current, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body bucketBody
	if !decodeBody(w, r, &body) {
		return
	}

	err = s.engine.WithdrawFromBucket(r.Context(), current, ledger.WithdrawRequest{
		Bucket:    body.Bucket,
		Amount:    body.Amount,
		Confirmed: body.Confirmed,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	current, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body bucketBody
	if !decodeBody(w, r, &body) {
		return
	}

	err = s.engine.AdjustInvestmentBalance(r.Context(), current, ledger.AdjustRequest{
		Bucket:   body.Bucket,
		NewValue: body.NewValue,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "adjusted"})
}

type balanceBody struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Value core.Amount `json:"value"`
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	current, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body balanceBody
	if !decodeBody(w, r, &body) {
		return
	}

	period := current
	if body.Year != 0 || body.Month != 0 {
		period = core.Period{Year: body.Year, Month: body.Month}
	}

	err = s.engine.SetInitialCheckingBalance(r.Context(), ledger.BalanceRequest{
		Period: period,
		Value:  body.Value,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "balance set"})
}
