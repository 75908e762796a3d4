package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"orcamento/internal/core"
)

// FormatBRL renders an amount in Brazilian currency style, thousands
// separated by dots and a comma before the cents: R$ 1.234,56.
func FormatBRL(a core.Amount) string {
	s := fmt.Sprintf("%.2f", a.Float64())
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, b.String(), fracPart)
}

// WriteText renders the report as plain text, one section per table of
// the monthly statement.
func (r Report) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Relatório de Orçamento - %s\n\n", r.Period)

	fmt.Fprintln(w, "Resumo Geral")
	fmt.Fprintf(w, "  Total de Entradas: %s\n", FormatBRL(r.TotalIncome))
	fmt.Fprintf(w, "  Total de Saídas:   %s\n", FormatBRL(r.TotalOutflow))
	fmt.Fprintf(w, "  Saldo Final:       %s\n\n", FormatBRL(r.FinalBalance))

	fmt.Fprintln(w, "Saldos Atuais dos Caixas")
	fmt.Fprintf(w, "  Conta Corrente:          %s\n", FormatBRL(r.CashBoxes.Checking))
	fmt.Fprintf(w, "  Total de Investimentos:  %s\n", FormatBRL(r.CashBoxes.InvestmentsTotal))
	fmt.Fprintf(w, "  Total (CC + Invest.):    %s\n\n", FormatBRL(r.CashBoxes.GrandTotal))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "Detalhamento das Receitas")
	fmt.Fprintln(tw, "  Descrição\tValor\tObservações\tData")
	for _, tx := range r.Incomes {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", tx.Description, FormatBRL(tx.Amount), tx.Note, tx.Timestamp.Format("02/01/06"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Resumo de Despesas por Categoria")
	fmt.Fprintln(tw, "  Categoria\tValor Total")
	for _, row := range r.ExpensesByCategory {
		fmt.Fprintf(tw, "  %s\t%s\n", row.Category, FormatBRL(row.Total))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Detalhamento dos Investimentos")
	fmt.Fprintln(tw, "  Descrição\tValor\tObservações\tData")
	for _, tx := range r.Investments {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", tx.Description, FormatBRL(tx.Amount), tx.Note, tx.Timestamp.Format("02/01/06"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Comparativo de Faturas de Cartão de Crédito")
	fmt.Fprint(tw, "  Mês/Ano")
	for _, card := range r.CardComparison.Cards {
		fmt.Fprintf(tw, "\t%s", card)
	}
	fmt.Fprintln(tw)
	for _, row := range r.CardComparison.Rows {
		fmt.Fprintf(tw, "  %s", row.Period)
		for _, cell := range row.Cells {
			if cell.HasDelta {
				fmt.Fprintf(tw, "\t%s (%s, %.2f%%)", FormatBRL(cell.Total), FormatBRL(cell.Delta), cell.PctDelta)
			} else {
				fmt.Fprintf(tw, "\t%s", FormatBRL(cell.Total))
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
