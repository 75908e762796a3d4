package core

// DefaultBuckets are the canonical investment buckets every snapshot
// carries. Loading a snapshot that predates one of them backfills it at
// zero.
var DefaultBuckets = []string{
	"Ações",
	"Fundos Imobiliários",
	"ETF Internacional",
	"CDB",
	"Cofrinhos",
	"Tesouro Direto",
}

// DefaultCards are the credit cards tracked by the card trend comparison.
// Expenses are matched to a card by substring containment of the card name
// in the expense description, which is how installment postings are
// labeled. Overridable via configuration.
var DefaultCards = []string{
	"Cartão de crédito Itaú",
	"Cartão de crédito BVI",
	"Cartão de crédito XP",
	"Cartão credito ML",
	"Cartão RCHLO",
}

// DefaultExpenseCategories seeds the expense description picker.
var DefaultExpenseCategories = []string{
	"Aluguel",
	"Financiamento Imobiliario",
	"Estacionamento",
	"Fatura de Energia",
	"Fatura de Água",
	"Fatura Tv / Internet",
	"Despesas Reforma",
	"Contabilidade",
	"INSS",
	"Simples Nacional",
	"Parcelamento 1",
	"Parcelamento 2",
	"Despesa Supermercado",
	"Despesa Padaria",
	"Despesa Refeição Trabalho",
	"Despesa Fast Food/Restaurante",
	"Plano de Saúde Familiar",
	"Plano de Saúde Contribuição",
	"Cartão de crédito XP",
	"Cartão de crédito BVI",
	"Cartão de crédito Itaú",
	"Cartão RCHLO",
	"Cartão credito ML",
	"Medicamentos",
	"Pet Shop",
	"Cabeleireiro",
	"Dentista",
	"Diversão Heitor",
	"Pagamento Condominio",
	"Outros",
}

// DefaultIncomeCategories seeds the income description picker.
var DefaultIncomeCategories = []string{
	"Salário",
	"Aluguel",
	"Dividendos",
	"Outros",
}
