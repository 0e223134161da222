package model

import "time"

// ReferenceMonthLayout layout of the YYYY-MM reference month
const ReferenceMonthLayout = "2006-01"

// Supplier canonical supplier identity
type Supplier struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// Alias maps an observed name variant to a canonical supplier name
type Alias struct {
	Alias     string `json:"alias"`
	Canonical string `json:"fornecedor"`
}

// Record one inspected delivery (registro RIR)
type Record struct {
	ID             int64     `json:"id"`
	SupplierID     int64     `json:"fornecedorId"`
	Supplier       string    `json:"fornecedor"`
	OrderNumber    string    `json:"numeroPedido"`
	InvoiceNumber  string    `json:"numeroNotaFiscal"`
	TotalItems     int       `json:"totalItensPedido"`
	ItemsFulfilled int       `json:"itensAtendidosNota"`
	Packaging      int       `json:"criterioEmbalagem"`
	Temperature    int       `json:"criterioTemperatura"`
	LeadTime       int       `json:"criterioPrazo"`
	Validity       int       `json:"criterioValidade"`
	Carrier        int       `json:"criterioAtendimento"`
	Accuracy       float64   `json:"acuracidade"`
	Score          float64   `json:"notaTotal"`
	Tier           Tier      `json:"classificacao"`
	ReceiptDate    time.Time `json:"dataRecebimento"`
	ReferenceMonth string    `json:"mesReferencia"`
}

// Criteria the five binary criteria in a fixed order: packaging, temperature,
// lead time, validity, carrier.
func (r Record) Criteria() [5]int {
	return [5]int{r.Packaging, r.Temperature, r.LeadTime, r.Validity, r.Carrier}
}

// CriteriaNames labels matching Criteria order
var CriteriaNames = [5]string{"embalagem", "temperatura", "prazo", "validade", "atendimento"}

// ReferenceMonth YYYY-MM bucket of a receipt date
func ReferenceMonth(t time.Time) string {
	return t.Format(ReferenceMonthLayout)
}
