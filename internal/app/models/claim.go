package models

// BillItemCategory classifies a billed line into the clinical service buckets
// the adjudication console supports.
type BillItemCategory string

const (
	CategoryConsultation  BillItemCategory = "Consultation"
	CategoryMedication    BillItemCategory = "Medication"
	CategoryLaboratory    BillItemCategory = "Laboratory"
	CategoryRadiology     BillItemCategory = "Radiology"
	CategoryProcedure     BillItemCategory = "Procedure"
	CategoryPhysiotherapy BillItemCategory = "Physiotherapy"
	CategoryDental        BillItemCategory = "Dental"
	CategoryOptical       BillItemCategory = "Optical"
	CategoryOthers        BillItemCategory = "Others"
)

type BillItemStatus string

const (
	BillItemRelevant   BillItemStatus = "relevant"
	BillItemIrrelevant BillItemStatus = "irrelevant"
	BillItemQuery      BillItemStatus = "query"
)

// BillItem is one billed line of a claim invoice. Amounts are expressed in
// currency units with minor-unit (2 decimal) precision. RequestedAmount and
// PreAuthAmount are nil when the payer supplied none.
type BillItem struct {
	ID                    string           `json:"id" bson:"id"`
	InvoiceNumber         string           `json:"invoice_number" bson:"invoice_number"`
	Category              BillItemCategory `json:"category" bson:"category"`
	ItemName              string           `json:"item_name" bson:"item_name"`
	Quantity              float64          `json:"quantity" bson:"quantity"`
	UnitPrice             float64          `json:"unit_price" bson:"unit_price"`
	InvoicedAmount        float64          `json:"invoiced_amount" bson:"invoiced_amount"`
	RequestedAmount       *float64         `json:"requested_amount,omitempty" bson:"requested_amount,omitempty"`
	ApprovedAmount        float64          `json:"approved_amount" bson:"approved_amount"`
	Savings               float64          `json:"savings" bson:"savings"`
	Status                BillItemStatus   `json:"status" bson:"status"`
	DeductionReason       string           `json:"deduction_reason,omitempty" bson:"deduction_reason,omitempty"`
	SystemDeductionReason string           `json:"system_deduction_reason,omitempty" bson:"system_deduction_reason,omitempty"`
	PreAuthAmount         *float64         `json:"pre_auth_amount,omitempty" bson:"pre_auth_amount,omitempty"`
	ItemDate              string           `json:"item_date,omitempty" bson:"item_date,omitempty"`
}

// Invoice is a derived view over the bill items sharing one invoice number.
// It is never persisted on its own.
type Invoice struct {
	InvoiceNumber string     `json:"invoice_number"`
	Items         []BillItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
}

// Totals is the aggregate money rollup over a ledger snapshot.
type Totals struct {
	TotalInvoiced  float64 `json:"total_invoiced"`
	TotalRequested float64 `json:"total_requested"`
	TotalApproved  float64 `json:"total_approved"`
	TotalSavings   float64 `json:"total_savings"`
}

// ClaimMetadata carries the claim-level facts the fraud heuristics and the
// checklist read alongside the ledger.
type ClaimMetadata struct {
	ClaimID            string  `json:"claim_id"`
	VisitNumber        string  `json:"visit_number"`
	VisitDate          string  `json:"visit_date"`
	BeneficiaryName    string  `json:"beneficiary_name"`
	HospitalName       string  `json:"hospital_name"`
	HospitalTrustScore float64 `json:"hospital_trust_score"`
	PatientTrustScore  float64 `json:"patient_trust_score"`
}
