// Package bankfeed decodes the Open Banking provider's balance and
// transaction payloads and converts them into raw import records.
//
// The provider is inconsistent about field spelling across API versions
// (balanceAmount.amount vs balance_amount.value, bookingDate vs
// booking_date), so every field is decoded defensively with both variants.
package bankfeed

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"restobook/recon/internal/currencyutils"
	"restobook/recon/internal/models"
	"restobook/recon/internal/normalize"
)

// ReferenceBankSync tags feed transactions without an entry reference.
const ReferenceBankSync = "BANK_SYNC"

// amountField tolerates both {amount} and {value} spellings.
type amountField struct {
	Amount   string `json:"amount"`
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

func (a *amountField) raw() string {
	if a == nil {
		return ""
	}
	if a.Amount != "" {
		return a.Amount
	}
	return a.Value
}

// Balance is one reported account balance.
type Balance struct {
	TypeSnake   string       `json:"balance_type"`
	TypeCamel   string       `json:"balanceType"`
	AmountSnake *amountField `json:"balance_amount"`
	AmountCamel *amountField `json:"balanceAmount"`
}

// Type returns the balance type regardless of spelling.
func (b Balance) Type() string {
	if b.TypeSnake != "" {
		return b.TypeSnake
	}
	return b.TypeCamel
}

// Amount parses the balance amount. A balance without any amount field is
// an error; it must not be mistaken for a zero balance.
func (b Balance) Amount() (decimal.Decimal, error) {
	raw := b.AmountSnake.raw()
	if raw == "" {
		raw = b.AmountCamel.raw()
	}
	if raw == "" {
		return decimal.Zero, fmt.Errorf("balance %q has no amount", b.Type())
	}
	return currencyutils.ParseAmount(raw)
}

// BalancesResponse is the payload of GET /accounts/{uid}/balances.
type BalancesResponse struct {
	Balances []Balance `json:"balances"`
}

// Reported picks the authoritative balance: "expected" or "closingBooked"
// when present, otherwise the first balance in the list.
func (r BalancesResponse) Reported() (decimal.Decimal, bool) {
	if len(r.Balances) == 0 {
		return decimal.Zero, false
	}

	chosen := r.Balances[0]
	for _, b := range r.Balances {
		t := b.Type()
		if t == "expected" || t == "closingBooked" || t == "CLBD" {
			chosen = b
			break
		}
	}

	amount, err := chosen.Amount()
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// Transaction is one feed transaction.
type Transaction struct {
	EntryReference   string       `json:"entry_reference"`
	BookingDateSnake string       `json:"booking_date"`
	BookingDateCamel string       `json:"bookingDate"`
	ValueDate        string       `json:"value_date"`
	AmountSnake      *amountField `json:"transaction_amount"`
	AmountCamel      *amountField `json:"transactionAmount"`
	IndicatorSnake   string       `json:"credit_debit_indicator"`
	IndicatorCamel   string       `json:"creditDebitIndicator"`
	Status           string       `json:"status"`
	Remittance       []string     `json:"remittance_information"`
}

// TransactionsResponse is the payload of GET /accounts/{uid}/transactions.
type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

func (t Transaction) bookingDate() string {
	if t.BookingDateSnake != "" {
		return t.BookingDateSnake
	}
	if t.BookingDateCamel != "" {
		return t.BookingDateCamel
	}
	return t.ValueDate
}

func (t Transaction) indicator() string {
	if t.IndicatorSnake != "" {
		return t.IndicatorSnake
	}
	return t.IndicatorCamel
}

func (t Transaction) amount() string {
	raw := t.AmountSnake.raw()
	if raw == "" {
		raw = t.AmountCamel.raw()
	}
	return raw
}

// ToRaw converts a feed transaction into a raw import record. Debits are
// negated so ledger amounts always carry their natural sign.
func (t Transaction) ToRaw() normalize.Raw {
	amount := t.amount()
	if strings.EqualFold(t.indicator(), "DBIT") && !strings.HasPrefix(amount, "-") {
		amount = "-" + amount
	}

	reference := t.EntryReference
	if reference == "" {
		reference = ReferenceBankSync
	}

	status := models.StatusPending
	if t.Status == "BOOK" || t.Status == "" {
		status = models.StatusCompleted
	}

	return normalize.Raw{
		Date:        t.bookingDate(),
		Amount:      amount,
		Description: strings.TrimSpace(strings.Join(t.Remittance, " ")),
		Reference:   reference,
		Status:      status,
		Source:      models.SourceBank,
	}
}

// ToRaws converts every feed transaction in the response.
func (r TransactionsResponse) ToRaws() []normalize.Raw {
	raws := make([]normalize.Raw, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		raws = append(raws, t.ToRaw())
	}
	return raws
}
