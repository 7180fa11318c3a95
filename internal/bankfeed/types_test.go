package bankfeed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restobook/recon/internal/models"
)

func TestToRaw(t *testing.T) {
	t.Run("snake case debit", func(t *testing.T) {
		var tx Transaction
		payload := `{
			"entry_reference": "REF-1",
			"booking_date": "2025-01-05",
			"transaction_amount": {"value": "42.50", "currency": "EUR"},
			"credit_debit_indicator": "DBIT",
			"status": "BOOK",
			"remittance_information": ["CB", "METRO"]
		}`
		require.NoError(t, json.Unmarshal([]byte(payload), &tx))

		raw := tx.ToRaw()
		assert.Equal(t, "2025-01-05", raw.Date)
		assert.Equal(t, "-42.50", raw.Amount)
		assert.Equal(t, "CB METRO", raw.Description)
		assert.Equal(t, "REF-1", raw.Reference)
		assert.Equal(t, models.StatusCompleted, raw.Status)
		assert.Equal(t, models.SourceBank, raw.Source)
	})

	t.Run("camel case credit", func(t *testing.T) {
		var tx Transaction
		payload := `{
			"bookingDate": "2025-01-06",
			"transactionAmount": {"amount": "100.00"},
			"creditDebitIndicator": "CRDT",
			"remittance_information": ["VIREMENT CLIENT"]
		}`
		require.NoError(t, json.Unmarshal([]byte(payload), &tx))

		raw := tx.ToRaw()
		assert.Equal(t, "2025-01-06", raw.Date)
		assert.Equal(t, "100.00", raw.Amount)
		assert.Equal(t, ReferenceBankSync, raw.Reference)
		assert.Equal(t, models.StatusCompleted, raw.Status)
	})

	t.Run("already negative debit is not doubled", func(t *testing.T) {
		tx := Transaction{
			BookingDateSnake: "2025-01-05",
			AmountSnake:      &amountField{Amount: "-42.50"},
			IndicatorSnake:   "DBIT",
		}
		assert.Equal(t, "-42.50", tx.ToRaw().Amount)
	})

	t.Run("pending status survives", func(t *testing.T) {
		tx := Transaction{
			BookingDateSnake: "2025-01-05",
			AmountSnake:      &amountField{Amount: "10"},
			Status:           "PDNG",
		}
		assert.Equal(t, models.StatusPending, tx.ToRaw().Status)
	})

	t.Run("value date fallback", func(t *testing.T) {
		tx := Transaction{
			ValueDate:   "2025-01-07",
			AmountCamel: &amountField{Value: "5"},
		}
		assert.Equal(t, "2025-01-07", tx.ToRaw().Date)
	})
}

func TestReported(t *testing.T) {
	t.Run("prefers expected over first", func(t *testing.T) {
		r := BalancesResponse{Balances: []Balance{
			{TypeCamel: "closingAvailable", AmountCamel: &amountField{Amount: "900.00"}},
			{TypeSnake: "expected", AmountSnake: &amountField{Value: "1000.00"}},
		}}
		amount, ok := r.Reported()
		require.True(t, ok)
		assert.Equal(t, "1000", amount.String())
	})

	t.Run("CLBD variant", func(t *testing.T) {
		r := BalancesResponse{Balances: []Balance{
			{TypeSnake: "OTHR", AmountSnake: &amountField{Value: "1"}},
			{TypeSnake: "CLBD", AmountSnake: &amountField{Value: "1234.56"}},
		}}
		amount, ok := r.Reported()
		require.True(t, ok)
		assert.Equal(t, "1234.56", amount.String())
	})

	t.Run("falls back to first balance", func(t *testing.T) {
		r := BalancesResponse{Balances: []Balance{
			{TypeSnake: "interimAvailable", AmountSnake: &amountField{Value: "500"}},
		}}
		amount, ok := r.Reported()
		require.True(t, ok)
		assert.Equal(t, "500", amount.String())
	})

	t.Run("empty response", func(t *testing.T) {
		_, ok := BalancesResponse{}.Reported()
		assert.False(t, ok)
	})

	t.Run("balance without any amount field", func(t *testing.T) {
		var r BalancesResponse
		require.NoError(t, json.Unmarshal([]byte(`{"balances":[{"balance_type":"expected"}]}`), &r))
		_, ok := r.Reported()
		assert.False(t, ok, "a missing amount must not read as a zero balance")
	})

	t.Run("empty amount value", func(t *testing.T) {
		r := BalancesResponse{Balances: []Balance{
			{TypeSnake: "expected", AmountSnake: &amountField{Currency: "EUR"}},
		}}
		_, ok := r.Reported()
		assert.False(t, ok)
	})

	t.Run("unparseable amount", func(t *testing.T) {
		r := BalancesResponse{Balances: []Balance{
			{TypeSnake: "expected", AmountSnake: &amountField{Value: "oops"}},
		}}
		_, ok := r.Reported()
		assert.False(t, ok)
	})
}
