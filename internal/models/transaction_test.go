package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func tx(date string, amount string, description string) Transaction {
	d, _ := time.Parse("2006-01-02", date)
	return Transaction{
		Date:        d,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
	}
}

func TestFingerprint(t *testing.T) {
	t.Run("identical day amount and description match", func(t *testing.T) {
		a := tx("2025-01-05", "100", "VIREMENT A")
		b := tx("2025-01-05", "100", "VIREMENT A")
		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("time of day is not significant", func(t *testing.T) {
		a := tx("2025-01-05", "100", "VIREMENT A")
		b := a
		b.Date = b.Date.Add(13 * time.Hour)
		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("description is trimmed", func(t *testing.T) {
		a := tx("2025-01-05", "100", "VIREMENT A")
		b := tx("2025-01-05", "100", "  VIREMENT A  ")
		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("description is case sensitive", func(t *testing.T) {
		a := tx("2025-01-05", "100", "VIREMENT A")
		b := tx("2025-01-05", "100", "virement a")
		assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("trailing zeros are not significant", func(t *testing.T) {
		a := tx("2025-01-05", "100", "VIREMENT A")
		b := tx("2025-01-05", "100.00", "VIREMENT A")
		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("off by one cent is distinct", func(t *testing.T) {
		a := tx("2025-01-05", "100.00", "VIREMENT A")
		b := tx("2025-01-05", "100.01", "VIREMENT A")
		assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		tx      Transaction
		wantErr bool
	}{
		{
			name: "bank transaction with natural sign",
			tx:   tx("2025-01-05", "-42.50", "CB METRO"),
		},
		{
			name: "cash OUT with negative amount",
			tx: func() Transaction {
				t := tx("2025-01-05", "-50", "METRO")
				t.Type = TypeOut
				return t
			}(),
		},
		{
			name: "cash OUT with positive amount",
			tx: func() Transaction {
				t := tx("2025-01-05", "50", "METRO")
				t.Type = TypeOut
				return t
			}(),
			wantErr: true,
		},
		{
			name: "cash IN with negative amount",
			tx: func() Transaction {
				t := tx("2025-01-05", "-50", "RECETTE")
				t.Type = TypeIn
				return t
			}(),
			wantErr: true,
		},
		{
			name:    "zero amount",
			tx:      tx("2025-01-05", "0", "EMPTY"),
			wantErr: true,
		},
		{
			name: "missing date",
			tx: Transaction{
				Amount:      decimal.RequireFromString("10"),
				Description: "NO DATE",
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tx.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
