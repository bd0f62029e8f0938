package csvimport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entrepreedge/internal/core"
)

func TestRead(t *testing.T) {
	in := `date,type,category,description,amount
2023-07-02,income,Vendas,Venda balcão,1500
2023-07-01,expense,Despesas fixas,Aluguel,"800,50"
`
	txs, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, core.Income, txs[0].Type)
	assert.Equal(t, int64(150000), txs[0].Amount.Cents)
	assert.Equal(t, "Vendas", txs[0].Category)
	assert.Equal(t, "2023-07-02", txs[0].Date.String())
	assert.NotEmpty(t, txs[0].ID)

	assert.Equal(t, core.Expense, txs[1].Type)
	assert.Equal(t, int64(80050), txs[1].Amount.Cents)
	assert.Equal(t, "Aluguel", txs[1].Description)
}

func TestRead_Empty(t *testing.T) {
	txs, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		target error
		msg    string
	}{
		{
			name: "bad header",
			in:   "when,kind,cat,desc,value\n",
			msg:  "unexpected header",
		},
		{
			name:   "negative amount",
			in:     "date,type,category,description,amount\n2023-07-02,income,Vendas,x,-5\n",
			target: core.ErrInvalidAmount,
			msg:    "line 2",
		},
		{
			name:   "bad date",
			in:     "date,type,category,description,amount\n2023-13-02,income,Vendas,x,5\n",
			target: core.ErrInvalidDate,
		},
		{
			name:   "bad type",
			in:     "date,type,category,description,amount\n2023-07-02,transfer,Vendas,x,5\n",
			target: core.ErrInvalidType,
		},
		{
			name: "wrong field count",
			in:   "date,type,category,description,amount\n2023-07-02,income,Vendas\n",
			msg:  "read record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,type,category,description,amount\n2023-08-10,income,Serviços,Consultoria,300\n"), 0o644))

	txs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
