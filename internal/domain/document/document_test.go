package document

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CPF(t *testing.T) {
	doc, err := New("111.444.777-35", KindCPF)
	require.NoError(t, err)

	assert.Equal(t, "11144477735", doc.Digits())
	assert.Equal(t, KindCPF, doc.Kind())
	assert.Equal(t, "111.444.777-35", doc.Formatted())
	assert.Equal(t, "111.444.777-35", doc.String())
}

func TestNew_AcceptsKnownFixture(t *testing.T) {
	_, err := New("52998224725", KindCPF)
	assert.NoError(t, err)
}

func TestNew_CNPJ(t *testing.T) {
	doc, err := New("11222333000181", KindCNPJ)
	require.NoError(t, err)

	assert.Equal(t, "11.222.333/0001-81", doc.Formatted())
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
	}{
		{"bad checksum", "123.456.789-01", KindCPF},
		{"wrong length", "123.456.789", KindCPF},
		{"repeated", "111.111.111-11", KindCPF},
		{"cpf digits as cnpj", "11144477735", KindCNPJ},
		{"unknown kind", "11144477735", Kind("rg")},
		{"empty", "", KindCPF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := New(tt.raw, tt.kind)
			require.Error(t, err)
			assert.True(t, doc.IsZero())
			assert.True(t, errors.Is(err, ErrInvalidDocument))

			var invalid *InvalidDocumentError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.raw, invalid.Raw)
		})
	}
}

func TestEqual_IgnoresRawFormatting(t *testing.T) {
	a, err := New("111.444.777-35", KindCPF)
	require.NoError(t, err)
	b, err := New(" 111 444 777 35 ", KindCPF)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a, b)
}

func TestParse_InfersKind(t *testing.T) {
	cpf, err := Parse("111.444.777-35")
	require.NoError(t, err)
	assert.Equal(t, KindCPF, cpf.Kind())

	cnpj, err := Parse("11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, KindCNPJ, cnpj.Kind())

	_, err = Parse("12345")
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestFormatted_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		digits := randomCPF(rng)
		if !IsValidCPF(digits) {
			// nine equal base digits
			continue
		}

		doc, err := New(digits, KindCPF)
		require.NoError(t, err, digits)
		assert.Equal(t, digits, normalize(doc.Formatted()))
	}
}

func TestScanAndValue(t *testing.T) {
	var doc Document
	require.NoError(t, doc.Scan([]byte("11144477735")))
	assert.Equal(t, KindCPF, doc.Kind())

	v, err := doc.Value()
	require.NoError(t, err)
	assert.Equal(t, "11144477735", v)

	assert.Error(t, doc.Scan("11111111111"))
	assert.Error(t, doc.Scan(42))

	require.NoError(t, doc.Scan(nil))
	assert.True(t, doc.IsZero())
}

func TestJSON(t *testing.T) {
	doc, err := New("11222333000181", KindCNPJ)
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `"11.222.333/0001-81"`, string(data))

	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, doc, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"11.222.333/0001-82"`), &decoded))
}

// randomCPF builds a CPF with correct check digits from nine random base digits.
func randomCPF(rng *rand.Rand) string {
	base := make([]int, 9, 11)
	for i := range base {
		base[i] = rng.Intn(10)
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += base[i] * (10 - i)
	}
	base = append(base, (sum*10%11)%10)

	sum = 0
	for i := 0; i < 10; i++ {
		sum += base[i] * (11 - i)
	}
	base = append(base, (sum*10%11)%10)

	out := ""
	for _, d := range base {
		out += strconv.Itoa(d)
	}
	return out
}
