package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/veterinaria-api/internal/domain"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV00001", FormatNumber(1))
	assert.Equal(t, "INV00042", FormatNumber(42))
	assert.Equal(t, "INV99999", FormatNumber(99999))
	// Más allá de 5 dígitos crece sin truncarse
	assert.Equal(t, "INV100000", FormatNumber(100000))
}

func TestSequenceOf(t *testing.T) {
	seq, err := SequenceOf("INV00001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	seq, err = SequenceOf("INV100000")
	require.NoError(t, err)
	assert.Equal(t, int64(100000), seq)
}

func TestSequenceOf_Invalidos(t *testing.T) {
	for _, number := range []string{"", "00001", "FAC00001", "INV", "INVabc", "INV00000", "INV-1"} {
		_, err := SequenceOf(number)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "número: %q", number)
	}
}

func TestFormatNumber_RoundTrip(t *testing.T) {
	for _, seq := range []int64{1, 7, 99999, 100000, 123456789} {
		got, err := SequenceOf(FormatNumber(seq))
		require.NoError(t, err)
		assert.Equal(t, seq, got)
	}
}
