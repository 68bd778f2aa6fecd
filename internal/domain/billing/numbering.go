package billing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/veterinaria-api/internal/domain"
)

// Numeración de facturas: consecutivo legible por clínica con prefijo fijo
// y relleno a 5 dígitos (INV00001). La asignación del siguiente valor ocurre
// en SQL dentro de la misma transacción que inserta la factura, bajo un
// advisory lock por clínica (ver InvoiceRepo.NextInvoiceNumber).
const (
	NumberPrefix = "INV"
	numberWidth  = 5
)

// FormatNumber arma el número de factura para una secuencia dada.
// Secuencias mayores a 99999 crecen en dígitos sin truncarse.
func FormatNumber(seq int64) string {
	return fmt.Sprintf("%s%0*d", NumberPrefix, numberWidth, seq)
}

// SequenceOf extrae la secuencia numérica de un número de factura.
func SequenceOf(number string) (int64, error) {
	if !strings.HasPrefix(number, NumberPrefix) {
		return 0, fmt.Errorf("%w: número de factura sin prefijo %s: %q", domain.ErrInvalidInput, NumberPrefix, number)
	}
	seq, err := strconv.ParseInt(number[len(NumberPrefix):], 10, 64)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("%w: número de factura ilegible: %q", domain.ErrInvalidInput, number)
	}
	return seq, nil
}
