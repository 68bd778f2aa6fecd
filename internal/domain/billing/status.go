package billing

import "github.com/jhoicas/veterinaria-api/internal/domain/entity"

// Transiciones "hacia adelante" del ciclo de pago. paid es terminal.
// El motor acepta cualquier transición entre estados conocidos (comportamiento
// permisivo vigente); las que no están en esta tabla se registran con warning
// por el caso de uso que actualiza el estado.
var forwardTransitions = map[string]map[string]bool{
	entity.PaymentStatusUnpaid: {
		entity.PaymentStatusPartial: true,
		entity.PaymentStatusPaid:    true,
		entity.PaymentStatusOverdue: true,
	},
	entity.PaymentStatusPartial: {
		entity.PaymentStatusPaid:    true,
		entity.PaymentStatusOverdue: true,
	},
	entity.PaymentStatusOverdue: {
		entity.PaymentStatusPartial: true,
		entity.PaymentStatusPaid:    true,
	},
	entity.PaymentStatusPaid: {},
}

// ValidPaymentStatus indica si el estado es uno de los conocidos.
func ValidPaymentStatus(s string) bool {
	_, ok := forwardTransitions[s]
	return ok
}

// ForwardTransition indica si from->to está en la tabla de transiciones
// normales. from==to no cuenta como retroceso.
func ForwardTransition(from, to string) bool {
	if from == to {
		return true
	}
	return forwardTransitions[from][to]
}
