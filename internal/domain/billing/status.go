package billing

import (
	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

var paymentTransitions = map[string][]string{
	entity.PaymentStatusPending: {entity.PaymentStatusPaid},
}

var shippingTransitions = map[string][]string{
	entity.ShippingStatusPending:       {entity.ShippingStatusInTransit},
	entity.ShippingStatusInTransit:     {entity.ShippingStatusAtDestination, entity.ShippingStatusMissing, entity.ShippingStatusDelivered},
	entity.ShippingStatusMissing:       {entity.ShippingStatusAtDestination, entity.ShippingStatusDelivered},
	entity.ShippingStatusAtDestination: {entity.ShippingStatusDelivered},
}

// CheckPaymentTransition valida el cambio de estado de pago. Repetir el estado actual no es error.
func CheckPaymentTransition(from, to string) error {
	return checkTransition(paymentTransitions, "estado de pago", from, to)
}

// CheckShippingTransition valida el cambio de estado de envío. Repetir el estado actual no es error.
func CheckShippingTransition(from, to string) error {
	return checkTransition(shippingTransitions, "estado de envío", from, to)
}

func checkTransition(table map[string][]string, label, from, to string) error {
	if from == to {
		return nil
	}
	for _, next := range table[from] {
		if next == to {
			return nil
		}
	}
	if !knownStatus(table, to) {
		return domain.NewValidationError(label + " desconocido: " + to)
	}
	return domain.NewConflictError("%s: no se permite pasar de %q a %q", label, from, to)
}

func knownStatus(table map[string][]string, s string) bool {
	if _, ok := table[s]; ok {
		return true
	}
	for _, nexts := range table {
		for _, n := range nexts {
			if n == s {
				return true
			}
		}
	}
	return false
}
