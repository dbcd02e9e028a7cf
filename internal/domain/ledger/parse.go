package ledger

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// Límites del campo DecimalField(10,2) de la API de estoque.
const (
	maxPlaces        = 2
	maxIntegerDigits = 8
	// coeficientes de más de ~30 dígitos nunca caben en (10,2), aun con ceros de sobra
	maxCoefficientBits = 100
	maxRawLength       = 32
)

var quantityCeiling = decimal.New(1, maxIntegerDigits)

// ParseQuantity interpreta la cantidad escrita en el formulario.
// Acepta coma decimal ("2,5") cuando no hay punto. Texto vacío o no numérico -> MALFORMED_INPUT.
func ParseQuantity(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, &Failure{Kind: FailureMalformedInput, Message: "la cantidad es obligatoria"}
	}
	if len(s) > maxRawLength {
		return decimal.Zero, &Failure{Kind: FailureMalformedInput, Message: "la cantidad es demasiado larga"}
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &Failure{Kind: FailureMalformedInput, Message: "la cantidad no es un número válido: " + raw}
	}
	return CheckBounds(q)
}

// QuantityFromFloat convierte un float64 rechazando NaN e infinitos.
func QuantityFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, &Failure{Kind: FailureMalformedInput, Message: "la cantidad no es un número finito"}
	}
	return CheckBounds(decimal.NewFromFloat(f))
}

// CheckBounds rechaza valores que la API no puede guardar: más de 2 decimales
// o 8 dígitos enteros o más. Mira exponente y coeficiente antes de cualquier
// operación que reescale, así "1e-50000000" no dispara una potencia gigante.
// Devuelve el valor con exponente >= -2.
func CheckBounds(q decimal.Decimal) (decimal.Decimal, error) {
	if q.Sign() == 0 {
		return decimal.Zero, nil
	}
	if q.Coefficient().BitLen() > maxCoefficientBits {
		return decimal.Zero, &Failure{Kind: FailureMalformedInput, Message: "la cantidad tiene demasiados dígitos"}
	}
	exp := int(q.Exponent())
	digits := q.NumDigits()
	if exp < -maxPlaces {
		if -exp-maxPlaces > digits {
			return decimal.Zero, &Failure{Kind: FailureMalformedInput, Message: "la cantidad admite como máximo 2 decimales"}
		}
		t := q.Truncate(maxPlaces)
		if !t.Equal(q) {
			return decimal.Zero, &Failure{Kind: FailureMalformedInput, Message: "la cantidad admite como máximo 2 decimales"}
		}
		q = t
		exp = int(q.Exponent())
	}
	if exp > maxIntegerDigits || q.Abs().GreaterThanOrEqual(quantityCeiling) {
		return decimal.Zero, &Failure{Kind: FailureMalformedInput, Message: "la cantidad supera 99999999.99"}
	}
	return q, nil
}

// ParseKind acepta los valores de la API (ENTRADA, SAIDA, AJUSTE) y sus alias en inglés.
func ParseKind(raw string) (entity.MovementKind, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ENTRADA", "ENTRY", "IN":
		return entity.MovementEntry, nil
	case "SAIDA", "SAÍDA", "EXIT", "OUT":
		return entity.MovementExit, nil
	case "AJUSTE", "ADJUSTMENT", "ADJUST":
		return entity.MovementAdjustment, nil
	}
	return "", &Failure{Kind: FailureMalformedInput, Message: "tipo de movimiento inválido: " + raw}
}
