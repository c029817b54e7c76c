// Package postgres implements the domain store interfaces on PostgreSQL
// through pgx. Every query is parameterized by tenant (and store where
// applicable); no method answers a request without that scope.
package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/skagen/norna/internal/domain"
)

// paymentMethodStrings converts the enum slice for a text[] column.
func paymentMethodStrings(ms []domain.PaymentMethod) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}

// paymentMethodsFromStrings converts a text[] column back to the enum slice.
func paymentMethodsFromStrings(ss []string) []domain.PaymentMethod {
	out := make([]domain.PaymentMethod, len(ss))
	for i, s := range ss {
		out[i] = domain.PaymentMethod(s)
	}
	return out
}

func contactMethodStrings(ms []domain.ContactMethod) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}

func contactMethodsFromStrings(ss []string) []domain.ContactMethod {
	out := make([]domain.ContactMethod, len(ss))
	for i, s := range ss {
		out[i] = domain.ContactMethod(s)
	}
	return out
}

// marshalJSON encodes v for a jsonb column. A nil value encodes as an empty
// JSON document of the given kind so columns stay NOT NULL.
func marshalJSON(v any, empty string) ([]byte, error) {
	if v == nil {
		return []byte(empty), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode jsonb: %w", err)
	}
	return b, nil
}

// unmarshalJSON decodes a jsonb column into out, tolerating NULL.
func unmarshalJSON(b []byte, out any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, out)
}
