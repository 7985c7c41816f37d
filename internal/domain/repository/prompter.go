package repository

import "context"

// Prompter lê as respostas do operador. As leituras terminam quando ctx é cancelado.
type Prompter interface {
	// ReadIndex returns the number typed by the operator, without range validation.
	ReadIndex(ctx context.Context, label string) (int, error)
	ReadLine(ctx context.Context, label string) (string, error)
}
