package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/diillson/aws-vpc-cleaner/internal/shared/types"
	"github.com/diillson/aws-vpc-cleaner/pkg/console"
)

type readResult struct {
	line string
	err  error
}

// LinePrompter lê respostas linha a linha de um terminal (ou de qualquer io.Reader).
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer

	// leitura ainda em andamento de uma chamada interrompida
	pending chan readResult
}

// NewLinePrompter cria um prompter que escreve os rótulos em out e lê de in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// ReadLine exibe o rótulo e devolve a linha digitada sem o terminador.
// Fim de entrada sem nenhum texto é devolvido como erro, assim como o cancelamento de ctx.
func (p *LinePrompter) ReadLine(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "%s: ", console.BrightCyan(label))

	if p.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := p.reader.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
		p.pending = ch
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case res := <-p.pending:
		p.pending = nil
		if res.err != nil && (res.err != io.EOF || res.line == "") {
			return "", res.err
		}
		return strings.TrimRight(res.line, "\r\n"), nil
	}
}

// ReadIndex lê um número inteiro. A faixa válida é verificada por quem chama.
func (p *LinePrompter) ReadIndex(ctx context.Context, label string) (int, error) {
	line, err := p.ReadLine(ctx, label)
	if err != nil {
		return 0, err
	}

	text := strings.TrimSpace(line)
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s' is not a number", types.ErrInvalidSelection, text)
	}
	return n, nil
}
