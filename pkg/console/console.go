package console

import (
	"fmt"
	"io"
	"os"

	"github.com/diillson/aws-vpc-cleaner/internal/shared/types"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05"

// Console é uma implementação do ConsoleInterface. Os eventos de log são
// escritos no console e, quando aberto, também no arquivo de log.
type Console struct {
	out      io.Writer
	terminal bool
	logger   zerolog.Logger
	logFile  *os.File
}

// NewConsole cria um novo Console sobre o stdout.
func NewConsole() *Console {
	return NewConsoleWithWriter(os.Stdout)
}

// NewConsoleWithWriter cria um Console que escreve em out.
func NewConsoleWithWriter(out io.Writer) *Console {
	c := &Console{
		out:      out,
		terminal: isTerminal(out),
	}
	c.logger = c.newLogger(nil)
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Console) newLogger(file io.Writer) zerolog.Logger {
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: c.out, TimeFormat: timeFormat, NoColor: !c.terminal},
	}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: file, TimeFormat: timeFormat, NoColor: true})
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

// OpenLogFile passa a duplicar os eventos de log no arquivo (modo append).
func (c *Console) OpenLogFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening log file %s: %w", path, err)
	}
	if c.logFile != nil {
		c.logFile.Close()
	}
	c.logFile = file
	c.logger = c.newLogger(file)
	return nil
}

// Close fecha o arquivo de log, se aberto.
func (c *Console) Close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	c.logger = c.newLogger(nil)
	return err
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	c.logger.Info().Msgf(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	c.logger.Warn().Msgf(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	c.logger.Error().Msgf(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	c.logger.Info().Str("status", "success").Msgf(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
// Fora de um terminal o spinner é omitido.
func (c *Console) Status(message string) types.StatusHandle {
	if !c.terminal {
		return &statusHandle{}
	}
	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(message)
	return &statusHandle{spinner: spinner}
}

// Cores predefinidas para uso consistente
var (
	BoldRed    = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightCyan = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}
