package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/diillson/aws-vpc-cleaner/internal/domain/entity"
	"github.com/diillson/aws-vpc-cleaner/internal/shared/types"
)

type mockAWSRepository struct {
	mock.Mock
}

func (m *mockAWSRepository) GetAWSProfiles() []string {
	args := m.Called()
	profiles, _ := args.Get(0).([]string)
	return profiles
}

func (m *mockAWSRepository) GetAccountID(ctx context.Context, profile string) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

func (m *mockAWSRepository) GetAccessibleRegions(ctx context.Context, profile string) ([]string, error) {
	args := m.Called(ctx, profile)
	regions, _ := args.Get(0).([]string)
	return regions, args.Error(1)
}

func (m *mockAWSRepository) GetDefaultVPCs(ctx context.Context, profile, region string) ([]entity.DefaultVPC, error) {
	args := m.Called(ctx, profile, region)
	vpcs, _ := args.Get(0).([]entity.DefaultVPC)
	return vpcs, args.Error(1)
}

func (m *mockAWSRepository) DeleteVPC(ctx context.Context, profile, region, vpcID string) error {
	args := m.Called(ctx, profile, region, vpcID)
	return args.Error(0)
}

func (m *mockAWSRepository) GetVPCDependencies(ctx context.Context, profile, region, vpcID string) (entity.VPCDependencies, error) {
	args := m.Called(ctx, profile, region, vpcID)
	deps, _ := args.Get(0).(entity.VPCDependencies)
	return deps, args.Error(1)
}

type mockExportRepository struct {
	mock.Mock
}

func (m *mockExportRepository) ExportRunReportToCSV(report entity.RunReport, filename, outputDir string) (string, error) {
	args := m.Called(report, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *mockExportRepository) ExportRunReportToJSON(report entity.RunReport, filename, outputDir string) (string, error) {
	args := m.Called(report, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *mockExportRepository) ExportRunReportToPDF(report entity.RunReport, filename, outputDir string) (string, error) {
	args := m.Called(report, filename, outputDir)
	return args.String(0), args.Error(1)
}

// scriptedPrompter devolve respostas pré-definidas e, como o terminal, desiste quando ctx é cancelado.
type scriptedPrompter struct {
	indexes  []int
	indexErr error
	lines    []string
	lineErr  error

	// beforeLine roda antes de cada ReadLine (ex.: simular um Ctrl+C no prompt)
	beforeLine func()

	labels []string
}

func (p *scriptedPrompter) ReadIndex(ctx context.Context, label string) (int, error) {
	p.labels = append(p.labels, label)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if p.indexErr != nil {
		return 0, p.indexErr
	}
	if len(p.indexes) == 0 {
		return 0, fmt.Errorf("unexpected index prompt: %s", label)
	}
	next := p.indexes[0]
	p.indexes = p.indexes[1:]
	return next, nil
}

func (p *scriptedPrompter) ReadLine(ctx context.Context, label string) (string, error) {
	p.labels = append(p.labels, label)
	if p.beforeLine != nil {
		p.beforeLine()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.lineErr != nil {
		return "", p.lineErr
	}
	if len(p.lines) == 0 {
		return "", fmt.Errorf("unexpected line prompt: %s", label)
	}
	next := p.lines[0]
	p.lines = p.lines[1:]
	return next, nil
}

type logEntry struct {
	Level   string
	Message string
}

// recordingConsole guarda cada evento de log para inspeção nos testes.
type recordingConsole struct {
	mu      sync.Mutex
	entries []logEntry
	printed strings.Builder
	tables  []*recordingTable
}

func (c *recordingConsole) record(level, format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, logEntry{Level: level, Message: fmt.Sprintf(format, a...)})
}

func (c *recordingConsole) Print(a ...interface{})                 { fmt.Fprint(&c.printed, a...) }
func (c *recordingConsole) Printf(format string, a ...interface{}) { fmt.Fprintf(&c.printed, format, a...) }
func (c *recordingConsole) Println(a ...interface{})               { fmt.Fprintln(&c.printed, a...) }

func (c *recordingConsole) LogInfo(format string, a ...interface{})    { c.record("info", format, a...) }
func (c *recordingConsole) LogWarning(format string, a ...interface{}) { c.record("warning", format, a...) }
func (c *recordingConsole) LogError(format string, a ...interface{})   { c.record("error", format, a...) }
func (c *recordingConsole) LogSuccess(format string, a ...interface{}) { c.record("success", format, a...) }

func (c *recordingConsole) Status(message string) types.StatusHandle { return noopStatus{} }

func (c *recordingConsole) CreateTable() types.TableInterface {
	table := &recordingTable{}
	c.tables = append(c.tables, table)
	return table
}

// messages retorna as mensagens de um nível (todas, se level for vazio).
func (c *recordingConsole) messages(level string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, e := range c.entries {
		if level == "" || e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// containing retorna as entradas cuja mensagem contém substr.
func (c *recordingConsole) containing(substr string) []logEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []logEntry
	for _, e := range c.entries {
		if strings.Contains(e.Message, substr) {
			out = append(out, e)
		}
	}
	return out
}

type noopStatus struct{}

func (noopStatus) Update(string) {}
func (noopStatus) Stop()         {}

type recordingTable struct {
	columns []string
	rows    [][]string
}

func (t *recordingTable) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *recordingTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, cell := range cells {
		row[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, row)
}

func (t *recordingTable) Render() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.columns, " | "))
	for _, row := range t.rows {
		b.WriteString("\n" + strings.Join(row, " | "))
	}
	return b.String()
}
