package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-vpc-cleaner/internal/application/usecase"
	"github.com/diillson/aws-vpc-cleaner/internal/domain/entity"
	"github.com/diillson/aws-vpc-cleaner/internal/shared/types"
)

// stubAWSRepository responde com uma conta sem regiões habilitadas.
type stubAWSRepository struct {
	profiles       []string
	regionProfiles []string
}

func (r *stubAWSRepository) GetAWSProfiles() []string { return r.profiles }

func (r *stubAWSRepository) GetAccountID(ctx context.Context, profile string) (string, error) {
	return "123456789012", nil
}

func (r *stubAWSRepository) GetAccessibleRegions(ctx context.Context, profile string) ([]string, error) {
	r.regionProfiles = append(r.regionProfiles, profile)
	return []string{}, nil
}

func (r *stubAWSRepository) GetDefaultVPCs(ctx context.Context, profile, region string) ([]entity.DefaultVPC, error) {
	return nil, errors.New("not expected")
}

func (r *stubAWSRepository) DeleteVPC(ctx context.Context, profile, region, vpcID string) error {
	return errors.New("not expected")
}

func (r *stubAWSRepository) GetVPCDependencies(ctx context.Context, profile, region, vpcID string) (entity.VPCDependencies, error) {
	return entity.VPCDependencies{}, errors.New("not expected")
}

type stubConfigRepository struct {
	cfg   *types.Config
	err   error
	paths []string
}

func (r *stubConfigRepository) LoadConfigFile(filePath string) (*types.Config, error) {
	r.paths = append(r.paths, filePath)
	return r.cfg, r.err
}

// fakeLogConsole registra as mensagens e o ciclo de vida do arquivo de log.
type fakeLogConsole struct {
	logs      []string
	opened    []string
	openErr   error
	closed    int
	closedLog int
}

func (c *fakeLogConsole) Print(a ...interface{})                 {}
func (c *fakeLogConsole) Printf(format string, a ...interface{}) {}
func (c *fakeLogConsole) Println(a ...interface{})               {}

func (c *fakeLogConsole) LogInfo(format string, a ...interface{})    { c.log("INF", format, a...) }
func (c *fakeLogConsole) LogWarning(format string, a ...interface{}) { c.log("WRN", format, a...) }
func (c *fakeLogConsole) LogError(format string, a ...interface{})   { c.log("ERR", format, a...) }
func (c *fakeLogConsole) LogSuccess(format string, a ...interface{}) { c.log("INF", format, a...) }

func (c *fakeLogConsole) log(level, format string, a ...interface{}) {
	c.logs = append(c.logs, level+" "+fmt.Sprintf(format, a...))
}

func (c *fakeLogConsole) Status(message string) types.StatusHandle { return nopStatus{} }
func (c *fakeLogConsole) CreateTable() types.TableInterface      { return &nopTable{} }

func (c *fakeLogConsole) OpenLogFile(path string) error {
	c.opened = append(c.opened, path)
	return c.openErr
}

func (c *fakeLogConsole) Close() error {
	c.closed++
	c.closedLog = len(c.logs)
	return nil
}

type nopStatus struct{}

func (nopStatus) Update(string) {}
func (nopStatus) Stop()         {}

type nopTable struct{}

func (*nopTable) AddColumn(string, ...interface{}) {}
func (*nopTable) AddRow(...interface{})            {}
func (*nopTable) Render() string                   { return "" }

type commandHarness struct {
	app     *CLIApp
	aws     *stubAWSRepository
	config  *stubConfigRepository
	console *fakeLogConsole
	out     bytes.Buffer
}

func newCommandHarness(stdin string) *commandHarness {
	h := &commandHarness{
		aws:     &stubAWSRepository{profiles: []string{"dev", "prod"}},
		config:  &stubConfigRepository{cfg: &types.Config{}},
		console: &fakeLogConsole{},
	}
	// versão dev: sem consulta de release em segundo plano
	h.app = NewCLIApp("0.0.0-dev")
	prompter := NewLinePrompter(strings.NewReader(stdin), io.Discard)
	h.app.SetCleanupUseCase(usecase.NewCleanupUseCase(h.aws, nil, prompter, h.console))
	h.app.SetConfigRepository(h.config)
	h.app.SetConsole(h.console)
	h.app.rootCmd.SetOut(&h.out)
	h.app.rootCmd.SetErr(&h.out)
	return h
}

func (h *commandHarness) execute(args ...string) error {
	h.app.rootCmd.SetArgs(args)
	return h.app.ExecuteContext(context.Background())
}

func TestRunCommand_ConfigFileDrivesTheRun(t *testing.T) {
	h := newCommandHarness("")
	h.config.cfg = &types.Config{Profile: "prod", LogFile: "from-config.log"}

	require.NoError(t, h.execute("--config-file", "cleaner.toml", "--dir", t.TempDir()))

	assert.Equal(t, []string{"cleaner.toml"}, h.config.paths)
	assert.Equal(t, []string{"from-config.log"}, h.console.opened)
	assert.Equal(t, []string{"prod"}, h.aws.regionProfiles, "profile from the config file, no menu")
	assert.Contains(t, h.console.logs, "ERR No regions found for profile prod.")
	assert.Equal(t, 1, h.console.closed)
	assert.Equal(t, len(h.console.logs), h.console.closedLog, "log file closed after the run")
	assert.Contains(t, h.out.String(), "AWS Default VPC Cleaner")
}

func TestRunCommand_FlagBeatsConfigFile(t *testing.T) {
	h := newCommandHarness("")
	h.config.cfg = &types.Config{Profile: "prod"}

	require.NoError(t, h.execute("-C", "cleaner.yaml", "-p", "dev", "-l", "run.log", "-d", t.TempDir()))

	assert.Equal(t, []string{"dev"}, h.aws.regionProfiles)
	assert.Equal(t, []string{"run.log"}, h.console.opened)
}

func TestRunCommand_MenuSelection(t *testing.T) {
	h := newCommandHarness("2\n")

	require.NoError(t, h.execute("--log-file", "", "-d", t.TempDir()))

	assert.Equal(t, []string{"prod"}, h.aws.regionProfiles)
	assert.Empty(t, h.console.opened, "empty --log-file disables the file")
	assert.Zero(t, h.console.closed)
}

func TestRunCommand_LogFileFailureIsAWarning(t *testing.T) {
	h := newCommandHarness("")
	h.console.openErr = errors.New("error opening log file /ro/x.log: permission denied")

	require.NoError(t, h.execute("-p", "prod", "-l", "/ro/x.log", "-d", t.TempDir()))

	assert.Equal(t, "WRN error opening log file /ro/x.log: permission denied; continuing without a log file.", h.console.logs[0])
	assert.Equal(t, []string{"prod"}, h.aws.regionProfiles)
	assert.Zero(t, h.console.closed)
}

func TestRunCommand_InvalidArgumentsStopBeforeAWS(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		cfgErr  error
		wantErr string
	}{
		{name: "negative delay", args: []string{"--retry-delay", "-1s"}, wantErr: "retry-delay must not be negative"},
		{name: "negative retries", args: []string{"--max-retries", "-2"}, wantErr: "max-retries must not be negative"},
		{name: "bad report type", args: []string{"-y", "xlsx"}, wantErr: "unsupported report type: xlsx"},
		{name: "broken config file", args: []string{"-C", "broken.toml"}, cfgErr: errors.New("error parsing TOML file"), wantErr: "error parsing TOML file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCommandHarness("")
			h.config.err = tt.cfgErr

			err := h.execute(append(tt.args, "-d", t.TempDir())...)

			assert.ErrorContains(t, err, tt.wantErr)
			assert.NotContains(t, h.out.String(), "Usage:")
			assert.NotContains(t, h.out.String(), "Error:")
			assert.Empty(t, h.aws.regionProfiles)
			assert.Empty(t, h.console.opened)
		})
	}
}
