package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diillson/aws-vpc-cleaner/internal/domain/entity"
	"github.com/diillson/aws-vpc-cleaner/internal/domain/repository"
	"github.com/diillson/aws-vpc-cleaner/internal/shared/types"
)

// confirmToken é a única resposta que libera a deleção.
const confirmToken = "yes"

// RetryPolicy controls how a failed VPC deletion is retried. Every error is
// retried the same way.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

// DefaultRetryPolicy returns 3 retries spaced by 5 seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: types.DefaultMaxRetries, Delay: types.DefaultRetryDelay}
}

// CleanupUseCase handles discovery and removal of default VPCs for one profile.
type CleanupUseCase struct {
	awsRepo    repository.AWSRepository
	exportRepo repository.ExportRepository
	prompter   repository.Prompter
	console    types.ConsoleInterface

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewCleanupUseCase creates a new cleanup use case.
func NewCleanupUseCase(
	awsRepo repository.AWSRepository,
	exportRepo repository.ExportRepository,
	prompter repository.Prompter,
	console types.ConsoleInterface,
) *CleanupUseCase {
	return &CleanupUseCase{
		awsRepo:    awsRepo,
		exportRepo: exportRepo,
		prompter:   prompter,
		console:    console,
		sleep:      sleepContext,
		now:        time.Now,
	}
}

// sleepContext bloqueia por d ou até o contexto ser cancelado.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ListProfiles retorna os perfis configurados localmente.
func (uc *CleanupUseCase) ListProfiles() []string {
	return uc.awsRepo.GetAWSProfiles()
}

// ListRegions retorna as regiões do perfil. Falhas são registradas e resultam em lista vazia.
func (uc *CleanupUseCase) ListRegions(ctx context.Context, profile string) []string {
	status := uc.console.Status(fmt.Sprintf("Fetching regions for profile %s...", profile))
	regions, err := uc.awsRepo.GetAccessibleRegions(ctx, profile)
	status.Stop()

	if err != nil {
		// cancelamento é registrado uma única vez por Run
		if ctx.Err() == nil {
			uc.console.LogError("Error fetching regions for profile %s: %v", profile, err)
		}
		return nil
	}
	return regions
}

// FilterRegions keeps the discovered regions that were requested, in discovery order.
// An empty filter keeps everything.
func (uc *CleanupUseCase) FilterRegions(discovered, requested []string) []string {
	if len(requested) == 0 {
		return discovered
	}

	wanted := make(map[string]bool, len(requested))
	for _, region := range requested {
		wanted[strings.TrimSpace(region)] = true
	}

	filtered := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(discovered))
	for _, region := range discovered {
		if wanted[region] && !seen[region] {
			filtered = append(filtered, region)
			seen[region] = true
		}
	}

	for region := range wanted {
		if region != "" && !seen[region] {
			uc.console.LogWarning("Region '%s' is not enabled for this account; skipping it.", region)
		}
	}
	return filtered
}

// CollectDefaults procura a VPC padrão de cada região. Um erro numa região
// não interrompe a coleta das demais; o cancelamento de ctx interrompe.
func (uc *CleanupUseCase) CollectDefaults(ctx context.Context, profile string, regions []string) entity.DefaultVPCs {
	vpcs := entity.DefaultVPCs{}

	for _, region := range regions {
		if ctx.Err() != nil {
			break
		}

		found, err := uc.awsRepo.GetDefaultVPCs(ctx, profile, region)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			uc.console.LogError("Error in region %s: %v", region, err)
			continue
		}

		switch len(found) {
		case 0:
			uc.console.LogInfo("No default VPC found in region %s.", region)
		case 1:
			uc.console.LogInfo("Found default VPC %s in region %s.", found[0].VpcID, region)
			vpcs = append(vpcs, found[0])
		default:
			uc.console.LogWarning("Found %d default VPCs in region %s; using %s.", len(found), region, found[0].VpcID)
			vpcs = append(vpcs, found[0])
		}
	}

	return vpcs
}

// InspectDependencies anota em cada VPC os recursos ainda associados. É chamada
// antes da confirmação; falhas apenas geram avisos.
func (uc *CleanupUseCase) InspectDependencies(ctx context.Context, profile string, vpcs entity.DefaultVPCs) {
	for i := range vpcs {
		if ctx.Err() != nil {
			return
		}
		vpc := &vpcs[i]
		deps, err := uc.awsRepo.GetVPCDependencies(ctx, profile, vpc.Region, vpc.VpcID)
		if err != nil {
			uc.console.LogWarning("Could not fully inspect VPC %s in region %s: %v", vpc.VpcID, vpc.Region, err)
		}
		vpc.Dependencies = &deps

		if deps.Blocking() > 0 {
			uc.console.LogWarning("VPC %s in region %s still has attached resources (%s); its deletion is likely to fail.",
				vpc.VpcID, vpc.Region, deps.String())
		}
	}
}

// renderSummary exibe a tabela com as VPCs coletadas.
func (uc *CleanupUseCase) renderSummary(title string, vpcs entity.DefaultVPCs) {
	inspected := false
	for _, vpc := range vpcs {
		if vpc.Dependencies != nil {
			inspected = true
			break
		}
	}

	table := uc.console.CreateTable()
	table.AddColumn("Region")
	table.AddColumn("VPC ID")
	table.AddColumn("CIDR")
	if inspected {
		table.AddColumn("Attached Resources")
	}

	for _, vpc := range vpcs {
		if !inspected {
			table.AddRow(vpc.Region, vpc.VpcID, vpc.CidrBlock)
			continue
		}
		attached := "not inspected"
		if vpc.Dependencies != nil {
			attached = vpc.Dependencies.String()
		}
		table.AddRow(vpc.Region, vpc.VpcID, vpc.CidrBlock, attached)
	}

	uc.console.Println()
	uc.console.Println(title)
	uc.console.Println(table.Render())
}

// Confirm mostra as VPCs e exige a resposta "yes" (sem diferenciar maiúsculas).
// Qualquer outra resposta é registrada como abortada.
func (uc *CleanupUseCase) Confirm(ctx context.Context, vpcs entity.DefaultVPCs) bool {
	if vpcs.Len() == 0 {
		return false
	}

	uc.renderSummary("The following default VPCs will be deleted:", vpcs)

	answer, err := uc.prompter.ReadLine(ctx, "Do you want to proceed with the deletion of these VPCs? (yes/no)")
	if err != nil {
		if ctx.Err() == nil {
			uc.console.LogInfo("Aborted deletion process (no answer: %v).", err)
		}
		return false
	}

	if strings.ToLower(strings.TrimSpace(answer)) != confirmToken {
		uc.console.LogInfo("Aborted deletion process.")
		return false
	}
	return true
}

// DeleteAll remove cada VPC confirmada, de forma independente. Uma falha
// numa VPC nunca interrompe as demais.
func (uc *CleanupUseCase) DeleteAll(ctx context.Context, profile string, vpcs entity.DefaultVPCs, policy RetryPolicy) []entity.DeletionResult {
	results := make([]entity.DeletionResult, 0, vpcs.Len())

	for _, vpc := range vpcs {
		if err := ctx.Err(); err != nil {
			uc.console.LogWarning("Skipping VPC %s in region %s: %v", vpc.VpcID, vpc.Region, err)
			results = append(results, entity.DeletionResult{Region: vpc.Region, VpcID: vpc.VpcID, Error: err.Error()})
			continue
		}
		results = append(results, uc.deleteWithRetry(ctx, profile, vpc, policy))
	}

	return results
}

// deleteWithRetry faz uma tentativa inicial e até policy.MaxRetries novas
// tentativas, esperando policy.Delay antes de cada uma.
func (uc *CleanupUseCase) deleteWithRetry(ctx context.Context, profile string, vpc entity.DefaultVPC, policy RetryPolicy) entity.DeletionResult {
	result := entity.DeletionResult{Region: vpc.Region, VpcID: vpc.VpcID}

	uc.console.LogInfo("Attempting to delete default VPC %s in region %s...", vpc.VpcID, vpc.Region)
	result.Attempts++
	err := uc.awsRepo.DeleteVPC(ctx, profile, vpc.Region, vpc.VpcID)
	if err == nil {
		uc.console.LogSuccess("Successfully deleted VPC %s in region %s.", vpc.VpcID, vpc.Region)
		result.Deleted = true
		return result
	}
	uc.console.LogError("Failed to delete VPC %s in region %s: %v", vpc.VpcID, vpc.Region, err)

	for attempt := 1; attempt <= policy.MaxRetries; attempt++ {
		if sleepErr := uc.sleep(ctx, policy.Delay); sleepErr != nil {
			uc.console.LogError("Retry %d for VPC %s in region %s interrupted: %v", attempt, vpc.VpcID, vpc.Region, sleepErr)
			result.Error = errors.Join(err, sleepErr).Error()
			return result
		}

		result.Attempts++
		err = uc.awsRepo.DeleteVPC(ctx, profile, vpc.Region, vpc.VpcID)
		if err == nil {
			uc.console.LogSuccess("Successfully deleted VPC %s in region %s after retry.", vpc.VpcID, vpc.Region)
			result.Deleted = true
			return result
		}
		uc.console.LogError("Retry %d failed for VPC %s in region %s: %v", attempt, vpc.VpcID, vpc.Region, err)
	}

	uc.console.LogError("Max retries reached for VPC %s in region %s.", vpc.VpcID, vpc.Region)
	result.Error = err.Error()
	return result
}

// selectProfile resolve o perfil: o informado pelo usuário ou a escolha no menu.
func (uc *CleanupUseCase) selectProfile(ctx context.Context, requested string) (string, error) {
	profiles := uc.ListProfiles()
	if len(profiles) == 0 {
		return "", types.ErrNoProfilesFound
	}

	if requested != "" {
		for _, profile := range profiles {
			if profile == requested {
				return profile, nil
			}
		}
		return "", fmt.Errorf("%w: '%s'", types.ErrProfileNotFound, requested)
	}

	uc.console.Println("Available AWS profiles:")
	for i, profile := range profiles {
		uc.console.Printf("%d. %s\n", i+1, profile)
	}

	choice, err := uc.prompter.ReadIndex(ctx, "Choose an AWS profile (by number)")
	if err != nil {
		return "", err
	}
	if choice < 1 || choice > len(profiles) {
		return "", fmt.Errorf("%w: %d is not between 1 and %d", types.ErrInvalidSelection, choice, len(profiles))
	}
	return profiles[choice-1], nil
}

// Run executa o fluxo completo e devolve o relatório da execução. Nenhum erro
// ou panic escapa: tudo termina numa linha de log.
func (uc *CleanupUseCase) Run(ctx context.Context, args *types.CLIArgs) (report *entity.RunReport) {
	report = &entity.RunReport{
		RunID:       uuid.NewString(),
		StartedAt:   uc.now(),
		DefaultVPCs: entity.DefaultVPCs{},
		Results:     []entity.DeletionResult{},
	}

	defer func() {
		if r := recover(); r != nil {
			uc.console.LogError("Unexpected error: %v", r)
		}
		report.FinishedAt = uc.now()
	}()

	if err := uc.run(ctx, args, report); err != nil {
		uc.console.LogError("Unexpected error: %v", err)
	}
	return report
}

// interrupted registra a interrupção quando ctx foi cancelado.
func (uc *CleanupUseCase) interrupted(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		uc.console.LogWarning("Run interrupted (%v); stopping.", err)
		return true
	}
	return false
}

func (uc *CleanupUseCase) run(ctx context.Context, args *types.CLIArgs, report *entity.RunReport) error {
	profile, err := uc.selectProfile(ctx, args.Profile)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			uc.interrupted(ctx)
		case errors.Is(err, types.ErrNoProfilesFound):
			uc.console.LogError("No AWS profiles found.")
		case errors.Is(err, types.ErrProfileNotFound), errors.Is(err, types.ErrInvalidSelection):
			uc.console.LogError("%v", err)
		default:
			uc.console.LogError("Could not read profile selection: %v", err)
		}
		return nil
	}
	report.Profile = profile
	uc.console.LogInfo("Using profile %s (run %s).", profile, report.RunID)

	status := uc.console.Status("Resolving AWS account...")
	accountID, err := uc.awsRepo.GetAccountID(ctx, profile)
	status.Stop()
	if uc.interrupted(ctx) {
		return nil
	}
	if err != nil {
		uc.console.LogWarning("Could not resolve account ID for profile %s: %v", profile, err)
	} else {
		report.AccountID = accountID
		uc.console.LogInfo("Profile %s belongs to account %s.", profile, accountID)
	}

	regions := uc.ListRegions(ctx, profile)
	if uc.interrupted(ctx) {
		return nil
	}
	if len(regions) == 0 {
		uc.console.LogError("No regions found for profile %s.", profile)
		return nil
	}

	regions = uc.FilterRegions(regions, args.Regions)
	if len(regions) == 0 {
		uc.console.LogError("None of the requested regions are enabled for profile %s.", profile)
		return nil
	}
	report.Regions = regions

	vpcs := uc.CollectDefaults(ctx, profile, regions)
	if uc.interrupted(ctx) {
		return nil
	}
	if vpcs.Len() == 0 {
		uc.console.LogInfo("No default VPCs found across all regions.")
		return nil
	}

	if args.CheckDependencies {
		uc.InspectDependencies(ctx, profile, vpcs)
	}
	report.DefaultVPCs = vpcs

	defer uc.exportReport(args, report)

	if args.DryRun {
		report.DryRun = true
		uc.renderSummary("The following default VPCs would be deleted:", vpcs)
		uc.console.LogInfo("Dry run: no default VPCs were deleted.")
		return nil
	}

	if uc.interrupted(ctx) {
		return nil
	}
	if !uc.Confirm(ctx, vpcs) {
		if !uc.interrupted(ctx) {
			uc.console.LogInfo("No default VPCs were deleted. Exiting.")
		}
		return nil
	}
	report.Confirmed = true

	policy := RetryPolicy{MaxRetries: args.MaxRetries, Delay: args.RetryDelay}
	report.Results = uc.DeleteAll(ctx, profile, vpcs, policy)

	deleted := report.DeletedCount()
	if deleted == vpcs.Len() {
		uc.console.LogSuccess("All selected default VPCs have been deleted successfully.")
	} else {
		uc.console.LogWarning("%d of %d default VPCs deleted.", deleted, vpcs.Len())
	}
	return nil
}

// exportReport grava o relatório nos formatos pedidos. Falhas são apenas registradas.
func (uc *CleanupUseCase) exportReport(args *types.CLIArgs, report *entity.RunReport) {
	if args.ReportName == "" {
		return
	}
	report.FinishedAt = uc.now()

	for _, reportType := range args.ReportType {
		var (
			path string
			err  error
		)

		switch strings.ToLower(reportType) {
		case "csv":
			path, err = uc.exportRepo.ExportRunReportToCSV(*report, args.ReportName, args.Dir)
		case "json":
			path, err = uc.exportRepo.ExportRunReportToJSON(*report, args.ReportName, args.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportRunReportToPDF(*report, args.ReportName, args.Dir)
		default:
			err = fmt.Errorf("%w: %s", types.ErrUnsupportedReportType, reportType)
		}

		if err != nil {
			uc.console.LogError("Failed to export run report to %s: %s", strings.ToUpper(reportType), err)
			continue
		}
		uc.console.LogSuccess("Successfully exported run report to %s: %s", strings.ToUpper(reportType), path)
	}
}
