package entity

import "time"

// DeletionResult is the outcome of deleting one default VPC.
type DeletionResult struct {
	Region   string `json:"region"`
	VpcID    string `json:"vpc_id"`
	Attempts int    `json:"attempts"`
	Deleted  bool   `json:"deleted"`
	Error    string `json:"error,omitempty"`
}

// RunReport represents everything collected and done during a single invocation.
type RunReport struct {
	RunID       string           `json:"run_id"`
	Profile     string           `json:"profile"`
	AccountID   string           `json:"account_id,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	Regions     []string         `json:"regions"`
	DefaultVPCs DefaultVPCs      `json:"default_vpcs"`
	DryRun      bool             `json:"dry_run"`
	Confirmed   bool             `json:"confirmed"`
	Results     []DeletionResult `json:"results"`
}

// ResultFor retorna o resultado da deleção para a região, se houve tentativa.
func (r RunReport) ResultFor(region string) (DeletionResult, bool) {
	for _, result := range r.Results {
		if result.Region == region {
			return result, true
		}
	}
	return DeletionResult{}, false
}

// DeletedCount conta as VPCs efetivamente removidas.
func (r RunReport) DeletedCount() int {
	count := 0
	for _, result := range r.Results {
		if result.Deleted {
			count++
		}
	}
	return count
}
