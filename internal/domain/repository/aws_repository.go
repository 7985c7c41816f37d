package repository

import (
	"context"

	"github.com/diillson/aws-vpc-cleaner/internal/domain/entity"
)

// AWSRepository defines the interface for AWS API interactions.
type AWSRepository interface {
	// Profile Operations
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)

	// Region Operations
	GetAccessibleRegions(ctx context.Context, profile string) ([]string, error)

	// VPC Operations
	GetDefaultVPCs(ctx context.Context, profile, region string) ([]entity.DefaultVPC, error)
	DeleteVPC(ctx context.Context, profile, region, vpcID string) error
	GetVPCDependencies(ctx context.Context, profile, region, vpcID string) (entity.VPCDependencies, error)
}
