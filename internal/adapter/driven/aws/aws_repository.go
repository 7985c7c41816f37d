package aws

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/diillson/aws-vpc-cleaner/internal/domain/entity"
	"github.com/diillson/aws-vpc-cleaner/internal/domain/repository"
	"github.com/diillson/aws-vpc-cleaner/internal/shared/types"
)

// homeRegion é usada para chamadas globais quando o perfil não define região.
const homeRegion = "us-east-1"

// AWSRepositoryImpl implementa o AWSRepository com cache de clientes.
type AWSRepositoryImpl struct {
	cfgCache    map[string]aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewAWSRepository cria uma nova implementação do AWSRepository.
func NewAWSRepository() repository.AWSRepository {
	return &AWSRepositoryImpl{
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]interface{}),
	}
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getServiceClient(ctx context.Context, profile, region, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s-%s", profile, region, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()
	if region != "" {
		regionalCfg.Region = region
	}
	if regionalCfg.Region == "" {
		regionalCfg.Region = homeRegion
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(regionalCfg)
	case "ec2":
		client = ec2.NewFromConfig(regionalCfg)
	case "elbv2":
		client = elasticloadbalancingv2.NewFromConfig(regionalCfg)
	case "rds":
		client = rds.NewFromConfig(regionalCfg)
	case "lambda":
		client = lambda.NewFromConfig(regionalCfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

// GetAWSProfiles lista os perfis dos arquivos compartilhados de credenciais e config.
// Lista vazia é um resultado válido.
func (r *AWSRepositoryImpl) GetAWSProfiles() []string {
	credentialsPath, configPath := sharedFilePaths()

	profiles := make(map[string]bool)
	for _, name := range parseProfileSections(credentialsPath, false) {
		profiles[name] = true
	}
	for _, name := range parseProfileSections(configPath, true) {
		profiles[name] = true
	}

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}

// sharedFilePaths resolve os caminhos respeitando AWS_SHARED_CREDENTIALS_FILE e AWS_CONFIG_FILE.
func sharedFilePaths() (string, string) {
	credentialsPath := os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	configPath := os.Getenv("AWS_CONFIG_FILE")

	if credentialsPath == "" || configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if credentialsPath == "" {
				credentialsPath = filepath.Join(homeDir, ".aws", "credentials")
			}
			if configPath == "" {
				configPath = filepath.Join(homeDir, ".aws", "config")
			}
		}
	}
	return credentialsPath, configPath
}

// parseProfileSections returns the profile names declared as [section] headers.
// In the config file only "default" and "profile <name>" sections are profiles.
func parseProfileSections(path string, isConfig bool) []string {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}
		section := strings.TrimSpace(line[1 : len(line)-1])
		if section == "" {
			continue
		}
		if isConfig {
			switch {
			case section == "default":
			case strings.HasPrefix(section, "profile "):
				section = strings.TrimSpace(strings.TrimPrefix(section, "profile "))
			default:
				// sso-session, services e afins
				continue
			}
		}
		if section != "" {
			names = append(names, section)
		}
	}
	return names
}

func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context, profile string) (string, error) {
	client, err := r.getServiceClient(ctx, profile, homeRegion, "sts")
	if err != nil {
		return "", err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", newRemoteError("GetCallerIdentity", profile, "", err)
	}
	return aws.ToString(result.Account), nil
}

// GetAccessibleRegions lista as regiões habilitadas para a conta do perfil.
func (r *AWSRepositoryImpl) GetAccessibleRegions(ctx context.Context, profile string) ([]string, error) {
	client, err := r.getServiceClient(ctx, profile, "", "ec2")
	if err != nil {
		return nil, fmt.Errorf("could not create EC2 client to list regions: %w", err)
	}
	ec2Client := client.(*ec2.Client)

	regionsOutput, err := ec2Client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{AllRegions: aws.Bool(false)})
	if err != nil {
		return nil, newRemoteError("DescribeRegions", profile, "", err)
	}

	accessibleRegions := make([]string, 0, len(regionsOutput.Regions))
	for _, region := range regionsOutput.Regions {
		accessibleRegions = append(accessibleRegions, aws.ToString(region.RegionName))
	}
	return accessibleRegions, nil
}

// GetDefaultVPCs retorna as VPCs marcadas como padrão na região.
func (r *AWSRepositoryImpl) GetDefaultVPCs(ctx context.Context, profile, region string) ([]entity.DefaultVPC, error) {
	client, err := r.getServiceClient(ctx, profile, region, "ec2")
	if err != nil {
		return nil, err
	}
	ec2Client := client.(*ec2.Client)

	input := &ec2.DescribeVpcsInput{
		Filters: []ec2Types.Filter{
			{Name: aws.String("isDefault"), Values: []string{"true"}},
		},
	}

	var vpcs []entity.DefaultVPC
	paginator := ec2.NewDescribeVpcsPaginator(ec2Client, input)
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, newRemoteError("DescribeVpcs", profile, region, err)
		}
		for _, vpc := range output.Vpcs {
			vpcs = append(vpcs, entity.DefaultVPC{
				Region:    region,
				VpcID:     aws.ToString(vpc.VpcId),
				CidrBlock: aws.ToString(vpc.CidrBlock),
				State:     string(vpc.State),
			})
		}
	}
	return vpcs, nil
}

func (r *AWSRepositoryImpl) DeleteVPC(ctx context.Context, profile, region, vpcID string) error {
	client, err := r.getServiceClient(ctx, profile, region, "ec2")
	if err != nil {
		return err
	}
	ec2Client := client.(*ec2.Client)

	_, err = ec2Client.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: aws.String(vpcID)})
	if err != nil {
		return newRemoteError("DeleteVpc", profile, region, err)
	}
	return nil
}

// GetVPCDependencies conta os recursos ainda associados à VPC. Falhas parciais
// são agregadas no erro, e as contagens obtidas continuam válidas.
func (r *AWSRepositoryImpl) GetVPCDependencies(ctx context.Context, profile, region, vpcID string) (entity.VPCDependencies, error) {
	var deps entity.VPCDependencies
	var errs []error

	if err := r.countEC2Dependencies(ctx, profile, region, vpcID, &deps); err != nil {
		errs = append(errs, err)
	}

	if n, err := r.countLoadBalancers(ctx, profile, region, vpcID); err != nil {
		errs = append(errs, err)
	} else {
		deps.LoadBalancers = n
	}

	if n, err := r.countDBInstances(ctx, profile, region, vpcID); err != nil {
		errs = append(errs, err)
	} else {
		deps.DBInstances = n
	}

	if n, err := r.countLambdaFunctions(ctx, profile, region, vpcID); err != nil {
		errs = append(errs, err)
	} else {
		deps.LambdaFunctions = n
	}

	return deps, errors.Join(errs...)
}

func (r *AWSRepositoryImpl) countEC2Dependencies(ctx context.Context, profile, region, vpcID string, deps *entity.VPCDependencies) error {
	client, err := r.getServiceClient(ctx, profile, region, "ec2")
	if err != nil {
		return err
	}
	ec2Client := client.(*ec2.Client)

	vpcFilter := []ec2Types.Filter{{Name: aws.String("vpc-id"), Values: []string{vpcID}}}
	var errs []error

	subnets := ec2.NewDescribeSubnetsPaginator(ec2Client, &ec2.DescribeSubnetsInput{Filters: vpcFilter})
	for subnets.HasMorePages() {
		output, err := subnets.NextPage(ctx)
		if err != nil {
			errs = append(errs, newRemoteError("DescribeSubnets", profile, region, err))
			break
		}
		deps.Subnets += len(output.Subnets)
	}

	igws := ec2.NewDescribeInternetGatewaysPaginator(ec2Client, &ec2.DescribeInternetGatewaysInput{
		Filters: []ec2Types.Filter{{Name: aws.String("attachment.vpc-id"), Values: []string{vpcID}}},
	})
	for igws.HasMorePages() {
		output, err := igws.NextPage(ctx)
		if err != nil {
			errs = append(errs, newRemoteError("DescribeInternetGateways", profile, region, err))
			break
		}
		deps.InternetGateways += len(output.InternetGateways)
	}

	enis := ec2.NewDescribeNetworkInterfacesPaginator(ec2Client, &ec2.DescribeNetworkInterfacesInput{Filters: vpcFilter})
	for enis.HasMorePages() {
		output, err := enis.NextPage(ctx)
		if err != nil {
			errs = append(errs, newRemoteError("DescribeNetworkInterfaces", profile, region, err))
			break
		}
		deps.NetworkInterfaces += len(output.NetworkInterfaces)
	}

	groups := ec2.NewDescribeSecurityGroupsPaginator(ec2Client, &ec2.DescribeSecurityGroupsInput{Filters: vpcFilter})
	for groups.HasMorePages() {
		output, err := groups.NextPage(ctx)
		if err != nil {
			errs = append(errs, newRemoteError("DescribeSecurityGroups", profile, region, err))
			break
		}
		for _, group := range output.SecurityGroups {
			// O grupo "default" é removido junto com a VPC.
			if aws.ToString(group.GroupName) != "default" {
				deps.SecurityGroups++
			}
		}
	}

	return errors.Join(errs...)
}

func (r *AWSRepositoryImpl) countLoadBalancers(ctx context.Context, profile, region, vpcID string) (int, error) {
	client, err := r.getServiceClient(ctx, profile, region, "elbv2")
	if err != nil {
		return 0, err
	}
	elbClient := client.(*elasticloadbalancingv2.Client)

	count := 0
	paginator := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(elbClient, &elasticloadbalancingv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, newRemoteError("DescribeLoadBalancers", profile, region, err)
		}
		for _, lb := range output.LoadBalancers {
			if aws.ToString(lb.VpcId) == vpcID {
				count++
			}
		}
	}
	return count, nil
}

func (r *AWSRepositoryImpl) countDBInstances(ctx context.Context, profile, region, vpcID string) (int, error) {
	client, err := r.getServiceClient(ctx, profile, region, "rds")
	if err != nil {
		return 0, err
	}
	rdsClient := client.(*rds.Client)

	count := 0
	paginator := rds.NewDescribeDBInstancesPaginator(rdsClient, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, newRemoteError("DescribeDBInstances", profile, region, err)
		}
		for _, db := range output.DBInstances {
			if db.DBSubnetGroup != nil && aws.ToString(db.DBSubnetGroup.VpcId) == vpcID {
				count++
			}
		}
	}
	return count, nil
}

func (r *AWSRepositoryImpl) countLambdaFunctions(ctx context.Context, profile, region, vpcID string) (int, error) {
	client, err := r.getServiceClient(ctx, profile, region, "lambda")
	if err != nil {
		return 0, err
	}
	lambdaClient := client.(*lambda.Client)

	count := 0
	paginator := lambda.NewListFunctionsPaginator(lambdaClient, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, newRemoteError("ListFunctions", profile, region, err)
		}
		for _, fn := range output.Functions {
			if fn.VpcConfig != nil && aws.ToString(fn.VpcConfig.VpcId) == vpcID {
				count++
			}
		}
	}
	return count, nil
}

// newRemoteError normaliza a falha de uma chamada AWS em um *types.RemoteError.
func newRemoteError(op, profile, region string, err error) error {
	remoteErr := &types.RemoteError{
		Op:      op,
		Profile: profile,
		Region:  region,
		Err:     err,
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		remoteErr.Code = apiErr.ErrorCode()
		remoteErr.Message = apiErr.ErrorMessage()
	}
	return remoteErr
}
