package entity

import (
	"fmt"
	"strings"
)

// DefaultVPC represents the default VPC found in a single region.
type DefaultVPC struct {
	Region       string           `json:"region"`
	VpcID        string           `json:"vpc_id"`
	CidrBlock    string           `json:"cidr_block,omitempty"`
	State        string           `json:"state,omitempty"`
	Dependencies *VPCDependencies `json:"dependencies,omitempty"`
}

// DefaultVPCs is the ordered set collected in one run, at most one entry per region.
type DefaultVPCs []DefaultVPC

// Len retorna o número de VPCs coletadas.
func (d DefaultVPCs) Len() int {
	return len(d)
}

// Regions retorna as regiões na ordem de coleta.
func (d DefaultVPCs) Regions() []string {
	regions := make([]string, 0, len(d))
	for _, vpc := range d {
		regions = append(regions, vpc.Region)
	}
	return regions
}

// Lookup retorna a VPC padrão registrada para a região, se houver.
func (d DefaultVPCs) Lookup(region string) (DefaultVPC, bool) {
	for _, vpc := range d {
		if vpc.Region == region {
			return vpc, true
		}
	}
	return DefaultVPC{}, false
}

// VPCDependencies counts objects still attached to a VPC.
type VPCDependencies struct {
	Subnets           int `json:"subnets"`
	InternetGateways  int `json:"internet_gateways"`
	NetworkInterfaces int `json:"network_interfaces"`
	SecurityGroups    int `json:"security_groups"`
	LoadBalancers     int `json:"load_balancers"`
	DBInstances       int `json:"db_instances"`
	LambdaFunctions   int `json:"lambda_functions"`
}

// Total soma todas as dependências.
func (d VPCDependencies) Total() int {
	return d.Subnets + d.InternetGateways + d.NetworkInterfaces + d.SecurityGroups +
		d.LoadBalancers + d.DBInstances + d.LambdaFunctions
}

// Blocking counts the attachments AWS does not remove on its own when the VPC is deleted.
// Subnets and the internet gateway of a default VPC are part of the default layout.
func (d VPCDependencies) Blocking() int {
	return d.NetworkInterfaces + d.SecurityGroups + d.LoadBalancers + d.DBInstances + d.LambdaFunctions
}

func (d VPCDependencies) String() string {
	parts := []string{}
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(d.Subnets, "subnets")
	add(d.InternetGateways, "internet gateways")
	add(d.NetworkInterfaces, "network interfaces")
	add(d.SecurityGroups, "security groups")
	add(d.LoadBalancers, "load balancers")
	add(d.DBInstances, "DB instances")
	add(d.LambdaFunctions, "Lambda functions")
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
