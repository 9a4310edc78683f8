package security

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/de-tools/account-scout/pkg/models/domain"
	"github.com/de-tools/account-scout/pkg/services/awscfg"
)

// sensitivePorts are the ports flagged when a security group exposes them
// to 0.0.0.0/0: SSH, HTTP, HTTPS, MySQL, MSSQL, PostgreSQL.
var sensitivePorts = map[int32]struct{}{
	22:   {},
	80:   {},
	443:  {},
	3306: {},
	1433: {},
	5432: {},
}

// IAMAPI is the slice of the IAM client the security auditor needs.
type IAMAPI interface {
	ListRoles(
		ctx context.Context,
		params *iam.ListRolesInput,
		optFns ...func(*iam.Options),
	) (*iam.ListRolesOutput, error)
	ListAttachedRolePolicies(
		ctx context.Context,
		params *iam.ListAttachedRolePoliciesInput,
		optFns ...func(*iam.Options),
	) (*iam.ListAttachedRolePoliciesOutput, error)
	ListRolePolicies(
		ctx context.Context,
		params *iam.ListRolePoliciesInput,
		optFns ...func(*iam.Options),
	) (*iam.ListRolePoliciesOutput, error)
	GetRolePolicy(
		ctx context.Context,
		params *iam.GetRolePolicyInput,
		optFns ...func(*iam.Options),
	) (*iam.GetRolePolicyOutput, error)
	GetPolicy(
		ctx context.Context,
		params *iam.GetPolicyInput,
		optFns ...func(*iam.Options),
	) (*iam.GetPolicyOutput, error)
	GetPolicyVersion(
		ctx context.Context,
		params *iam.GetPolicyVersionInput,
		optFns ...func(*iam.Options),
	) (*iam.GetPolicyVersionOutput, error)
	ListUsers(
		ctx context.Context,
		params *iam.ListUsersInput,
		optFns ...func(*iam.Options),
	) (*iam.ListUsersOutput, error)
	ListMFADevices(
		ctx context.Context,
		params *iam.ListMFADevicesInput,
		optFns ...func(*iam.Options),
	) (*iam.ListMFADevicesOutput, error)
}

// EC2API is the slice of the EC2 client the security auditor needs.
type EC2API interface {
	DescribeSecurityGroups(
		ctx context.Context,
		params *ec2.DescribeSecurityGroupsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeSecurityGroupsOutput, error)
	DescribeKeyPairs(
		ctx context.Context,
		params *ec2.DescribeKeyPairsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeKeyPairsOutput, error)
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)
}

// Auditor runs the account hygiene checks: overly permissive IAM role
// policies, users without MFA, security groups open to the internet, and
// key pairs no instance references.
type Auditor struct {
	iam IAMAPI
	ec2 EC2API
}

func NewAuditor(iamClient IAMAPI, ec2Client EC2API) *Auditor {
	return &Auditor{
		iam: iamClient,
		ec2: ec2Client,
	}
}

// AuditorFactory builds an auditor backed by real AWS clients for the given
// shared-config profile.
func AuditorFactory(ctx context.Context, profile string) (*Auditor, error) {
	cfg, err := awscfg.Load(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return NewAuditor(iam.NewFromConfig(*cfg), ec2.NewFromConfig(*cfg)), nil
}

// CheckRolePolicies flags roles carrying a managed or inline policy that
// allows every action on every resource. A policy whose document cannot be
// fetched or parsed is treated as not permissive.
func (a *Auditor) CheckRolePolicies(ctx context.Context) ([]domain.RolePolicyFinding, error) {
	var findings []domain.RolePolicyFinding

	var marker *string
	for {
		page, err := a.iam.ListRoles(ctx, &iam.ListRolesInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("failed to list roles: %w", err)
		}

		for _, role := range page.Roles {
			roleName := aws.ToString(role.RoleName)

			attached, err := a.iam.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
				RoleName: role.RoleName,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to list attached policies for role %s: %w", roleName, err)
			}
			for _, policy := range attached.AttachedPolicies {
				if a.managedPolicyIsPermissive(ctx, aws.ToString(policy.PolicyArn)) {
					findings = append(findings, domain.RolePolicyFinding{
						RoleName:   roleName,
						PolicyName: aws.ToString(policy.PolicyName),
					})
				}
			}

			inline, err := a.iam.ListRolePolicies(ctx, &iam.ListRolePoliciesInput{
				RoleName: role.RoleName,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to list inline policies for role %s: %w", roleName, err)
			}
			for _, policyName := range inline.PolicyNames {
				if a.inlinePolicyIsPermissive(ctx, roleName, policyName) {
					findings = append(findings, domain.RolePolicyFinding{
						RoleName:   roleName,
						PolicyName: policyName,
					})
				}
			}
		}

		if !page.IsTruncated {
			break
		}
		marker = page.Marker
	}

	return findings, nil
}

func (a *Auditor) managedPolicyIsPermissive(ctx context.Context, policyArn string) bool {
	policy, err := a.iam.GetPolicy(ctx, &iam.GetPolicyInput{PolicyArn: aws.String(policyArn)})
	if err != nil || policy.Policy == nil {
		return false
	}

	version, err := a.iam.GetPolicyVersion(ctx, &iam.GetPolicyVersionInput{
		PolicyArn: aws.String(policyArn),
		VersionId: policy.Policy.DefaultVersionId,
	})
	if err != nil || version.PolicyVersion == nil || version.PolicyVersion.Document == nil {
		return false
	}

	doc, err := parsePolicyDocument(*version.PolicyVersion.Document)
	if err != nil {
		return false
	}
	return doc.isOverlyPermissive()
}

func (a *Auditor) inlinePolicyIsPermissive(ctx context.Context, roleName, policyName string) bool {
	policy, err := a.iam.GetRolePolicy(ctx, &iam.GetRolePolicyInput{
		RoleName:   aws.String(roleName),
		PolicyName: aws.String(policyName),
	})
	if err != nil || policy.PolicyDocument == nil {
		return false
	}

	doc, err := parsePolicyDocument(*policy.PolicyDocument)
	if err != nil {
		return false
	}
	return doc.isOverlyPermissive()
}

// CheckMFAStatus reports every IAM user and whether they have at least one
// MFA device.
func (a *Auditor) CheckMFAStatus(ctx context.Context) ([]domain.UserMFAStatus, error) {
	var statuses []domain.UserMFAStatus

	var marker *string
	for {
		page, err := a.iam.ListUsers(ctx, &iam.ListUsersInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		for _, user := range page.Users {
			devices, err := a.iam.ListMFADevices(ctx, &iam.ListMFADevicesInput{
				UserName: user.UserName,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to list MFA devices for user %s: %w",
					aws.ToString(user.UserName), err)
			}
			statuses = append(statuses, domain.UserMFAStatus{
				UserName:   aws.ToString(user.UserName),
				MFAEnabled: len(devices.MFADevices) > 0,
			})
		}

		if !page.IsTruncated {
			break
		}
		marker = page.Marker
	}

	return statuses, nil
}

// CheckSecurityGroups flags rules that allow 0.0.0.0/0 on a sensitive port.
func (a *Auditor) CheckSecurityGroups(ctx context.Context) ([]domain.OpenSecurityGroupRule, error) {
	resp, err := a.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe security groups: %w", err)
	}

	var open []domain.OpenSecurityGroupRule
	for _, sg := range resp.SecurityGroups {
		for _, rule := range sg.IpPermissions {
			fromPort := aws.ToInt32(rule.FromPort)
			toPort := aws.ToInt32(rule.ToPort)
			_, fromSensitive := sensitivePorts[fromPort]
			_, toSensitive := sensitivePorts[toPort]
			if !fromSensitive && !toSensitive {
				continue
			}

			for _, ipRange := range rule.IpRanges {
				if aws.ToString(ipRange.CidrIp) == "0.0.0.0/0" {
					open = append(open, domain.OpenSecurityGroupRule{
						GroupName: aws.ToString(sg.GroupName),
						PortRange: fmt.Sprintf("%d-%d", fromPort, toPort),
						AllowedIP: aws.ToString(ipRange.CidrIp),
					})
				}
			}
		}
	}

	return open, nil
}

// CheckKeyPairs reports every key pair and whether any instance references
// it.
func (a *Auditor) CheckKeyPairs(ctx context.Context) ([]domain.KeyPairUsage, error) {
	keyPairs, err := a.ec2.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe key pairs: %w", err)
	}

	inUse := map[string]bool{}
	for _, key := range keyPairs.KeyPairs {
		inUse[aws.ToString(key.KeyName)] = false
	}

	var nextToken *string
	for {
		page, err := a.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				if instance.KeyName != nil {
					inUse[*instance.KeyName] = true
				}
			}
		}

		if page.NextToken == nil {
			break
		}
		nextToken = page.NextToken
	}

	usages := make([]domain.KeyPairUsage, 0, len(keyPairs.KeyPairs))
	for _, key := range keyPairs.KeyPairs {
		name := aws.ToString(key.KeyName)
		usages = append(usages, domain.KeyPairUsage{KeyName: name, InUse: inUse[name]})
	}
	return usages, nil
}
