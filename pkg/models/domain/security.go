package domain

// RolePolicyFinding flags an IAM role carrying an overly permissive policy
// (Allow on Action "*" over Resource "*").
type RolePolicyFinding struct {
	RoleName   string
	PolicyName string
}

// UserMFAStatus records whether an IAM user has at least one MFA device.
type UserMFAStatus struct {
	UserName   string
	MFAEnabled bool
}

// OpenSecurityGroupRule is a security group rule exposing a sensitive port
// to the whole internet.
type OpenSecurityGroupRule struct {
	GroupName string
	PortRange string
	AllowedIP string
}

// KeyPairUsage records whether an EC2 key pair is referenced by any
// instance in the account.
type KeyPairUsage struct {
	KeyName string
	InUse   bool
}
