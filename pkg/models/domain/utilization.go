package domain

import "time"

// UnderusedInstance is a running EC2 instance whose average CPU stayed
// below the configured threshold over the lookback window.
type UnderusedInstance struct {
	InstanceID   string
	Name         string
	InstanceType string
	AverageCPU   float64
}

// IdleDatabase is an RDS instance that saw zero connections over the
// lookback window.
type IdleDatabase struct {
	Identifier    string
	Engine        string
	InstanceClass string
	Status        string
}

// InactiveFunction is a Lambda function with no invocations over the
// lookback window.
type InactiveFunction struct {
	Name         string
	Runtime      string
	LastModified string
}

// UnusedBucket is an S3 bucket that is empty or shows no recent activity.
type UnusedBucket struct {
	Name         string
	CreationDate time.Time
	Reason       string
}

// UtilizationReport aggregates the four underutilization checks.
type UtilizationReport struct {
	Instances []UnderusedInstance
	Databases []IdleDatabase
	Functions []InactiveFunction
	Buckets   []UnusedBucket
}
