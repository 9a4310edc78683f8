package domain

// InstanceTypeOffering is one (region, instance type) pair from the
// per-region instance type inventory.
type InstanceTypeOffering struct {
	Region       string
	InstanceType string
}
