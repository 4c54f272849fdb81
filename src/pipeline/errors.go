package pipeline

import "fmt"

// ProvisioningError reports a dependency that could not be installed or a
// tool requirement that could not be satisfied. Fatal to one job only.
type ProvisioningError struct {
	Package string // package or tool name
	Output  string // captured installer/probe output
	Err     error
}

func (e *ProvisioningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provisioning %s: %v", e.Package, e.Err)
	}
	return fmt.Sprintf("provisioning %s failed", e.Package)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }
