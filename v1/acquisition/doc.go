// Package acquisition defines the contract against the microscope hardware
// service and the position metadata attached to captured images.
//
// The hardware itself is an external collaborator: this package only owns
// the Service interface (move, autofocus, snap, status), the
// MicroscopeStatus metadata record, and a well-plate geometry helper that
// resolves well centers for standard plate formats. A deterministic
// simulator backs tests of the snap pipeline stage.
package acquisition
