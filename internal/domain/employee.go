package domain

import (
	"slices"
	"time"
)

// Capability is a role an employee holds, with the truck types they are qualified for.
type Capability struct {
	TruckTypes []string
}

// Qualified reports whether the capability covers truckType.
func (c *Capability) Qualified(truckType string) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.TruckTypes, truckType)
}

// Employee is a staff member. Roles are explicit optional capabilities
// rather than inferred from which tables reference the employee.
type Employee struct {
	ID         int
	Name       string
	HireDate   time.Time
	Driver     *Capability
	Technician *Capability
}

func (e Employee) IsDriver() bool { return e.Driver != nil }

func (e Employee) IsTechnician() bool { return e.Technician != nil }

// CanDrive reports whether the employee holds the Driver role for truckType.
func (e Employee) CanDrive(truckType string) bool { return e.Driver.Qualified(truckType) }

// CanMaintain reports whether the employee holds the Technician role for truckType.
func (e Employee) CanMaintain(truckType string) bool { return e.Technician.Qualified(truckType) }
