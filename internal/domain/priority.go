package domain

import (
	"cmp"
	"slices"
)

// ByHireDate orders employees by seniority: earliest hire date first,
// then lowest id.
func ByHireDate(a, b Employee) int {
	if c := a.HireDate.Compare(b.HireDate); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// ByCapacity orders trucks by largest capacity first, then lowest id.
func ByCapacity(a, b Truck) int {
	if c := cmp.Compare(b.Capacity, a.Capacity); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// PickTruck returns the preferred truck under ByCapacity.
func PickTruck(trucks []Truck) (Truck, bool) {
	if len(trucks) == 0 {
		return Truck{}, false
	}
	return slices.MinFunc(trucks, ByCapacity), true
}

// PickDriverPair selects two drivers by seniority such that at least one of
// them can drive truckType. The most senior driver always comes first. If that
// driver is qualified the next most senior driver completes the pair;
// otherwise the most senior qualified driver does.
func PickDriverPair(drivers []Employee, truckType string) (Employee, Employee, bool) {
	if len(drivers) < 2 {
		return Employee{}, Employee{}, false
	}

	sorted := slices.Clone(drivers)
	slices.SortFunc(sorted, ByHireDate)

	first, rest := sorted[0], sorted[1:]
	if first.CanDrive(truckType) {
		return first, rest[0], true
	}

	for _, e := range rest {
		if e.CanDrive(truckType) {
			return first, e, true
		}
	}

	return Employee{}, Employee{}, false
}
