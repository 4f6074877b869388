package domain

// Collection truck. WasteType is derived through the truck's type and is
// what routes and facilities are matched against.
type Truck struct {
	ID        int
	TruckType string
	WasteType string
	Capacity  float64
}
