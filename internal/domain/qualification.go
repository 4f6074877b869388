package domain

// Qualification is one entry of the technician qualification feed: an
// employee, identified by name, who can now maintain a truck type.
type Qualification struct {
	FirstName string
	LastName  string
	TruckType string
}

// FullName is the employee name as stored: first and last name joined by a space.
func (q Qualification) FullName() string { return q.FirstName + " " + q.LastName }
