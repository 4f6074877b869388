package dto

type ScheduleTripResponse struct {
	Scheduled bool `json:"scheduled"`
}

type CountResponse struct {
	Scheduled int `json:"scheduled"`
}

type WorkmatesResponse struct {
	EmployeeID int   `json:"employee_id"`
	Workmates  []int `json:"workmates"`
}

type RerouteResponse struct {
	Rerouted int `json:"rerouted"`
}

type UpdateTechniciansResponse struct {
	Updated  int      `json:"updated"`
	Warnings []string `json:"warnings,omitempty"`
}
