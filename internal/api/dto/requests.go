package dto

import "time"

type ScheduleTripRequest struct {
	RouteID int        `json:"route_id"`
	StartAt *time.Time `json:"start_at"`
}

type ScheduleDayRequest struct {
	TruckID int    `json:"truck_id"`
	Date    string `json:"date"`
}

type DateRequest struct {
	Date string `json:"date"`
}

type RerouteRequest struct {
	FacilityID int    `json:"facility_id"`
	Date       string `json:"date"`
}
