package dto

type LocalityResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type ListLocalityResponse struct {
	Localities []LocalityResponse `json:"localities"`
	Count      int                `json:"count"`
}

type GeocodeResponse struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Localities int    `json:"localities"`
	Provider   string `json:"provider"`
}
