package model

// HealthStatus reports connectivity of every logical database.
type HealthStatus struct {
	Status    string            `json:"status"`    // "healthy" or "unhealthy"
	Databases map[string]string `json:"databases"` // name -> "connected" or the error text
}
