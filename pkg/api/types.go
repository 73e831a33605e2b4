package api

// Table names exposed under /rest/v1/.
const (
	TableTrees   = "trees"
	TableSpecies = "species_master"
	TableClients = "clients"
)

// RestPrefix is the path prefix of table endpoints.
const RestPrefix = "/rest/v1/"

// Request headers understood by the REST gateway.
const (
	HeaderAPIKey = "apikey"
	HeaderPrefer = "Prefer"

	// PreferRepresentation asks the server to return written rows
	PreferRepresentation = "return=representation"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeUniqueViolation = "23505"
	CodeNotFound        = "PGRST116"
	CodeBadRequest      = "PGRST100"
)

// ErrorResponse представляет ответ с ошибкой в формате PostgREST
type ErrorResponse struct {
	Code    string `json:"code"`              // код ошибки (SQLSTATE или PGRST...)
	Message string `json:"message"`           // описание ошибки
	Details string `json:"details,omitempty"` // подробности
	Hint    string `json:"hint,omitempty"`    // подсказка
}

// HealthResponse is returned by /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
	Trees  int    `json:"trees"`
}
