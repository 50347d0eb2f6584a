package http

// LogQueryRequest struct - HTTP query request DTO for the log snapshot
type LogQueryRequest struct {
	Tail *int `json:"tail,omitempty" form:"tail" query:"tail" validate:"omitempty,gte=1,lte=10000"`
}
