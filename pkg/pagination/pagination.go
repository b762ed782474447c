package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
)

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Result carries the page metadata returned alongside listings.
type Result struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// Normalize enforces the configured default and maximum limits and a
// one-based page number.
func Normalize(params Params) Params {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	return params
}

// Offset converts the normalized params into a SQL offset.
func (p Params) Offset() int {
	normalized := Normalize(p)
	return (normalized.Page - 1) * normalized.Limit
}

// BuildResult computes page metadata for a total row count.
func BuildResult(params Params, totalCount int64) Result {
	normalized := Normalize(params)
	totalPages := int((totalCount + int64(normalized.Limit) - 1) / int64(normalized.Limit))
	return Result{
		Page:       normalized.Page,
		Limit:      normalized.Limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
