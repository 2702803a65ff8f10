package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"

	CategoryFigures = "FIGURES"
	CategoryTools   = "TOOLS"
	CategoryToys    = "TOYS"
	CategoryGadgets = "GADGETS"
	CategoryArt     = "ART"
	CategoryOther   = "OTHER"
)

// Categories lists every category the catalog accepts, in display order.
var Categories = []string{
	CategoryFigures,
	CategoryTools,
	CategoryToys,
	CategoryGadgets,
	CategoryArt,
	CategoryOther,
}
