package entity

// Resource is a bookable thing: a table, a classroom, a gym slot.
type Resource struct {
	BaseSimple
	Name     string `db:"name"`
	Position int    `db:"position"`
}

// DefaultResources is seeded into an empty catalog, in display order.
var DefaultResources = []string{
	"Table 1", "Table 2", "Table 3",
	"Classroom A", "Classroom B", "Classroom C",
	"Gym Slot A", "Gym Slot B", "Gym Slot C",
	"Meeting Room",
}
