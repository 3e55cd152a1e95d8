package entities

const (
	// DefaultHelperSlots is the number of helper slots a category gets when it
	// does not configure its own.
	DefaultHelperSlots = 3

	// DefaultPointValue is the reward per helper when a category does not
	// configure its own.
	DefaultPointValue = 5
)

// Category is a configured ticket type.
type Category struct {
	// Name is the unique name of the category.
	Name string `json:"name" bson:"name"`

	// Questions are the intake questions asked when a ticket is opened, in
	// order.
	Questions []string `json:"questions" bson:"questions"`

	// Points is the reward credited to each helper when a ticket of this
	// category is closed.
	Points int `json:"points" bson:"points"`

	// Slots is the number of helper slots a ticket of this category has.
	Slots int `json:"slots" bson:"slots"`
}

// SlotCount returns the configured slot count, falling back to the default
// when unconfigured.
func (c *Category) SlotCount() int {
	if c.Slots <= 0 {
		return DefaultHelperSlots
	}
	return c.Slots
}

// PointValue returns the configured reward per helper, falling back to the
// default when unconfigured.
func (c *Category) PointValue() int {
	if c.Points <= 0 {
		return DefaultPointValue
	}
	return c.Points
}
