// Package enums declares string enums for LoadEnums tests.
package enums

type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
	StatusPending  Status = "pending"
)

type Color string

const (
	Red   Color = "RED"
	Green Color = "GREEN"
)

// Level is not a string type and is ignored.
type Level int

const (
	Low Level = iota
	High
)

// Untyped constants are ignored.
const Version = "1"

// Account uses the enums.
type Account struct {
	Status Status `json:"status"`
	Color  Color  `json:"color"`
}
