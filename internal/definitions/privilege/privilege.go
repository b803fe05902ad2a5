package privilege

import "strings"

type ID int32

const (
	None ID = iota
	Bridge // the game host feeding player and zone state
	Admin
)

func Parse(s string) ID {
	switch strings.ToLower(s) {
	case "none":
		return None
	case "bridge":
		return Bridge
	case "admin":
		return Admin
	default:
		return -1
	}
}

func (p ID) String() string {
	switch p {
	case None:
		return "none"
	case Bridge:
		return "bridge"
	case Admin:
		return "admin"
	default:
		return ""
	}
}
