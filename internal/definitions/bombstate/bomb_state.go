package bombstate

type ID int32

const (
	Inactive ID = iota
	Active
	Armed
)

func (id ID) String() string {
	switch id {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Armed:
		return "armed"
	default:
		return ""
	}
}

func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
