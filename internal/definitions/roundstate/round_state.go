package roundstate

type ID int32

const (
	Init ID = iota
	Pregame
	StartGame
	Preround
	Running
	AlliesWin
	AxisWin
	Restart
	GameOver
)

func (id ID) String() string {
	switch id {
	case Init:
		return "init"
	case Pregame:
		return "pregame"
	case StartGame:
		return "startgame"
	case Preround:
		return "preround"
	case Running:
		return "running"
	case AlliesWin:
		return "allies_win"
	case AxisWin:
		return "axis_win"
	case Restart:
		return "restart"
	case GameOver:
		return "game_over"
	default:
		return ""
	}
}

func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
