package event

type Type int32 // notification code

const (
	None Type = iota

	// round flow
	WarmupBegins
	WarmupEnds
	RoundStart
	RoundActive
	RoundWin
	RoundRestartSeconds
	RestartRound
	ReadyRestart
	TeamReady
	TeamScores
	TimerFlash
	TimerTimeAdded
	GameOver

	// capture areas
	CapperCount
	CapStatus
	StartCapture
	TeamStartCapture
	BreakCapture
	TeamBreakCapture
	EndCapture
	TeamEndCapture
	CaptureBlocked
	PointCaptured

	// bomb targets
	BombTargetState
	PlantStarted
	BombPlanted
	DefuseStarted
	BombDefused
	BombExploded
	KillPlanter
	KillDefuser

	// effects the host has to apply
	RadiusDamage
	RadiusStun
	Respawn
)

var names = map[Type]string{
	None:                "none",
	WarmupBegins:        "warmup_begins",
	WarmupEnds:          "warmup_ends",
	RoundStart:          "round_start",
	RoundActive:         "round_active",
	RoundWin:            "round_win",
	RoundRestartSeconds: "round_restart_seconds",
	RestartRound:        "restart_round",
	ReadyRestart:        "ready_restart",
	TeamReady:           "team_ready",
	TeamScores:          "team_scores",
	TimerFlash:          "timer_flash",
	TimerTimeAdded:      "timer_time_added",
	GameOver:            "game_over",
	CapperCount:         "capper_count",
	CapStatus:           "cap_status",
	StartCapture:        "start_capture",
	TeamStartCapture:    "team_start_capture",
	BreakCapture:        "break_capture",
	TeamBreakCapture:    "team_break_capture",
	EndCapture:          "end_capture",
	TeamEndCapture:      "team_end_capture",
	CaptureBlocked:      "capture_blocked",
	PointCaptured:       "point_captured",
	BombTargetState:     "bomb_target_state",
	PlantStarted:        "plant_started",
	BombPlanted:         "bomb_planted",
	DefuseStarted:       "defuse_started",
	BombDefused:         "bomb_defused",
	BombExploded:        "bomb_exploded",
	KillPlanter:         "kill_planter",
	KillDefuser:         "kill_defuser",
	RadiusDamage:        "radius_damage",
	RadiusStun:          "radius_stun",
	Respawn:             "respawn",
}

func (t Type) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return ""
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
