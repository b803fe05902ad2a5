package game

import "time"

// Seconds is a duration as written in configuration files.
type Seconds float64

func (s Seconds) Duration() time.Duration { return time.Duration(float64(s) * float64(time.Second)) }

// Settings holds every tunable of the rules. The zero value is not useful, start from DefaultSettings.
type Settings struct {
	RoundWaitTime  bool    `json:"round_wait_time"`  // enables the delays between round states
	BonusRoundTime Seconds `json:"bonus_round_time"` // clamped to [5, 15]
	WarmupTime     Seconds `json:"warmup_time"`
	TimeLimit      Seconds `json:"time_limit"` // 0 = no limit
	WinLimit       int     `json:"win_limit"`  // rounds; 0 = no limit
	ReadySignal    string  `json:"ready_signal"`

	DeathCamTime         Seconds `json:"death_cam_time"`
	MaxWaveRespawnTime   Seconds `json:"max_wave_respawn_time"`
	WaveQueueSize        int     `json:"wave_queue_size"`
	WaveRespawnFactor    float64 `json:"wave_respawn_factor"`
	FlagRespawnBonus     Seconds `json:"flag_respawn_bonus"` // per advantage flag
	FailSafeWaveInterval Seconds `json:"fail_safe_wave_interval"`

	AreaThinkInterval       Seconds `json:"area_think_interval"`
	SimulateMultipleCappers int     `json:"simulate_multiple_cappers"`

	BombTimerLength   Seconds `json:"bomb_timer_length"`
	BombPlantTime     Seconds `json:"bomb_plant_time"`
	BombDefuseTime    Seconds `json:"bomb_defuse_time"`
	UseTimeout        Seconds `json:"use_timeout"` // how long a plant or defuse survives without a heartbeat
	DefuseMaxDistance float64 `json:"defuse_max_distance"`
	BombDamage        float64 `json:"bomb_damage"`
	BombDamageRadius  float64 `json:"bomb_damage_radius"`
	BombStun          float64 `json:"bomb_stun"`
	BombStunRadius    float64 `json:"bomb_stun_radius"`

	ReadyRestartDelay Seconds `json:"ready_restart_delay"`
	MaxRestartDelay   Seconds `json:"max_restart_delay"`
}

func DefaultSettings() Settings {
	return Settings{
		RoundWaitTime:  true,
		BonusRoundTime: 15,
		ReadySignal:    "ready",

		DeathCamTime:         5,
		MaxWaveRespawnTime:   20,
		WaveQueueSize:        10,
		WaveRespawnFactor:    1,
		FlagRespawnBonus:     1,
		FailSafeWaveInterval: 3,

		AreaThinkInterval:       0.1,
		SimulateMultipleCappers: 1,

		BombTimerLength:   20,
		BombPlantTime:     2,
		BombDefuseTime:    3,
		UseTimeout:        0.5,
		DefuseMaxDistance: 96,
		BombDamage:        400,
		BombDamageRadius:  500,
		BombStun:          100,
		BombStunRadius:    750,

		ReadyRestartDelay: 5,
		MaxRestartDelay:   60,
	}
}

// waitFactor scales the delays between round states; disabling round wait time makes them instant.
func (s *Settings) waitFactor() float64 {
	if s.RoundWaitTime {
		return 1
	}
	return 0
}

func (s *Settings) bonusRoundTime() time.Duration {
	t := s.BonusRoundTime
	if t < 5 {
		t = 5
	} else if t > 15 {
		t = 15
	}
	return Seconds(float64(t) * s.waitFactor()).Duration()
}

func (s *Settings) cappersMultiplier() int {
	if s.SimulateMultipleCappers < 1 {
		return 1
	}
	return s.SimulateMultipleCappers
}
