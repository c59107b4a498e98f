package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.MaxRounds != 6 {
		t.Errorf("MaxRounds = %d, want 6", cfg.MaxRounds)
	}
	if cfg.WSPort != 8080 {
		t.Errorf("WSPort = %d, want 8080", cfg.WSPort)
	}
	if cfg.LobbyRoomCount != 3 {
		t.Errorf("LobbyRoomCount = %d, want 3", cfg.LobbyRoomCount)
	}
	if cfg.Spells.Flash.DurationMS != 3000 {
		t.Errorf("Flash.DurationMS = %d, want 3000", cfg.Spells.Flash.DurationMS)
	}
	if cfg.Spells.Wrong.Letters != 5 {
		t.Errorf("Wrong.Letters = %d, want 5", cfg.Spells.Wrong.Letters)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAX_ROUNDS", "9")
	t.Setenv("LOBBY_ROOM_COUNT", "5")
	t.Setenv("SPELL_WRONG_LETTERS", "2")
	t.Setenv("AUTH_BASE_URL", "https://auth.example.com")

	cfg := Load()
	if cfg.MaxRounds != 9 {
		t.Errorf("MaxRounds = %d, want 9", cfg.MaxRounds)
	}
	if cfg.LobbyRoomCount != 5 {
		t.Errorf("LobbyRoomCount = %d, want 5", cfg.LobbyRoomCount)
	}
	if cfg.Spells.Wrong.Letters != 2 {
		t.Errorf("Wrong.Letters = %d, want 2", cfg.Spells.Wrong.Letters)
	}
	if cfg.AuthBaseURL != "https://auth.example.com" {
		t.Errorf("AuthBaseURL = %q", cfg.AuthBaseURL)
	}
}

func TestLoad_InvalidEnvValueKeepsDefault(t *testing.T) {
	t.Setenv("MAX_ROUNDS", "not-a-number")
	cfg := Load()
	if cfg.MaxRounds != 6 {
		t.Errorf("MaxRounds = %d, want default 6", cfg.MaxRounds)
	}
}
