package node

import "testing"

func TestNormalizeSeedPeers(t *testing.T) {
	got := NormalizeSeedPeers("127.0.0.1:31013, 127.0.0.1:31023", "127.0.0.1:31013", " ", "10.0.0.1:31013")
	want := []string{"127.0.0.1:31013", "127.0.0.1:31023", "10.0.0.1:31013"}
	if len(got) != len(want) {
		t.Fatalf("len=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("at %d got=%q want=%q", i, got[i], want[i])
		}
	}
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Identifier = "node-a"
	cfg.Password = "hunter2"
	return cfg
}

func TestValidateConfigOK(t *testing.T) {
	cfg := validConfig()
	cfg.SeedPeers = []string{"127.0.0.1:31013"}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfigRejectsBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Port = 0
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error for port 0")
	}
}

func TestValidateConfigRejectsBidirectionalExceedingInbound(t *testing.T) {
	cfg := validConfig()
	cfg.MaxBidirectionalConnections = 100
	cfg.MaxInboundConnections = 10
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error when bidirectional slots exceed inbound pool size")
	}
}

func TestValidateConfigRejectsBadSeedPeer(t *testing.T) {
	cfg := validConfig()
	cfg.SeedPeers = []string{"bad-peer"}
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateConfigRejectsMissingIdentifier(t *testing.T) {
	cfg := validConfig()
	cfg.Identifier = ""
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error for missing identifier")
	}
}

func TestValidateConfigRejectsMissingDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.DataPath = ""
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error for missing data_path")
	}
}

func TestConfigParamsProjectsConsensusFields(t *testing.T) {
	cfg := validConfig()
	cfg.TotalTokenSupply = 12345
	p := cfg.Params()
	if p.TotalTokenSupply != 12345 {
		t.Fatalf("TotalTokenSupply = %d, want 12345", p.TotalTokenSupply)
	}
	if p.BlockSizeLimit != cfg.BlockSizeLimit {
		t.Fatalf("BlockSizeLimit mismatch")
	}
}
