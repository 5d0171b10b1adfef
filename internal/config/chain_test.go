package config

import "testing"

func TestLoadChainDefaults(t *testing.T) {
	cfg, err := LoadChain()
	if err != nil {
		t.Fatalf("LoadChain() error = %v", err)
	}
	if cfg.Backend != "sim" {
		t.Fatalf("Backend = %q, want sim", cfg.Backend)
	}
	if cfg.ChainID != 42220 {
		t.Fatalf("ChainID = %d, want 42220", cfg.ChainID)
	}
}

func TestLoadChainOverrides(t *testing.T) {
	t.Setenv("CHAIN_BACKEND", "ethereum")
	t.Setenv("CHAIN_ID", "11142220")
	t.Setenv("CHESSFLIP_CONTRACT", "0x4bF16cF1e9C69f6a7C6913AB9e9aefecD77d6a69")

	cfg, err := LoadChain()
	if err != nil {
		t.Fatalf("LoadChain() error = %v", err)
	}
	if cfg.Backend != "ethereum" {
		t.Fatalf("Backend = %q", cfg.Backend)
	}
	if cfg.ChainID != 11142220 {
		t.Fatalf("ChainID = %d, want 11142220", cfg.ChainID)
	}
	if cfg.ContractAddress == "" {
		t.Fatal("ContractAddress not parsed")
	}
}
