package config

import "github.com/caarlos0/env/v11"

type ChainConfig struct {
	// Backend selects how transactions reach the contract: "sim" keeps
	// everything in process, "ethereum" talks JSON-RPC.
	Backend string `env:"CHAIN_BACKEND" envDefault:"sim"`

	RPCURL  string `env:"CHAIN_RPC_URL" envDefault:"https://forno.celo.org"`
	ChainID uint64 `env:"CHAIN_ID" envDefault:"42220"`

	ContractAddress string `env:"CHESSFLIP_CONTRACT"`
	TokenAddress    string `env:"CUSD_TOKEN"`

	// Hex-encoded secp256k1 key of the playing wallet. Required for the
	// ethereum backend, ignored by sim.
	PrivateKey string `env:"WALLET_PRIVATE_KEY"`
}

func LoadChain() (ChainConfig, error) {
	var cfg ChainConfig
	err := env.Parse(&cfg)
	return cfg, err
}
