package main

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"chessflip/internal/app/match"
	"chessflip/internal/app/player"
	"chessflip/internal/chain"
	"chessflip/internal/config"
	"chessflip/internal/logging"
	"chessflip/internal/orchestrator"
	"chessflip/internal/store"
)

// simAccount is the wallet used when no key is configured and the sim
// backend is active.
var simAccount = common.HexToAddress("0x000000000000000000000000000000000000C0DE")

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)
	defer logging.Close()

	ctx := context.Background()

	backend, err := newBackend(ctx, cfg.Chain)
	if err != nil {
		log.Fatal().Err(err).Msg("chain backend init failed")
	}

	var claims orchestrator.ClaimStore
	var history match.HistoryStore
	var ping func(context.Context) error
	if cfg.Server.PostgresDSN != "" {
		st, err := store.New(cfg.Server.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		if err := st.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		defer st.Close()
		claims, history, ping = st, st, st.Ping
	} else {
		mem := store.NewMemory()
		claims, history = mem, mem
		log.Warn().Msg("no POSTGRES_DSN, claims and history are in-memory only")
	}

	guard := chain.NewGuard(cfg.Chain.ChainID)
	orch := orchestrator.New(backend, guard, claims)
	players := player.NewService(backend, orch)
	matches := match.NewCoordinator(orch, history,
		cfg.Server.Pairs, cfg.Server.Lives,
		time.Duration(cfg.Server.RevealDelayMS)*time.Millisecond)

	// A result submitted before a crash may still be waiting for its claim.
	if gameID, err := orch.RecoverPending(ctx); err == nil {
		log.Info().Str("game_id", gameID.String()).Msg("unclaimed game found on startup")
	}

	r := newRouter(cfg.Server, orch, players, matches, ping)
	logRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().
		Str("addr", cfg.Server.HTTPAddr).
		Str("backend", cfg.Chain.Backend).
		Str("account", backend.Account().Hex()).
		Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

func newBackend(ctx context.Context, cfg config.ChainConfig) (chain.Backend, error) {
	switch cfg.Backend {
	case "sim", "":
		account := simAccount
		if cfg.PrivateKey != "" {
			key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
			if err != nil {
				return nil, fmt.Errorf("parse wallet key: %w", err)
			}
			account = crypto.PubkeyToAddress(key.PublicKey)
		}
		return chain.NewSim(cfg.ChainID, account), nil
	case "ethereum":
		if cfg.PrivateKey == "" {
			return nil, fmt.Errorf("WALLET_PRIVATE_KEY is required for the ethereum backend")
		}
		if cfg.ContractAddress == "" || cfg.TokenAddress == "" {
			return nil, fmt.Errorf("CHESSFLIP_CONTRACT and CUSD_TOKEN are required for the ethereum backend")
		}
		return chain.NewEthBackend(ctx, cfg.RPCURL, cfg.PrivateKey,
			common.HexToAddress(cfg.ContractAddress), common.HexToAddress(cfg.TokenAddress))
	default:
		return nil, fmt.Errorf("unknown chain backend %q", cfg.Backend)
	}
}

func newRouter(cfg config.ServerConfig, orch *orchestrator.Orchestrator, players *player.Service, matches *match.Coordinator, ping func(context.Context) error) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/healthz", healthHandler(ping))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Use(bodyCaptureMiddleware(0))

		r.Get("/profile", profileHandler(players))
		r.Post("/register", registerHandler(players))

		r.Post("/match/start", matchStartHandler(matches))
		r.Get("/match/state", matchStateHandler(matches))
		r.Post("/match/flip", matchFlipHandler(matches))
		r.Post("/match/surrender", matchSurrenderHandler(matches))
		r.Post("/match/submit/retry", submitRetryHandler(matches))

		r.Post("/claim", claimHandler(orch))
		r.Get("/transactions", transactionsHandler(orch))
		r.Get("/history", historyHandler(matches, cfg.HistoryPageSize))
	})

	return r
}

func logRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
