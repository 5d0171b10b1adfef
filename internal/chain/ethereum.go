package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"
)

// EthBackend talks to the deployed ChessFlip contract and its fee token
// over a JSON-RPC endpoint, signing with a single configured key.
type EthBackend struct {
	client   *ethclient.Client
	flip     abi.ABI
	erc20    abi.ABI
	key      *ecdsa.PrivateKey
	from     common.Address
	contract common.Address
	token    common.Address
}

func NewEthBackend(ctx context.Context, rpcURL, privateKeyHex string, contract, token common.Address) (*EthBackend, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse wallet key: %w", err)
	}
	flipABI, err := abi.JSON(strings.NewReader(chessFlipABI))
	if err != nil {
		return nil, err
	}
	tokenABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, err
	}
	return &EthBackend{
		client:   client,
		flip:     flipABI,
		erc20:    tokenABI,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		contract: contract,
		token:    token,
	}, nil
}

func (b *EthBackend) Account() common.Address { return b.from }

func (b *EthBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return b.client.ChainID(ctx)
}

func (b *EthBackend) call(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...any) ([]any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	res, err := b.client.CallContract(ctx, ethereum.CallMsg{From: b.from, To: &to, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	return contractABI.Unpack(method, res)
}

func (b *EthBackend) GetPlayer(ctx context.Context, account common.Address) (Player, error) {
	out, err := b.call(ctx, b.contract, b.flip, "getPlayer", account)
	if err != nil {
		return Player{}, err
	}
	raw := *abi.ConvertType(out[0], new(struct {
		Username        string
		TotalPoints     uint64
		TotalGames      uint32
		Wins            uint32
		Losses          uint32
		UnclaimedPoints uint64
		Registered      bool
	})).(*struct {
		Username        string
		TotalPoints     uint64
		TotalGames      uint32
		Wins            uint32
		Losses          uint32
		UnclaimedPoints uint64
		Registered      bool
	})
	return Player(raw), nil
}

func (b *EthBackend) GetGame(ctx context.Context, gameID *big.Int) (Game, error) {
	out, err := b.call(ctx, b.contract, b.flip, "getGame", gameID)
	if err != nil {
		return Game{}, err
	}
	raw := *abi.ConvertType(out[0], new(struct {
		Id             *big.Int
		Player         common.Address
		Outcome        uint8
		MatchedPairs   uint8
		LivesRemaining uint8
		CreatedAt      uint64
		UpdatedAt      uint64
		PointsAwarded  uint64
		Claimed        bool
	})).(*struct {
		Id             *big.Int
		Player         common.Address
		Outcome        uint8
		MatchedPairs   uint8
		LivesRemaining uint8
		CreatedAt      uint64
		UpdatedAt      uint64
		PointsAwarded  uint64
		Claimed        bool
	})
	return Game{
		ID:             raw.Id,
		Player:         raw.Player,
		Outcome:        Outcome(raw.Outcome),
		MatchedPairs:   raw.MatchedPairs,
		LivesRemaining: raw.LivesRemaining,
		CreatedAt:      raw.CreatedAt,
		UpdatedAt:      raw.UpdatedAt,
		PointsAwarded:  raw.PointsAwarded,
		Claimed:        raw.Claimed,
	}, nil
}

func (b *EthBackend) Allowance(ctx context.Context) (*big.Int, error) {
	out, err := b.call(ctx, b.token, b.erc20, "allowance", b.from, b.contract)
	if err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

func (b *EthBackend) FindUnclaimedGame(ctx context.Context) (*big.Int, error) {
	ev := b.flip.Events["GameResultSubmitted"]
	logs, err := b.client.FilterLogs(ctx, ethereum.FilterQuery{
		Addresses: []common.Address{b.contract},
		Topics: [][]common.Hash{
			{ev.ID},
			nil,
			{common.BytesToHash(b.from.Bytes())},
		},
	})
	if err != nil {
		return nil, err
	}
	// Newest submission first.
	for i := len(logs) - 1; i >= 0; i-- {
		gameID := new(big.Int).SetBytes(logs[i].Topics[1].Bytes())
		g, err := b.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if g.Outcome != OutcomePending && !g.Claimed {
			return gameID, nil
		}
	}
	return nil, ErrNoUnclaimedGame
}

func (b *EthBackend) RegisterPlayer(ctx context.Context, username string) (PendingTx, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	return b.send(ctx, b.contract, b.flip, "registerPlayer", username)
}

func (b *EthBackend) Approve(ctx context.Context, amount *big.Int) (PendingTx, error) {
	return b.send(ctx, b.token, b.erc20, "approve", b.contract, amount)
}

func (b *EthBackend) StartGame(ctx context.Context) (PendingTx, error) {
	tx, err := b.send(ctx, b.contract, b.flip, "startGame")
	if err != nil {
		return nil, err
	}
	tx.decodeStart = true
	return tx, nil
}

func (b *EthBackend) SubmitGameResult(ctx context.Context, gameID *big.Int, outcome Outcome, matchedPairs, livesRemaining uint8) (PendingTx, error) {
	return b.send(ctx, b.contract, b.flip, "submitGameResult", gameID, uint8(outcome), matchedPairs, livesRemaining)
}

func (b *EthBackend) ClaimPoints(ctx context.Context, gameID *big.Int) (PendingTx, error) {
	return b.send(ctx, b.contract, b.flip, "claimPoints", gameID)
}

func (b *EthBackend) send(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...any) (*ethTx, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	nonce, err := b.client.PendingNonceAt(ctx, b.from)
	if err != nil {
		return nil, err
	}
	gas, err := b.client.EstimateGas(ctx, ethereum.CallMsg{From: b.from, To: &to, Data: data})
	if err != nil {
		// Estimation replays the call, so contract reverts surface here
		// before any gas is spent.
		return nil, mapRevertError(err)
	}
	tipCap, err := b.client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}
	head, err := b.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}
	feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	chainID, err := b.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := types.SignNewTx(b.key, types.LatestSignerForChainID(chainID), &types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Data:      data,
	})
	if err != nil {
		return nil, err
	}
	if err := b.client.SendTransaction(ctx, tx); err != nil {
		return nil, err
	}
	log.Debug().Str("method", method).Str("tx", tx.Hash().Hex()).Msg("transaction broadcast")
	return &ethTx{backend: b, tx: tx}, nil
}

type ethTx struct {
	backend     *EthBackend
	tx          *types.Transaction
	decodeStart bool
}

func (t *ethTx) Hash() common.Hash { return t.tx.Hash() }

func (t *ethTx) Wait(ctx context.Context) (*Receipt, error) {
	mined, err := bind.WaitMined(ctx, t.backend.client, t.tx)
	if err != nil {
		return nil, err
	}
	out := &Receipt{TxHash: mined.TxHash, Reverted: mined.Status == types.ReceiptStatusFailed}
	if t.decodeStart && !out.Reverted {
		startedID := t.backend.flip.Events["GameStarted"].ID
		for _, lg := range mined.Logs {
			if lg.Address == t.backend.contract && len(lg.Topics) > 1 && lg.Topics[0] == startedID {
				out.GameID = new(big.Int).SetBytes(lg.Topics[1].Bytes())
				break
			}
		}
	}
	return out, nil
}

// mapRevertError turns recognizable revert strings from gas estimation into
// sentinel errors; anything else passes through for generic surfacing.
func mapRevertError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "usernametaken"), strings.Contains(msg, "username taken"):
		return ErrUsernameTaken
	case strings.Contains(msg, "alreadyregistered"):
		return ErrAlreadyRegistered
	case strings.Contains(msg, "notregistered"):
		return ErrNotRegistered
	case strings.Contains(msg, "alreadysubmitted"), strings.Contains(msg, "already submitted"):
		return ErrAlreadySubmitted
	case strings.Contains(msg, "alreadyclaimed"):
		return ErrAlreadyClaimed
	case strings.Contains(msg, "insufficient allowance"), strings.Contains(msg, "transfer amount exceeds allowance"):
		return ErrInsufficientFunds
	default:
		return err
	}
}
