package solana

import (
	"context"
	"fmt"

	"github.com/foolmeonetime/beanpump-sub002/internal/config"
	"github.com/foolmeonetime/beanpump-sub002/internal/logger"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client 链端客户端，负责成功终结活动时的 V2 代币铸币
type Client struct {
	rpc        *rpc.Client
	payer      solana.PrivateKey
	commitment rpc.CommitmentType
}

func Init(cfg config.SolanaConfig) (*Client, error) {
	payer, err := solana.PrivateKeyFromBase58(cfg.PayerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payer key: %w", err)
	}

	commitment := rpc.CommitmentFinalized
	switch cfg.Commitment {
	case "processed":
		commitment = rpc.CommitmentProcessed
	case "confirmed":
		commitment = rpc.CommitmentConfirmed
	}

	return &Client{
		rpc:        rpc.New(cfg.RpcUrl),
		payer:      payer,
		commitment: commitment,
	}, nil
}

// CreateMint 为指定的所有者发行一个新的 SPL 代币
// 创建租金豁免的 mint 账户并初始化，返回新 mint 的地址
func (c *Client) CreateMint(ctx context.Context, authority string, decimals uint8) (string, error) {
	authorityPub, err := solana.PublicKeyFromBase58(authority)
	if err != nil {
		return "", fmt.Errorf("invalid mint authority: %w", err)
	}

	mint := solana.NewWallet()

	rent, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, token.MINT_SIZE, c.commitment)
	if err != nil {
		return "", fmt.Errorf("failed to fetch rent exemption: %w", err)
	}

	recent, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return "", fmt.Errorf("failed to fetch latest blockhash: %w", err)
	}

	createIx := system.NewCreateAccountInstruction(
		rent,
		token.MINT_SIZE,
		token.ProgramID,
		c.payer.PublicKey(),
		mint.PublicKey(),
	).Build()

	initIx, err := token.NewInitializeMintInstruction(
		decimals,
		authorityPub,
		authorityPub,
		mint.PublicKey(),
		solana.SysVarRentPubkey,
	).ValidateAndBuild()
	if err != nil {
		return "", fmt.Errorf("failed to build initialize mint instruction: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{createIx, initIx},
		recent.Value.Blockhash,
		solana.TransactionPayer(c.payer.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build transaction: %w", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(c.payer.PublicKey()) {
			return &c.payer
		}
		if key.Equals(mint.PublicKey()) {
			pk := mint.PrivateKey
			return &pk
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send mint transaction: %w", err)
	}

	logger.Info("Created V2 mint %s for authority %s, tx: %s",
		mint.PublicKey().String(), authority, sig.String())
	return mint.PublicKey().String(), nil
}
