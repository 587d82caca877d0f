package usecase

import (
	"context"

	"go.uber.org/zap"

	"storefront-onchain/gateway/wallet"
	"storefront-onchain/notify"
)

// WalletUsecase はウォレット接続の操作を担当
type WalletUsecase interface {
	// Connect はウォレットを接続し、失敗時はエラー通知を1回出す
	Connect(ctx context.Context, n notify.Notifier) error

	// Disconnect はウォレットを切断
	Disconnect()

	Session() *wallet.Session
}

type walletUsecase struct {
	session *wallet.Session
}

func NewWalletUsecase(session *wallet.Session) *walletUsecase {
	return &walletUsecase{session: session}
}

func (uc *walletUsecase) Session() *wallet.Session {
	return uc.session
}

func (uc *walletUsecase) Connect(ctx context.Context, n notify.Notifier) error {
	if _, err := uc.session.Provider().Connect(ctx); err != nil {
		zap.L().Warn("Failed to connect wallet", zap.Error(err))
		n.Notify(notify.Notification{Kind: notify.KindError, Message: "Could not connect wallet."})
		return err
	}
	return nil
}

func (uc *walletUsecase) Disconnect() {
	uc.session.Provider().Disconnect()
}
