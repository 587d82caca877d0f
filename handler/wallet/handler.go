package handler

import (
	"net/http"
	"net/url"

	"storefront-onchain/handler/view"
	"storefront-onchain/notify"
	"storefront-onchain/usecase/wallet"
)

type WalletHandler struct {
	walletUC usecase.WalletUsecase
	view     *view.Renderer
}

func NewWalletHandler(uc usecase.WalletUsecase, v *view.Renderer) *WalletHandler {
	return &WalletHandler{walletUC: uc, view: v}
}

// backTo は同一オリジンの Referer のパスに戻す
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// HandleConnect はウォレットを接続
func (h *WalletHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	rec := notify.NewRecorder()
	// 失敗はエラー通知として表示する
	_ = h.walletUC.Connect(r.Context(), notify.Multi(rec, notify.LogNotifier{Action: "wallet_connect"}))
	h.view.Redirect(w, r, backTo(r), rec.Notifications())
}

// HandleDisconnect はウォレットを切断
func (h *WalletHandler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	h.walletUC.Disconnect()
	h.view.Redirect(w, r, backTo(r), nil)
}
