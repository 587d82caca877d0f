package handler

import (
	"errors"
	"math/big"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storefront-onchain/gateway/wallet"
	"storefront-onchain/handler/view"
	"storefront-onchain/model"
	"storefront-onchain/notify"
	"storefront-onchain/usecase/create"
)

// CreateData は出品フォームの表示内容
type CreateData struct {
	Connected  bool
	NFTs       []*model.OwnedNFT
	Selected   string
	Kind       string
	Price      string
	Processing bool
}

type CreateHandler struct {
	createUC usecase.CreateUsecase
	session  *wallet.Session
	view     *view.Renderer
}

func NewCreateHandler(uc usecase.CreateUsecase, session *wallet.Session, v *view.Renderer) *CreateHandler {
	return &CreateHandler{createUC: uc, session: session, view: v}
}

func (h *CreateHandler) render(w http.ResponseWriter, r *http.Request, data CreateData, notes []notify.Notification) {
	nfts, err := h.createUC.Page(r.Context())
	if err != nil {
		zap.L().Error("Failed to load owned NFTs", zap.Error(err))
		http.Error(w, "failed to load owned NFTs", http.StatusBadGateway)
		return
	}

	_, data.Connected = h.session.Address()
	data.NFTs = nfts
	data.Processing = h.createUC.Processing()
	h.view.Render(w, r, http.StatusOK, "create", "List an Item", data, notes)
}

// HandleCreatePage は保有NFTと出品フォームを表示
func (h *CreateHandler) HandleCreatePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, CreateData{Kind: "directListing"}, nil)
}

// HandleCreateListing は出品を作成
func (h *CreateHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := CreateData{
		Selected: strings.TrimSpace(r.PostFormValue("tokenId")),
		Kind:     r.PostFormValue("listingType"),
		Price:    r.PostFormValue("price"),
	}

	input := usecase.CreateListingInput{Kind: form.Kind, Price: form.Price}
	if form.Selected != "" {
		tokenID, ok := new(big.Int).SetString(form.Selected, 10)
		if !ok {
			http.Error(w, "Invalid token ID", http.StatusBadRequest)
			return
		}
		input.TokenID = tokenID
	}

	rec := notify.NewRecorder()
	result, err := h.createUC.CreateListing(r.Context(), input, notify.Multi(rec, notify.LogNotifier{Action: "create_listing"}))
	switch {
	case err == nil:
		h.view.Redirect(w, r, result.Redirect, rec.Notifications())
	case errors.Is(err, model.ErrNoSelection),
		errors.Is(err, model.ErrNetworkMismatch),
		errors.Is(err, model.ErrActionInProgress),
		errors.Is(err, model.ErrUnsupportedAction):
		zap.L().Info("Create listing aborted", zap.Error(err))
		h.render(w, r, form, nil)
	default:
		// 失敗時はフォームを開いたまま再送信できるようにする
		h.render(w, r, form, rec.Notifications())
	}
}

// HandleAddItem はまだ提供していない在庫追加ページ
func (h *CreateHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusNotImplemented, "notimplemented", "Add to inventory", nil, nil)
}
