package handler

import (
	"errors"
	"math/big"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"storefront-onchain/handler/view"
	"storefront-onchain/model"
	"storefront-onchain/notify"
	"storefront-onchain/usecase/listing"
)

// HomeData はトップページの表示内容
type HomeData struct {
	Listings []*model.Listing
}

// ListingData は出品詳細ページの表示内容
type ListingData struct {
	ListingID       string
	View            *usecase.DetailView
	Bid             string
	BuyProcessing   bool
	OfferProcessing bool
}

type ListingHandler struct {
	listingUC usecase.ListingUsecase
	view      *view.Renderer
}

func NewListingHandler(uc usecase.ListingUsecase, v *view.Renderer) *ListingHandler {
	return &ListingHandler{listingUC: uc, view: v}
}

func parseListingID(r *http.Request) (*big.Int, bool) {
	id, ok := new(big.Int).SetString(mux.Vars(r)["listingId"], 10)
	if !ok || id.Sign() < 0 {
		return nil, false
	}
	return id, true
}

func listingPath(id *big.Int) string {
	return "/listing/" + id.String()
}

// HandleHome は現在有効な出品一覧を表示
func (h *ListingHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listingUC.Home(r.Context())
	if err != nil {
		zap.L().Error("Failed to load listings", zap.Error(err))
		http.Error(w, "failed to load listings", http.StatusBadGateway)
		return
	}
	h.view.Render(w, r, http.StatusOK, "home", "", HomeData{Listings: listings}, nil)
}

// HandleGetListing は出品詳細を表示
func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := parseListingID(r)
	if !ok {
		h.view.NotFound(w, r)
		return
	}

	detail, err := h.listingUC.Detail(r.Context(), id)
	if errors.Is(err, model.ErrListingNotFound) {
		h.view.NotFound(w, r)
		return
	}
	if err != nil {
		zap.L().Error("Failed to load listing", zap.String("listing_id", id.String()), zap.Error(err))
		http.Error(w, "failed to load listing", http.StatusBadGateway)
		return
	}

	h.view.Render(w, r, http.StatusOK, "listing", detail.Listing.Asset.Name, ListingData{
		ListingID:       id.String(),
		View:            detail,
		Bid:             r.URL.Query().Get("bid"),
		BuyProcessing:   h.listingUC.BuyProcessing(),
		OfferProcessing: h.listingUC.OfferProcessing(),
	}, nil)
}

// HandleBuy は即時購入を実行
func (h *ListingHandler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	id, ok := parseListingID(r)
	if !ok {
		h.view.NotFound(w, r)
		return
	}

	rec := notify.NewRecorder()
	result, err := h.listingUC.BuyNow(r.Context(), id, notify.Multi(rec, notify.LogNotifier{Action: "buy"}))
	if err != nil {
		h.abort("buy", id, err)
		h.view.Redirect(w, r, listingPath(id), rec.Notifications())
		return
	}
	h.view.Redirect(w, r, result.Redirect, rec.Notifications())
}

// HandleOffer はオファーまたは入札を送信
func (h *ListingHandler) HandleOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseListingID(r)
	if !ok {
		h.view.NotFound(w, r)
		return
	}
	amount := r.FormValue("amount")

	rec := notify.NewRecorder()
	result, err := h.listingUC.MakeBidOrOffer(r.Context(), id, amount, notify.Multi(rec, notify.LogNotifier{Action: "offer"}))
	if err != nil {
		h.abort("offer", id, err)
		// 入力欄の値は残したまま詳細ページに戻す
		h.view.Redirect(w, r, listingPath(id)+"?bid="+url.QueryEscape(amount), rec.Notifications())
		return
	}

	target := result.Redirect
	if target == "" {
		target = listingPath(id)
	}
	h.view.Redirect(w, r, target, rec.Notifications())
}

// HandleAccept は出品者としてオファーを承認
func (h *ListingHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	id, ok := parseListingID(r)
	if !ok {
		h.view.NotFound(w, r)
		return
	}

	rec := notify.NewRecorder()
	result, err := h.listingUC.AcceptOffer(r.Context(), id, r.FormValue("offeror"), notify.Multi(rec, notify.LogNotifier{Action: "accept_offer"}))
	if err != nil {
		h.abort("accept_offer", id, err)
		h.view.Redirect(w, r, listingPath(id), rec.Notifications())
		return
	}
	h.view.Redirect(w, r, result.Redirect, rec.Notifications())
}

func (h *ListingHandler) abort(action string, id *big.Int, err error) {
	if usecase.IsSilentAbort(err) {
		zap.L().Info("Action aborted", zap.String("action", action), zap.String("listing_id", id.String()), zap.Error(err))
		return
	}
	zap.L().Warn("Action failed", zap.String("action", action), zap.String("listing_id", id.String()), zap.Error(err))
}
