package view

import (
	"bytes"
	"embed"
	"encoding/gob"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"storefront-onchain/gateway/wallet"
	"storefront-onchain/model"
	"storefront-onchain/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionName = "storefront"

// ページ名とテンプレートファイルの対応
var pages = []string{"home", "create", "listing", "notfound", "notimplemented"}

func init() {
	gob.Register(notify.Notification{})
}

// Header は全ページ共通のヘッダー表示
type Header struct {
	Connected      bool
	DisplayAddress string
}

// Page はテンプレートに渡すデータ
type Page struct {
	Title         string
	Header        Header
	Notifications []notify.Notification
	Data          interface{}
}

// Renderer はHTMLテンプレートの描画とフラッシュ通知を担当
type Renderer struct {
	templates map[string]*template.Template
	store     sessions.Store
	session   *wallet.Session
}

func NewRenderer(store sessions.Store, session *wallet.Session) (*Renderer, error) {
	funcs := template.FuncMap{
		"shortAddress": model.ShortAddress,
		"shortOfferor": model.ShortOfferor,
		"formatEther":  model.FormatEther,
		"remaining": func(end time.Time) string {
			d := time.Until(end)
			if d <= 0 {
				return "Ended"
			}
			return d.Truncate(time.Second).String()
		},
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		store:     store,
		session:   session,
	}, nil
}

func (v *Renderer) header() Header {
	display := v.session.DisplayAddress()
	return Header{Connected: display != "", DisplayAddress: display}
}

// Render はフラッシュ通知と notes を合わせてページを描画する
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}, notes []notify.Notification) {
	t, ok := v.templates[name]
	if !ok {
		http.Error(w, "unknown page "+name, http.StatusInternalServerError)
		return
	}

	page := Page{
		Title:         title,
		Header:        v.header(),
		Notifications: append(v.popFlashes(w, r), visible(notes)...),
		Data:          data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		zap.L().Error("Failed to render template", zap.String("page", name), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Redirect は通知をフラッシュに積んでから遷移する
func (v *Renderer) Redirect(w http.ResponseWriter, r *http.Request, url string, notes []notify.Notification) {
	if notes = visible(notes); len(notes) > 0 {
		sess, err := v.store.Get(r, sessionName)
		if err != nil {
			zap.L().Warn("Failed to load session", zap.Error(err))
		}
		for _, n := range notes {
			sess.AddFlash(n)
		}
		if err := sess.Save(r, w); err != nil {
			zap.L().Warn("Failed to save flash", zap.Error(err))
		}
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (v *Renderer) popFlashes(w http.ResponseWriter, r *http.Request) []notify.Notification {
	sess, err := v.store.Get(r, sessionName)
	if err != nil {
		zap.L().Warn("Failed to load session", zap.Error(err))
		return nil
	}
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		zap.L().Warn("Failed to clear flash", zap.Error(err))
	}

	out := make([]notify.Notification, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(notify.Notification); ok {
			out = append(out, n)
		}
	}
	return out
}

// visible は画面に残す通知だけを返す。処理中通知はリクエスト完了時点で意味がないので除く
func visible(notes []notify.Notification) []notify.Notification {
	out := make([]notify.Notification, 0, len(notes))
	for _, n := range notes {
		if n.Kind != notify.KindPending {
			out = append(out, n)
		}
	}
	return out
}

// NotFound は出品が見つからない場合のページ
func (v *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusNotFound, "notfound", "Listing not found", nil, nil)
}
