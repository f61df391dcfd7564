/*
Package main provides a toy example use of relay's http stack,
focusing on the basics of:

(1) constructing a default Ranger;
(2) binding routes to resp.HandlerFunc handlers;
(3) building responses on the request's resp.Scope;
(4) and the use of resp.Fn functional options for declaring
	how the response is formed.
*/
package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/http/router"
	"github.com/xy-planning-network/relay/ranger"
)

var errNoName = errors.New("name is required")

// A widget shows how struct fields serialize in declaration order.
type widget struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags,omitempty"`
	Price float64  `json:"price"`
}

// RangerHandler wraps a configured *ranger.Ranger.
// The methods attached to it are the handlers the Router
// will direct requests to.
type RangerHandler struct {
	*ranger.Ranger

	widgets []widget
}

// root answers with a JSON object keeping its keys in insertion order.
func (h *RangerHandler) root(s *resp.Scope, _ *http.Request) error {
	om := orderedmap.New[string, any]()
	om.Set("wow", "so data")
	om.Set("sick", "such data")
	om.Set("ooh", "dataaaa")

	return s.Json(om)
}

// list answers with every widget as JSON or, when asked, XML.
func (h *RangerHandler) list(s *resp.Scope, r *http.Request) error {
	if strings.Contains(r.Header.Get("Accept"), "xml") {
		return s.Xml(h.widgets, "widgets")
	}

	return s.Json(h.widgets)
}

// create adds a widget named by the "name" query parameter,
// redirecting to the list of widgets.
func (h *RangerHandler) create(s *resp.Scope, r *http.Request) error {
	name := r.URL.Query().Get("name")
	if name == "" {
		return resp.NewStatusError(http.StatusBadRequest, errNoName)
	}

	h.widgets = append(h.widgets, widget{ID: len(h.widgets) + 1, Name: name})
	return s.Update(
		resp.SetCookie(&http.Cookie{Name: "last-widget", Value: name, Path: "/"}),
		resp.Redirect(s.Base(), "/widgets", http.StatusSeeOther),
	)
}

// export streams every widget as a CSV attachment.
func (h *RangerHandler) export(s *resp.Scope, _ *http.Request) error {
	b := new(strings.Builder)
	b.WriteString("id,name\n")
	for _, w := range h.widgets {
		fmt.Fprintf(b, "%d,%s\n", w.ID, w.Name)
	}

	return s.Update(resp.Download(strings.NewReader(b.String()), "widgets.csv"))
}

// ping answers with plain text, bypassing the current Response's serializers.
func (h *RangerHandler) ping(s *resp.Scope, _ *http.Request) error {
	s.Raw("pong " + time.Now().UTC().Format(time.RFC3339))
	return nil
}

// broken cannot respond since it always errors.
func (h *RangerHandler) broken(*resp.Scope, *http.Request) error {
	return errors.New("this handler is broken")
}

// routes binds paths and handlers to one another.
func (h *RangerHandler) routes() []router.Route {
	return []router.Route{
		{Path: "/", Method: http.MethodGet, Handler: h.root},
		{Path: "/broken", Method: http.MethodGet, Handler: h.broken},
		{Path: "/ping", Method: http.MethodGet, Handler: h.ping},
		{Path: "/widgets", Method: http.MethodGet, Handler: h.list},
		{Path: "/widgets.csv", Method: http.MethodGet, Handler: h.export},
		{
			Path:        "/widgets",
			Method:      http.MethodPost,
			Handler:     h.create,
			Middlewares: []middleware.Adapter{h.Idempotent()},
		},
	}
}

// newHandler constructs a *RangerHandler from a Ranger configured by opts,
// with its routes registered.
func newHandler(opts ...ranger.RangerOption) (*RangerHandler, error) {
	rng, err := ranger.New(opts...)
	if err != nil {
		return nil, err
	}

	h := &RangerHandler{Ranger: rng, widgets: []widget{{ID: 1, Name: "sprocket", Tags: []string{"metal"}, Price: 9.5}}}
	rng.HandleRoutes(h.routes())

	return h, nil
}

func main() {
	// construct a Ranger using all defaults.
	h, err := newHandler()
	if err != nil {
		fmt.Println(err)
		return
	}

	// start the web server until receiving a signal to stop.
	if err := h.Guide(); err != nil {
		fmt.Println(err)
		return
	}
}
