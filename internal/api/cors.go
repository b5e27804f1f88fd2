package api

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// corsPolicy answers cross-origin requests for the status dashboard. Origins
// come from a comma-separated list; "*" allows any.
type corsPolicy struct {
	origins []string
	any     bool
	methods string
	headers string
	maxAge  string
}

func newCORSPolicy(origins string) *corsPolicy {
	p := &corsPolicy{
		methods: strings.Join([]string{http.MethodGet, http.MethodPut, http.MethodOptions}, ", "),
		headers: "Content-Type, Authorization, Accept, Origin",
		maxAge:  strconv.Itoa(86400),
	}
	for o := range strings.SplitSeq(origins, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			p.any = true
		default:
			p.origins = append(p.origins, o)
		}
	}
	if len(p.origins) == 0 {
		p.any = true
	}
	return p
}

// allowOrigin picks the Access-Control-Allow-Origin value for a request, or
// "" when the origin is not allowed.
func (p *corsPolicy) allowOrigin(requestOrigin string) string {
	switch {
	case p.any:
		return "*"
	case requestOrigin == "" && len(p.origins) == 1:
		return p.origins[0]
	case slices.Contains(p.origins, requestOrigin):
		return requestOrigin
	}
	return ""
}

func (p *corsPolicy) apply(set func(name, value string), requestOrigin string) {
	origin := p.allowOrigin(requestOrigin)
	if origin == "" {
		return
	}
	set("Access-Control-Allow-Origin", origin)
	if !p.any {
		set("Vary", "Origin")
	}
	set("Access-Control-Allow-Methods", p.methods)
	set("Access-Control-Allow-Headers", p.headers)
	set("Access-Control-Max-Age", p.maxAge)
}

// middleware decorates every huma response.
func (p *corsPolicy) middleware(ctx huma.Context, next func(huma.Context)) {
	p.apply(ctx.SetHeader, ctx.Header("Origin"))
	if ctx.Method() == http.MethodOptions {
		ctx.SetStatus(http.StatusNoContent)
		return
	}
	next(ctx)
}

// preflight answers OPTIONS on the mux; huma routes never see it.
func (p *corsPolicy) preflight(w http.ResponseWriter, r *http.Request) {
	p.apply(w.Header().Set, r.Header.Get("Origin"))
	w.WriteHeader(http.StatusNoContent)
}
