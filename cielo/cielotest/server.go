// Package cielotest provides an in-process stand-in for the Cielo web
// service. It decodes request documents with the protocol schemas and
// answers with documents produced by per-request handlers.
package cielotest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/cielo"
	"github.com/reoring/xmlskema/dispatch"
	"github.com/reoring/xmlskema/middleware"
	"github.com/reoring/xmlskema/xmldoc"
)

// CodeInvalidMessage is the erro code answered for documents that do not
// decode.
const CodeInvalidMessage = 1

// Handler answers one decoded request with a response schema and appstruct.
type Handler func(ctx context.Context, req *xmlskema.Object) (*xmlskema.Node, any)

// Server records requests and answers them with the handler registered for
// their root element.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	requests []Request
	log      logrus.FieldLogger
}

// Request is one decoded request.
type Request struct {
	Root   string
	Object *xmlskema.Object
}

// NewServer starts a server answering every request with an authorized
// transaction built from the request until Handle replaces it.
func NewServer() *Server {
	s := &Server{handlers: map[string]Handler{}, log: logrus.StandardLogger()}
	reg := dispatch.MustNew(
		dispatch.WithSchema(cielo.TransactionRequest(), nil),
		dispatch.WithSchema(cielo.Query(), nil),
		dispatch.WithSchema(cielo.OrderQuery(), nil),
		dispatch.WithSchema(cielo.CaptureRequest(), nil),
		dispatch.WithSchema(cielo.CancelRequest(), nil),
	)
	mw := middleware.DecodeForm(reg, "mensagem", s.invalid)
	s.Server = httptest.NewServer(mw(http.HandlerFunc(s.serve)))
	return s
}

// Handle replaces the handler of requests with the given root element.
func (s *Server) Handle(root string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[root] = h
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	root, _ := middleware.RootFromContext(r.Context())
	obj, _ := middleware.ObjectFromContext(r.Context())

	s.mu.Lock()
	s.requests = append(s.requests, Request{Root: root, Object: obj})
	h := s.handlers[root]
	s.mu.Unlock()
	if h == nil {
		h = Authorized
	}
	n, v := h(r.Context(), obj)
	s.reply(w, r, http.StatusOK, n, v)
}

func (s *Server) invalid(w http.ResponseWriter, r *http.Request, err error) {
	msg := err.Error()
	if iss, ok := xmlskema.AsIssues(err); ok {
		p := middleware.ErrorPayload(iss)
		msg = fmt.Sprintf("mensagem invalida: %v em %v (%v)", p["code"], p["path"], p["count"])
	}
	s.log.WithError(err).Debug("rejecting request document")
	s.reply(w, r, http.StatusOK, cielo.Error(), Error(CodeInvalidMessage, msg))
}

func (s *Server) reply(w http.ResponseWriter, r *http.Request, status int, n *xmlskema.Node, v any) {
	body, err := xmldoc.Encode(r.Context(), n, v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=ISO-8859-1")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// queryTime stamps the orders of query answers.
var queryTime = time.Date(2012, 8, 11, 8, 48, 23, 0, time.UTC)

// Error returns the appstruct of an erro document.
func Error(code int64, message string) *xmlskema.Object {
	return xmlskema.NewObject().Set("code", code).Set("message", message)
}

// Reply returns a handler answering with a fixed document.
func Reply(n *xmlskema.Node, v any) Handler {
	return func(context.Context, *xmlskema.Object) (*xmlskema.Node, any) { return n, v }
}

// Authorized answers with a captured transaction echoing the request order
// and payment, or a bare created transaction for queries.
func Authorized(_ context.Context, req *xmlskema.Object) (*xmlskema.Node, any) {
	tx := xmlskema.NewObject().
		Set("id", req.String("id")).
		Set("version", req.String("version")).
		Set("tid", "10069930690000000001")
	order := req.Object("order")
	if order == nil {
		number := req.String("order_number")
		if number == "" {
			number = "1"
		}
		order = cielo.Order{Number: number, Currency: cielo.DefaultCurrency}.Object()
		order.Set("value", 1).Set("datetime", queryTime)
	}
	pay := req.Object("payment")
	if pay == nil {
		pay = cielo.Payment{Brand: cielo.Visa, Product: cielo.CreditInFull, Installments: 1}.Object()
	}
	status := cielo.StatusCreated
	if req.Has("authorize") {
		status = cielo.StatusAuthorized
		if req.Bool("capture") {
			status = cielo.StatusCaptured
		}
	}
	return cielo.Transaction(), tx.
		Set("order", order).
		Set("payment", pay).
		Set("status", int64(status)).
		Set("pan", "uv9yI5tkhX9jpuCt+dfrtoSVM4U3gIjvrcwMBfZcadE=")
}
