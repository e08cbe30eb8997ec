package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/tradesim/venue-sim/pkg/logging"
	"github.com/tradesim/venue-sim/pkg/orderbook"
	"github.com/tradesim/venue-sim/pkg/venue"
	"github.com/tradesim/venue-sim/pkg/venue/model"
)

// Server exposes the venue over REST: order submission plus read-only book
// and trade views.
type Server struct {
	venue  *venue.Venue
	router *mux.Router
	log    *logging.Logger

	httpServer *http.Server
}

func NewServer(v *venue.Venue, log *logging.Logger) *Server {
	s := &Server{
		venue:  v,
		router: mux.NewRouter(),
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/markets", s.handleGetMarkets).Methods("GET")
	api.HandleFunc("/markets/{symbol}/book", s.handleGetBook).Methods("GET")
	api.HandleFunc("/markets/{symbol}/trades", s.handleGetTrades).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(s.router)
}

func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.log.Info(context.Background(), "http server starting", zap.String("addr", addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}

	var side model.OrderSide
	switch req.Side {
	case string(model.OrderSideBuy):
		side = model.OrderSideBuy
	case string(model.OrderSideSell):
		side = model.OrderSideSell
	default:
		respondError(w, http.StatusBadRequest, "invalid side", "expected BUY or SELL")
		return
	}

	err := s.venue.SubmitOrder(r.Context(), &model.SubmitOrder{
		ClOrdID:      req.ClOrdID,
		Account:      req.Account,
		Symbol:       req.Symbol,
		Side:         side,
		Price:        req.Price,
		Quantity:     req.Quantity,
		TransactTime: time.Now(),
	})
	switch {
	case errors.Is(err, venue.ErrDuplicateOrder):
		respondError(w, http.StatusConflict, "duplicate order", err.Error())
		return
	case errors.Is(err, venue.ErrOrderRejected):
		respondError(w, http.StatusUnprocessableEntity, "order rejected", err.Error())
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "submit failed", err.Error())
		return
	}

	respondJSON(w, SubmitOrderResponse{ClOrdID: req.ClOrdID, Status: "accepted"})
}

func (s *Server) handleGetMarkets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.venue.Books().Symbols())
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	book, ok := s.venue.Books().Book(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown symbol", symbol)
		return
	}

	respondJSON(w, BookSnapshot{
		Symbol:    symbol,
		Bids:      toPriceLevels(book.BuyLevels()),
		Asks:      toPriceLevels(book.SellLevels()),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	book, ok := s.venue.Books().Book(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown symbol", symbol)
		return
	}

	trades := book.Trades()
	response := make([]TradeInfo, len(trades))
	for i, t := range trades {
		response[i] = TradeInfo{
			Symbol:      t.Symbol,
			BuyOrderID:  t.BuyOrderID,
			SellOrderID: t.SellOrderID,
			Price:       t.Price,
			Qty:         t.Qty,
			SettledAt:   t.SettledAt,
		}
	}
	respondJSON(w, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func toPriceLevels(levels []orderbook.Level) []PriceLevel {
	out := make([]PriceLevel, len(levels))
	for i, lv := range levels {
		var qty int64
		for _, o := range lv.Orders {
			qty += o.Qty
		}
		out[i] = PriceLevel{Price: lv.Price, Qty: qty, Orders: len(lv.Orders)}
	}
	return out
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data) // nolint
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{ // nolint
		Error:   error,
		Message: message,
	})
}
