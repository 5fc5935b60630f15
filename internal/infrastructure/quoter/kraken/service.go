package krakenquoter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
	"github.com/invisible-transfer/invisible-daemon/internal/infrastructure/quoter"
)

const (
	name = "kraken"

	// KrakenWebSocketURL is the default url to open a connection with kraken.
	KrakenWebSocketURL = "wss://ws.kraken.com"

	reconnectDelay    = 2 * time.Second
	maxReconnectTries = 5
)

var one = decimal.NewFromInt(1)

type service struct {
	url         string
	pairs       []string
	priceImpact decimal.Decimal
	hookAddress string

	conn              *websocket.Conn
	connLock          *sync.Mutex
	lock              *sync.RWMutex
	latestPriceByPair map[string]decimal.Decimal
	quitChan          chan struct{}
	closeOnce         *sync.Once
}

// NewQuoter opens a connection with the kraken websocket at url, subscribes
// to the ticker of the given pairs (ie. ETH/USD) and starts listening for
// price updates in background.
func NewQuoter(
	url string, pairs []string, priceImpact decimal.Decimal,
	hookAddress string,
) (ports.Quoter, error) {
	if len(url) <= 0 {
		url = KrakenWebSocketURL
	}
	if len(pairs) <= 0 {
		return nil, fmt.Errorf("missing pairs to subscribe to")
	}
	if priceImpact.IsNegative() || priceImpact.GreaterThanOrEqual(one) {
		return nil, fmt.Errorf("price impact must be in range [0, 1)")
	}

	normalizedPairs := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		normalizedPairs = append(
			normalizedPairs, strings.ToUpper(strings.TrimSpace(pair)),
		)
	}

	conn, err := connectAndSubscribe(url, normalizedPairs)
	if err != nil {
		return nil, err
	}

	svc := &service{
		url:               url,
		pairs:             normalizedPairs,
		priceImpact:       priceImpact,
		hookAddress:       hookAddress,
		conn:              conn,
		connLock:          &sync.Mutex{},
		lock:              &sync.RWMutex{},
		latestPriceByPair: make(map[string]decimal.Decimal),
		quitChan:          make(chan struct{}),
		closeOnce:         &sync.Once{},
	}

	go func() {
		if err := svc.listen(); err != nil {
			log.WithError(err).Warn("kraken quoter: stopped listening for prices")
			svc.resetPrices()
		}
	}()

	return svc, nil
}

func (s *service) Name() string {
	return name
}

// Quote prices the swap with the latest ticker price of either TokenIn/TokenOut
// or its inverse pair.
func (s *service) Quote(
	_ context.Context, req ports.QuoteRequest,
) (*ports.Quote, error) {
	price, err := s.priceFor(req.TokenIn, req.TokenOut)
	if err != nil {
		return nil, err
	}

	amountIn := quoter.ToBaseUnits(req.AmountIn, req.DecimalsIn)
	amountOut := amountIn.Mul(price).Mul(one.Sub(s.priceImpact)).Floor()

	return &ports.Quote{
		TokenIn:            req.TokenIn,
		TokenOut:           req.TokenOut,
		AmountIn:           amountIn,
		AmountOutEstimated: amountOut,
		PriceImpact:        quoter.PriceImpactPercent(s.priceImpact),
		GasEstimated:       quoter.EstimateGas(s.hookAddress),
		Route:              quoter.Route(req.TokenIn, req.TokenOut),
	}, nil
}

func (s *service) Close() {
	s.closeOnce.Do(func() {
		close(s.quitChan)

		s.connLock.Lock()
		defer s.connLock.Unlock()
		if err := s.conn.Close(); err != nil {
			log.WithError(err).Debug("kraken quoter: cannot close connection")
		}
	})
}

func (s *service) priceFor(tokenIn, tokenOut string) (decimal.Decimal, error) {
	direct := pairTicker(tokenIn, tokenOut)
	inverse := pairTicker(tokenOut, tokenIn)

	isSupported := false
	for _, pair := range s.pairs {
		if pair == direct || pair == inverse {
			isSupported = true
			break
		}
	}
	if !isSupported {
		return decimal.Zero, ports.ErrUnsupportedPair
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	if price, ok := s.latestPriceByPair[direct]; ok {
		return price, nil
	}
	if price, ok := s.latestPriceByPair[inverse]; ok && !price.IsZero() {
		return one.DivRound(price, 18), nil
	}
	return decimal.Zero, ports.ErrPriceUnavailable
}

// listen reads ticker messages until the quoter is closed. A dropped
// connection is re-established up to maxReconnectTries times in a row.
func (s *service) listen() error {
	failures := 0
	for {
		s.connLock.Lock()
		conn := s.conn
		s.connLock.Unlock()

		_, message, err := conn.ReadMessage()
		if err == nil {
			failures = 0
			s.handleMessage(message)
			continue
		}

		if s.isClosed() {
			return nil
		}

		failures++
		if failures > maxReconnectTries {
			return err
		}
		log.WithError(err).Warn(
			"kraken quoter: connection dropped unexpectedly, reconnecting...",
		)

		select {
		case <-s.quitChan:
			return nil
		case <-time.After(reconnectDelay):
		}

		newConn, err := connectAndSubscribe(s.url, s.pairs)
		if err != nil {
			log.WithError(err).Warn("kraken quoter: cannot reconnect")
			continue
		}

		s.connLock.Lock()
		if s.isClosed() {
			s.connLock.Unlock()
			newConn.Close()
			return nil
		}
		s.conn = newConn
		s.connLock.Unlock()
		log.Debug("kraken quoter: connection and subscriptions re-established")
	}
}

func (s *service) isClosed() bool {
	select {
	case <-s.quitChan:
		return true
	default:
		return false
	}
}

// resetPrices drops every cached ticker price so that quotes are refused
// once the listener can no longer keep them up to date.
func (s *service) resetPrices() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.latestPriceByPair = make(map[string]decimal.Decimal)
}

func (s *service) handleMessage(message []byte) {
	pair, price, ok := parseTicker(message)
	if !ok {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.latestPriceByPair[pair] = price
}

// parseTicker extracts the pair and the last trade price from a ticker
// message in the form [channelID, {"c": [price, volume], ...}, "ticker", pair].
func parseTicker(msg []byte) (string, decimal.Decimal, bool) {
	var i []interface{}
	if err := json.Unmarshal(msg, &i); err != nil {
		return "", decimal.Zero, false
	}
	if len(i) != 4 {
		return "", decimal.Zero, false
	}

	pair, ok := i[3].(string)
	if !ok {
		return "", decimal.Zero, false
	}

	ii, ok := i[1].(map[string]interface{})
	if !ok {
		return "", decimal.Zero, false
	}

	iii, ok := ii["c"].([]interface{})
	if !ok || len(iii) < 1 {
		return "", decimal.Zero, false
	}

	priceStr, ok := iii[0].(string)
	if !ok {
		return "", decimal.Zero, false
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil || !price.IsPositive() {
		return "", decimal.Zero, false
	}

	return strings.ToUpper(pair), price, true
}

func pairTicker(base, quote string) string {
	return fmt.Sprintf(
		"%s/%s",
		strings.ToUpper(strings.TrimSpace(base)),
		strings.ToUpper(strings.TrimSpace(quote)),
	)
}

func connectAndSubscribe(url string, pairs []string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	msg := map[string]interface{}{
		"event": "subscribe",
		"pair":  pairs,
		"subscription": map[string]string{
			"name": "ticker",
		},
	}

	buf, _ := json.Marshal(msg)
	if err := conn.WriteMessage(websocket.TextMessage, buf); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cannot subscribe to given pairs: %s", err)
	}

	return conn, nil
}
