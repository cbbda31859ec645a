package main

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/mairateam/calculators/internal/apierr"
	"github.com/mairateam/calculators/internal/format"
	"github.com/mairateam/calculators/internal/log"
	"github.com/mairateam/calculators/internal/ppc"
	"github.com/mairateam/calculators/internal/report"
	"github.com/mairateam/calculators/internal/scenario"
	"github.com/mairateam/calculators/internal/uniteconomics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 64 << 10

var errUnknownCalculator = errors.New("unknown calculator")

type ppcRequest struct {
	ppc.Inputs
	Currency string `json:"currency"`
}

type unitEconomicsRequest struct {
	uniteconomics.Inputs
	Currency string `json:"currency"`
}

type calculation struct {
	Inputs    any               `json:"inputs"`
	Outputs   map[string]any    `json:"outputs"`
	Currency  string            `json:"currency"`
	Formatted map[string]string `json:"formatted"`
}

// newCalculation encodes outputs from the report so overflowed values become
// null while their formatted text still shows them.
func newCalculation(in any, rep report.Report) calculation {
	return calculation{
		Inputs:    in,
		Outputs:   rep.Values(),
		Currency:  rep.Currency,
		Formatted: rep.Formatted(),
	}
}

type liveError struct {
	Error string `json:"error"`
}

// evaluate decodes one request body for the named calculator and computes it.
func (s *server) evaluate(calculator string, body []byte) (calculation, error) {
	kind, ok := scenario.ParseKind(calculator)
	if !ok {
		return calculation{}, errUnknownCalculator
	}

	switch kind {
	case scenario.KindPPC:
		var req ppcRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return calculation{}, errors.Wrap(err, "decode ppc inputs")
		}
		currency := s.pickCurrency(req.Currency)
		rep := report.PPC(req.Inputs, ppc.Calculate(req.Inputs), currency)
		if err := finiteInputs(rep); err != nil {
			return calculation{}, err
		}
		return newCalculation(req.Inputs, rep), nil
	default:
		var req unitEconomicsRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return calculation{}, errors.Wrap(err, "decode unit economics inputs")
		}
		currency := s.pickCurrency(req.Currency)
		rep := report.UnitEconomics(req.Inputs, uniteconomics.Calculate(req.Inputs), currency)
		if err := finiteInputs(rep); err != nil {
			return calculation{}, err
		}
		return newCalculation(req.Inputs, rep), nil
	}
}

func finiteInputs(rep report.Report) error {
	for _, l := range rep.Inputs {
		if l.Present && !l.Finite() {
			return errors.Errorf("%s must be a number", l.Key)
		}
	}
	return nil
}

func (s *server) pickCurrency(code string) string {
	if format.IsSupported(code) {
		return format.Normalize(code)
	}
	return s.defaultCurrency
}

func (s *server) handleAPICalculate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		apierr.Write(w, apierr.ErrInvalidRequest, "request body too large")
		return
	}

	result, err := s.evaluate(chi.URLParam(r, "calculator"), body)
	if errors.Is(err, errUnknownCalculator) {
		apierr.Write(w, apierr.ErrUnknownRoute, err.Error())
		return
	}
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Warn("api: invalid request")
		apierr.Write(w, apierr.ErrInvalidRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("api: encode response")
	}
}

// handleLive recomputes on every message the client sends, one reply per
// message. A bad message gets an error frame and the connection stays open.
func (s *server) handleLive(w http.ResponseWriter, r *http.Request) {
	calculator := chi.URLParam(r, "calculator")
	if _, ok := scenario.ParseKind(calculator); !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Warn("live: upgrade failed")
		return
	}
	defer conn.Close()

	logger := log.ForContext(r.Context()).WithField("calculator", calculator)
	logger.Debug("live: connected")

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithError(err).Warn("live: read failed")
			}
			return
		}

		var reply any
		result, err := s.evaluate(calculator, msg)
		if err != nil {
			reply = liveError{Error: err.Error()}
		} else {
			reply = result
		}

		payload, err := json.Marshal(reply)
		if err != nil {
			logger.WithError(err).Error("live: encode reply")
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.WithError(err).Warn("live: write failed")
			return
		}
	}
}
