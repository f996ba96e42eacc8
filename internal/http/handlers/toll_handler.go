// README: Toll handlers for single passages, passage lists and the fee schedule.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tollfee/internal/log"
	"tollfee/internal/metrics"
	"tollfee/internal/modules/toll"
	"tollfee/internal/types"
)

const (
	endpointPassage  = "passage"
	endpointPassages = "passages"
)

type TollHandler struct {
	toll     *toll.Service
	currency string
	loc      *time.Location
	metrics  *metrics.Metrics
}

// NewTollHandler parses zone-less timestamps in loc (time.Local when nil).
// m may be nil.
func NewTollHandler(svc *toll.Service, currency string, loc *time.Location, m *metrics.Metrics) *TollHandler {
	if loc == nil {
		loc = time.Local
	}
	return &TollHandler{toll: svc, currency: currency, loc: loc, metrics: m}
}

type passageReq struct {
	Vehicle toll.VehicleClass `json:"vehicle"`
	Passage string            `json:"passage" binding:"required"`
}

type passagesReq struct {
	Vehicle  toll.VehicleClass `json:"vehicle"`
	Passages []string          `json:"passages"`
}

type feeResp struct {
	Fee      int64  `json:"fee"`
	Currency string `json:"currency"`
}

type windowResp struct {
	Start    string `json:"start"`
	Passages int    `json:"passages"`
	Fee      int    `json:"fee"`
}

type dayResp struct {
	Date    string       `json:"date"`
	Fee     int          `json:"fee"`
	Windows []windowResp `json:"windows"`
}

type totalResp struct {
	Total    int64     `json:"total"`
	Currency string    `json:"currency"`
	Days     []dayResp `json:"days"`
}

type bandResp struct {
	From string `json:"from"`
	To   string `json:"to"`
	Fee  int    `json:"fee"`
}

type scheduleResp struct {
	Currency      string     `json:"currency"`
	WindowMinutes int        `json:"window_minutes"`
	DailyCap      int        `json:"daily_cap"`
	Bands         []bandResp `json:"bands"`
}

func (h *TollHandler) Passage(c *gin.Context) {
	var req passageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.record(endpointPassage, metrics.OutcomeInvalid, 0, 0)
		writeBindError(c, err)
		return
	}
	at, err := parsePassage(req.Passage, h.loc)
	if err != nil {
		h.record(endpointPassage, metrics.OutcomeInvalid, 0, 0)
		writeTollError(c, err)
		return
	}

	logger := log.L(c.Request.Context())
	if req.Vehicle == toll.ClassUndefined {
		logger.Info("vehicle class undefined, skipping calculation")
		h.record(endpointPassage, metrics.OutcomeSkipped, 0, 1)
		writeJSON(c, http.StatusOK, h.fee(types.NewMoney(0, h.currency)))
		return
	}

	fee := types.NewMoney(h.toll.FeeForSinglePassage(toll.NewVehicle(req.Vehicle), at), h.currency)
	logger.Debug("passage fee computed",
		zap.Stringer("vehicle", req.Vehicle),
		zap.Time("passage", at),
		zap.Int64("fee", fee.Amount),
	)
	h.record(endpointPassage, outcomeOf(fee), int(fee.Amount), 1)
	writeJSON(c, http.StatusOK, h.fee(fee))
}

func (h *TollHandler) Passages(c *gin.Context) {
	var req passagesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.record(endpointPassages, metrics.OutcomeInvalid, 0, 0)
		writeBindError(c, err)
		return
	}
	passages, err := parsePassages(req.Passages, h.loc)
	if err != nil {
		h.record(endpointPassages, metrics.OutcomeInvalid, 0, 0)
		writeTollError(c, err)
		return
	}

	logger := log.L(c.Request.Context())
	empty := totalResp{Currency: h.currency, Days: []dayResp{}}
	if req.Vehicle == toll.ClassUndefined {
		logger.Info("vehicle class undefined, skipping calculation")
		h.record(endpointPassages, metrics.OutcomeSkipped, 0, len(passages))
		writeJSON(c, http.StatusOK, empty)
		return
	}
	if len(passages) == 0 {
		logger.Info("no passages registered for vehicle, skipping calculation",
			zap.Stringer("vehicle", req.Vehicle))
		h.record(endpointPassages, metrics.OutcomeSkipped, 0, 0)
		writeJSON(c, http.StatusOK, empty)
		return
	}

	vehicle := toll.NewVehicle(req.Vehicle)
	days := h.toll.Breakdown(vehicle, passages)
	resp := totalResp{Currency: h.currency, Days: make([]dayResp, 0, len(days))}
	sum := 0
	for _, d := range days {
		sum += d.Fee
		resp.Days = append(resp.Days, toDayResp(d))
	}
	total := types.NewMoney(sum, h.currency)
	resp.Total = total.Amount

	logger.Debug("passages fee computed",
		zap.Stringer("vehicle", req.Vehicle),
		zap.Int("passages", len(passages)),
		zap.Int("days", len(days)),
		zap.Int64("total", total.Amount),
	)
	h.record(endpointPassages, outcomeOf(total), sum, len(passages))
	writeJSON(c, http.StatusOK, resp)
}

func (h *TollHandler) Schedule(c *gin.Context) {
	rules := h.toll.Rules()
	bands := h.toll.Schedule()
	resp := scheduleResp{
		Currency:      h.currency,
		WindowMinutes: int(rules.Window / time.Minute),
		DailyCap:      rules.DailyCap,
		Bands:         make([]bandResp, 0, len(bands)),
	}
	for _, b := range bands {
		resp.Bands = append(resp.Bands, bandResp{From: b.Start.String(), To: b.End.String(), Fee: b.Fee})
	}
	writeJSON(c, http.StatusOK, resp)
}

func (h *TollHandler) fee(m types.Money) feeResp {
	return feeResp{Fee: m.Amount, Currency: m.Currency}
}

func (h *TollHandler) record(endpoint, outcome string, fee, passages int) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordCalculation(endpoint, outcome, fee, passages)
}

func outcomeOf(m types.Money) string {
	if m.IsZero() {
		return metrics.OutcomeFree
	}
	return metrics.OutcomeCharged
}

func toDayResp(d toll.DailyTotal) dayResp {
	out := dayResp{Date: d.Date.String(), Fee: d.Fee, Windows: make([]windowResp, 0, len(d.Windows))}
	for _, w := range d.Windows {
		out.Windows = append(out.Windows, windowResp{
			Start:    w.Window.Start.Format(time.RFC3339),
			Passages: len(w.Window.Passages()),
			Fee:      w.Fee,
		})
	}
	return out
}
