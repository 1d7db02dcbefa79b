// Package monitor turns raw per-pool text into validated, threshold-checked
// readings, persists them and tells the caller which charts to redraw.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"pooltemps/internal/config"
	"pooltemps/internal/readings"
)

var ErrUnknownPool = errors.New("unknown pool")

// Refresh carries what a chart needs after a pool was saved: today's points
// and the pool's ideal setpoint.
type Refresh struct {
	Pool   string           `json:"pool"`
	Ideal  float64          `json:"ideal"`
	Points []readings.Point `json:"points"`
}

// Sink receives submission events as they happen, in pool order.
type Sink interface {
	Warn(Warning)
	// Refresh is called after a pool's reading was stored; the caller
	// clears that pool's input and redraws its chart.
	Refresh(Refresh)
}

// Result summarises a submission.
type Result struct {
	SubmissionID string    `json:"submissionId"`
	Warnings     []Warning `json:"warnings"`
	Refreshed    []Refresh `json:"refreshed"`
}

// Saved reports whether pool was stored in this submission.
func (r Result) Saved(pool string) bool {
	for _, rf := range r.Refreshed {
		if rf.Pool == pool {
			return true
		}
	}
	return false
}

type Monitor interface {
	Submit(ctx context.Context, inputs map[string]string, sink Sink) (Result, error)
	Today(ctx context.Context, pool string) (Refresh, error)
	History(ctx context.Context, pool string) (Refresh, error)
	Pools() []config.Pool
}

type monitorImpl struct {
	pools  *config.Pools
	store  readings.Store
	logger *slog.Logger
}

func New(pools *config.Pools, store readings.Store, logger *slog.Logger) Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &monitorImpl{pools: pools, store: store, logger: logger}
}

func (m *monitorImpl) Pools() []config.Pool {
	out := make([]config.Pool, len(m.pools.Pools))
	copy(out, m.pools.Pools)
	return out
}

// Submit processes every configured pool in configuration order. Keys of
// inputs that name no configured pool are ignored. A storage failure stops
// the submission; pools stored before it stay stored.
func (m *monitorImpl) Submit(ctx context.Context, inputs map[string]string, sink Sink) (Result, error) {
	if sink == nil {
		sink = Discard
	}
	res := Result{
		SubmissionID: uuid.NewString(),
		Warnings:     []Warning{},
		Refreshed:    []Refresh{},
	}
	log := m.logger.With("submission_id", res.SubmissionID)

	warn := func(w Warning) {
		res.Warnings = append(res.Warnings, w)
		log.Warn("pool warning", "pool", w.Pool, "kind", w.Kind.String(), "input", w.Input)
		sink.Warn(w)
	}

	for _, pool := range m.pools.Pools {
		raw := strings.TrimSpace(inputs[pool.Name])
		if raw == "" {
			warn(Warning{Kind: EmptyField, Pool: pool.Name})
			continue
		}

		temp, ok := parseTemperature(raw)
		if !ok {
			warn(Warning{Kind: InvalidNumber, Pool: pool.Name, Input: inputs[pool.Name]})
			continue
		}

		if temp > pool.High {
			warn(Warning{Kind: TooHot, Pool: pool.Name, Temperature: temp})
		} else if temp < pool.Low {
			warn(Warning{Kind: TooCold, Pool: pool.Name, Temperature: temp})
		}

		if err := m.store.Append(ctx, pool.Name, temp); err != nil {
			log.Error("store reading", "pool", pool.Name, "error", err)
			return res, fmt.Errorf("submit %s: %w", pool.Name, err)
		}
		log.Info("reading stored", "pool", pool.Name, "temperature", temp)

		points, err := m.store.Query(ctx, pool.Name, readings.ScopeToday)
		if err != nil {
			log.Error("query today", "pool", pool.Name, "error", err)
			return res, fmt.Errorf("refresh %s: %w", pool.Name, err)
		}
		rf := Refresh{Pool: pool.Name, Ideal: pool.Ideal, Points: points}
		res.Refreshed = append(res.Refreshed, rf)
		sink.Refresh(rf)
	}

	return res, nil
}

func (m *monitorImpl) Today(ctx context.Context, pool string) (Refresh, error) {
	return m.query(ctx, pool, readings.ScopeToday)
}

func (m *monitorImpl) History(ctx context.Context, pool string) (Refresh, error) {
	return m.query(ctx, pool, readings.ScopeAll)
}

func (m *monitorImpl) query(ctx context.Context, name string, scope readings.Scope) (Refresh, error) {
	pool, ok := m.pools.Lookup(name)
	if !ok {
		return Refresh{}, fmt.Errorf("%w: %q", ErrUnknownPool, name)
	}
	points, err := m.store.Query(ctx, pool.Name, scope)
	if err != nil {
		return Refresh{}, err
	}
	return Refresh{Pool: pool.Name, Ideal: pool.Ideal, Points: points}, nil
}

// parseTemperature accepts decimal notation only; ParseFloat alone would also
// take hexadecimal floats such as 0x1p4.
func parseTemperature(s string) (float64, bool) {
	digits := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
