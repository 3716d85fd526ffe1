// Package vending implements a two-state vending machine on top of the fsm
// delegation machine. The machine accepts a single coin at a time: inserting
// a coin arms it, selecting a product dispenses and disarms it.
//
// The machine holds at most one coin. Inserting a second coin while one is
// already present dispenses a product immediately instead of accumulating
// credit, so no coin-count field exists.
package vending

import (
	"context"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/statekit/statekit/fsm"
)

// Events accepted by the vending machine.
const (
	EventInsertCoin    fsm.Event = "insert_coin"
	EventSelectProduct fsm.Event = "select_product"
)

// State names, as reported by Machine.StateName.
const (
	StateNoCoin  = "no_coin"
	StateHasCoin = "has_coin"
)

// Display receives the customer-facing messages the machine produces.
type Display interface {
	Show(ctx context.Context, message string)
}

// slogDisplay writes messages to a slog logger.
type slogDisplay struct {
	logger *slog.Logger
}

func (d *slogDisplay) Show(ctx context.Context, message string) {
	d.logger.InfoContext(ctx, "Vending machine display", "message", message)
}

// Machine is a vending machine cycling between no-coin and has-coin.
type Machine struct {
	fsm       *fsm.Machine
	display   Display
	dispensed atomic.Int64
}

// Option configures a Machine.
type Option func(*Machine)

// WithDisplay sets the display that receives customer-facing messages.
func WithDisplay(display Display) Option {
	return func(m *Machine) {
		m.display = display
	}
}

// New creates a vending machine in the no-coin state.
func New(opts ...Option) (*Machine, error) {
	machine := &Machine{
		display: &slogDisplay{logger: slog.Default()},
	}

	for _, opt := range opts {
		opt(machine)
	}

	inner, err := fsm.New("vending", &noCoin{machine: machine})
	if err != nil {
		return nil, err
	}

	machine.fsm = inner

	return machine, nil
}

// InsertCoin delivers a coin to the machine.
func (m *Machine) InsertCoin(ctx context.Context) {
	m.fsm.Fire(ctx, EventInsertCoin)
}

// SelectProduct requests a product.
func (m *Machine) SelectProduct(ctx context.Context) {
	m.fsm.Fire(ctx, EventSelectProduct)
}

// StateName returns the name of the active state.
func (m *Machine) StateName() string {
	return m.fsm.CurrentName()
}

// Dispensed returns the number of products dispensed so far.
func (m *Machine) Dispensed() int64 {
	return m.dispensed.Load()
}

func (m *Machine) dispense(ctx context.Context) {
	m.dispensed.Inc()
	m.display.Show(ctx, "product dispensed")
}

// noCoin waits for a coin; product selection is rejected.
type noCoin struct {
	machine *Machine
}

func (s *noCoin) Name() string {
	return StateNoCoin
}

func (s *noCoin) Handle(ctx context.Context, event fsm.Event) fsm.State {
	switch event {
	case EventInsertCoin:
		s.machine.display.Show(ctx, "coin accepted, select a product")

		return &hasCoin{machine: s.machine}
	case EventSelectProduct:
		s.machine.display.Show(ctx, "insert a coin first")
	}

	return nil
}

// hasCoin holds exactly one coin; any event dispenses and returns to noCoin.
type hasCoin struct {
	machine *Machine
}

func (s *hasCoin) Name() string {
	return StateHasCoin
}

func (s *hasCoin) Handle(ctx context.Context, event fsm.Event) fsm.State {
	switch event {
	case EventInsertCoin, EventSelectProduct:
		// A second coin dispenses immediately rather than accumulating.
		s.machine.dispense(ctx)

		return &noCoin{machine: s.machine}
	}

	return nil
}
