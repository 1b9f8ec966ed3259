package scenario

import (
	. "github.com/onsi/gomega"

	"github.com/dsatizabal/pid-controller/internal/clock"
	"github.com/dsatizabal/pid-controller/internal/device"
	"github.com/dsatizabal/pid-controller/internal/dut"
	"github.com/dsatizabal/pid-controller/internal/kernel"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

// simDevice wires ctrl into a fresh 8-bit kernel clocked at 10ns.
func simDevice(ctrl dut.Controller) *device.Sim {
	clk, err := clock.New(10, clock.Nanosecond)
	Expect(err).NotTo(HaveOccurred())

	k := kernel.New(clk, nil)
	ports := dut.NewPorts(k, signal.Width(8))
	k.Attach(dut.NewBlock("dut", ports, ctrl))
	return device.NewSim(k, ports)
}
